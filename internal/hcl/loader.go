package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/config"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/fsutil"
	"github.com/vk/gridflow/internal/portref"
	"github.com/vk/gridflow/internal/schema"
)

// Loader reads .hcl graph definition files and translates them into the
// format-agnostic config model. It implements config.Loader.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths (files or directories,
// in deterministic order) into a single merged model. Node names must be
// unique across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot read graph path %s: %w", p, err)
		}
		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(p, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("failed to walk graph directory %s: %w", p, err)
			}
			files = append(files, found...)
		} else {
			files = append(files, p)
		}
	}

	if len(files) == 0 {
		logger.Warn("No .hcl graph files found.", "paths", paths)
		return &config.Model{}, nil
	}
	logger.Debug("Found HCL files to load.", "files", files)

	parser := hclparse.NewParser()
	model := &config.Model{}
	definedIn := make(map[string]string)

	for _, filePath := range files {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		var gc schema.GraphConfig
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &gc); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode graph file %s: %w", filePath, diags)
		}

		for _, nb := range gc.Nodes {
			if first, dup := definedIn[nb.Name]; dup {
				return nil, fmt.Errorf("duplicate node %q in %s (first defined in %s)", nb.Name, filePath, first)
			}
			definedIn[nb.Name] = filePath

			props, err := decodeProperties(nb.Properties)
			if err != nil {
				return nil, fmt.Errorf("node %q in %s: %w", nb.Name, filePath, err)
			}
			model.Nodes = append(model.Nodes, &config.NodeSpec{
				Kind:       nb.Kind,
				Name:       nb.Name,
				Properties: props,
			})
		}

		for _, lb := range gc.Links {
			from, err := portref.Parse(lb.From)
			if err != nil {
				return nil, fmt.Errorf("link in %s: %w", filePath, err)
			}
			to, err := portref.Parse(lb.To)
			if err != nil {
				return nil, fmt.Errorf("link in %s: %w", filePath, err)
			}
			model.Links = append(model.Links, &config.LinkSpec{From: from, To: to})
		}

		logger.Debug("Loaded definitions from HCL file.", "file", filePath)
	}

	logger.Info("Graph definitions loaded.", "nodes", len(model.Nodes), "links", len(model.Links))
	return model, nil
}

// decodeProperties evaluates every attribute of a properties block into a
// concrete cty value. Property expressions must be constants; there is no
// evaluation context to reference.
func decodeProperties(pb *schema.PropertiesBlock) (map[string]cty.Value, error) {
	props := make(map[string]cty.Value)
	if pb == nil {
		return props, nil
	}

	attrs, diags := pb.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid properties block: %w", diags)
	}
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("property %q: %w", name, diags)
		}
		props[name] = v
	}
	return props, nil
}
