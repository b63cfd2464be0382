package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/node"
)

// Validate performs a strict startup check over every registered kind: each
// factory must produce a behavior whose Setup succeeds, port names must be
// unique per direction, and a kind declaring event inputs must actually
// implement the event-handling capability. Catching these here turns a class
// of runtime surprises into startup errors.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	for _, name := range r.Kinds() {
		probe, err := r.NewNode(name, "validate-probe")
		if err != nil {
			errs = append(errs, fmt.Sprintf("kind '%s': setup failed: %v", name, err))
			continue
		}

		if dup := duplicatePortName(probe.Inputs()); dup != "" {
			errs = append(errs, fmt.Sprintf("kind '%s': duplicate input port name '%s'", name, dup))
		}
		if dup := duplicatePortName(probe.Outputs()); dup != "" {
			errs = append(errs, fmt.Sprintf("kind '%s': duplicate output port name '%s'", name, dup))
		}

		if hasEventInput(probe) {
			if _, ok := probe.Behavior().(node.EventHandler); !ok {
				errs = append(errs, fmt.Sprintf("kind '%s': declares an event input but does not handle events", name))
			}
		}

		if _, ok := probe.Behavior().(node.Computable); !ok {
			if len(probe.Outputs()) > 0 && !hasEventOutput(probe) {
				logger.Warn("Kind declares data outputs but has no compute step; outputs will stay empty.", "kind", name)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n - %s", strings.Join(errs, "\n - "))
	}
	logger.Debug("Registry validation passed.", "kinds", len(r.kinds))
	return nil
}

func duplicatePortName(ports []*node.Port) string {
	seen := make(map[string]struct{}, len(ports))
	for _, p := range ports {
		if _, ok := seen[p.Name()]; ok {
			return p.Name()
		}
		seen[p.Name()] = struct{}{}
	}
	return ""
}

func hasEventInput(n *node.Node) bool {
	for _, p := range n.Inputs() {
		if p.Type().Event {
			return true
		}
	}
	return false
}

func hasEventOutput(n *node.Node) bool {
	for _, p := range n.Outputs() {
		if p.Type().Event {
			return true
		}
	}
	return false
}
