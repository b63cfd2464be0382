package node

import (
	"math"

	"github.com/zclconf/go-cty/cty"
)

// WidgetKind enumerates the supported widget flavors.
type WidgetKind int

const (
	// NumberWidget edits a numeric value within optional bounds.
	NumberWidget WidgetKind = iota
	// ToggleWidget edits a boolean value.
	ToggleWidget
	// ComboWidget selects one of a fixed set of string choices.
	ComboWidget
	// TextWidget edits a free-form string.
	TextWidget
)

// WidgetOptions is the per-kind configuration record.
type WidgetOptions struct {
	// Min and Max bound a number widget when Max > Min.
	Min, Max float64
	// Step snaps edits to multiples of the step from Min when positive.
	Step float64
	// Precision rounds a number widget's value to this many decimal places
	// when positive. Use Step for whole-number snapping.
	Precision int
	// Choices are the legal values of a combo widget.
	Choices []string
}

// Widget is a user-facing constant/configuration control on a node. It is not
// a port: widget values arrive from the editing layer, not from links.
//
// A widget may be bound to a property, in which case the two values are kept
// identical in both directions: SetValue writes the property synchronously,
// and Node.SetProperty updates the widget.
type Widget struct {
	node     *Node
	name     string
	kind     WidgetKind
	options  WidgetOptions
	property string
	value    cty.Value
	onChange func(old, new cty.Value)
}

// NewWidget creates a widget with an initial value. Attach it to a node with
// Node.AddWidget.
func NewWidget(name string, kind WidgetKind, initial cty.Value, opts WidgetOptions) *Widget {
	w := &Widget{name: name, kind: kind, options: opts, value: cty.NilVal}
	if initial != cty.NilVal {
		w.value = w.normalize(initial)
	}
	return w
}

// Name returns the widget name.
func (w *Widget) Name() string { return w.name }

// Kind returns the widget kind.
func (w *Widget) Kind() WidgetKind { return w.kind }

// Options returns the widget's configuration record.
func (w *Widget) Options() WidgetOptions { return w.options }

// Bind ties the widget to a named property on its node. Returns the widget
// for declaration chaining in Setup.
func (w *Widget) Bind(property string) *Widget {
	w.property = property
	return w
}

// BoundProperty returns the bound property name, empty when unbound.
func (w *Widget) BoundProperty() string { return w.property }

// OnChange installs the change callback, invoked after every value change
// regardless of which side of the binding initiated it.
func (w *Widget) OnChange(fn func(old, new cty.Value)) *Widget {
	w.onChange = fn
	return w
}

// Value returns the widget's current value.
func (w *Widget) Value() cty.Value { return w.value }

// SetValue applies a user edit: the value is normalized against the widget's
// options, the bound property (if any) is updated synchronously so the next
// tick observes it, and the change callback fires.
func (w *Widget) SetValue(v cty.Value) {
	v = w.normalize(v)
	old := w.value
	w.value = v
	if w.node != nil && w.property != "" {
		w.node.setPropertyFromWidget(w, w.property, v)
	}
	if w.onChange != nil {
		w.onChange(old, v)
	}
}

// adopt is the property-initiated half of the binding: the value is taken as
// is and only the callback fires. Normalization applies to user edits, not to
// programmatic property state.
func (w *Widget) adopt(v cty.Value) {
	old := w.value
	w.value = v
	if w.onChange != nil {
		w.onChange(old, v)
	}
}

// normalize applies the option record to an edited value. Non-numeric values
// and non-number widgets pass through untouched.
func (w *Widget) normalize(v cty.Value) cty.Value {
	if w.kind != NumberWidget || v == cty.NilVal || v.IsNull() || v.Type() != cty.Number {
		return v
	}

	orig, _ := v.AsBigFloat().Float64()
	f := orig
	if w.options.Max > w.options.Min {
		f = math.Max(w.options.Min, math.Min(w.options.Max, f))
	}
	if w.options.Step > 0 {
		f = w.options.Min + math.Round((f-w.options.Min)/w.options.Step)*w.options.Step
	}
	if w.options.Precision > 0 {
		scale := math.Pow(10, float64(w.options.Precision))
		f = math.Round(f*scale) / scale
	}
	if f == orig {
		return v
	}
	return cty.NumberFloatVal(f)
}
