// Package engine applies naming rules to a declaration graph.
//
// The engine is a pure core: it performs no I/O, writes nothing
// to stderr, and touches nothing beyond the Properties mapping of matched
// declarations (and the Export block of outputs). Collaborators supply
// the graph, the prior view, the configuration, and a diagnostics sink.
package engine

import (
	"fmt"

	"github.com/cfnamer/cfnamer/internal/config"
	"github.com/cfnamer/cfnamer/internal/rule"
	"github.com/cfnamer/cfnamer/internal/template"
	"github.com/cfnamer/cfnamer/internal/typeid"
)

// DiagnosticSink receives non-fatal, human-readable warnings. The caller
// decides where they go; the engine never writes to a terminal itself.
type DiagnosticSink func(msg string)

// Record describes one name property a pass wrote. Kept is true when a
// prior value was preserved instead of synthesizing a fresh name.
type Record struct {
	LogicalID string
	TypeTag   string
	Property  string
	Value     string
	Kept      bool
}

// Namer orchestrates the naming passes over a resource collection.
type Namer struct {
	table  *rule.Table
	warn   DiagnosticSink
	record func(Record)
}

// New creates a Namer over the given rule table. warn may be nil to
// discard diagnostics.
func New(table *rule.Table, warn DiagnosticSink) *Namer {
	if warn == nil {
		warn = func(string) {}
	}
	return &Namer{table: table, warn: warn}
}

// OnRecord registers a callback invoked for every name property the pass
// writes. Used by the manifest store; nil disables recording.
func (n *Namer) OnRecord(fn func(Record)) {
	n.record = fn
}

// Table returns the rule table this namer applies.
func (n *Namer) Table() *rule.Table {
	return n.table
}

// ApplyResources runs the main naming pass, mutating each matched
// declaration's Properties in place.
//
// Per declaration: validate the type tag, parse it, look up a rule, and
// conditionally write the synthesized name. A value already present at
// the computed key on the prior view always wins. Declarations are
// independent: processing order does not affect outcomes, and a fatal
// error on one declaration leaves the others exactly as the pass found
// (or left) them.
//
// prior may be nil when there is no previously materialized graph.
func (n *Namer) ApplyResources(resources, prior map[string]*template.Resource, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return &PassError{Code: ErrCodeInvalidConfig, Message: err.Error()}
	}

	for logicalID, res := range resources {
		if res == nil || res.Type == "" {
			return NewMissingTypeTagError(logicalID)
		}
		id, err := typeid.Parse(res.Type)
		if err != nil {
			return NewInvalidTypeTagError(logicalID, res.Type)
		}

		r, ok := n.table.Find(id)
		if !ok {
			// Tolerated, not rejected: the engine degrades gracefully as
			// new resource types appear.
			if cfg.WarnOnUnknownType {
				n.warn(fmt.Sprintf("no naming rule for type %s (resource %s), properties left untouched", res.Type, logicalID))
			}
			continue
		}

		if res.Properties == nil {
			res.Properties = map[string]any{}
		}
		var priorProps map[string]any
		if p, ok := prior[logicalID]; ok && p != nil {
			priorProps = p.Properties
		}

		r.ApplyType(res.Properties, priorProps, cfg.Prefix, logicalID, cfg)
		n.emit(logicalID, res.Type, r, res.Properties, priorProps)
	}
	return nil
}

// emit reports a written name to the registered record callback.
func (n *Namer) emit(logicalID, typeTag string, r rule.Rule, props, priorProps map[string]any) {
	if n.record == nil || !r.NamingEnabled() {
		return
	}
	key := r.PropertyKey()
	kept := false
	if v, ok := priorProps[key]; ok && !rule.Empty(v) {
		kept = true
	}
	n.record(Record{
		LogicalID: logicalID,
		TypeTag:   typeTag,
		Property:  key,
		Value:     fmt.Sprint(props[key]),
		Kept:      kept,
	})
}

// ApplyPolicyNames labels each element of a resource's Policies list with
// a deterministic ordinal name. Unlike the main pass this always
// overwrites: inline policy labels are positional bookkeeping, not
// user-customized values.
func (n *Namer) ApplyPolicyNames(resources map[string]*template.Resource) {
	for _, res := range resources {
		if res == nil || res.Properties == nil {
			continue
		}
		list, ok := res.Properties["Policies"].([]any)
		if !ok {
			continue
		}
		for i, el := range list {
			m, ok := el.(map[string]any)
			if !ok {
				continue
			}
			m["PolicyName"] = fmt.Sprintf("inline-policy-%d", i)
		}
	}
}

// exportRule is the fixed, non-type-qualified rule for stack outputs: the
// property key is literally "Name" and the logical id is kebab-converted.
var exportRule = rule.New(typeid.ID{}, rule.Options{OmitTypeName: true})

// ApplyExports runs the export-naming pass over stack outputs. A no-op
// unless cfg.GenerateExports is set. The export block itself serves as
// the prior view, so a hand-written export name survives.
func (n *Namer) ApplyExports(outputs map[string]*template.Output, cfg config.Config) error {
	if !cfg.GenerateExports {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return &PassError{Code: ErrCodeInvalidConfig, Message: err.Error()}
	}

	prefix := cfg.ExportPrefix
	if prefix == "" {
		prefix = cfg.Prefix
	}
	for logicalID, out := range outputs {
		if out == nil {
			continue
		}
		if out.Export == nil {
			out.Export = map[string]any{}
		}
		kept := !rule.Empty(out.Export["Name"])
		exportRule.ApplyType(out.Export, out.Export, prefix, logicalID, cfg)
		if n.record != nil {
			n.record(Record{
				LogicalID: logicalID,
				Property:  "Export.Name",
				Value:     fmt.Sprint(out.Export["Name"]),
				Kept:      kept,
			})
		}
	}
	return nil
}
