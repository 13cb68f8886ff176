// Package rule implements naming rules: per-type policies describing which
// property receives a synthesized name and how that name is derived.
//
// Rules are immutable after construction and carry no shared state; the
// only mutation a rule performs is writing a single property into the
// target map handed to ApplyType.
package rule

import (
	"fmt"

	"github.com/cfnamer/cfnamer/internal/config"
	"github.com/cfnamer/cfnamer/internal/typeid"
)

// Rule binds naming behavior to a single resource type.
type Rule struct {
	typeID       typeid.ID
	nameProperty string // overrides the derived property key when set
	omitTypeName bool   // property key "Name" instead of "<Type>Name"
	disabled     bool   // structural-only type, no naming at all
	logicalConv  Converter
	nameConv     Converter
}

// Options configures a Rule. The zero value gives the common case: the
// property key "<TypeName>Name", kebab conversion of the logical id, and
// no post-processing of the final name.
type Options struct {
	// NameProperty overrides the derived property key.
	NameProperty string

	// OmitTypeName derives the property key as the literal "Name" instead
	// of "<TypeName>Name". Ignored when NameProperty is set.
	OmitTypeName bool

	// Disabled marks a structural-only type: the rule matches but naming
	// is a no-op.
	Disabled bool

	// LogicalName converts the logical id before the prefix is applied.
	// Defaults to Kebab.
	LogicalName Converter

	// Name converts the full prefixed name. Defaults to Identity.
	Name Converter
}

// New constructs an immutable Rule for the given type.
func New(id typeid.ID, opts Options) Rule {
	r := Rule{
		typeID:       id,
		nameProperty: opts.NameProperty,
		omitTypeName: opts.OmitTypeName,
		disabled:     opts.Disabled,
		logicalConv:  opts.LogicalName,
		nameConv:     opts.Name,
	}
	if r.logicalConv == nil {
		r.logicalConv = Kebab
	}
	if r.nameConv == nil {
		r.nameConv = Identity
	}
	return r
}

// OptionsError reports invalid rule options. Raised at table-build time:
// a bad option is a programming (or rule-file) error, not a runtime data
// error.
type OptionsError struct {
	TypeTag string
	Key     string
	Message string
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("invalid rule options for %s: %s: %s", e.TypeTag, e.Key, e.Message)
}

// FromMap builds a Rule from loosely typed options, as loaded from a rule
// override file. Unknown keys fail fast rather than being silently
// ignored, so a typo in an override file surfaces immediately.
//
// Recognized keys:
//
//	nameProperty    string  overrides the derived property key
//	includeTypeName bool    false derives the literal key "Name"
//	disabled        bool    structural-only type, naming is a no-op
func FromMap(id typeid.ID, m map[string]any) (Rule, error) {
	var opts Options
	for key, val := range m {
		switch key {
		case "nameProperty":
			s, ok := val.(string)
			if !ok {
				return Rule{}, &OptionsError{TypeTag: id.String(), Key: key, Message: "must be a string"}
			}
			opts.NameProperty = s
		case "includeTypeName":
			b, ok := val.(bool)
			if !ok {
				return Rule{}, &OptionsError{TypeTag: id.String(), Key: key, Message: "must be a bool"}
			}
			opts.OmitTypeName = !b
		case "disabled":
			b, ok := val.(bool)
			if !ok {
				return Rule{}, &OptionsError{TypeTag: id.String(), Key: key, Message: "must be a bool"}
			}
			opts.Disabled = b
		default:
			return Rule{}, &OptionsError{TypeTag: id.String(), Key: key, Message: "unknown option"}
		}
	}
	return New(id, opts), nil
}

// TypeID returns the type this rule is bound to.
func (r Rule) TypeID() typeid.ID {
	return r.typeID
}

// Matches reports whether the rule is bound to exactly this type.
func (r Rule) Matches(id typeid.ID) bool {
	return r.typeID == id
}

// NamingEnabled reports whether the rule names resources at all. False
// for structural-only types (permissions, policies, deployments).
func (r Rule) NamingEnabled() bool {
	return !r.disabled
}

// PropertyKey returns the property that receives the synthesized name:
// the explicit override if set, else "<TypeName>Name", else "Name".
func (r Rule) PropertyKey() string {
	if r.nameProperty != "" {
		return r.nameProperty
	}
	if r.omitTypeName {
		return "Name"
	}
	return r.typeID.Name + "Name"
}

// Synthesize computes the final name for a logical id. Pure: the result
// depends only on the arguments and the rule's converters.
func (r Rule) Synthesize(prefix, logicalName string, cfg config.Config) string {
	return r.nameConv(prefix+r.logicalConv(logicalName, cfg), cfg)
}

// ApplyType writes the name property into target. A non-empty value
// already present on the prior view always wins over synthesized output;
// this is what makes re-running a pass idempotent and keeps user-authored
// names intact. No-op when naming is disabled for the type.
func (r Rule) ApplyType(target, prior map[string]any, prefix, logicalName string, cfg config.Config) {
	if r.disabled {
		return
	}
	key := r.PropertyKey()
	if prior != nil {
		if v, ok := prior[key]; ok && !Empty(v) {
			target[key] = v
			return
		}
	}
	target[key] = r.Synthesize(prefix, logicalName, cfg)
}

// Empty reports whether a property value counts as absent for
// override-avoidance. Only nil and the empty string are empty; any
// structured value (e.g. an Fn::Sub map) is treated as user intent.
func Empty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
