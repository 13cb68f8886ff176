// Package rulefile compiles user-authored rule overrides from CUE files
// into naming rules. Overrides are prepended to the built-in table, so
// they win under first-match lookup.
//
// File shape:
//
//	rule: {
//		"AWS::DynamoDB::Table": {
//			nameProperty: "CustomTableName"
//		}
//		"AWS::QuantumCompute::Lattice": {
//			includeTypeName: false
//		}
//		"AWS::CloudWatch::Alarm": {
//			disabled: true
//		}
//	}
package rulefile

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"

	"github.com/cfnamer/cfnamer/internal/rule"
	"github.com/cfnamer/cfnamer/internal/typeid"
)

// CompileError reports a problem in a rule override file. Fatal at
// table-build time: a bad override file never produces a partial table.
type CompileError struct {
	TypeTag string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: rule %q: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.TypeTag, e.Message)
	}
	if e.TypeTag != "" {
		return fmt.Sprintf("rule %q: %s", e.TypeTag, e.Message)
	}
	return e.Message
}

// Load reads and compiles a CUE rule override file.
func Load(path string) ([]rule.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	return Compile(data, path)
}

// Compile builds rules from CUE source. filename is used in positions.
func Compile(data []byte, filename string) ([]rule.Rule, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, &CompileError{Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	rulesVal := v.LookupPath(cue.ParsePath("rule"))
	if !rulesVal.Exists() {
		return nil, &CompileError{Message: "no \"rule\" block found"}
	}

	iter, err := rulesVal.Fields()
	if err != nil {
		return nil, &CompileError{Message: fmt.Sprintf("iterating rules: %v", err)}
	}

	var rules []rule.Rule
	for iter.Next() {
		tag := fieldLabel(iter.Selector())
		r, err := compileRule(tag, iter.Value())
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	if len(rules) == 0 {
		return nil, &CompileError{Message: "rule block is empty"}
	}
	return rules, nil
}

// compileRule parses one override entry into a Rule.
func compileRule(tag string, v cue.Value) (rule.Rule, error) {
	id, err := typeid.Parse(tag)
	if err != nil {
		return rule.Rule{}, &CompileError{TypeTag: tag, Message: err.Error(), Pos: v.Pos()}
	}

	opts, err := decodeOptions(tag, v)
	if err != nil {
		return rule.Rule{}, err
	}

	r, err := rule.FromMap(id, opts)
	if err != nil {
		return rule.Rule{}, &CompileError{TypeTag: tag, Message: err.Error(), Pos: v.Pos()}
	}
	return r, nil
}

// decodeOptions converts an override entry's fields to a loosely typed
// options map. Only string and bool option values are meaningful; rule
// construction rejects unknown keys.
func decodeOptions(tag string, v cue.Value) (map[string]any, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, &CompileError{TypeTag: tag, Message: fmt.Sprintf("not a struct: %v", err), Pos: v.Pos()}
	}

	opts := map[string]any{}
	for iter.Next() {
		key := fieldLabel(iter.Selector())
		val := iter.Value()
		switch val.Kind() {
		case cue.StringKind:
			s, err := val.String()
			if err != nil {
				return nil, &CompileError{TypeTag: tag, Message: err.Error(), Pos: val.Pos()}
			}
			opts[key] = s
		case cue.BoolKind:
			b, err := val.Bool()
			if err != nil {
				return nil, &CompileError{TypeTag: tag, Message: err.Error(), Pos: val.Pos()}
			}
			opts[key] = b
		default:
			return nil, &CompileError{
				TypeTag: tag,
				Message: fmt.Sprintf("option %q: unsupported value kind %v", key, val.Kind()),
				Pos:     val.Pos(),
			}
		}
	}
	return opts, nil
}

// fieldLabel returns the unquoted label of a struct field. Type tags
// contain "::" and therefore always appear as quoted labels in CUE.
func fieldLabel(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}
