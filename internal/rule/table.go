package rule

import (
	"fmt"

	"github.com/cfnamer/cfnamer/internal/config"
	"github.com/cfnamer/cfnamer/internal/typeid"
)

// Table is an ordered collection of rules. Insertion order is lookup
// precedence: Find returns the first matching rule. Tables are built once
// at startup and read-only afterwards.
type Table struct {
	rules []Rule
}

// NewTable builds a table from rules in precedence order.
func NewTable(rules ...Rule) *Table {
	return &Table{rules: rules}
}

// Prepend inserts rules ahead of all existing entries, so they win under
// first-match lookup. Used for user-supplied overrides.
func (t *Table) Prepend(rules ...Rule) {
	t.rules = append(append([]Rule{}, rules...), t.rules...)
}

// Find returns the first rule bound to id. The second return is false
// when no rule matches; that is not an error by itself — the caller
// decides whether to warn.
func (t *Table) Find(id typeid.ID) (Rule, bool) {
	for _, r := range t.rules {
		if r.Matches(id) {
			return r, true
		}
	}
	return Rule{}, false
}

// Rules returns a copy of the table's entries in precedence order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.rules)
}

// functionTypeID is the callable-function resource type. FunctionName and
// the generic pass both resolve it through the same table entry.
var functionTypeID = typeid.New("AWS", "Lambda", "Function")

// FunctionName resolves the materialized external name of a callable
// function resource ahead of the generic pass. Callers that need a
// function's name early (event wiring, log subscriptions) must go through
// this so both call sites agree on the result.
func (t *Table) FunctionName(logicalID string, cfg config.Config) (string, error) {
	r, ok := t.Find(functionTypeID)
	if !ok {
		return "", fmt.Errorf("no naming rule for %s", functionTypeID)
	}
	return r.Synthesize(cfg.Prefix, logicalID, cfg), nil
}
