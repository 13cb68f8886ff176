// Package typeid defines the three-segment type identifier used to
// classify resource declarations (e.g. "AWS::S3::Bucket").
package typeid

import (
	"fmt"
	"regexp"
)

// tagPattern matches a well-formed type tag: root::provider::name,
// each segment one or more word characters. No trimming, no case folding.
var tagPattern = regexp.MustCompile(`^(\w+)::(\w+)::(\w+)$`)

// ID identifies a resource type by its three tag segments.
// IDs are plain values: compare with ==, equality is structural and
// case-sensitive on all three fields.
type ID struct {
	Root     string
	Provider string
	Name     string
}

// New constructs an ID from already well-formed tag segments.
func New(root, provider, name string) ID {
	return ID{Root: root, Provider: provider, Name: name}
}

// Parse converts a type tag like "AWS::DynamoDB::Table" into an ID.
// Returns an error if the tag does not match the three-segment pattern.
func Parse(tag string) (ID, error) {
	m := tagPattern.FindStringSubmatch(tag)
	if m == nil {
		return ID{}, fmt.Errorf("type tag %q does not match root::provider::name", tag)
	}
	return ID{Root: m[1], Provider: m[2], Name: m[3]}, nil
}

// String reconstructs the original tag. Parse and String round-trip.
func (id ID) String() string {
	return id.Root + "::" + id.Provider + "::" + id.Name
}
