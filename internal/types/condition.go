package types

import "strings"

/*
 * Condition tree model.
 *
 * A condition tree is what the rule builder produces: Groups joining their
 * children with one connective, and Rule leaves of the form
 * field / operator / value. The tree is decided at conversion time into a
 * closed set of node types; renderers switch on the concrete type and never
 * inspect raw keys.
 *
 * Key types:
 *   - Condition: sealed interface implemented by Group, Rule, Unrecognized
 *   - Group: ordered children joined by a single Connective
 *   - Rule: leaf comparison
 *   - Unrecognized: a node with none of the recognised shape keys
 *
 * Trees are plain values: no cycles, no shared nodes, never mutated by
 * consumers.
 */

// Connective joins the children of a Group.
type Connective string

const (
	ConnectiveAnd Connective = "and"
	ConnectiveOr  Connective = "or"
)

// UnknownConnective is the keyword emitted for a connective that is neither
// "and" nor "or".
const UnknownConnective = "UNKNOWN_CONNECTIVE"

// Keyword resolves the connective case-insensitively.
// Empty stays empty; unrecognised values map to UnknownConnective.
func (c Connective) Keyword() string {
	if c == "" {
		return ""
	}
	switch strings.ToLower(string(c)) {
	case "and":
		return "and"
	case "or":
		return "or"
	default:
		return UnknownConnective
	}
}

// Known reports whether the connective is "and" or "or" in any letter case.
func (c Connective) Known() bool {
	k := c.Keyword()
	return k == "and" || k == "or"
}

// Condition is a node of a condition tree.
// Use a type switch on *Group, *Rule and *Unrecognized.
type Condition interface {
	conditionMarker()
}

// Group combines child conditions with one connective.
type Group struct {
	Connective Connective
	Children   []Condition // insertion order is rendering order
}

// Rule is a leaf comparison.
type Rule struct {
	Field    string
	Operator string
	Value    Value
}

// Unrecognized is a node whose shape matched neither a Group nor a Rule.
// Keys lists the keys it did carry, for diagnostics.
type Unrecognized struct {
	Keys []string
}

func (*Group) conditionMarker()        {}
func (*Rule) conditionMarker()         {}
func (*Unrecognized) conditionMarker() {}

// NewGroup builds a Group from its children.
func NewGroup(connective Connective, children ...Condition) *Group {
	return &Group{Connective: connective, Children: children}
}

// NewRule builds a Rule leaf.
func NewRule(field, operator string, value Value) *Rule {
	return &Rule{Field: field, Operator: operator, Value: value}
}

// PathSegment is one component of a path into a JSON document.
// String for object keys, int for array indices.
type PathSegment struct {
	Key     string // object key (mutually exclusive with Index)
	Index   int    // array index
	IsIndex bool   // disambiguates Index=0 from unset
}
