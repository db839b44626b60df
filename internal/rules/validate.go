// internal/rules/validate.go
package rules

import (
	"fmt"
	"strings"

	"github.com/solatis/querytext/internal/types"
)

/*
 * Strict validation of condition trees.
 *
 * Lenient rendering accepts any tree. Export and save paths that must not
 * persist half-built queries validate first and surface the first problem.
 *
 * Checks, in traversal order (pre-order, children left to right):
 *   1. Node shape: unrecognised or nil nodes are rejected
 *   2. Depth: group nesting must not exceed MaxTreeDepth
 *   3. Groups: known connective, at least one child, at most MaxGroupChildren
 *   4. Rules: non-empty field, operator from the operator table
 *
 * Errors wrap the sentinel from internal/types with the node path, e.g.
 * "rules[1].rules[0]: rule field is empty", so errors.Is keeps working.
 */

// ValidationError reports where in the tree validation failed.
type ValidationError struct {
	Path string // "" for the root, else e.g. "rules[1].rules[0]"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks root against the strict rules.
func Validate(root types.Condition) error {
	return validateNode(root, "", 0)
}

// validateNode validates one node at the given group depth.
func validateNode(node types.Condition, path string, depth int) error {
	switch n := node.(type) {
	case *types.Group:
		if n == nil {
			return &ValidationError{Path: path, Err: types.ErrUnrecognizedNode}
		}
		return validateGroup(n, path, depth)
	case *types.Rule:
		if n == nil {
			return &ValidationError{Path: path, Err: types.ErrUnrecognizedNode}
		}
		return validateRule(n, path)
	case *types.Unrecognized:
		err := types.ErrUnrecognizedNode
		if n != nil && len(n.Keys) > 0 {
			err = fmt.Errorf("%w (keys: %s)", err, strings.Join(n.Keys, ", "))
		}
		return &ValidationError{Path: path, Err: err}
	default:
		return &ValidationError{Path: path, Err: types.ErrUnrecognizedNode}
	}
}

// validateGroup enforces connective, child count and depth limits, then recurses.
func validateGroup(g *types.Group, path string, depth int) error {
	if depth >= types.MaxTreeDepth {
		return &ValidationError{Path: path, Err: types.ErrTreeTooDeep}
	}
	if !g.Connective.Known() {
		return &ValidationError{
			Path: path,
			Err:  fmt.Errorf("%w: %q", types.ErrUnknownConnective, string(g.Connective)),
		}
	}
	if len(g.Children) == 0 {
		return &ValidationError{Path: path, Err: types.ErrEmptyGroup}
	}
	if len(g.Children) > types.MaxGroupChildren {
		return &ValidationError{Path: path, Err: types.ErrTooManyChildren}
	}

	for i, child := range g.Children {
		if err := validateNode(child, childPath(path, i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// validateRule requires a field and a known operator.
func validateRule(r *types.Rule, path string) error {
	if strings.TrimSpace(r.Field) == "" {
		return &ValidationError{Path: path, Err: types.ErrMissingField}
	}
	if _, ok := ParseOperator(r.Operator); !ok {
		return &ValidationError{
			Path: path,
			Err:  fmt.Errorf("%w: %q", types.ErrInvalidOperator, r.Operator),
		}
	}
	return nil
}

func childPath(parent string, i int) string {
	if parent == "" {
		return fmt.Sprintf("rules[%d]", i)
	}
	return fmt.Sprintf("%s.rules[%d]", parent, i)
}
