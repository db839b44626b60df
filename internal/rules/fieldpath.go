// internal/rules/fieldpath.go
package rules

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/querytext/internal/types"
)

/*
 * Locating a condition tree inside a larger document.
 *
 * Exported data specifications wrap their queries in an envelope, e.g.
 *   {"queries": [{"type": "cohort", "condition": {...}}, ...]}
 * A path selects the tree to render. Enforces MaxPathDepth at parse and
 * resolution time.
 *
 * Path syntax (ParsePath):
 *   $                      the document itself
 *   $.queries[1].condition dotted keys and bracketed indices
 *   queries.1.condition    leading "$." optional; numeric keys on arrays index
 *
 * Key functions:
 *   - ParsePath: Turns a path expression into PathSegments
 *   - Resolve: Traverses JSON following the PathSegment chain
 */

// ResolveResult contains the resolved value and the path taken.
type ResolveResult struct {
	Value        any                 // resolved value (nil if not found)
	ResolvedPath []types.PathSegment // path actually walked
	Found        bool                // true if path resolved to a value
}

// ParsePath parses a path expression.
// Returns ErrInvalidPath for malformed brackets or empty keys and
// ErrPathTooDeep beyond MaxPathDepth segments.
func ParsePath(expr string) ([]types.PathSegment, error) {
	s := strings.TrimSpace(expr)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return nil, nil
	}

	var path []types.PathSegment
	for _, part := range strings.Split(s, ".") {
		key := part
		var indices []int
		if open := strings.IndexByte(part, '['); open >= 0 {
			key = part[:open]
			rest := part[open:]
			for rest != "" {
				if rest[0] != '[' {
					return nil, fmt.Errorf("%w: %q", types.ErrInvalidPath, expr)
				}
				end := strings.IndexByte(rest, ']')
				if end < 0 {
					return nil, fmt.Errorf("%w: %q", types.ErrInvalidPath, expr)
				}
				idx, err := strconv.Atoi(rest[1:end])
				if err != nil || idx < 0 {
					return nil, fmt.Errorf("%w: %q", types.ErrInvalidPath, expr)
				}
				indices = append(indices, idx)
				rest = rest[end+1:]
			}
		}

		if key == "" && len(indices) == 0 {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidPath, expr)
		}
		if key != "" {
			path = append(path, types.PathSegment{Key: key})
		}
		for _, idx := range indices {
			path = append(path, types.PathSegment{Index: idx, IsIndex: true})
		}
	}

	if len(path) > types.MaxPathDepth {
		return nil, types.ErrPathTooDeep
	}
	return path, nil
}

// Resolve traverses data following path segments.
// Returns ErrPathTooDeep if path exceeds MaxPathDepth.
// Returns ErrFieldNotFound if path does not exist in data.
func Resolve(path []types.PathSegment, data json.RawMessage) (ResolveResult, error) {
	if len(path) > types.MaxPathDepth {
		return ResolveResult{}, types.ErrPathTooDeep
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ResolveResult{}, err
	}

	return ResolveValue(path, parsed)
}

// ResolveValue traverses an already decoded document.
func ResolveValue(path []types.PathSegment, doc any) (ResolveResult, error) {
	if len(path) > types.MaxPathDepth {
		return ResolveResult{}, types.ErrPathTooDeep
	}
	return resolveRecursive(path, doc, nil)
}

// resolveRecursive walks one segment at a time, accumulating the path taken.
func resolveRecursive(path []types.PathSegment, current any, resolvedSoFar []types.PathSegment) (ResolveResult, error) {
	if len(path) == 0 {
		return ResolveResult{
			Value:        current,
			ResolvedPath: resolvedSoFar,
			Found:        true,
		}, nil
	}

	seg := path[0]
	remaining := path[1:]

	switch v := current.(type) {
	case map[string]any:
		if seg.IsIndex {
			// Cannot index into object with integer
			return ResolveResult{}, types.ErrFieldNotFound
		}
		val, ok := v[seg.Key]
		if !ok {
			return ResolveResult{}, types.ErrFieldNotFound
		}
		return resolveRecursive(remaining, val, append(resolvedSoFar, seg))

	case []any:
		idx := seg.Index
		if !seg.IsIndex {
			// Numeric keys from dotted paths ("queries.1") index arrays
			n, err := strconv.Atoi(seg.Key)
			if err != nil {
				return ResolveResult{}, types.ErrFieldNotFound
			}
			idx = n
		}
		if idx < 0 || idx >= len(v) {
			return ResolveResult{}, types.ErrFieldNotFound
		}
		return resolveRecursive(remaining, v[idx], append(resolvedSoFar, types.PathSegment{Index: idx, IsIndex: true}))

	default:
		// Null or scalar value but path continues
		return ResolveResult{}, types.ErrFieldNotFound
	}
}
