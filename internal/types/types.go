// Package types provides domain models shared across querytext components.
//
// Zero-dependency design: condition.go, value.go and errors.go use only the
// standard library so the renderer can be embedded without pulling storage or
// transport deps. ID utilities in ids.go import uuid but are isolated.
package types

import "encoding/json"

// QueryID represents a UUIDv7 saved-query identifier.
// String alias enables type safety while maintaining JSON string serialization.
// UUIDv7 time-ordering ensures sequential IDs cluster in B-tree indexes.
type QueryID string

// QueryKind is the data-specification query type a saved query belongs to.
type QueryKind string

const (
	// QueryKindCohort selects the population of a data specification.
	QueryKindCohort QueryKind = "cohort"

	// QueryKindData selects the data elements extracted for the cohort.
	QueryKindData QueryKind = "data"
)

// ParseQueryKind validates a query kind string.
func ParseQueryKind(s string) (QueryKind, error) {
	switch QueryKind(s) {
	case QueryKindCohort, QueryKindData:
		return QueryKind(s), nil
	default:
		return "", ErrInvalidQueryKind
	}
}

// TreeDocument is the raw JSON of a condition tree as authored upstream.
// json.RawMessage wrapper preserves original bytes; the stored document is the
// source of truth and rendered text is always derived from it.
type TreeDocument json.RawMessage

// MarshalJSON implements json.Marshaler.
// Delegates to json.RawMessage to preserve original bytes unchanged.
func (d TreeDocument) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	return json.RawMessage(d).MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
// Delegates to json.RawMessage to capture raw bytes without parsing.
func (d *TreeDocument) UnmarshalJSON(data []byte) error {
	return (*json.RawMessage)(d).UnmarshalJSON(data)
}

// Limits enforced by strict validation and path resolution.
// Lenient rendering ignores them.
const (
	// MaxTreeDepth bounds group nesting accepted in strict mode.
	// Rule builders nest a handful of levels; 32 leaves ample headroom.
	MaxTreeDepth = 32

	// MaxGroupChildren bounds the number of children of one group in strict mode.
	MaxGroupChildren = 256

	// MaxPathDepth prevents unbounded traversal when locating a tree in a document.
	MaxPathDepth = 16

	// MaxTreeDocumentSize limits a stored tree document.
	MaxTreeDocumentSize = 1024 * 1024

	// MaxQueryNameLength bounds saved query names.
	MaxQueryNameLength = 256
)
