package types

import "errors"

// Sentinel errors for querytext operations.
var (
	// ErrUnrecognizedNode indicates a node that is neither a group nor a rule.
	ErrUnrecognizedNode = errors.New("unrecognized condition node")

	// ErrUnknownConnective indicates a group connective other than and/or.
	ErrUnknownConnective = errors.New("unknown connective")

	// ErrEmptyGroup indicates a group without children.
	ErrEmptyGroup = errors.New("group has no rules")

	// ErrTreeTooDeep indicates nesting beyond MaxTreeDepth.
	ErrTreeTooDeep = errors.New("condition tree exceeds maximum depth")

	// ErrTooManyChildren indicates a group with more than MaxGroupChildren children.
	ErrTooManyChildren = errors.New("group has too many rules")

	// ErrMissingField indicates a rule without a field.
	ErrMissingField = errors.New("rule field is empty")

	// ErrInvalidOperator indicates an operator outside the operator table.
	ErrInvalidOperator = errors.New("invalid operator")

	// ErrPathTooDeep indicates a document path exceeds MaxPathDepth.
	ErrPathTooDeep = errors.New("path exceeds maximum depth")

	// ErrInvalidPath indicates a path expression that cannot be parsed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrFieldNotFound indicates a path could not be resolved in a document.
	ErrFieldNotFound = errors.New("field not found")

	// ErrQueryNotFound indicates no saved query has the requested ID.
	ErrQueryNotFound = errors.New("saved query not found")

	// ErrInvalidQueryKind indicates a query kind other than cohort/data.
	ErrInvalidQueryKind = errors.New("invalid query kind")

	// ErrEmptyQueryName indicates a saved query without a name.
	ErrEmptyQueryName = errors.New("query name is empty")

	// ErrQueryNameTooLong indicates a name longer than MaxQueryNameLength.
	ErrQueryNameTooLong = errors.New("query name too long")

	// ErrTreeTooLarge indicates a tree document over MaxTreeDocumentSize.
	ErrTreeTooLarge = errors.New("tree document exceeds maximum size")
)
