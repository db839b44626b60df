// internal/rules/operators.go
package rules

import (
	"strings"
)

/*
 * Operator table.
 *
 * The rule builder offers a fixed operator set per field type:
 *   - string:  =, !=, contains, like
 *   - number:  =, !=, <, <=, >, >=
 *   - date:    same as number
 *   - list:    in, not in
 *   - any:     is null, is not null
 *
 * Rendering never consults this table; operators are emitted verbatim. Strict
 * validation uses it to reject operators the query language does not know.
 *
 * Lookup is case-insensitive and ignores surrounding whitespace; inner
 * whitespace must be a single space ("not in", not "not  in").
 */

// Operator enumerates the operators of the query language.
type Operator int

const (
	OpUnspecified Operator = iota
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpContains
	OpLike
	OpIn
	OpNotIn
	OpIsNull
	OpIsNotNull
)

var operatorNames = map[Operator]string{
	OpEq:        "=",
	OpNeq:       "!=",
	OpLt:        "<",
	OpLte:       "<=",
	OpGt:        ">",
	OpGte:       ">=",
	OpContains:  "contains",
	OpLike:      "like",
	OpIn:        "in",
	OpNotIn:     "not in",
	OpIsNull:    "is null",
	OpIsNotNull: "is not null",
}

var operatorsByName = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorNames))
	for op, name := range operatorNames {
		m[name] = op
	}
	return m
}()

// ParseOperator looks up an operator by its query-language spelling.
func ParseOperator(s string) (Operator, bool) {
	op, ok := operatorsByName[strings.ToLower(strings.TrimSpace(s))]
	return op, ok
}

// String returns the query-language spelling, or "" for OpUnspecified.
func (op Operator) String() string {
	return operatorNames[op]
}

// Unary reports whether the operator takes no meaningful value.
func (op Operator) Unary() bool {
	return op == OpIsNull || op == OpIsNotNull
}
