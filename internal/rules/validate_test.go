package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/solatis/querytext/internal/types"
)

func rule(field, op string) *types.Rule {
	return types.NewRule(field, op, types.StringValue("v"))
}

func nested(depth int) types.Condition {
	var node types.Condition = rule("leaf", "=")
	for i := 0; i < depth; i++ {
		node = types.NewGroup(types.ConnectiveAnd, node)
	}
	return node
}

func TestValidate(t *testing.T) {
	wide := make([]types.Condition, types.MaxGroupChildren+1)
	for i := range wide {
		wide[i] = rule("f", "=")
	}

	tests := []struct {
		name     string
		root     types.Condition
		wantErr  error
		wantPath string
	}{
		{
			name: "valid nested tree",
			root: types.NewGroup(types.ConnectiveAnd,
				rule("A", "="),
				types.NewGroup(types.ConnectiveOr, rule("B", "!="), rule("C", "like")),
			),
		},
		{
			name: "connective letter case ignored",
			root: types.NewGroup("OR", rule("A", "=")),
		},
		{
			name: "root rule",
			root: rule("A", "is not null"),
		},
		{
			name:    "nil root",
			root:    nil,
			wantErr: types.ErrUnrecognizedNode,
		},
		{
			name:    "unrecognized root",
			root:    &types.Unrecognized{Keys: []string{"unexpectedField"}},
			wantErr: types.ErrUnrecognizedNode,
		},
		{
			name:     "unrecognized child",
			root:     types.NewGroup(types.ConnectiveAnd, rule("A", "="), &types.Unrecognized{}),
			wantErr:  types.ErrUnrecognizedNode,
			wantPath: "rules[1]",
		},
		{
			name:    "unknown connective",
			root:    types.NewGroup("xor", rule("A", "=")),
			wantErr: types.ErrUnknownConnective,
		},
		{
			name:    "missing connective",
			root:    types.NewGroup("", rule("A", "=")),
			wantErr: types.ErrUnknownConnective,
		},
		{
			name:     "empty nested group",
			root:     types.NewGroup(types.ConnectiveAnd, rule("A", "="), types.NewGroup(types.ConnectiveOr)),
			wantErr:  types.ErrEmptyGroup,
			wantPath: "rules[1]",
		},
		{
			name:    "too many children",
			root:    types.NewGroup(types.ConnectiveAnd, wide...),
			wantErr: types.ErrTooManyChildren,
		},
		{
			name:     "too deep",
			root:     nested(types.MaxTreeDepth + 1),
			wantErr:  types.ErrTreeTooDeep,
			wantPath: strings.TrimSuffix(strings.Repeat("rules[0].", types.MaxTreeDepth), "."),
		},
		{
			name:     "empty field",
			root:     types.NewGroup(types.ConnectiveAnd, rule("A", "="), types.NewGroup(types.ConnectiveOr, rule("  ", "="))),
			wantErr:  types.ErrMissingField,
			wantPath: "rules[1].rules[0]",
		},
		{
			name:     "unknown operator",
			root:     types.NewGroup(types.ConnectiveAnd, rule("A", "~=")),
			wantErr:  types.ErrInvalidOperator,
			wantPath: "rules[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.root)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %T, want *ValidationError", err)
			}
			if verr.Path != tt.wantPath {
				t.Errorf("ValidationError.Path = %q, want %q", verr.Path, tt.wantPath)
			}
		})
	}
}

func TestValidate_DepthLimitIsInclusive(t *testing.T) {
	if err := Validate(nested(types.MaxTreeDepth)); err != nil {
		t.Errorf("Validate() at MaxTreeDepth error = %v, want nil", err)
	}
}

func TestValidate_FirstErrorWins(t *testing.T) {
	root := types.NewGroup(types.ConnectiveAnd, rule("", "="), rule("B", "~="))
	err := Validate(root)
	if !errors.Is(err, types.ErrMissingField) {
		t.Errorf("Validate() error = %v, want %v", err, types.ErrMissingField)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(types.NewGroup(types.ConnectiveAnd, &types.Unrecognized{Keys: []string{"a", "b"}}))
	if err == nil {
		t.Fatal("Validate() error = nil, want error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "rules[0]: ") {
		t.Errorf("Error() = %q, want prefix %q", msg, "rules[0]: ")
	}
	if !strings.Contains(msg, "keys: a, b") {
		t.Errorf("Error() = %q, want it to list the keys", msg)
	}
}
