package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/solatis/querytext/internal/rules"
	"github.com/solatis/querytext/internal/types"
)

func str(s string) types.Value { return types.StringValue(s) }

func TestRender_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		root types.Condition
		want string
	}{
		{
			name: "single rule",
			root: types.NewGroup(types.ConnectiveAnd,
				types.NewRule("Simple String Field", "=", str("Some Text")),
			),
			want: "(\r\n\t\"Simple String Field\" = \"Some Text\" \r\n)",
		},
		{
			name: "two rules joined by and",
			root: types.NewGroup(types.ConnectiveAnd,
				types.NewRule("F1", "=", str("V1")),
				types.NewRule("F2", "!=", str("V2")),
			),
			want: "(\r\n\t\"F1\" = \"V1\" \r\n\tand \"F2\" != \"V2\" \r\n)",
		},
		{
			name: "nested group",
			root: types.NewGroup(types.ConnectiveAnd,
				types.NewRule("A", "=", str("1")),
				types.NewRule("B", "=", str("2")),
				types.NewGroup(types.ConnectiveOr,
					types.NewRule("C", "=", str("3")),
					types.NewRule("D", "=", str("4")),
				),
			),
			want: "(\r\n\t\"A\" = \"1\" \r\n\tand \"B\" = \"2\" \r\n\tand (\r\n\t\t\"C\" = \"3\" \r\n\t\tor \"D\" = \"4\" \r\n\t)\r\n)",
		},
		{
			name: "nested group first",
			root: types.NewGroup(types.ConnectiveOr,
				types.NewGroup(types.ConnectiveAnd,
					types.NewRule("A", "=", str("1")),
				),
				types.NewRule("B", "=", str("2")),
			),
			want: "(\r\n\t(\r\n\t\t\"A\" = \"1\" \r\n\t)\r\n\tor \"B\" = \"2\" \r\n)",
		},
		{
			name: "date value",
			root: types.NewGroup(types.ConnectiveAnd,
				types.NewRule("Admitted", ">=", types.DateValue(types.NewDate(2022, time.December, 31))),
			),
			want: "(\r\n\t\"Admitted\" >= \"31/12/2022\" \r\n)",
		},
		{
			name: "garbage input",
			root: &types.Unrecognized{Keys: []string{"unexpectedArray", "unexpectedField"}},
			want: "",
		},
		{
			name: "unknown connective",
			root: types.NewGroup("xor",
				types.NewRule("F1", "=", str("V1")),
				types.NewRule("F2", "=", str("V2")),
			),
			want: "(\r\n\t\"F1\" = \"V1\" \r\n\tUNKNOWN_CONNECTIVE \"F2\" = \"V2\" \r\n)",
		},
		{
			name: "connective letter case",
			root: types.NewGroup("AND",
				types.NewRule("F1", "=", str("V1")),
				types.NewRule("F2", "=", str("V2")),
			),
			want: "(\r\n\t\"F1\" = \"V1\" \r\n\tand \"F2\" = \"V2\" \r\n)",
		},
		{
			name: "null value",
			root: types.NewGroup(types.ConnectiveAnd,
				types.NewRule("Discharged", "is null", types.NullValue()),
			),
			want: "(\r\n\t\"Discharged\" is null null \r\n)",
		},
		{
			name: "root rule is not bracketed",
			root: types.NewRule("F", "=", str("V")),
			want: "\"F\" = \"V\" ",
		},
		{
			name: "empty group",
			root: types.NewGroup(types.ConnectiveAnd),
			want: "",
		},
		{
			name: "nil root",
			root: nil,
			want: "",
		},
		{
			name: "garbage child keeps structure",
			root: types.NewGroup(types.ConnectiveAnd,
				types.NewRule("F1", "=", str("V1")),
				&types.Unrecognized{},
			),
			want: "(\r\n\t\"F1\" = \"V1\" \r\n\tand \r\n)",
		},
		{
			name: "embedded quotes are not escaped",
			root: types.NewRule(`Say "hi"`, "=", str(`a"b`)),
			want: `"Say "hi"" = "a"b" `,
		},
		{
			name: "numbers, bools and lists",
			root: types.NewGroup(types.ConnectiveOr,
				types.NewRule("Age", ">", types.NumberValue(18)),
				types.NewRule("Weight", "<", types.NumberValue(72.5)),
				types.NewRule("Smoker", "=", types.BoolValue(false)),
				types.NewRule("Ward", "in", types.ListValue(str("A"), str("B"))),
			),
			want: "(\r\n\t\"Age\" > \"18\" \r\n\tor \"Weight\" < \"72.5\" \r\n\tor \"Smoker\" = \"false\" \r\n\tor \"Ward\" in \"A,B\" \r\n)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.root); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_FromParsedJSON(t *testing.T) {
	node, err := rules.Parse([]byte(`{
		"condition": "and",
		"rules": [
			{"field": "F1", "operator": "=", "value": "V1", "entity": "ignored"},
			{"field": "F2", "operator": "!=", "value": "V2"}
		]
	}`))
	if err != nil {
		t.Fatalf("rules.Parse() error = %v", err)
	}

	want := "(\r\n\t\"F1\" = \"V1\" \r\n\tand \"F2\" != \"V2\" \r\n)"
	if got := Render(node); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_MissingOperator(t *testing.T) {
	node, err := rules.Parse([]byte(`{"condition":"and","rules":[{"field":"F","value":"V"}]}`))
	if err != nil {
		t.Fatalf("rules.Parse() error = %v", err)
	}

	want := "(\r\n\t\"F\" \"V\" \r\n)"
	if got := Render(node); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
	if got := Render(types.NewRule("F", "", str("V"))); got != `"F" "V" ` {
		t.Errorf("Render(root rule) = %q, want %q", got, `"F" "V" `)
	}
}

func TestRender_GarbageJSON(t *testing.T) {
	node, err := rules.Parse([]byte(`{"unexpectedField": "x", "unexpectedArray": [1, 2, 3]}`))
	if err != nil {
		t.Fatalf("rules.Parse() error = %v", err)
	}
	if got := Render(node); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}

func TestRenderer_Options(t *testing.T) {
	r := New(&Options{
		Newline: "\n",
		Indent:  "  ",
		Formatter: DefaultFormatter{
			DateLayout: "2006-01-02",
		},
	})

	root := types.NewGroup(types.ConnectiveAnd,
		types.NewRule("A", "=", types.DateValue(types.NewDate(2023, time.March, 4))),
		types.NewGroup(types.ConnectiveOr,
			types.NewRule("B", "=", str("x")),
		),
	)

	got, err := r.Render(root)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "(\n  \"A\" = \"2023-03-04\" \n  and (\n    \"B\" = \"x\" \n  )\n)"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderer_CustomFormatter(t *testing.T) {
	r := New(&Options{
		Formatter: FormatterFunc(func(v types.Value) (string, bool) {
			if v.Kind == types.ValueNumber {
				return "NUM", false
			}
			return DefaultFormatter{}.FormatValue(v)
		}),
	})

	got, err := r.Render(types.NewRule("Age", ">", types.NumberValue(3)))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := `"Age" > NUM `; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderer_Strict(t *testing.T) {
	r := New(&Options{Mode: ModeStrict})
	if r.Mode() != ModeStrict {
		t.Fatalf("Mode() = %v, want ModeStrict", r.Mode())
	}

	valid := types.NewGroup(types.ConnectiveAnd, types.NewRule("F", "=", str("V")))
	got, err := r.Render(valid)
	if err != nil {
		t.Fatalf("Render(valid) error = %v", err)
	}
	if want := Render(valid); got != want {
		t.Errorf("strict Render() = %q, lenient = %q; want equal for valid trees", got, want)
	}

	invalid := []struct {
		name    string
		root    types.Condition
		wantErr error
	}{
		{"garbage", &types.Unrecognized{}, types.ErrUnrecognizedNode},
		{"xor", types.NewGroup("xor", types.NewRule("F", "=", str("V"))), types.ErrUnknownConnective},
		{"empty", types.NewGroup(types.ConnectiveAnd), types.ErrEmptyGroup},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.root)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Render() error = %v, want %v", err, tt.wantErr)
			}
			if out != "" {
				t.Errorf("Render() = %q, want empty on error", out)
			}
		})
	}
}

func TestRenderer_LenientNeverFails(t *testing.T) {
	r := New(nil)
	if r.Mode() != ModeLenient {
		t.Fatalf("Mode() = %v, want ModeLenient", r.Mode())
	}
	var nilGroup *types.Group
	for _, root := range []types.Condition{nil, nilGroup, &types.Unrecognized{}, types.NewGroup("")} {
		if _, err := r.Render(root); err != nil {
			t.Errorf("Render(%#v) error = %v, want nil", root, err)
		}
	}
}

func TestRender_EmptyConnectiveGroupIsUnbracketed(t *testing.T) {
	root := types.NewGroup("",
		types.NewRule("A", "=", str("1")),
		types.NewRule("B", "=", str("2")),
	)
	got := Render(root)
	if strings.ContainsAny(got, "()") {
		t.Errorf("Render() = %q, want no brackets without a connective", got)
	}
	if want := "\r\n\t\"A\" = \"1\" \r\n\t\"B\" = \"2\" "; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderer_RenderValidatedSkipsStrictCheck(t *testing.T) {
	r := New(&Options{Mode: ModeStrict})
	empty := types.NewGroup(types.ConnectiveAnd)

	if _, err := r.Render(empty); !errors.Is(err, types.ErrEmptyGroup) {
		t.Fatalf("Render() error = %v, want %v", err, types.ErrEmptyGroup)
	}
	if got := r.RenderValidated(empty); got != "" {
		t.Errorf("RenderValidated() = %q, want empty", got)
	}

	valid := types.NewGroup(types.ConnectiveOr, types.NewRule("F", "=", str("V")))
	want, err := r.Render(valid)
	if err != nil {
		t.Fatalf("Render(valid) error = %v", err)
	}
	if got := r.RenderValidated(valid); got != want {
		t.Errorf("RenderValidated() = %q, want %q", got, want)
	}
}
