package types

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestConnective_Keyword(t *testing.T) {
	tests := []struct {
		in   Connective
		want string
	}{
		{"and", "and"},
		{"AND", "and"},
		{"Or", "or"},
		{"", ""},
		{"xor", UnknownConnective},
		{" and", UnknownConnective},
	}
	for _, tt := range tests {
		if got := tt.in.Keyword(); got != tt.want {
			t.Errorf("Connective(%q).Keyword() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConnective_Known(t *testing.T) {
	for c, want := range map[Connective]bool{"and": true, "OR": true, "": false, "xor": false} {
		if got := c.Known(); got != want {
			t.Errorf("Connective(%q).Known() = %v, want %v", c, got, want)
		}
	}
}

func TestDate(t *testing.T) {
	d := NewDate(2022, time.December, 31)
	if got := d.Format("02/01/2006"); got != "31/12/2022" {
		t.Errorf("Format() = %q, want %q", got, "31/12/2022")
	}
	if d.IsZero() {
		t.Error("IsZero() = true for a set date")
	}
	if !(Date{}).IsZero() {
		t.Error("IsZero() = false for the zero date")
	}

	late := time.Date(2022, time.December, 31, 23, 0, 0, 0, time.FixedZone("EST", -5*3600))
	if got := DateOf(late); got != d {
		t.Errorf("DateOf() = %+v, want %+v", got, d)
	}
}

func TestValue_IsNull(t *testing.T) {
	if !(Value{}).IsNull() {
		t.Error("zero Value should be null")
	}
	if StringValue("").IsNull() {
		t.Error("empty string should not be null")
	}
}

func TestParseQueryKind(t *testing.T) {
	for _, s := range []string{"cohort", "data"} {
		k, err := ParseQueryKind(s)
		if err != nil || string(k) != s {
			t.Errorf("ParseQueryKind(%q) = (%q, %v), want (%q, nil)", s, k, err, s)
		}
	}
	if _, err := ParseQueryKind("Cohort"); !errors.Is(err, ErrInvalidQueryKind) {
		t.Errorf("ParseQueryKind(Cohort) error = %v, want %v", err, ErrInvalidQueryKind)
	}
}

func TestQueryID(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := NewQueryID()

	if _, err := ParseQueryID(string(id)); err != nil {
		t.Fatalf("ParseQueryID(%q) error = %v", id, err)
	}
	if _, err := ParseQueryID("not-a-uuid"); err == nil {
		t.Error("ParseQueryID() accepted a malformed ID")
	}

	ts := QueryIDTime(id)
	if ts.Before(before) || ts.After(time.Now().Add(time.Second)) {
		t.Errorf("QueryIDTime() = %v, want close to now", ts)
	}
	if !QueryIDTime("garbage").IsZero() {
		t.Error("QueryIDTime(garbage) should be zero")
	}
}

func TestTreeDocument_JSON(t *testing.T) {
	type wrapper struct {
		Tree TreeDocument `json:"tree"`
	}

	in := `{"tree":{"condition":"and","rules":[]}}`
	var w wrapper
	if err := json.Unmarshal([]byte(in), &w); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if string(w.Tree) != `{"condition":"and","rules":[]}` {
		t.Errorf("Tree = %s, want raw bytes preserved", w.Tree)
	}

	out, err := json.Marshal(wrapper{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"tree":null}` {
		t.Errorf("Marshal(nil tree) = %s, want {\"tree\":null}", out)
	}
}
