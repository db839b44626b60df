package render

import (
	"strconv"
	"strings"

	"github.com/solatis/querytext/internal/types"
)

/*
 * Value formatting strategy.
 *
 * A ValueFormatter turns a rule value into its text and says whether the
 * renderer should emit it as a quoted literal. The default formatter keeps
 * the historical output: dates as DD/MM/YYYY, null as a bare token, every
 * other value as its plain string form inside double quotes.
 *
 * Number text: shortest decimal form with no exponent ("42", "1.5",
 * "-0.25"), matching what the rule builder shows in its inputs.
 */

// DefaultDateLayout renders dates as day/month/year, zero padded.
const DefaultDateLayout = "02/01/2006"

// NullToken is emitted unquoted for absent values.
const NullToken = "null"

// ValueFormatter converts a rule value to text.
// quoted reports whether the text is emitted as a quoted literal.
type ValueFormatter interface {
	FormatValue(v types.Value) (text string, quoted bool)
}

// DefaultFormatter is the stock formatting strategy.
type DefaultFormatter struct {
	// DateLayout is a time package layout; empty means DefaultDateLayout.
	DateLayout string
}

// FormatValue implements ValueFormatter.
func (f DefaultFormatter) FormatValue(v types.Value) (string, bool) {
	if v.Kind == types.ValueNull {
		return NullToken, false
	}
	return f.text(v), true
}

// text converts a non-null value to its plain string form.
// Lists join their elements with "," and nested nulls become empty strings.
func (f DefaultFormatter) text(v types.Value) string {
	switch v.Kind {
	case types.ValueString:
		return v.Str
	case types.ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case types.ValueBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case types.ValueDate:
		layout := f.DateLayout
		if layout == "" {
			layout = DefaultDateLayout
		}
		return v.Date.Format(layout)
	case types.ValueList:
		parts := make([]string, len(v.List))
		for i, elem := range v.List {
			if elem.Kind != types.ValueNull {
				parts[i] = f.text(elem)
			}
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// FormatterFunc adapts a function to ValueFormatter.
type FormatterFunc func(v types.Value) (string, bool)

// FormatValue implements ValueFormatter.
func (fn FormatterFunc) FormatValue(v types.Value) (string, bool) {
	return fn(v)
}
