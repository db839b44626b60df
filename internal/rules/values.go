// internal/rules/values.go
package rules

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/solatis/querytext/internal/types"
)

/*
 * Value conversion for decoded documents.
 *
 * Converts the loosely typed values produced by encoding/json, yaml.v3 or
 * structpb.AsMap into types.Value. Conversion is lenient: every input maps
 * to some Value and nothing fails.
 *
 * Type mapping:
 *   - nil: Null
 *   - string: String, or Date when date detection is on and the string is a
 *     full date (2006-01-02) or an RFC 3339 timestamp
 *   - float64/float32/int/int64/json.Number: Number
 *   - bool: Bool
 *   - time.Time / types.Date: Date
 *   - []any: List
 *   - anything else: String of its %v formatting
 *
 * Timestamps keep the calendar day written in the string; the offset is not
 * applied, so "2022-12-31T23:30:00-05:00" is 31/12/2022.
 */

// ConvertValue converts a decoded value to a types.Value.
func ConvertValue(value any, detectDates bool) types.Value {
	switch v := value.(type) {
	case nil:
		return types.NullValue()
	case types.Value:
		return v
	case string:
		if detectDates {
			if d, ok := parseDate(v); ok {
				return types.DateValue(d)
			}
		}
		return types.StringValue(v)
	case float64:
		return types.NumberValue(v)
	case float32:
		return types.NumberValue(float64(v))
	case int:
		return types.NumberValue(float64(v))
	case int64:
		return types.NumberValue(float64(v))
	case int32:
		return types.NumberValue(float64(v))
	case uint64:
		return types.NumberValue(float64(v))
	case json.Number:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return types.StringValue(string(v))
		}
		return types.NumberValue(f)
	case bool:
		return types.BoolValue(v)
	case time.Time:
		return types.DateValue(types.DateOf(v))
	case types.Date:
		return types.DateValue(v)
	case []any:
		list := make([]types.Value, len(v))
		for i, elem := range v {
			list[i] = ConvertValue(elem, detectDates)
		}
		return types.ListValue(list...)
	case []string:
		list := make([]types.Value, len(v))
		for i, elem := range v {
			list[i] = ConvertValue(elem, detectDates)
		}
		return types.ListValue(list...)
	default:
		return types.StringValue(fmt.Sprintf("%v", v))
	}
}

// parseDate recognises a full date or an RFC 3339 timestamp.
// Whitespace-only and partial dates are not dates.
func parseDate(s string) (types.Date, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len("2006-01-02") {
		return types.Date{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return types.DateOf(t), true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return types.DateOf(t), true
	}
	return types.Date{}, false
}
