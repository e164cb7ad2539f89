package tables

import (
	"strconv"

	"vacsift-engine/internal/classify"
)

// asString renders the scalar shapes the feeds actually produce. JSON
// numbers arrive as float64; integral ids must not pick up an exponent or
// a trailing .0.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// liftName flattens one column cell: records contribute their "name" field,
// scalars pass through, missing values become empty.
func liftName(v any) string {
	val := classify.Coerce(v)
	switch val.Kind() {
	case classify.KindRecord:
		return asString(val.Field("name"))
	case classify.KindScalar:
		return asString(val.Scalar())
	default:
		return ""
	}
}

func floatPtr(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func boolPtr(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}

func boolVal(v any) bool {
	b, _ := v.(bool)
	return b
}
