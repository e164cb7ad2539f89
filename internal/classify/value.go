package classify

// Kind tags what a raw attribute turned out to hold once decoded. Columns in
// the source feeds flip between scalars, nested objects and one-element
// lists depending on the record, so every lift goes through Coerce instead
// of type-switching at the call site.
type Kind int

const (
	KindMissing Kind = iota
	KindScalar
	KindRecord
)

type Value struct {
	kind   Kind
	scalar any
	record map[string]any
}

// Coerce maps a decoded JSON value onto the variant: objects become records,
// a non-empty list is represented by its first element, nil and empty lists
// are missing, everything else is a scalar.
func Coerce(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{kind: KindMissing}
	case map[string]any:
		return Value{kind: KindRecord, record: t}
	case []any:
		if len(t) == 0 {
			return Value{kind: KindMissing}
		}
		return Coerce(t[0])
	default:
		return Value{kind: KindScalar, scalar: t}
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Scalar() any { return v.scalar }

// Record returns the underlying mapping, nil unless KindRecord.
func (v Value) Record() map[string]any { return v.record }

// Field returns a record field, nil for scalars and missing values.
func (v Value) Field(name string) any {
	if v.kind != KindRecord {
		return nil
	}
	return v.record[name]
}

func (v Value) StringField(name string) string {
	s, _ := v.Field(name).(string)
	return s
}

func (v Value) BoolField(name string) bool {
	b, _ := v.Field(name).(bool)
	return b
}
