package record

import (
	"cmp"
	"fmt"
	"math"

	"github.com/spf13/cast"

	"github.com/tuannm99/tinyrel/internal/dberr"
)

var (
	ErrRowArity       = fmt.Errorf("%w: row arity does not match schema", dberr.ErrValidation)
	ErrTypeMismatch   = fmt.Errorf("%w: value type does not match column", dberr.ErrValidation)
	ErrNullNotAllowed = fmt.Errorf("%w: NULL in NOT NULL column", dberr.ErrValidation)
	ErrIncomparable   = fmt.Errorf("%w: values are not comparable", dberr.ErrValidation)
)

// RowID identifies a row inside one table. Ids are dense and never reused.
type RowID int64

// Row is one tuple, positionally matching its schema.
type Row []any

func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Concat builds the joined row a ++ b.
func Concat(a, b Row) Row {
	out := make(Row, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// Coerce validates row against the schema and returns a copy holding the
// canonical Go type of every column (int64, string, bool, float64).
func (s Schema) Coerce(row Row) (Row, error) {
	if len(row) != len(s.Columns) {
		return nil, fmt.Errorf("%w: %s has %d columns, got %d values",
			ErrRowArity, s.Name, len(s.Columns), len(row))
	}
	out := make(Row, len(row))
	for i, col := range s.Columns {
		if row[i] == nil {
			if !col.Nullable() {
				return nil, fmt.Errorf("%w: %s.%s", ErrNullNotAllowed, s.Name, col.Name)
			}
			continue
		}
		v, err := CoerceValue(col.Type, row[i])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Name, col.Name, err)
		}
		out[i] = v
	}
	return out, nil
}

// maxExactInt is the largest magnitude float64 holds every integer up to.
const maxExactInt = 1 << 53

// CoerceValue converts v to the canonical representation of t.
// Only lossless conversions inside the same family are accepted.
func CoerceValue(t DataType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case TypeInt:
		switch x := v.(type) {
		case int64:
			return x, nil
		case int, int8, int16, int32, uint8, uint16, uint32:
			return cast.ToInt64E(x)
		case uint, uint64:
			u := cast.ToUint64(x)
			if u > math.MaxInt64 {
				return nil, fmt.Errorf("%w: %d overflows INT", ErrTypeMismatch, u)
			}
			return int64(u), nil
		}
	case TypeFloat:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return cast.ToFloat64E(x)
		case int, int8, int16, int32, int64, uint8, uint16, uint32:
			n := cast.ToInt64(x)
			if n > maxExactInt || n < -maxExactInt {
				return nil, fmt.Errorf("%w: %d is not exact as FLOAT", ErrTypeMismatch, n)
			}
			return float64(n), nil
		}
	case TypeString:
		switch x := v.(type) {
		case string:
			return x, nil
		case []byte:
			return cast.ToStringE(x)
		}
	case TypeBool:
		if x, ok := v.(bool); ok {
			return x, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrSchemaUnknownType, t)
	}
	return nil, fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, t, v)
}

// Compare orders two non-NULL canonical values of the same family.
// INT and FLOAT compare numerically with each other.
func Compare(a, b any) (int, error) {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y), nil
		case float64:
			return cmp.Compare(float64(x), y), nil
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return cmp.Compare(x, y), nil
		case int64:
			return cmp.Compare(x, float64(y)), nil
		}
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, nil
			case !x:
				return -1, nil
			default:
				return 1, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
}

// HashKey maps v to a map key under which numerically equal INT and FLOAT
// values collide: integral floats in int64 range fold onto int64.
func HashKey(v any) any {
	if f, ok := v.(float64); ok && f >= -maxExactInt && f <= maxExactInt && f == math.Trunc(f) {
		return int64(f)
	}
	return v
}

// MustCompare is Compare for keys already validated to share a type,
// such as the keys of one index. Mismatches sort by type name.
func MustCompare(a, b any) int {
	c, err := Compare(a, b)
	if err != nil {
		return cmp.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
	}
	return c
}
