package record

import (
	"errors"
	"math"

	"github.com/tuannm99/tinyrel/internal/alias/bx"
)

// RowFormatVersion is the first byte of every encoded row.
const RowFormatVersion byte = 1

var (
	ErrBadBuffer      = errors.New("rowcodec: buffer underflow/overflow")
	ErrBadRowVersion  = errors.New("rowcodec: unsupported row format version")
	ErrVarTooLong     = errors.New("rowcodec: variable length exceeds u32")
	ErrEncodeMismatch = errors.New("rowcodec: schema/values mismatch")
)

// EncodeRow serializes values (already coerced to canonical types).
// Format:
// [version u8] [nullmap: ceil(N/8) bytes, bit=1 => NULL] [field0 data?] [field1 data?] ...
// INT/FLOAT: 8 bytes LE; BOOL: 1 byte; STRING: u32 length (LE) + data
func EncodeRow(s Schema, row Row) ([]byte, error) {
	nc := s.NumCols()
	if len(row) != nc {
		return nil, ErrEncodeMismatch
	}

	nbBytes := (nc + 7) / 8
	out := make([]byte, 1+nbBytes, 1+nbBytes+8*nc)
	out[0] = RowFormatVersion
	nullmap := out[1 : 1+nbBytes]

	for i, col := range s.Columns {
		v := row[i]
		if v == nil {
			nullmap[i/8] |= 1 << (uint(i) & 7)
			continue
		}

		switch col.Type {
		case TypeInt:
			x, ok := v.(int64)
			if !ok {
				return nil, ErrEncodeMismatch
			}
			out = bx.AppendI64(out, x)

		case TypeFloat:
			x, ok := v.(float64)
			if !ok {
				return nil, ErrEncodeMismatch
			}
			out = bx.AppendU64(out, math.Float64bits(x))

		case TypeBool:
			x, ok := v.(bool)
			if !ok {
				return nil, ErrEncodeMismatch
			}
			out = bx.AppendBool(out, x)

		case TypeString:
			str, ok := v.(string)
			if !ok {
				return nil, ErrEncodeMismatch
			}
			if uint64(len(str)) > math.MaxUint32 {
				return nil, ErrVarTooLong
			}
			out = bx.AppendU32(out, uint32(len(str)))
			out = append(out, str...)

		default:
			return nil, ErrSchemaUnknownType
		}
	}
	return out, nil
}

// DecodeRow is the inverse of EncodeRow.
func DecodeRow(s Schema, buf []byte) (Row, error) {
	if len(buf) < 1 {
		return nil, ErrBadBuffer
	}
	if buf[0] != RowFormatVersion {
		return nil, ErrBadRowVersion
	}
	buf = buf[1:]

	nc := s.NumCols()
	nbBytes := (nc + 7) / 8
	if len(buf) < nbBytes {
		return nil, ErrBadBuffer
	}
	nullmap := buf[:nbBytes]
	i := nbBytes

	out := make(Row, nc)
	for colIdx, col := range s.Columns {
		if (nullmap[colIdx/8]>>(uint(colIdx)&7))&1 == 1 {
			continue
		}

		switch col.Type {
		case TypeInt:
			if i+8 > len(buf) {
				return nil, ErrBadBuffer
			}
			out[colIdx] = bx.I64(buf[i : i+8])
			i += 8

		case TypeFloat:
			if i+8 > len(buf) {
				return nil, ErrBadBuffer
			}
			out[colIdx] = math.Float64frombits(bx.U64(buf[i : i+8]))
			i += 8

		case TypeBool:
			if i+1 > len(buf) {
				return nil, ErrBadBuffer
			}
			out[colIdx] = bx.Bool(buf[i : i+1])
			i++

		case TypeString:
			if i+4 > len(buf) {
				return nil, ErrBadBuffer
			}
			l := int(bx.U32(buf[i : i+4]))
			i += 4
			if l < 0 || i+l > len(buf) {
				return nil, ErrBadBuffer
			}
			out[colIdx] = string(buf[i : i+l])
			i += l

		default:
			return nil, ErrSchemaUnknownType
		}
	}
	if i != len(buf) {
		return nil, ErrBadBuffer
	}
	return out, nil
}
