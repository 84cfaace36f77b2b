// stand for bytes helper
package bx

import "encoding/binary"

// LE is the byte order of every on-disk integer in tinyrel.
var LE = binary.LittleEndian

// --- read ---
func U32(b []byte) uint32 { return LE.Uint32(b) }
func U64(b []byte) uint64 { return LE.Uint64(b) }
func I64(b []byte) int64  { return int64(U64(b)) }
func Bool(b []byte) bool  { return b[0] != 0 }

// --- write ---
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }
func PutU64(b []byte, v uint64) { LE.PutUint64(b, v) }
func PutBool(b []byte, v bool) {
	if v {
		b[0] = 1
		return
	}
	b[0] = 0
}

// --- append (grow a record buffer in place) ---
func AppendU32(b []byte, v uint32) []byte { return LE.AppendUint32(b, v) }
func AppendU64(b []byte, v uint64) []byte { return LE.AppendUint64(b, v) }
func AppendI64(b []byte, v int64) []byte  { return AppendU64(b, uint64(v)) }
func AppendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}
