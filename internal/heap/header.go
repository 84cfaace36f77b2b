package heap

import "github.com/tuannm99/tinyrel/internal/alias/bx"

// HeaderSize: u32 payload length (LE) + 1 byte tombstone flag.
const HeaderSize = 5

// Header frames one record. Offset is where the header starts in the file
// and is the record's permanent locator.
type Header struct {
	Offset    int64
	Size      uint32
	Tombstone bool
}

// End returns the offset of the next record.
func (h Header) End() int64 { return h.Offset + HeaderSize + int64(h.Size) }

func (h Header) encode(b []byte) {
	bx.PutU32(b[0:4], h.Size)
	bx.PutBool(b[4:5], h.Tombstone)
}

func decodeHeader(off int64, b []byte) Header {
	return Header{
		Offset:    off,
		Size:      bx.U32(b[0:4]),
		Tombstone: bx.Bool(b[4:5]),
	}
}
