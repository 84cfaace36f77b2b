package heap

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math"
	"os"

	"github.com/tuannm99/tinyrel/internal/dberr"
	"github.com/tuannm99/tinyrel/internal/record"
)

var (
	ErrRowRemoved = fmt.Errorf("%w: row is removed", dberr.ErrAccess)
	ErrCorrupt    = errors.New("heap: corrupt record")
	ErrBadOffset  = errors.New("heap: offset out of range")
	ErrClosed     = errors.New("heap: file is closed")
)

// Record is a live row together with its offset.
type Record struct {
	Offset int64
	Row    record.Row
}

// File is an append-only, offset-addressed log of encoded rows.
// Deleted records are tombstoned in place and never reclaimed.
//
// Not safe for concurrent use; open at most one File per path.
type File struct {
	f      *os.File
	path   string
	schema record.Schema
	end    int64
}

// Open opens path for read/write, creating it if needed. Existing content is kept.
func Open(path string, schema record.Schema) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	slog.Debug("heap: open", "path", path, "size", st.Size())
	return &File{f: f, path: path, schema: schema, end: st.Size()}, nil
}

func (h *File) Path() string { return h.path }

// Size is the current end-of-file offset.
func (h *File) Size() int64 { return h.end }

// Append writes row at the end of the file and returns its offset.
func (h *File) Append(row record.Row) (int64, error) {
	if h.f == nil {
		return 0, ErrClosed
	}
	payload, err := record.EncodeRow(h.schema, row)
	if err != nil {
		return 0, err
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return 0, record.ErrVarTooLong
	}

	off := h.end
	buf := make([]byte, HeaderSize, HeaderSize+len(payload))
	Header{Offset: off, Size: uint32(len(payload))}.encode(buf)
	buf = append(buf, payload...)

	if _, err := h.f.WriteAt(buf, off); err != nil {
		return 0, err
	}
	h.end += int64(len(buf))
	return off, nil
}

// Get reads the row stored at off. Tombstoned records fail with ErrRowRemoved.
func (h *File) Get(off int64) (record.Row, error) {
	hdr, err := h.readHeader(off, h.end)
	if err != nil {
		return nil, err
	}
	if hdr.Tombstone {
		return nil, fmt.Errorf("%w (offset %d)", ErrRowRemoved, off)
	}
	return h.readPayload(hdr)
}

// Remove tombstones the record at off. Removing twice is a no-op.
func (h *File) Remove(off int64) error {
	hdr, err := h.readHeader(off, h.end)
	if err != nil {
		return err
	}
	if hdr.Tombstone {
		return nil
	}
	hdr.Tombstone = true
	var b [HeaderSize]byte
	hdr.encode(b[:])
	_, err = h.f.WriteAt(b[:], off)
	return err
}

// Walk yields every record header, live or tombstoned, from start up to the
// end of file as seen when the walk begins.
func (h *File) Walk(start int64) iter.Seq2[Header, error] {
	return func(yield func(Header, error) bool) {
		end := h.end
		for off := start; off < end; {
			hdr, err := h.readHeader(off, end)
			if err != nil {
				yield(Header{}, err)
				return
			}
			if !yield(hdr, nil) {
				return
			}
			off = hdr.End()
		}
	}
}

// Scan yields the live records from start in file order. Each call starts a
// fresh pass. Reads are positional, so Get and Append may run in between.
func (h *File) Scan(start int64) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for hdr, err := range h.Walk(start) {
			if err != nil {
				yield(Record{}, err)
				return
			}
			if hdr.Tombstone {
				continue
			}
			row, err := h.readPayload(hdr)
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(Record{Offset: hdr.Offset, Row: row}, nil) {
				return
			}
		}
	}
}

func (h *File) Sync() error {
	if h.f == nil {
		return ErrClosed
	}
	return h.f.Sync()
}

func (h *File) Close() error {
	if h.f == nil {
		return nil
	}
	err := h.f.Close()
	h.f = nil
	return err
}

func (h *File) readHeader(off, end int64) (Header, error) {
	if h.f == nil {
		return Header{}, ErrClosed
	}
	if off < 0 || off >= end {
		return Header{}, fmt.Errorf("%w: %d (size %d)", ErrBadOffset, off, end)
	}
	var b [HeaderSize]byte
	if _, err := h.f.ReadAt(b[:], off); err != nil {
		if errors.Is(err, io.EOF) {
			return Header{}, fmt.Errorf("%w: short header at %d: %w", ErrCorrupt, off, io.ErrUnexpectedEOF)
		}
		return Header{}, err
	}
	hdr := decodeHeader(off, b[:])
	if hdr.End() > end {
		return Header{}, fmt.Errorf("%w: record at %d runs past end of file", ErrCorrupt, off)
	}
	return hdr, nil
}

func (h *File) readPayload(hdr Header) (record.Row, error) {
	buf := make([]byte, hdr.Size)
	if _, err := h.f.ReadAt(buf, hdr.Offset+HeaderSize); err != nil {
		return nil, err
	}
	row, err := record.DecodeRow(h.schema, buf)
	if err != nil {
		return nil, fmt.Errorf("%w at %d: %w", ErrCorrupt, hdr.Offset, err)
	}
	return row, nil
}
