package engine

import (
	"iter"

	"github.com/tuannm99/tinyrel/internal/record"
)

// Cursor walks the rows produced by a query.
//
//	for cur.Next() {
//		row := cur.Row()
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor interface {
	Next() bool
	Row() record.Row
	Err() error
	Close() error
}

// Collect drains and closes c.
func Collect(c Cursor) ([]record.Row, error) {
	defer c.Close()
	var rows []record.Row
	for c.Next() {
		rows = append(rows, c.Row())
	}
	return rows, c.Err()
}

// RowsCursor iterates a materialized result. Rewind restarts it.
type RowsCursor struct {
	rows []record.Row
	pos  int
	cur  record.Row
}

var _ Cursor = (*RowsCursor)(nil)

func NewRowsCursor(rows []record.Row) *RowsCursor {
	return &RowsCursor{rows: rows}
}

func (c *RowsCursor) Next() bool {
	if c.pos >= len(c.rows) {
		c.cur = nil
		return false
	}
	c.cur = c.rows[c.pos]
	c.pos++
	return true
}

func (c *RowsCursor) Row() record.Row { return c.cur }
func (c *RowsCursor) Err() error      { return nil }
func (c *RowsCursor) Close() error    { return nil }
func (c *RowsCursor) Len() int        { return len(c.rows) }

func (c *RowsCursor) Rewind() {
	c.pos = 0
	c.cur = nil
}

// StreamCursor pulls rows lazily from an operator tree. It is single pass:
// once exhausted, failed or closed, Next keeps returning false.
// Close must be called if the cursor is abandoned before exhaustion.
type StreamCursor struct {
	next func() (record.Row, error, bool)
	stop func()
	cur  record.Row
	err  error
	done bool
}

var _ Cursor = (*StreamCursor)(nil)

func NewStreamCursor(seq iter.Seq2[record.Row, error]) *StreamCursor {
	next, stop := iter.Pull2(seq)
	return &StreamCursor{next: next, stop: stop}
}

func (c *StreamCursor) Next() bool {
	if c.done {
		return false
	}
	row, err, ok := c.next()
	if !ok || err != nil {
		c.err = err
		c.finish()
		return false
	}
	c.cur = row
	return true
}

func (c *StreamCursor) finish() {
	c.done = true
	c.cur = nil
	c.stop()
}

func (c *StreamCursor) Row() record.Row { return c.cur }
func (c *StreamCursor) Err() error      { return c.err }

func (c *StreamCursor) Close() error {
	if !c.done {
		c.finish()
	}
	return nil
}
