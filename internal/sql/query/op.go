package query

import (
	"fmt"

	"github.com/tuannm99/tinyrel/internal/dberr"
)

var ErrUnknownOp = fmt.Errorf("%w: unknown comparison operator", dberr.ErrNotImplemented)

// Op is a comparison operator.
type Op int

const (
	OpInvalid Op = iota
	OpEq
	OpLt
	OpGt
	OpLe
	OpGe
)

var opText = [...]string{
	OpInvalid: "?",
	OpEq:      "=",
	OpLt:      "<",
	OpGt:      ">",
	OpLe:      "<=",
	OpGe:      ">=",
}

func ParseOp(s string) (Op, error) {
	for op, text := range opText {
		if Op(op) != OpInvalid && text == s {
			return Op(op), nil
		}
	}
	return OpInvalid, fmt.Errorf("%w: %q", ErrUnknownOp, s)
}

func (o Op) Valid() bool { return o > OpInvalid && int(o) < len(opText) }

func (o Op) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opText[o]
}

// Holds reports whether a comparison result cmp (as from cmp.Compare)
// satisfies the operator.
func (o Op) Holds(cmp int) bool {
	switch o {
	case OpEq:
		return cmp == 0
	case OpLt:
		return cmp < 0
	case OpGt:
		return cmp > 0
	case OpLe:
		return cmp <= 0
	case OpGe:
		return cmp >= 0
	default:
		return false
	}
}
