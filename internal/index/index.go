// Package index maps column keys to row ids.
//
// Every index here is unique: Insert rejects a key that is already present.
// SortedListIndex can also be built in non-unique mode for ordered scans
// over duplicate keys. Keys must be canonical record values (int64, string,
// bool, float64) and NULL keys are never stored.
package index

import (
	"fmt"
	"iter"
	"strings"

	"github.com/tuannm99/tinyrel/internal/dberr"
	"github.com/tuannm99/tinyrel/internal/record"
)

var (
	ErrDuplicateKey = fmt.Errorf("%w: duplicate key", dberr.ErrValidation)
	ErrNilKey       = fmt.Errorf("%w: NULL index key", dberr.ErrValidation)
	ErrBadKind      = fmt.Errorf("%w: unsupported index kind", dberr.ErrValidation)
)

type Kind string

const (
	KindHash   Kind = "hash"
	KindSorted Kind = "sorted"
	KindBTree  Kind = "btree"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindHash, nil
	case KindHash, KindSorted, KindBTree:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBadKind, s)
	}
}

type Index interface {
	Kind() Kind
	Len() int

	// Find returns the row id stored for key.
	Find(key any) (record.RowID, bool)
	// Insert adds key -> rid and fails with ErrDuplicateKey if key is present.
	Insert(key any, rid record.RowID) error
	// Update stores key -> rid and returns the previous row id, if any.
	Update(key any, rid record.RowID) (record.RowID, bool)
	// Remove deletes key and returns the row id it pointed to.
	Remove(key any) (record.RowID, bool)
}

// SortedIndex is an Index that can be walked in key order.
type SortedIndex interface {
	Index

	// Scan yields row ids in ascending key order.
	Scan() iter.Seq[record.RowID]
	// ScanFrom starts at the first key >= key.
	ScanFrom(key any) iter.Seq[record.RowID]
	// RScan yields row ids in descending key order.
	RScan() iter.Seq[record.RowID]
	// RScanFrom starts at the last key <= key.
	RScanFrom(key any) iter.Seq[record.RowID]
}

// New builds an empty unique index of the given kind.
func New(kind Kind) (Index, error) {
	switch kind {
	case KindHash, "":
		return NewHashIndex(), nil
	case KindSorted:
		return NewSortedListIndex(true), nil
	case KindBTree:
		return NewBTreeIndex(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadKind, kind)
	}
}
