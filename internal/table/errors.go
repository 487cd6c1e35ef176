package table

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrColumnNotFound matches any *ColumnNotFoundError.
	ErrColumnNotFound = errors.New("unknown column")
	// ErrEmptySelection indicates that zero columns were chosen.
	ErrEmptySelection = errors.New("please select at least one column")
	// ErrRaggedColumns indicates columns of unequal length.
	ErrRaggedColumns = errors.New("columns differ in length")
)

// ColumnNotFoundError lists every requested column absent from a table.
type ColumnNotFoundError struct {
	Names []string
}

func (e *ColumnNotFoundError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("unknown column(s): %s", strings.Join(quoted, ", "))
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }
