package session

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is matched by every IndexOutOfRangeError.
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexOutOfRangeError reports a selection outside the loaded list.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("article index %d out of range [0,%d)", e.Index, e.Count)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}
