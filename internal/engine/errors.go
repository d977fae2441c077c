package engine

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange           = errors.New("coordinate out of range")
	ErrInvalidSwap          = errors.New("invalid swap")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrFillExhausted        = errors.New("fill retries exhausted")
	ErrNotAccepting         = errors.New("engine not accepting swaps")
	ErrNotResolving         = errors.New("engine not resolving")
	ErrCascadeLimit         = errors.New("cascade pass limit reached")
	ErrInvariant            = errors.New("grid invariant violated")
)

// FillExhaustedError reports a cell that kept matching after every re-roll.
// The last rolled piece stays on the board.
type FillExhaustedError struct {
	At       Coord
	Attempts int
	Kept     Color
}

func (e *FillExhaustedError) Error() string {
	return fmt.Sprintf("%s: %s after %d attempts, kept %s", ErrFillExhausted, e.At, e.Attempts, e.Kept)
}

func (e *FillExhaustedError) Unwrap() error {
	return ErrFillExhausted
}

func outOfRange(c Coord, w, h int) error {
	return fmt.Errorf("%w: %s outside %dx%d", ErrOutOfRange, c, w, h)
}
