package linker

import (
	"fmt"
	"strings"

	"github.com/wippyai/move-evm/errors"
	"github.com/wippyai/move-evm/move"
)

// Sentinel errors for errors.Is. Errors returned by this package carry the
// symbol and detail; these values only fix the phase and kind.
var (
	// ErrModuleMissing reports a call whose owning module was not linked, or
	// whose linked module does not define the called name.
	ErrModuleMissing = &errors.Error{Phase: errors.PhaseLinking, Kind: errors.KindModuleMissing}

	// ErrInvalidModule reports a call that resolved to a native function.
	ErrInvalidModule = &errors.Error{Phase: errors.PhaseLinking, Kind: errors.KindInvalidModule}

	// ErrOutOfBounds reports a pool or table index past the end of its table.
	ErrOutOfBounds = &errors.Error{Phase: errors.PhaseLinking, Kind: errors.KindOutOfBounds}

	// ErrNotByteVector reports a constant that is not a vector<u8>.
	ErrNotByteVector = &errors.Error{Phase: errors.PhaseLinking, Kind: errors.KindNotByteVector}
)

// CallError describes an unresolved call site found by Check.
type CallError struct {
	Cause    error
	Symbol   string
	Offset   int
	Function move.FunctionHandleIndex
}

func (e *CallError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "call at offset %d", e.Offset)
	if e.Symbol != "" {
		b.WriteString(" to ")
		b.WriteString(e.Symbol)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *CallError) Unwrap() error {
	return e.Cause
}
