package transpiler

import "github.com/wippyai/move-evm/errors"

// Sentinel errors for errors.Is.
var (
	// ErrUnimplementedOpcode reports an instruction with no lowering rule.
	ErrUnimplementedOpcode = &errors.Error{Phase: errors.PhaseLower, Kind: errors.KindUnimplementedOpcode}

	// ErrRecursiveCall reports a call graph that reaches a function already
	// being inlined.
	ErrRecursiveCall = &errors.Error{Phase: errors.PhaseLower, Kind: errors.KindRecursiveCall}
)
