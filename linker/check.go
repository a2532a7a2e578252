package linker

import (
	"github.com/hashicorp/go-multierror"

	"github.com/wippyai/move-evm/move"
)

// Check resolves every Call in the script body and reports all failures
// at once, one *CallError per distinct function handle. It returns nil when
// every call resolves.
func (lc *LinkedCode) Check() error {
	var result *multierror.Error
	seen := make(map[move.FunctionHandleIndex]bool)

	for offset, instr := range lc.script.Code.Code {
		fh, ok := instr.CallTarget()
		if !ok || seen[fh] {
			continue
		}
		seen[fh] = true

		if _, err := lc.ResolveCall(fh); err != nil {
			result = multierror.Append(result, &CallError{
				Cause:    err,
				Symbol:   lc.symbol(fh),
				Offset:   offset,
				Function: fh,
			})
		}
	}
	return result.ErrorOrNil()
}

// symbol renders a function handle as addr::Module::name, or "" when the
// handle itself is malformed.
func (lc *LinkedCode) symbol(idx move.FunctionHandleIndex) string {
	fh, err := lc.FunctionHandle(idx)
	if err != nil {
		return ""
	}
	name, err := lc.Identifier(fh.Name)
	if err != nil {
		return ""
	}
	id, err := lc.script.ModuleIDAt(fh.Module)
	if err != nil {
		return name
	}
	return id.String() + "::" + name
}
