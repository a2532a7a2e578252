package transpiler

import (
	"go.uber.org/zap"

	"github.com/wippyai/move-evm/errors"
	"github.com/wippyai/move-evm/evm"
	"github.com/wippyai/move-evm/linker"
	"github.com/wippyai/move-evm/move"
)

// returnSlot is the memory slot a caller's value is stored to before the
// callee body is inlined.
const returnSlot = 0

type lowerer struct {
	lc    *linker.LinkedCode
	out   []evm.Instruction
	stack []string
}

// Lower translates the script into straight-line EVM code.
//
// The output starts with DUP1 and ends with STOP. Every Call is replaced by
// a store to the return slot followed by the callee's lowered body, so
// calls nest to any depth and no jump remains. A call graph that reaches a
// function already being inlined fails with ErrRecursiveCall; an opcode
// without a lowering rule fails with ErrUnimplementedOpcode. Resolution
// errors from the linker are returned unchanged.
func Lower(lc *linker.LinkedCode) ([]evm.Instruction, error) {
	l := &lowerer{lc: lc}
	l.emit(evm.Op(evm.DUP1))
	if err := l.lowerCode(lc.Script().Code.Code, nil); err != nil {
		return nil, err
	}
	l.emit(evm.Op(evm.STOP))
	return l.out, nil
}

func (l *lowerer) emit(instrs ...evm.Instruction) {
	l.out = append(l.out, instrs...)
}

// lowerCode lowers one code unit. owner is the module whose pools the
// code's indices refer to, or nil for the script body.
func (l *lowerer) lowerCode(code []move.Bytecode, owner *move.CompiledModule) error {
	for offset, instr := range code {
		switch instr.Opcode {
		case move.OpLdU8, move.OpLdU64, move.OpLdU128:
			v, _ := instr.Literal()
			l.emit(evm.PushBig(v))

		case move.OpCopyLoc, move.OpMoveLoc, move.OpMutBorrowLoc, move.OpImmBorrowLoc:
			slot, _ := instr.Local()
			l.emit(evm.PushUint(uint64(slot)), evm.Op(evm.MLOAD))

		case move.OpStLoc:
			slot, _ := instr.Local()
			l.emit(evm.PushUint(uint64(slot)), evm.Op(evm.MSTORE))

		case move.OpPop:
			l.emit(evm.Op(evm.POP))

		case move.OpPack:
			// Struct values are flattened to a single word.
			l.emit(evm.PushUint(0), evm.Op(evm.MLOAD))

		case move.OpUnpack, move.OpRet:

		case move.OpCall:
			fh, _ := instr.CallTarget()
			if err := l.inline(fh, owner); err != nil {
				return err
			}

		default:
			return errors.UnimplementedOpcode(instr.String(), offset)
		}
	}
	return nil
}

func (l *lowerer) inline(fh move.FunctionHandleIndex, owner *move.CompiledModule) error {
	var f *linker.Function
	var err error
	if owner == nil {
		f, err = l.lc.ResolveFunction(fh)
	} else {
		f, err = l.lc.ResolveFrom(owner, fh)
	}
	if err != nil {
		return err
	}

	symbol := f.ModuleID.String() + "::" + f.Name
	for i, s := range l.stack {
		if s == symbol {
			chain := append(append([]string(nil), l.stack[i:]...), symbol)
			return errors.RecursiveCall(chain)
		}
	}

	Logger().Debug("inlining call",
		zap.String("function", symbol),
		zap.Int("depth", len(l.stack)+1))

	l.emit(evm.PushUint(returnSlot), evm.Op(evm.MSTORE))
	l.stack = append(l.stack, symbol)
	err = l.lowerCode(f.Code.Code, f.Module)
	l.stack = l.stack[:len(l.stack)-1]
	return err
}
