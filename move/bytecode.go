package move

import (
	"math/big"
	"strconv"
)

// Bytecode is one decoded Move instruction.
//
// Imm carries the single immediate of the opcode: a table index, a local
// slot, a branch target, or the literal of LdU8/LdU64. The LdU128 literal
// lives in Wide.
type Bytecode struct {
	Wide   *big.Int
	Imm    uint64
	Opcode Opcode
}

// Instr returns an instruction without immediate.
func Instr(op Opcode) Bytecode {
	return Bytecode{Opcode: op}
}

// InstrImm returns an instruction with a scalar immediate.
func InstrImm(op Opcode, imm uint64) Bytecode {
	return Bytecode{Opcode: op, Imm: imm}
}

// LdU128 returns an LdU128 instruction for v.
func LdU128(v *big.Int) Bytecode {
	return Bytecode{Opcode: OpLdU128, Wide: new(big.Int).Set(v)}
}

// Call returns a Call instruction for the function handle.
func Call(fh FunctionHandleIndex) Bytecode {
	return InstrImm(OpCall, uint64(fh))
}

// CallTarget returns the function handle if this is a Call instruction.
func (b Bytecode) CallTarget() (FunctionHandleIndex, bool) {
	if b.Opcode == OpCall {
		return FunctionHandleIndex(b.Imm), true
	}
	return 0, false
}

// StructDef returns the struct definition index for instructions that
// construct, destructure or access global struct state.
func (b Bytecode) StructDef() (StructDefinitionIndex, bool) {
	switch b.Opcode {
	case OpPack, OpUnpack, OpMutBorrowGlobal, OpImmBorrowGlobal, OpExists, OpMoveFrom, OpMoveTo:
		return StructDefinitionIndex(b.Imm), true
	}
	return 0, false
}

// Local returns the local slot for local load, store and borrow instructions.
func (b Bytecode) Local() (LocalIndex, bool) {
	switch b.Opcode {
	case OpCopyLoc, OpMoveLoc, OpStLoc, OpMutBorrowLoc, OpImmBorrowLoc:
		return LocalIndex(b.Imm), true
	}
	return 0, false
}

// Literal returns the value of an integer literal load.
func (b Bytecode) Literal() (*big.Int, bool) {
	switch b.Opcode {
	case OpLdU8, OpLdU64:
		return new(big.Int).SetUint64(b.Imm), true
	case OpLdU128:
		if b.Wide == nil {
			return new(big.Int), true
		}
		return new(big.Int).Set(b.Wide), true
	}
	return nil, false
}

// String renders the instruction as Mnemonic or Mnemonic(imm).
func (b Bytecode) String() string {
	info, ok := opcodes[b.Opcode]
	if !ok {
		return "Unknown(0x" + strconv.FormatUint(uint64(b.Opcode), 16) + ")"
	}
	switch info.operand {
	case operandNone:
		return info.name
	case operandU128:
		v, _ := b.Literal()
		return info.name + "(" + v.String() + ")"
	}
	return info.name + "(" + strconv.FormatUint(b.Imm, 10) + ")"
}
