package evm

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// IsPush reports whether op is PUSH1..PUSH32.
func (op Opcode) IsPush() bool {
	return op >= PUSH1 && op <= PUSH32
}

// PushSize returns the number of immediate bytes a PUSHn carries, or 0.
func (op Opcode) PushSize() int {
	if op.IsPush() {
		return int(op-PUSH1) + 1
	}
	return 0
}

// IsDup reports whether op is DUP1..DUP16.
func (op Opcode) IsDup() bool {
	return op >= DUP1 && op <= DUP16
}

// IsSwap reports whether op is SWAP1..SWAP16.
func (op Opcode) IsSwap() bool {
	return op >= SWAP1 && op <= SWAP16
}

// IsLog reports whether op is LOG0..LOG4.
func (op Opcode) IsLog() bool {
	return op >= LOG0 && op <= LOG4
}

// Arity returns n for PUSHn, DUPn, SWAPn and LOGn, otherwise 0.
func (op Opcode) Arity() int {
	switch {
	case op.IsPush():
		return op.PushSize()
	case op.IsDup():
		return int(op-DUP1) + 1
	case op.IsSwap():
		return int(op-SWAP1) + 1
	case op.IsLog():
		return int(op - LOG0)
	}
	return 0
}

// Known reports whether op is an assigned opcode.
func (op Opcode) Known() bool {
	if op.IsPush() || op.IsDup() || op.IsSwap() || op.IsLog() {
		return true
	}
	_, ok := opcodeNames[op]
	return ok
}

func (op Opcode) String() string {
	switch {
	case op.IsPush():
		return fmt.Sprintf("PUSH%d", op.Arity())
	case op.IsDup():
		return fmt.Sprintf("DUP%d", op.Arity())
	case op.IsSwap():
		return fmt.Sprintf("SWAP%d", op.Arity())
	case op.IsLog():
		return fmt.Sprintf("LOG%d", op.Arity())
	}
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02x)", byte(op))
}

// Instruction is one EVM instruction. Data holds the immediate of PUSHn
// (exactly n bytes, big-endian) and is empty for every other opcode.
type Instruction struct {
	Data []byte
	Op   Opcode
}

// Op returns an instruction without immediate.
func Op(op Opcode) Instruction {
	return Instruction{Op: op}
}

// Push returns the PUSHn instruction for data. data must be 1..32 bytes.
func Push(data []byte) Instruction {
	return Instruction{Op: PUSH1 + Opcode(len(data)-1), Data: append([]byte(nil), data...)}
}

// PushUint returns the minimal PUSHn for v. Zero is pushed as a single 0x00
// byte.
func PushUint(v uint64) Instruction {
	return PushBig(new(big.Int).SetUint64(v))
}

// PushBig returns the minimal PUSHn for a non-negative v of at most 256
// bits. Zero is pushed as a single 0x00 byte.
func PushBig(v *big.Int) Instruction {
	be := v.Bytes()
	if len(be) == 0 {
		be = []byte{0}
	}
	return Push(be)
}

// Size returns the encoded size in bytes.
func (i Instruction) Size() int {
	return 1 + len(i.Data)
}

// Value returns the PUSH immediate as an unsigned integer, or nil.
func (i Instruction) Value() *big.Int {
	if !i.Op.IsPush() {
		return nil
	}
	return new(big.Int).SetBytes(i.Data)
}

func (i Instruction) String() string {
	if len(i.Data) == 0 {
		return i.Op.String()
	}
	return i.Op.String() + " 0x" + hex.EncodeToString(i.Data)
}

// Located is an instruction and its byte offset in the code.
type Located struct {
	Instr  Instruction
	Offset int
}
