package evm

import (
	"bytes"
	"fmt"
	"io"

	"github.com/wippyai/move-evm/errors"
)

// Assemble encodes instructions to bytecode. A PUSHn whose immediate is not
// exactly n bytes, or an immediate on a non-PUSH opcode, is an encode error.
func Assemble(code []Instruction) ([]byte, error) {
	var buf bytes.Buffer
	for i, instr := range code {
		if len(instr.Data) != instr.Op.PushSize() {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path("evm", fmt.Sprint(i)).
				Value(instr.Op.String()).
				Detail("%s with %d immediate bytes", instr.Op, len(instr.Data)).
				Build()
		}
		buf.WriteByte(byte(instr.Op))
		buf.Write(instr.Data)
	}
	return buf.Bytes(), nil
}

// Disassemble decodes bytecode into (offset, instruction) pairs in code
// order. Unassigned opcode bytes are kept as single-byte instructions; a
// PUSHn running past the end of the code is a decode error.
func Disassemble(code []byte) ([]Located, error) {
	out := make([]Located, 0, len(code))
	for pc := 0; pc < len(code); {
		op := Opcode(code[pc])
		n := op.PushSize()
		if pc+1+n > len(code) {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path("evm", fmt.Sprintf("%#x", pc)).
				Value(op.String()).
				Detail("%s needs %d bytes, %d left", op, n, len(code)-pc-1).
				Build()
		}
		instr := Instruction{Op: op}
		if n > 0 {
			instr.Data = append([]byte(nil), code[pc+1:pc+1+n]...)
		}
		out = append(out, Located{Offset: pc, Instr: instr})
		pc += 1 + n
	}
	return out, nil
}

// Locate assigns offsets to a flat instruction sequence.
func Locate(code []Instruction) []Located {
	out := make([]Located, len(code))
	pc := 0
	for i, instr := range code {
		out[i] = Located{Offset: pc, Instr: instr}
		pc += instr.Size()
	}
	return out
}

// FormatLine renders one listing line:
//
//	0x0 PUSH 0x2a
//	0x2 DUP 0x1
//	0x3 MSTORE
//
// PUSH immediates print as a hexadecimal integer; DUP, SWAP and LOG print
// their arity.
func FormatLine(l Located) string {
	op := l.Instr.Op
	switch {
	case op.IsPush():
		return fmt.Sprintf("%#x PUSH %#x", l.Offset, l.Instr.Value())
	case op.IsDup():
		return fmt.Sprintf("%#x DUP %#x", l.Offset, op.Arity())
	case op.IsSwap():
		return fmt.Sprintf("%#x SWAP %#x", l.Offset, op.Arity())
	case op.IsLog():
		return fmt.Sprintf("%#x LOG %#x", l.Offset, op.Arity())
	}
	return fmt.Sprintf("%#x %s", l.Offset, op)
}

// Format writes one FormatLine per instruction.
func Format(w io.Writer, code []Located) error {
	for _, l := range code {
		if _, err := fmt.Fprintln(w, FormatLine(l)); err != nil {
			return err
		}
	}
	return nil
}
