// Package evm models EVM bytecode: the opcode table, an instruction type,
// an assembler and a linear disassembler.
//
// Disassemble walks the code front to back, attaching PUSHn immediates to
// their opcode:
//
//	code, err := evm.Disassemble([]byte{0x60, 0x2a, 0x80, 0x00})
//	evm.Format(os.Stdout, code)
//	// 0x0 PUSH 0x2a
//	// 0x2 DUP 0x1
//	// 0x3 STOP
//
// Assemble is the inverse for instruction sequences built with Op, Push and
// PushBig.
package evm
