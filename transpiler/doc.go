// Package transpiler lowers a linked Move script into EVM instructions.
//
// The lowering is a proof of concept with a naive calling convention:
//
//	Move                          EVM
//	LdU8/LdU64/LdU128 v           PUSHn v (minimal big-endian, 0 as 0x00)
//	CopyLoc/MoveLoc/*BorrowLoc n  PUSH n, MLOAD
//	StLoc n                       PUSH n, MSTORE
//	Pop                           POP
//	Pack                          PUSH 0, MLOAD
//	Unpack, Ret                   (nothing)
//	Call f                        PUSH 0, MSTORE, <body of f>
//
// The whole program is wrapped in DUP1 ... STOP. Calls are inlined, never
// jumped to, so the output is straight-line code.
package transpiler
