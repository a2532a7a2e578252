// Package disasm builds call-graph listings of linked Move scripts.
//
// Disassemble produces a Report with three parts:
//
//   - Script: the script body, one Line per instruction
//   - Calls: for every Call in the script, the resolved target's body
//   - Modules: the layouts of structs the called bodies touch through
//     Pack, Unpack, MutBorrowGlobal, ImmBorrowGlobal, Exists, MoveFrom
//     or MoveTo
//
// Output order never depends on map iteration: calls follow the script,
// modules follow first touch and structs are sorted by definition index.
// Render writes the text form; Marshal writes canonical CBOR.
package disasm
