package disasm

// Line is one rendered instruction of a code unit.
type Line struct {
	Text   string `cbor:"2,keyasint"`
	Offset int    `cbor:"1,keyasint"`
}

// Call is one call site of the script, with the body of its target.
// Repeated calls to the same function produce one Call each.
type Call struct {
	Module  string `cbor:"2,keyasint"`
	Address string `cbor:"3,keyasint"`
	Name    string `cbor:"4,keyasint"`
	Body    []Line `cbor:"5,keyasint"`
	Offset  int    `cbor:"6,keyasint"`
	Index   uint16 `cbor:"1,keyasint"`
}

// Field is one declared struct field with its rendered type.
type Field struct {
	Name string `cbor:"1,keyasint"`
	Type string `cbor:"2,keyasint"`
}

// StructLayout is a struct definition touched by a called function.
type StructLayout struct {
	Name   string  `cbor:"2,keyasint"`
	Fields []Field `cbor:"4,keyasint,omitempty"`
	Index  uint16  `cbor:"1,keyasint"`
	Native bool    `cbor:"3,keyasint"`
}

// ModuleStructs groups the touched structs of one module, sorted by
// struct definition index.
type ModuleStructs struct {
	Module  string         `cbor:"1,keyasint"`
	Address string         `cbor:"2,keyasint"`
	Structs []StructLayout `cbor:"3,keyasint"`
}

// Report is the result of disassembling a linked script. It is plain data:
// the same input always yields an identical Report.
type Report struct {
	Script  []Line          `cbor:"1,keyasint"`
	Calls   []Call          `cbor:"2,keyasint"`
	Modules []ModuleStructs `cbor:"3,keyasint"`
}
