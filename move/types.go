package move

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/wippyai/move-evm/errors"
)

// Pool and table indices. Every cross reference inside a binary is one of
// these; nothing points across binaries.
type (
	ModuleHandleIndex       uint16
	StructHandleIndex       uint16
	FunctionHandleIndex     uint16
	FieldHandleIndex        uint16
	IdentifierIndex         uint16
	AddressIdentifierIndex  uint16
	SignatureIndex          uint16
	ConstantPoolIndex       uint16
	StructDefinitionIndex   uint16
	FunctionDefinitionIndex uint16
	LocalIndex              uint8
	CodeOffset              uint16
)

// Address is an account address as stored in the address pool.
type Address []byte

// AddressFromUint64 builds a big-endian address of the given width, e.g.
// AddressFromUint64(0xA, 16) for 0x0000...000a.
func AddressFromUint64(v uint64, length int) Address {
	a := make(Address, length)
	for i := length - 1; i >= 0 && v != 0; i-- {
		a[i] = byte(v)
		v >>= 8
	}
	return a
}

// Equal reports whether two addresses hold the same bytes.
func (a Address) Equal(b Address) bool {
	return bytes.Equal(a, b)
}

// String renders the address in short hex form ("0x1", "0xa").
func (a Address) String() string {
	s := strings.TrimLeft(hex.EncodeToString(a), "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}

// ModuleHandle names a module by (address, name) through the pools of the
// binary that declares it.
type ModuleHandle struct {
	Address AddressIdentifierIndex
	Name    IdentifierIndex
}

// ModuleID is a module handle resolved to concrete values. Two handles from
// different binaries denote the same module iff their ModuleIDs are equal.
type ModuleID struct {
	Address Address
	Name    string
}

// Equal compares address bytes and name.
func (id ModuleID) Equal(other ModuleID) bool {
	return id.Name == other.Name && id.Address.Equal(other.Address)
}

func (id ModuleID) String() string {
	return id.Address.String() + "::" + id.Name
}

// AbilitySet is the bit set of abilities declared on a type or type parameter.
type AbilitySet byte

const (
	AbilityCopy  AbilitySet = 0x1
	AbilityDrop  AbilitySet = 0x2
	AbilityStore AbilitySet = 0x4
	AbilityKey   AbilitySet = 0x8
)

func (a AbilitySet) String() string {
	var parts []string
	for _, ab := range []struct {
		bit  AbilitySet
		name string
	}{{AbilityCopy, "copy"}, {AbilityDrop, "drop"}, {AbilityStore, "store"}, {AbilityKey, "key"}} {
		if a&ab.bit != 0 {
			parts = append(parts, ab.name)
		}
	}
	return strings.Join(parts, "+")
}

// StructHandle declares a struct type owned by some module.
type StructHandle struct {
	Module         ModuleHandleIndex
	Name           IdentifierIndex
	Abilities      AbilitySet
	TypeParameters []AbilitySet
}

// FunctionHandle declares a function owned by some module.
type FunctionHandle struct {
	Module         ModuleHandleIndex
	Name           IdentifierIndex
	Parameters     SignatureIndex
	Return         SignatureIndex
	TypeParameters []AbilitySet
}

// FieldHandle addresses one field of a struct definition.
type FieldHandle struct {
	Owner StructDefinitionIndex
	Field uint16
}

// FieldDefinition is one declared struct field.
type FieldDefinition struct {
	Name IdentifierIndex
	Type SignatureToken
}

// StructDefinition gives the field layout of a struct handle. Native structs
// have no fields.
type StructDefinition struct {
	StructHandle StructHandleIndex
	Native       bool
	Fields       []FieldDefinition
}

// CodeUnit is the body of a function or script.
type CodeUnit struct {
	Locals SignatureIndex
	Code   []Bytecode
}

// FunctionDefinition binds a function handle to its implementation. Code is
// nil for native functions.
type FunctionDefinition struct {
	Function       FunctionHandleIndex
	Visibility     Visibility
	IsEntry        bool
	AcquiresGlobal []StructDefinitionIndex
	Code           *CodeUnit
}

// Tables holds the pools and handle tables shared by scripts and modules.
// All lookups are bounds checked; a malformed index is reported as an
// out_of_bounds error rather than a panic.
type Tables struct {
	ModuleHandles      []ModuleHandle
	StructHandles      []StructHandle
	FunctionHandles    []FunctionHandle
	FieldHandles       []FieldHandle
	Signatures         []Signature
	Identifiers        []string
	AddressIdentifiers []Address
	ConstantPool       []Constant
}

// CompiledScript is a decoded script: tables plus exactly one code unit.
type CompiledScript struct {
	Tables
	Version        uint32
	TypeParameters []AbilitySet
	Parameters     SignatureIndex
	Code           CodeUnit
}

// CompiledModule is a decoded module.
type CompiledModule struct {
	Tables
	Version             uint32
	SelfModuleHandleIdx ModuleHandleIndex
	StructDefs          []StructDefinition
	FunctionDefs        []FunctionDefinition
}

func outOfBounds(pool string, idx, length int) error {
	return errors.OutOfBounds(errors.PhaseLinking, []string{pool, strconv.Itoa(idx)}, idx, length)
}

// Identifier returns the identifier at idx.
func (t *Tables) Identifier(idx IdentifierIndex) (string, error) {
	if int(idx) >= len(t.Identifiers) {
		return "", outOfBounds("identifiers", int(idx), len(t.Identifiers))
	}
	return t.Identifiers[idx], nil
}

// Address returns the address at idx.
func (t *Tables) Address(idx AddressIdentifierIndex) (Address, error) {
	if int(idx) >= len(t.AddressIdentifiers) {
		return nil, outOfBounds("address_identifiers", int(idx), len(t.AddressIdentifiers))
	}
	return t.AddressIdentifiers[idx], nil
}

// ModuleHandle returns the module handle at idx.
func (t *Tables) ModuleHandle(idx ModuleHandleIndex) (ModuleHandle, error) {
	if int(idx) >= len(t.ModuleHandles) {
		return ModuleHandle{}, outOfBounds("module_handles", int(idx), len(t.ModuleHandles))
	}
	return t.ModuleHandles[idx], nil
}

// StructHandle returns the struct handle at idx.
func (t *Tables) StructHandle(idx StructHandleIndex) (StructHandle, error) {
	if int(idx) >= len(t.StructHandles) {
		return StructHandle{}, outOfBounds("struct_handles", int(idx), len(t.StructHandles))
	}
	return t.StructHandles[idx], nil
}

// FunctionHandle returns the function handle at idx.
func (t *Tables) FunctionHandle(idx FunctionHandleIndex) (FunctionHandle, error) {
	if int(idx) >= len(t.FunctionHandles) {
		return FunctionHandle{}, outOfBounds("function_handles", int(idx), len(t.FunctionHandles))
	}
	return t.FunctionHandles[idx], nil
}

// Signature returns the signature at idx.
func (t *Tables) Signature(idx SignatureIndex) (Signature, error) {
	if int(idx) >= len(t.Signatures) {
		return nil, outOfBounds("signatures", int(idx), len(t.Signatures))
	}
	return t.Signatures[idx], nil
}

// Constant returns the constant at idx.
func (t *Tables) Constant(idx ConstantPoolIndex) (Constant, error) {
	if int(idx) >= len(t.ConstantPool) {
		return Constant{}, outOfBounds("constant_pool", int(idx), len(t.ConstantPool))
	}
	return t.ConstantPool[idx], nil
}

// ModuleID resolves a module handle through these tables' own pools.
func (t *Tables) ModuleID(h ModuleHandle) (ModuleID, error) {
	addr, err := t.Address(h.Address)
	if err != nil {
		return ModuleID{}, err
	}
	name, err := t.Identifier(h.Name)
	if err != nil {
		return ModuleID{}, err
	}
	return ModuleID{Address: addr, Name: name}, nil
}

// ModuleIDAt resolves the module handle at idx.
func (t *Tables) ModuleIDAt(idx ModuleHandleIndex) (ModuleID, error) {
	h, err := t.ModuleHandle(idx)
	if err != nil {
		return ModuleID{}, err
	}
	return t.ModuleID(h)
}

// SelfID returns the identity the module declares for itself.
func (m *CompiledModule) SelfID() (ModuleID, error) {
	return m.ModuleIDAt(m.SelfModuleHandleIdx)
}

// StructDef returns the struct definition at idx.
func (m *CompiledModule) StructDef(idx StructDefinitionIndex) (StructDefinition, error) {
	if int(idx) >= len(m.StructDefs) {
		return StructDefinition{}, outOfBounds("struct_defs", int(idx), len(m.StructDefs))
	}
	return m.StructDefs[idx], nil
}

// FunctionName returns the name of a function definition through the
// module's own identifier pool.
func (m *CompiledModule) FunctionName(def FunctionDefinition) (string, error) {
	fh, err := m.FunctionHandle(def.Function)
	if err != nil {
		return "", err
	}
	return m.Identifier(fh.Name)
}
