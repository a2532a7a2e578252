// Package movetest builds small Move scripts and modules in memory for tests.
//
//	reg := movetest.NewModule(0xA, "Registry").
//		Function("get", move.Instr(move.OpRet))
//	s := movetest.NewScript()
//	s.Call(0xA, "Registry", "get")
//	s.Emit(move.Instr(move.OpRet))
//
// Builders intern identifiers, addresses and handles, so asking for the
// same symbol twice yields the same index.
package movetest

import (
	"github.com/wippyai/move-evm/move"
)

// Pools interns symbols into a set of move.Tables.
type Pools struct {
	tables        move.Tables
	identifiers   map[string]move.IdentifierIndex
	addresses     map[string]move.AddressIdentifierIndex
	modules       map[move.ModuleHandle]move.ModuleHandleIndex
	functions     map[funcKey]move.FunctionHandleIndex
	structs       map[funcKey]move.StructHandleIndex
	addressLength int
}

type funcKey struct {
	module move.ModuleHandleIndex
	name   move.IdentifierIndex
}

func newPools(addressLength int) *Pools {
	p := &Pools{
		identifiers:   make(map[string]move.IdentifierIndex),
		addresses:     make(map[string]move.AddressIdentifierIndex),
		modules:       make(map[move.ModuleHandle]move.ModuleHandleIndex),
		functions:     make(map[funcKey]move.FunctionHandleIndex),
		structs:       make(map[funcKey]move.StructHandleIndex),
		addressLength: addressLength,
	}
	// Signature 0 is the empty signature used for locals, parameters and
	// returns.
	p.tables.Signatures = []move.Signature{{}}
	return p
}

// Tables returns the pools built so far.
func (p *Pools) Tables() *move.Tables {
	return &p.tables
}

// Identifier interns name.
func (p *Pools) Identifier(name string) move.IdentifierIndex {
	if idx, ok := p.identifiers[name]; ok {
		return idx
	}
	idx := move.IdentifierIndex(len(p.tables.Identifiers))
	p.tables.Identifiers = append(p.tables.Identifiers, name)
	p.identifiers[name] = idx
	return idx
}

// Address interns the address with numeric value v.
func (p *Pools) Address(v uint64) move.AddressIdentifierIndex {
	a := move.AddressFromUint64(v, p.addressLength)
	if idx, ok := p.addresses[string(a)]; ok {
		return idx
	}
	idx := move.AddressIdentifierIndex(len(p.tables.AddressIdentifiers))
	p.tables.AddressIdentifiers = append(p.tables.AddressIdentifiers, a)
	p.addresses[string(a)] = idx
	return idx
}

// ModuleHandle interns a handle for module addr::name.
func (p *Pools) ModuleHandle(addr uint64, name string) move.ModuleHandleIndex {
	h := move.ModuleHandle{Address: p.Address(addr), Name: p.Identifier(name)}
	if idx, ok := p.modules[h]; ok {
		return idx
	}
	idx := move.ModuleHandleIndex(len(p.tables.ModuleHandles))
	p.tables.ModuleHandles = append(p.tables.ModuleHandles, h)
	p.modules[h] = idx
	return idx
}

// FunctionHandle interns a handle for addr::module::name.
func (p *Pools) FunctionHandle(addr uint64, module, name string) move.FunctionHandleIndex {
	mh := p.ModuleHandle(addr, module)
	key := funcKey{module: mh, name: p.Identifier(name)}
	if idx, ok := p.functions[key]; ok {
		return idx
	}
	idx := move.FunctionHandleIndex(len(p.tables.FunctionHandles))
	p.tables.FunctionHandles = append(p.tables.FunctionHandles, move.FunctionHandle{
		Module: key.module,
		Name:   key.name,
	})
	p.functions[key] = idx
	return idx
}

// StructHandle interns a handle for addr::module::name.
func (p *Pools) StructHandle(addr uint64, module, name string) move.StructHandleIndex {
	mh := p.ModuleHandle(addr, module)
	key := funcKey{module: mh, name: p.Identifier(name)}
	if idx, ok := p.structs[key]; ok {
		return idx
	}
	idx := move.StructHandleIndex(len(p.tables.StructHandles))
	p.tables.StructHandles = append(p.tables.StructHandles, move.StructHandle{
		Module:    key.module,
		Name:      key.name,
		Abilities: move.AbilityStore | move.AbilityKey,
	})
	p.structs[key] = idx
	return idx
}

// Constant appends c to the constant pool.
func (p *Pools) Constant(c move.Constant) move.ConstantPoolIndex {
	idx := move.ConstantPoolIndex(len(p.tables.ConstantPool))
	p.tables.ConstantPool = append(p.tables.ConstantPool, c)
	return idx
}

// Script builds a move.CompiledScript.
type Script struct {
	*Pools
	code []move.Bytecode
}

// NewScript returns a script builder using the default address length.
func NewScript() *Script {
	return NewScriptWidth(move.DefaultAddressLength)
}

// NewScriptWidth returns a script builder for addresses of the given width.
func NewScriptWidth(addressLength int) *Script {
	return &Script{Pools: newPools(addressLength)}
}

// Call appends a Call to addr::module::name.
func (s *Script) Call(addr uint64, module, name string) *Script {
	s.code = append(s.code, move.Call(s.FunctionHandle(addr, module, name)))
	return s
}

// Emit appends raw instructions.
func (s *Script) Emit(code ...move.Bytecode) *Script {
	s.code = append(s.code, code...)
	return s
}

// Build returns the compiled script.
func (s *Script) Build() *move.CompiledScript {
	return &move.CompiledScript{
		Tables:  s.tables,
		Version: move.VersionMax,
		Code:    move.CodeUnit{Code: append([]move.Bytecode(nil), s.code...)},
	}
}

// MustEncode encodes the built script and panics on failure.
func (s *Script) MustEncode() []byte {
	data, err := s.Build().Encode()
	if err != nil {
		panic(err)
	}
	return data
}

// Field declares one struct field.
type Field struct {
	Name string
	Type move.SignatureToken
}

// Module builds a move.CompiledModule.
type Module struct {
	*Pools
	addr    uint64
	name    string
	self    move.ModuleHandleIndex
	structs []move.StructDefinition
	funcs   []move.FunctionDefinition
}

// NewModule returns a builder for module addr::name using the default
// address length.
func NewModule(addr uint64, name string) *Module {
	return NewModuleWidth(addr, name, move.DefaultAddressLength)
}

// NewModuleWidth returns a builder for module addr::name with addresses of
// the given width.
func NewModuleWidth(addr uint64, name string, addressLength int) *Module {
	m := &Module{Pools: newPools(addressLength), addr: addr, name: name}
	m.self = m.ModuleHandle(addr, name)
	return m
}

// Function defines a public function with the given body.
func (m *Module) Function(name string, code ...move.Bytecode) *Module {
	m.funcs = append(m.funcs, move.FunctionDefinition{
		Function:   m.FunctionHandle(m.addr, m.name, name),
		Visibility: move.VisibilityPublic,
		Code:       &move.CodeUnit{Code: code},
	})
	return m
}

// Native declares a native function (no code unit).
func (m *Module) Native(name string) *Module {
	m.funcs = append(m.funcs, move.FunctionDefinition{
		Function:   m.FunctionHandle(m.addr, m.name, name),
		Visibility: move.VisibilityPublic,
	})
	return m
}

// Struct defines a struct with declared fields. Definitions are indexed in
// declaration order.
func (m *Module) Struct(name string, fields ...Field) *Module {
	def := move.StructDefinition{StructHandle: m.StructHandle(m.addr, m.name, name)}
	for _, f := range fields {
		def.Fields = append(def.Fields, move.FieldDefinition{Name: m.Identifier(f.Name), Type: f.Type})
	}
	m.structs = append(m.structs, def)
	return m
}

// NativeStruct defines a native struct.
func (m *Module) NativeStruct(name string) *Module {
	m.structs = append(m.structs, move.StructDefinition{
		StructHandle: m.StructHandle(m.addr, m.name, name),
		Native:       true,
	})
	return m
}

// Call returns a Call instruction to addr::module::name through this
// module's pools.
func (m *Module) Call(addr uint64, module, name string) move.Bytecode {
	return move.Call(m.FunctionHandle(addr, module, name))
}

// Build returns the compiled module.
func (m *Module) Build() *move.CompiledModule {
	return &move.CompiledModule{
		Tables:              m.tables,
		Version:             move.VersionMax,
		SelfModuleHandleIdx: m.self,
		StructDefs:          append([]move.StructDefinition(nil), m.structs...),
		FunctionDefs:        append([]move.FunctionDefinition(nil), m.funcs...),
	}
}

// MustEncode encodes the built module and panics on failure.
func (m *Module) MustEncode() []byte {
	data, err := m.Build().Encode()
	if err != nil {
		panic(err)
	}
	return data
}
