package disasm

import (
	"sort"
	"strconv"

	"github.com/wippyai/move-evm/linker"
	"github.com/wippyai/move-evm/move"
)

// DisassembleScript lists the script body without resolving any call.
func DisassembleScript(lc *linker.LinkedCode) []Line {
	return listing(lc.Script().Code.Code)
}

// Disassemble lists the script body, the body of every call target and the
// layout of every struct those bodies construct, destructure or access
// globally.
//
// Calls are listed once per call site, in script order. The first call
// that does not resolve aborts the whole report with its error.
func Disassemble(lc *linker.LinkedCode) (*Report, error) {
	code := lc.Script().Code.Code
	r := &Report{
		Script:  listing(code),
		Calls:   []Call{},
		Modules: []ModuleStructs{},
	}

	touched := newStructSet()
	for offset, instr := range code {
		fh, ok := instr.CallTarget()
		if !ok {
			continue
		}
		f, err := lc.ResolveFunction(fh)
		if err != nil {
			return nil, err
		}

		r.Calls = append(r.Calls, Call{
			Index:   uint16(fh),
			Offset:  offset,
			Module:  f.ModuleID.Name,
			Address: f.ModuleID.Address.String(),
			Name:    f.Name,
			Body:    listing(f.Code.Code),
		})

		for _, bi := range f.Code.Code {
			sd, ok := bi.StructDef()
			if !ok {
				continue
			}
			def, err := f.Module.StructDef(sd)
			if err != nil {
				return nil, err
			}
			touched.add(f, sd, def)
		}
	}

	r.Modules = touched.report()
	return r, nil
}

func listing(code []move.Bytecode) []Line {
	lines := make([]Line, len(code))
	for i, instr := range code {
		lines[i] = Line{Offset: i, Text: instr.String()}
	}
	return lines
}

// structSet collects touched struct definitions per module. Modules keep
// first-touch order; a struct touched twice is recorded once.
type structSet struct {
	index   map[string]int
	modules []touchedModule
}

type touchedModule struct {
	module  *move.CompiledModule
	id      move.ModuleID
	structs map[move.StructDefinitionIndex]move.StructDefinition
}

func newStructSet() *structSet {
	return &structSet{index: make(map[string]int)}
}

func (s *structSet) add(f *linker.Function, idx move.StructDefinitionIndex, def move.StructDefinition) {
	key := f.ModuleID.String()
	i, ok := s.index[key]
	if !ok {
		i = len(s.modules)
		s.index[key] = i
		s.modules = append(s.modules, touchedModule{
			module:  f.Module,
			id:      f.ModuleID,
			structs: make(map[move.StructDefinitionIndex]move.StructDefinition),
		})
	}
	s.modules[i].structs[idx] = def
}

func (s *structSet) report() []ModuleStructs {
	out := make([]ModuleStructs, 0, len(s.modules))
	for _, tm := range s.modules {
		indices := make([]move.StructDefinitionIndex, 0, len(tm.structs))
		for idx := range tm.structs {
			indices = append(indices, idx)
		}
		sort.Slice(indices, func(a, b int) bool { return indices[a] < indices[b] })

		ms := ModuleStructs{
			Module:  tm.id.Name,
			Address: tm.id.Address.String(),
			Structs: make([]StructLayout, 0, len(indices)),
		}
		for _, idx := range indices {
			ms.Structs = append(ms.Structs, layout(tm.module, idx, tm.structs[idx]))
		}
		out = append(out, ms)
	}
	return out
}

func layout(m *move.CompiledModule, idx move.StructDefinitionIndex, def move.StructDefinition) StructLayout {
	sl := StructLayout{Index: uint16(idx), Native: def.Native}
	sl.Name = "Struct(" + strconv.Itoa(int(def.StructHandle)) + ")"
	if sh, err := m.StructHandle(def.StructHandle); err == nil {
		if name, err := m.Identifier(sh.Name); err == nil {
			sl.Name = name
		}
	}
	for _, f := range def.Fields {
		name, err := m.Identifier(f.Name)
		if err != nil {
			name = "field" + strconv.Itoa(int(f.Name))
		}
		sl.Fields = append(sl.Fields, Field{Name: name, Type: m.TypeString(f.Type)})
	}
	return sl
}
