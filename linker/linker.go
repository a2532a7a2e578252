package linker

import (
	"go.uber.org/zap"

	"github.com/wippyai/move-evm/errors"
	"github.com/wippyai/move-evm/move"
)

// LinkedCode is a script together with the modules its handles resolved to.
// The mapping is built once by New and never changes; LinkedCode is safe to
// share for reading.
type LinkedCode struct {
	script  *move.CompiledScript
	modules map[move.ModuleHandle]*move.CompiledModule
	// supplied keeps every candidate for calls between modules, which
	// need not be declared by the script.
	supplied []*move.CompiledModule
}

// Function is a call target resolved into its defining module.
type Function struct {
	Module     *move.CompiledModule
	Code       *move.CodeUnit
	ModuleID   move.ModuleID
	Name       string
	Definition move.FunctionDefinition
}

// New links script against modules. LinkedCode takes ownership of both.
func New(script *move.CompiledScript, modules []*move.CompiledModule) (*LinkedCode, error) {
	resolved, err := Resolve(script.ModuleHandles, &script.Tables, modules)
	if err != nil {
		return nil, err
	}
	return &LinkedCode{script: script, modules: resolved, supplied: modules}, nil
}

// NewScriptOnly wraps a script with no linked modules. Every call then
// fails with ErrModuleMissing.
func NewScriptOnly(script *move.CompiledScript) *LinkedCode {
	return &LinkedCode{script: script, modules: map[move.ModuleHandle]*move.CompiledModule{}}
}

// Script returns the linked script.
func (lc *LinkedCode) Script() *move.CompiledScript {
	return lc.script
}

// ModuleHandle returns the script's module handle at idx.
func (lc *LinkedCode) ModuleHandle(idx move.ModuleHandleIndex) (move.ModuleHandle, error) {
	return lc.script.ModuleHandle(idx)
}

// Identifier returns the script's identifier at idx.
func (lc *LinkedCode) Identifier(idx move.IdentifierIndex) (string, error) {
	return lc.script.Identifier(idx)
}

// FunctionHandle returns the script's function handle at idx.
func (lc *LinkedCode) FunctionHandle(idx move.FunctionHandleIndex) (move.FunctionHandle, error) {
	return lc.script.FunctionHandle(idx)
}

// Module returns the module a script handle resolved to.
func (lc *LinkedCode) Module(h move.ModuleHandle) (*move.CompiledModule, bool) {
	m, ok := lc.modules[h]
	return m, ok
}

// ModuleName returns the name of the module handle at idx, resolved
// through the script's identifier pool.
func (lc *LinkedCode) ModuleName(idx move.ModuleHandleIndex) (string, error) {
	h, err := lc.ModuleHandle(idx)
	if err != nil {
		return "", err
	}
	return lc.Identifier(h.Name)
}

// Modules returns the resolved script handles in declaration order.
func (lc *LinkedCode) Modules() []move.ModuleHandle {
	out := make([]move.ModuleHandle, 0, len(lc.modules))
	seen := make(map[move.ModuleHandle]bool, len(lc.modules))
	for _, h := range lc.script.ModuleHandles {
		if _, ok := lc.modules[h]; ok && !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	return out
}

// FunctionName returns the name of the function handle at idx.
func (lc *LinkedCode) FunctionName(idx move.FunctionHandleIndex) (string, error) {
	fh, err := lc.FunctionHandle(idx)
	if err != nil {
		return "", err
	}
	return lc.Identifier(fh.Name)
}

// ResolveFunction finds the definition of the function handle at idx.
//
// The owning module handle is looked up in the link mapping; the function
// is then matched by name, comparing the module's own identifier with the
// script's. A module that is not linked, or that does not define the name,
// yields ErrModuleMissing. A native definition yields ErrInvalidModule.
func (lc *LinkedCode) ResolveFunction(idx move.FunctionHandleIndex) (*Function, error) {
	fh, err := lc.FunctionHandle(idx)
	if err != nil {
		return nil, err
	}
	name, err := lc.Identifier(fh.Name)
	if err != nil {
		return nil, err
	}
	mh, err := lc.ModuleHandle(fh.Module)
	if err != nil {
		return nil, err
	}
	id, err := lc.script.ModuleID(mh)
	if err != nil {
		return nil, err
	}

	m, ok := lc.modules[mh]
	if !ok {
		return nil, errors.ModuleMissing(id.String(), name)
	}
	return findFunction(m, id, name)
}

// ResolveFrom resolves the function handle at idx of module m, as used by a
// Call inside one of m's function bodies. Handles are resolved through m's
// pools; the target is m itself or a supplied module with that identity,
// whether or not the script declares it.
func (lc *LinkedCode) ResolveFrom(m *move.CompiledModule, idx move.FunctionHandleIndex) (*Function, error) {
	fh, err := m.FunctionHandle(idx)
	if err != nil {
		return nil, err
	}
	name, err := m.Identifier(fh.Name)
	if err != nil {
		return nil, err
	}
	id, err := m.ModuleIDAt(fh.Module)
	if err != nil {
		return nil, err
	}

	self, err := m.SelfID()
	if err != nil {
		return nil, err
	}
	if id.Equal(self) {
		return findFunction(m, id, name)
	}
	target, ok := lc.moduleByID(id)
	if !ok {
		return nil, errors.ModuleMissing(id.String(), name)
	}
	return findFunction(target, id, name)
}

// moduleByID returns the supplied module with the given identity. As in
// Resolve, the later of two duplicates wins.
func (lc *LinkedCode) moduleByID(id move.ModuleID) (*move.CompiledModule, bool) {
	for i := len(lc.supplied) - 1; i >= 0; i-- {
		m := lc.supplied[i]
		if m == nil {
			continue
		}
		self, err := m.SelfID()
		if err == nil && self.Equal(id) {
			return m, true
		}
	}
	return nil, false
}

func findFunction(m *move.CompiledModule, id move.ModuleID, name string) (*Function, error) {
	for i, def := range m.FunctionDefs {
		fname, err := m.FunctionName(def)
		if err != nil {
			// A definition whose name does not resolve cannot be the target.
			Logger().Debug("skipping malformed function definition",
				zap.Stringer("module", id),
				zap.Int("definition", i),
				zap.Error(err))
			continue
		}
		if fname != name {
			continue
		}
		if def.Code == nil {
			return nil, errors.InvalidModule(id.String(), name)
		}
		return &Function{
			Module:     m,
			Code:       def.Code,
			ModuleID:   id,
			Name:       name,
			Definition: def,
		}, nil
	}
	return nil, errors.ModuleMissing(id.String(), name)
}

// ResolveCall returns the code unit a Call to the function handle at idx
// would execute.
func (lc *LinkedCode) ResolveCall(idx move.FunctionHandleIndex) (*move.CodeUnit, error) {
	f, err := lc.ResolveFunction(idx)
	if err != nil {
		return nil, err
	}
	return f.Code, nil
}

// ResolveConstant returns the script's constant at idx.
func (lc *LinkedCode) ResolveConstant(idx move.ConstantPoolIndex) (move.Constant, error) {
	return lc.script.Constant(idx)
}

// ConstantBytes extracts a vector<u8> constant. Other constant types fail
// with ErrNotByteVector. An empty vector yields an empty, non-nil slice,
// not a missing value.
func (lc *LinkedCode) ConstantBytes(c move.Constant) ([]byte, error) {
	return c.Bytes()
}
