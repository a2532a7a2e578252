// Package linker resolves a Move script's module handles against a set of
// compiled modules and answers symbol queries over the result.
//
// # Main Types
//
//   - Resolve: matches declared handles to candidate modules by (address, name)
//   - LinkedCode: a script plus its immutable handle-to-module mapping
//   - Function: a call target resolved into its defining module
//
// # Resolution
//
// Handles are compared structurally: each side is resolved through its own
// binary's pools and the resulting address bytes and name strings must be
// equal. Index equality across binaries means nothing.
//
// Resolution is lazy about failure. An unmatched handle is simply absent
// from the mapping; the error surfaces when a call through it is resolved:
//
//  1. Owning module not linked: ErrModuleMissing
//  2. Linked module does not define the name: ErrModuleMissing
//  3. Definition is native: ErrInvalidModule
//
// Check reports every unresolved call in one pass.
//
// # Example
//
//	lc, _ := linker.New(script, modules)
//	code, err := lc.ResolveCall(0)
//	if errors.Is(err, linker.ErrModuleMissing) {
//	    // supply the module
//	}
package linker
