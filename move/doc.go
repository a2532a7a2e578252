// Package move provides Move bytecode binary parsing and encoding.
//
// A Move binary is either a script (one entry code unit) or a module (a
// named collection of struct and function definitions). Both share a set of
// pools and handle tables; every cross reference is an index into the
// binary's own pools, so a handle only becomes meaningful when resolved
// through the tables of the binary that contains it.
//
// # Binary Layout
//
//	magic        u32 LE   0xA11CEB0B (bytes A1 1C EB 0B)
//	version      u32 LE   1..2
//	table count  uleb128
//	directory    (kind u8, offset uleb128, length uleb128)*
//	tables       contiguous table contents
//	trailer      script:  type parameters, parameters, code unit
//	             module:  self module handle index
//
// Entries of a table are read until its bytes are exhausted. Generic
// instantiation and friend tables are accepted and skipped.
//
// # Parsing
//
//	script, err := move.DecodeScript(data)
//	module, err := move.DecodeModule(data, move.WithAddressLength(32))
//
// Decoding never returns a partially populated value; every failure is an
// *errors.Error in the decode phase.
//
// # Encoding
//
//	data, err := script.Encode()
//
// # Lookups
//
// Tables exposes bounds-checked accessors (Identifier, Address,
// FunctionHandle, Constant, ...). An index past the end of a pool yields an
// out_of_bounds error instead of a panic.
package move
