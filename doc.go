// Package moveevm links, disassembles and lowers Move bytecode.
//
// A compiled Move script references external modules only by symbolic
// handles. This library resolves those handles against a set of compiled
// modules, lists the script's call graph, and lowers a subset of the
// bytecode to EVM instructions.
//
// # Architecture Overview
//
//	moveevm/             Root package: Load and LoadFiles
//	├── move/            Move binary format: object model, decoder, encoder
//	├── evm/             EVM opcodes, assembler and disassembler
//	├── linker/          Module resolution and symbol lookups (LinkedCode)
//	├── disasm/          Call-graph report, text and CBOR rendering
//	├── transpiler/      Move to EVM lowering with inlined calls
//	├── errors/          Structured error types
//	└── cmd/moveasm/     Command line tool and interactive browser
//
// # Quick Start
//
//	lc, err := moveevm.Load(scriptBytes, [][]byte{registryBytes})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := disasm.Disassemble(lc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	disasm.Render(os.Stdout, report)
//
//	code, err := transpiler.Lower(lc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bytecode, _ := evm.Assemble(code)
//
// # Errors
//
// Every package reports failures as *errors.Error values carrying a phase
// and a kind. Use errors.Is with the package sentinels:
//
//	if errors.Is(err, linker.ErrModuleMissing) {
//	    // supply the module that declares the call target
//	}
//
// # Logging
//
// The linker and transpiler log through zap at debug level. Both use a
// no-op logger until SetLogger is called.
package moveevm
