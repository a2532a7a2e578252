package move

import (
	"github.com/wippyai/move-evm/errors"
	"github.com/wippyai/move-evm/move/internal/binary"
)

type encodedTable struct {
	kind TableKind
	data []byte
}

// Encode serializes the script to its binary form. Empty tables are omitted
// from the table directory.
func (s *CompiledScript) Encode() ([]byte, error) {
	tables, err := encodeShared(&s.Tables)
	if err != nil {
		return nil, err
	}

	w := binary.NewWriter()
	writeHeader(w, s.Version)
	writeTables(w, tables)
	writeAbilityList(w, s.TypeParameters)
	w.WriteU16(uint16(s.Parameters))
	if err := writeCodeUnit(w, &s.Code); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Encode serializes the module to its binary form.
func (m *CompiledModule) Encode() ([]byte, error) {
	tables, err := encodeShared(&m.Tables)
	if err != nil {
		return nil, err
	}

	if len(m.StructDefs) > 0 {
		w := binary.NewWriter()
		for _, def := range m.StructDefs {
			w.WriteU16(uint16(def.StructHandle))
			if def.Native {
				w.Byte(fieldsNative)
				continue
			}
			w.Byte(fieldsDeclared)
			w.WriteULEB(uint64(len(def.Fields)))
			for _, f := range def.Fields {
				w.WriteU16(uint16(f.Name))
				writeToken(w, f.Type)
			}
		}
		tables = append(tables, encodedTable{TableStructDefs, w.Bytes()})
	}

	if len(m.FunctionDefs) > 0 {
		w := binary.NewWriter()
		for _, def := range m.FunctionDefs {
			w.WriteU16(uint16(def.Function))
			w.Byte(byte(def.Visibility))
			var flags byte
			if def.Code == nil {
				flags |= flagNative
			}
			if def.IsEntry {
				flags |= flagEntry
			}
			w.Byte(flags)
			w.WriteULEB(uint64(len(def.AcquiresGlobal)))
			for _, s := range def.AcquiresGlobal {
				w.WriteU16(uint16(s))
			}
			if def.Code != nil {
				if err := writeCodeUnit(w, def.Code); err != nil {
					return nil, err
				}
			}
		}
		tables = append(tables, encodedTable{TableFunctionDefs, w.Bytes()})
	}

	w := binary.NewWriter()
	writeHeader(w, m.Version)
	writeTables(w, tables)
	w.WriteU16(uint16(m.SelfModuleHandleIdx))
	return w.Bytes(), nil
}

func writeHeader(w *binary.Writer, version uint32) {
	if version == 0 {
		version = VersionMax
	}
	w.WriteU32LE(Magic)
	w.WriteU32LE(version)
}

func writeTables(w *binary.Writer, tables []encodedTable) {
	w.WriteULEB(uint64(len(tables)))
	var offset uint64
	for _, t := range tables {
		w.Byte(byte(t.kind))
		w.WriteULEB(offset)
		w.WriteULEB(uint64(len(t.data)))
		offset += uint64(len(t.data))
	}
	for _, t := range tables {
		w.WriteBytes(t.data)
	}
}

func encodeShared(t *Tables) ([]encodedTable, error) {
	var out []encodedTable
	add := func(kind TableKind, n int, fn func(w *binary.Writer)) {
		if n == 0 {
			return
		}
		w := binary.NewWriter()
		fn(w)
		out = append(out, encodedTable{kind, w.Bytes()})
	}

	add(TableModuleHandles, len(t.ModuleHandles), func(w *binary.Writer) {
		for _, h := range t.ModuleHandles {
			w.WriteU16(uint16(h.Address))
			w.WriteU16(uint16(h.Name))
		}
	})
	add(TableStructHandles, len(t.StructHandles), func(w *binary.Writer) {
		for _, h := range t.StructHandles {
			w.WriteU16(uint16(h.Module))
			w.WriteU16(uint16(h.Name))
			w.Byte(byte(h.Abilities))
			writeAbilityList(w, h.TypeParameters)
		}
	})
	add(TableFunctionHandles, len(t.FunctionHandles), func(w *binary.Writer) {
		for _, h := range t.FunctionHandles {
			w.WriteU16(uint16(h.Module))
			w.WriteU16(uint16(h.Name))
			w.WriteU16(uint16(h.Parameters))
			w.WriteU16(uint16(h.Return))
			writeAbilityList(w, h.TypeParameters)
		}
	})
	add(TableSignatures, len(t.Signatures), func(w *binary.Writer) {
		for _, sig := range t.Signatures {
			w.WriteULEB(uint64(len(sig)))
			for _, tok := range sig {
				writeToken(w, tok)
			}
		}
	})
	add(TableConstantPool, len(t.ConstantPool), func(w *binary.Writer) {
		for _, c := range t.ConstantPool {
			writeToken(w, c.Type)
			w.WriteULEB(uint64(len(c.Data)))
			w.WriteBytes(c.Data)
		}
	})
	add(TableIdentifiers, len(t.Identifiers), func(w *binary.Writer) {
		for _, id := range t.Identifiers {
			w.WriteName(id)
		}
	})

	if len(t.AddressIdentifiers) > 0 {
		width := len(t.AddressIdentifiers[0])
		for i, a := range t.AddressIdentifiers {
			if len(a) != width {
				return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
					Path("address_identifiers").
					Value(i).
					Detail("address %d is %d bytes, expected %d", i, len(a), width).
					Build()
			}
		}
	}
	add(TableAddressIdentifiers, len(t.AddressIdentifiers), func(w *binary.Writer) {
		for _, a := range t.AddressIdentifiers {
			w.WriteBytes(a)
		}
	})
	add(TableFieldHandles, len(t.FieldHandles), func(w *binary.Writer) {
		for _, h := range t.FieldHandles {
			w.WriteU16(uint16(h.Owner))
			w.WriteU16(h.Field)
		}
	})
	return out, nil
}

func writeAbilityList(w *binary.Writer, list []AbilitySet) {
	w.WriteULEB(uint64(len(list)))
	for _, a := range list {
		w.Byte(byte(a))
	}
}

func writeToken(w *binary.Writer, tok SignatureToken) {
	switch tok.Kind {
	case TokenBool:
		w.Byte(tagBool)
	case TokenU8:
		w.Byte(tagU8)
	case TokenU64:
		w.Byte(tagU64)
	case TokenU128:
		w.Byte(tagU128)
	case TokenAddress:
		w.Byte(tagAddress)
	case TokenSigner:
		w.Byte(tagSigner)
	case TokenReference, TokenMutableReference, TokenVector:
		tag := tagVector
		if tok.Kind == TokenReference {
			tag = tagReference
		} else if tok.Kind == TokenMutableReference {
			tag = tagMutReference
		}
		w.Byte(tag)
		inner := U8
		if tok.Inner != nil {
			inner = *tok.Inner
		}
		writeToken(w, inner)
	case TokenStruct:
		w.Byte(tagStruct)
		w.WriteU16(uint16(tok.Struct))
	case TokenTypeParameter:
		w.Byte(tagTypeParameter)
		w.WriteU16(tok.TypeParameter)
	case TokenStructInstantiation:
		w.Byte(tagStructInst)
		w.WriteU16(uint16(tok.Struct))
		w.WriteULEB(uint64(len(tok.TypeArgs)))
		for _, a := range tok.TypeArgs {
			writeToken(w, a)
		}
	}
}

func writeCodeUnit(w *binary.Writer, cu *CodeUnit) error {
	w.WriteU16(uint16(cu.Locals))
	w.WriteULEB(uint64(len(cu.Code)))
	for i, instr := range cu.Code {
		info, ok := opcodes[instr.Opcode]
		if !ok {
			return errors.New(errors.PhaseEncode, errors.KindUnsupported).
				Path("code").
				Value(i).
				Detail("unknown opcode 0x%02x at offset %d", byte(instr.Opcode), i).
				Build()
		}
		w.Byte(byte(instr.Opcode))
		switch info.operand {
		case operandU8, operandLocal:
			w.Byte(byte(instr.Imm))
		case operandU64:
			w.WriteU64LE(instr.Imm)
		case operandU128:
			v, _ := instr.Literal()
			w.WriteBytes(bigToLE(v, 16))
		case operandIndex, operandOffset:
			w.WriteU16(uint16(instr.Imm))
		}
	}
	return nil
}
