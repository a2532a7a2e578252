package move

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/wippyai/move-evm/errors"
	"github.com/wippyai/move-evm/move/internal/binary"
)

// Header errors returned (wrapped) by DecodeScript and DecodeModule.
var (
	ErrInvalidMagic   = stderrors.New("invalid move magic number")
	ErrInvalidVersion = stderrors.New("unsupported move binary version")
)

// DecodeOption configures decoding.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	addressLength int
	maxVersion    uint32
}

// WithAddressLength sets the account address width in bytes (16 or 32).
// Non-positive values keep the default.
func WithAddressLength(n int) DecodeOption {
	return func(c *decodeConfig) {
		if n > 0 {
			c.addressLength = n
		}
	}
}

// WithMaxVersion caps the accepted binary version.
func WithMaxVersion(v uint32) DecodeOption {
	return func(c *decodeConfig) {
		c.maxVersion = v
	}
}

func newDecodeConfig(opts []DecodeOption) decodeConfig {
	cfg := decodeConfig{addressLength: DefaultAddressLength, maxVersion: VersionMax}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type tableHeader struct {
	kind   TableKind
	offset uint32
	length uint32
}

type decoder struct {
	cfg decodeConfig
}

// DecodeScript decodes a compiled script. On failure no partial script is
// returned; the error is an *errors.Error with PhaseDecode.
func DecodeScript(data []byte, opts ...DecodeOption) (*CompiledScript, error) {
	d := &decoder{cfg: newDecodeConfig(opts)}
	r := binary.NewReader(data)

	version, err := d.readHeader(r)
	if err != nil {
		return nil, err
	}

	s := &CompiledScript{Version: version}
	err = d.readTables(r, func(kind TableKind, tr *binary.Reader) error {
		if kind == TableStructDefs || kind == TableFunctionDefs {
			return errors.InvalidData(errors.PhaseDecode, []string{kind.String()},
				"table not allowed in a script")
		}
		return d.readSharedTable(kind, tr, &s.Tables)
	})
	if err != nil {
		return nil, err
	}

	if s.TypeParameters, err = d.readAbilityList(r); err != nil {
		return nil, decodeError("script", err)
	}
	params, err := r.ReadU16()
	if err != nil {
		return nil, decodeError("script", err)
	}
	s.Parameters = SignatureIndex(params)

	code, err := d.readCodeUnit(r)
	if err != nil {
		return nil, decodeError("script.code", err)
	}
	s.Code = *code

	if r.Len() != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"script"},
			fmt.Sprintf("%d trailing bytes", r.Len()))
	}
	return s, nil
}

// DecodeModule decodes a compiled module. On failure no partial module is
// returned; the error is an *errors.Error with PhaseDecode.
func DecodeModule(data []byte, opts ...DecodeOption) (*CompiledModule, error) {
	d := &decoder{cfg: newDecodeConfig(opts)}
	r := binary.NewReader(data)

	version, err := d.readHeader(r)
	if err != nil {
		return nil, err
	}

	m := &CompiledModule{Version: version}
	err = d.readTables(r, func(kind TableKind, tr *binary.Reader) error {
		switch kind {
		case TableStructDefs:
			return d.readStructDefs(tr, m)
		case TableFunctionDefs:
			return d.readFunctionDefs(tr, m)
		}
		return d.readSharedTable(kind, tr, &m.Tables)
	})
	if err != nil {
		return nil, err
	}

	self, err := r.ReadU16()
	if err != nil {
		return nil, decodeError("module.self_handle", err)
	}
	m.SelfModuleHandleIdx = ModuleHandleIndex(self)
	if int(self) >= len(m.ModuleHandles) {
		return nil, errors.OutOfBounds(errors.PhaseDecode, []string{"module", "self_handle"},
			int(self), len(m.ModuleHandles))
	}

	if r.Len() != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"module"},
			fmt.Sprintf("%d trailing bytes", r.Len()))
	}
	return m, nil
}

func decodeError(section string, err error) error {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Phase == errors.PhaseDecode {
		return err
	}
	kind := errors.KindInvalidData
	if stderrors.Is(err, binary.ErrOverflow) {
		kind = errors.KindOverflow
	}
	return errors.New(errors.PhaseDecode, kind).
		Path(section).
		Cause(err).
		Build()
}

func (d *decoder) readHeader(r *binary.Reader) (uint32, error) {
	magic, err := r.ReadU32LE()
	if err != nil {
		return 0, decodeError("header", r.WrapError("header", err))
	}
	if magic != Magic {
		return 0, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, ErrInvalidMagic, "header")
	}
	version, err := r.ReadU32LE()
	if err != nil {
		return 0, decodeError("header", r.WrapError("header", err))
	}
	if version < VersionMin || version > d.cfg.maxVersion {
		return 0, errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Path("header").
			Value(version).
			Detail("version %d not in [%d, %d]", version, VersionMin, d.cfg.maxVersion).
			Cause(ErrInvalidVersion).
			Build()
	}
	return version, nil
}

// readTables reads the table directory and the table contents, then hands
// every table to fn in directory order.
func (d *decoder) readTables(r *binary.Reader, fn func(TableKind, *binary.Reader) error) error {
	count, err := r.ReadULEB(uint64(len(tableNames)))
	if err != nil {
		return decodeError("table_directory", r.WrapError("table count", err))
	}

	headers := make([]tableHeader, 0, count)
	seen := make(map[TableKind]bool, count)
	for i := uint64(0); i < count; i++ {
		kind, err := r.ReadByte()
		if err != nil {
			return decodeError("table_directory", r.WrapError("table kind", err))
		}
		k := TableKind(kind)
		if _, ok := tableNames[k]; !ok {
			return errors.New(errors.PhaseDecode, errors.KindUnsupported).
				Path("table_directory").
				Value(kind).
				Detail("unknown table kind 0x%02x", kind).
				Build()
		}
		if seen[k] {
			return errors.InvalidData(errors.PhaseDecode, []string{"table_directory"},
				"duplicate table "+k.String())
		}
		seen[k] = true

		offset, err := r.ReadU32()
		if err != nil {
			return decodeError("table_directory", r.WrapError("table offset", err))
		}
		length, err := r.ReadU32()
		if err != nil {
			return decodeError("table_directory", r.WrapError("table length", err))
		}
		headers = append(headers, tableHeader{kind: k, offset: offset, length: length})
	}

	// Tables must be laid out back to back with no gaps.
	sorted := append([]tableHeader(nil), headers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].offset < sorted[j].offset })
	var end uint64
	for _, h := range sorted {
		if uint64(h.offset) != end {
			return errors.InvalidData(errors.PhaseDecode, []string{"table_directory", h.kind.String()},
				fmt.Sprintf("table at offset %d, expected %d", h.offset, end))
		}
		end += uint64(h.length)
	}
	if end > uint64(r.Len()) {
		return errors.InvalidData(errors.PhaseDecode, []string{"table_directory"},
			fmt.Sprintf("tables span %d bytes, only %d available", end, r.Len()))
	}

	blob, err := r.ReadBytes(int(end))
	if err != nil {
		return decodeError("tables", err)
	}

	for _, h := range headers {
		tr := binary.NewReader(blob[h.offset : h.offset+h.length])
		if err := fn(h.kind, tr); err != nil {
			return decodeError(h.kind.String(), err)
		}
	}
	return nil
}

func (d *decoder) readSharedTable(kind TableKind, r *binary.Reader, t *Tables) error {
	switch kind {
	case TableModuleHandles:
		for r.Len() > 0 {
			addr, err := r.ReadU16()
			if err != nil {
				return err
			}
			name, err := r.ReadU16()
			if err != nil {
				return err
			}
			t.ModuleHandles = append(t.ModuleHandles, ModuleHandle{
				Address: AddressIdentifierIndex(addr),
				Name:    IdentifierIndex(name),
			})
		}
	case TableStructHandles:
		for r.Len() > 0 {
			mod, err := r.ReadU16()
			if err != nil {
				return err
			}
			name, err := r.ReadU16()
			if err != nil {
				return err
			}
			abilities, err := r.ReadByte()
			if err != nil {
				return err
			}
			tps, err := d.readAbilityList(r)
			if err != nil {
				return err
			}
			t.StructHandles = append(t.StructHandles, StructHandle{
				Module:         ModuleHandleIndex(mod),
				Name:           IdentifierIndex(name),
				Abilities:      AbilitySet(abilities),
				TypeParameters: tps,
			})
		}
	case TableFunctionHandles:
		for r.Len() > 0 {
			var fh FunctionHandle
			var idx [4]uint16
			for i := range idx {
				v, err := r.ReadU16()
				if err != nil {
					return err
				}
				idx[i] = v
			}
			fh.Module = ModuleHandleIndex(idx[0])
			fh.Name = IdentifierIndex(idx[1])
			fh.Parameters = SignatureIndex(idx[2])
			fh.Return = SignatureIndex(idx[3])
			tps, err := d.readAbilityList(r)
			if err != nil {
				return err
			}
			fh.TypeParameters = tps
			t.FunctionHandles = append(t.FunctionHandles, fh)
		}
	case TableFieldHandles:
		for r.Len() > 0 {
			owner, err := r.ReadU16()
			if err != nil {
				return err
			}
			field, err := r.ReadU16()
			if err != nil {
				return err
			}
			t.FieldHandles = append(t.FieldHandles, FieldHandle{Owner: StructDefinitionIndex(owner), Field: field})
		}
	case TableSignatures:
		for r.Len() > 0 {
			n, err := r.ReadULEB(TableIndexMax)
			if err != nil {
				return err
			}
			sig := make(Signature, 0, n)
			for i := uint64(0); i < n; i++ {
				tok, err := d.readToken(r, 0)
				if err != nil {
					return err
				}
				sig = append(sig, tok)
			}
			t.Signatures = append(t.Signatures, sig)
		}
	case TableConstantPool:
		for r.Len() > 0 {
			tok, err := d.readToken(r, 0)
			if err != nil {
				return err
			}
			n, err := r.ReadU32()
			if err != nil {
				return err
			}
			data, err := r.ReadBytes(int(n))
			if err != nil {
				return err
			}
			t.ConstantPool = append(t.ConstantPool, Constant{Type: tok, Data: data})
		}
	case TableIdentifiers:
		for r.Len() > 0 {
			pos := r.Position()
			name, err := r.ReadName()
			if err != nil {
				if stderrors.Is(err, binary.ErrInvalidUTF8) {
					return errors.InvalidUTF8(errors.PhaseDecode,
						[]string{"identifiers", strconv.Itoa(len(t.Identifiers))}, nil)
				}
				return r.WrapError("identifier at "+strconv.Itoa(pos), err)
			}
			t.Identifiers = append(t.Identifiers, name)
		}
	case TableAddressIdentifiers:
		if r.Len()%d.cfg.addressLength != 0 {
			return errors.InvalidData(errors.PhaseDecode, []string{"address_identifiers"},
				fmt.Sprintf("table length %d is not a multiple of address length %d", r.Len(), d.cfg.addressLength))
		}
		for r.Len() > 0 {
			a, err := r.ReadBytes(d.cfg.addressLength)
			if err != nil {
				return err
			}
			t.AddressIdentifiers = append(t.AddressIdentifiers, Address(a))
		}
	default:
		// Generic instantiation and friend tables are not modelled; their
		// indices still decode as plain immediates.
	}
	return nil
}

func (d *decoder) readAbilityList(r *binary.Reader) ([]AbilitySet, error) {
	n, err := r.ReadULEB(TableIndexMax)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]AbilitySet, n)
	for i := range out {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		out[i] = AbilitySet(b)
	}
	return out, nil
}

func (d *decoder) readToken(r *binary.Reader, depth int) (SignatureToken, error) {
	if depth > maxSignatureDepth {
		return SignatureToken{}, errors.InvalidData(errors.PhaseDecode, []string{"signature"}, "nesting too deep")
	}
	tag, err := r.ReadByte()
	if err != nil {
		return SignatureToken{}, err
	}
	switch tag {
	case tagBool:
		return Bool, nil
	case tagU8:
		return U8, nil
	case tagU64:
		return U64, nil
	case tagU128:
		return U128, nil
	case tagAddress:
		return Addr, nil
	case tagSigner:
		return Signer, nil
	case tagReference, tagMutReference, tagVector:
		inner, err := d.readToken(r, depth+1)
		if err != nil {
			return SignatureToken{}, err
		}
		kind := map[byte]TokenKind{
			tagReference:    TokenReference,
			tagMutReference: TokenMutableReference,
			tagVector:       TokenVector,
		}[tag]
		return SignatureToken{Kind: kind, Inner: &inner}, nil
	case tagStruct:
		h, err := r.ReadU16()
		if err != nil {
			return SignatureToken{}, err
		}
		return StructOf(StructHandleIndex(h)), nil
	case tagTypeParameter:
		p, err := r.ReadU16()
		if err != nil {
			return SignatureToken{}, err
		}
		return SignatureToken{Kind: TokenTypeParameter, TypeParameter: p}, nil
	case tagStructInst:
		h, err := r.ReadU16()
		if err != nil {
			return SignatureToken{}, err
		}
		n, err := r.ReadULEB(TableIndexMax)
		if err != nil {
			return SignatureToken{}, err
		}
		args := make([]SignatureToken, 0, n)
		for i := uint64(0); i < n; i++ {
			a, err := d.readToken(r, depth+1)
			if err != nil {
				return SignatureToken{}, err
			}
			args = append(args, a)
		}
		return SignatureToken{Kind: TokenStructInstantiation, Struct: StructHandleIndex(h), TypeArgs: args}, nil
	}
	return SignatureToken{}, errors.New(errors.PhaseDecode, errors.KindUnsupported).
		Path("signature").
		Value(tag).
		Detail("unknown signature token 0x%02x", tag).
		Build()
}

func (d *decoder) readStructDefs(r *binary.Reader, m *CompiledModule) error {
	for r.Len() > 0 {
		h, err := r.ReadU16()
		if err != nil {
			return err
		}
		def := StructDefinition{StructHandle: StructHandleIndex(h)}
		tag, err := r.ReadByte()
		if err != nil {
			return err
		}
		switch tag {
		case fieldsNative:
			def.Native = true
		case fieldsDeclared:
			n, err := r.ReadULEB(TableIndexMax)
			if err != nil {
				return err
			}
			def.Fields = make([]FieldDefinition, 0, n)
			for i := uint64(0); i < n; i++ {
				name, err := r.ReadU16()
				if err != nil {
					return err
				}
				tok, err := d.readToken(r, 0)
				if err != nil {
					return err
				}
				def.Fields = append(def.Fields, FieldDefinition{Name: IdentifierIndex(name), Type: tok})
			}
		default:
			return errors.InvalidData(errors.PhaseDecode,
				[]string{"struct_defs", strconv.Itoa(len(m.StructDefs))},
				fmt.Sprintf("unknown field information tag 0x%02x", tag))
		}
		m.StructDefs = append(m.StructDefs, def)
	}
	return nil
}

func (d *decoder) readFunctionDefs(r *binary.Reader, m *CompiledModule) error {
	for r.Len() > 0 {
		fh, err := r.ReadU16()
		if err != nil {
			return err
		}
		vis, err := r.ReadByte()
		if err != nil {
			return err
		}
		if vis > byte(VisibilityFriend) {
			return errors.InvalidData(errors.PhaseDecode,
				[]string{"function_defs", strconv.Itoa(len(m.FunctionDefs))},
				fmt.Sprintf("unknown visibility 0x%02x", vis))
		}
		flags, err := r.ReadByte()
		if err != nil {
			return err
		}
		def := FunctionDefinition{
			Function:   FunctionHandleIndex(fh),
			Visibility: Visibility(vis),
			IsEntry:    flags&flagEntry != 0,
		}

		n, err := r.ReadULEB(TableIndexMax)
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			s, err := r.ReadU16()
			if err != nil {
				return err
			}
			def.AcquiresGlobal = append(def.AcquiresGlobal, StructDefinitionIndex(s))
		}

		if flags&flagNative == 0 {
			code, err := d.readCodeUnit(r)
			if err != nil {
				return err
			}
			def.Code = code
		}
		m.FunctionDefs = append(m.FunctionDefs, def)
	}
	return nil
}

func (d *decoder) readCodeUnit(r *binary.Reader) (*CodeUnit, error) {
	locals, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	n, err := r.ReadULEB(TableIndexMax)
	if err != nil {
		return nil, err
	}
	cu := &CodeUnit{Locals: SignatureIndex(locals), Code: make([]Bytecode, 0, n)}
	for i := uint64(0); i < n; i++ {
		instr, err := d.readInstruction(r)
		if err != nil {
			return nil, err
		}
		cu.Code = append(cu.Code, instr)
	}
	return cu, nil
}

func (d *decoder) readInstruction(r *binary.Reader) (Bytecode, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Bytecode{}, err
	}
	op := Opcode(b)
	info, ok := opcodes[op]
	if !ok {
		return Bytecode{}, errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Path("code").
			Value(b).
			Detail("unknown opcode 0x%02x at position %d", b, r.Position()-1).
			Build()
	}

	instr := Bytecode{Opcode: op}
	switch info.operand {
	case operandU8, operandLocal:
		v, err := r.ReadByte()
		if err != nil {
			return Bytecode{}, err
		}
		instr.Imm = uint64(v)
	case operandU64:
		v, err := r.ReadU64LE()
		if err != nil {
			return Bytecode{}, err
		}
		instr.Imm = v
	case operandU128:
		le, err := r.ReadBytes(16)
		if err != nil {
			return Bytecode{}, err
		}
		instr.Wide = leToBig(le)
	case operandIndex, operandOffset:
		v, err := r.ReadU16()
		if err != nil {
			return Bytecode{}, err
		}
		instr.Imm = uint64(v)
	}
	return instr, nil
}
