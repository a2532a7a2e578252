package move

// Binary header
const (
	// Magic is the 4-byte prefix of every Move binary (0xA11CEB0B).
	Magic uint32 = 0x0BEB1CA1

	// VersionMin and VersionMax bound the binary format versions this package reads.
	VersionMin uint32 = 1
	VersionMax uint32 = 2

	// DefaultAddressLength is the account address width of Libra-era
	// binaries. Later chains use 32; see WithAddressLength.
	DefaultAddressLength = 16

	// TableIndexMax is the largest pool or table index the format allows.
	TableIndexMax = 0xFFFF
)

// TableKind identifies a table in the binary table directory.
type TableKind byte

const (
	TableModuleHandles      TableKind = 0x01
	TableStructHandles      TableKind = 0x02
	TableFunctionHandles    TableKind = 0x03
	TableFunctionInst       TableKind = 0x04
	TableSignatures         TableKind = 0x05
	TableConstantPool       TableKind = 0x06
	TableIdentifiers        TableKind = 0x07
	TableAddressIdentifiers TableKind = 0x08
	TableStructDefs         TableKind = 0x0A
	TableStructDefInst      TableKind = 0x0B
	TableFunctionDefs       TableKind = 0x0C
	TableFieldHandles       TableKind = 0x0D
	TableFieldInst          TableKind = 0x0E
	TableFriendDecls        TableKind = 0x0F
)

var tableNames = map[TableKind]string{
	TableModuleHandles:      "module_handles",
	TableStructHandles:      "struct_handles",
	TableFunctionHandles:    "function_handles",
	TableFunctionInst:       "function_instantiations",
	TableSignatures:         "signatures",
	TableConstantPool:       "constant_pool",
	TableIdentifiers:        "identifiers",
	TableAddressIdentifiers: "address_identifiers",
	TableStructDefs:         "struct_defs",
	TableStructDefInst:      "struct_def_instantiations",
	TableFunctionDefs:       "function_defs",
	TableFieldHandles:       "field_handles",
	TableFieldInst:          "field_instantiations",
	TableFriendDecls:        "friend_decls",
}

func (k TableKind) String() string {
	if s, ok := tableNames[k]; ok {
		return s
	}
	return "table_unknown"
}

// Signature token tags
const (
	tagBool           byte = 0x01
	tagU8             byte = 0x02
	tagU64            byte = 0x03
	tagU128           byte = 0x04
	tagAddress        byte = 0x05
	tagReference      byte = 0x06
	tagMutReference   byte = 0x07
	tagStruct         byte = 0x08
	tagTypeParameter  byte = 0x09
	tagVector         byte = 0x0A
	tagStructInst     byte = 0x0B
	tagSigner         byte = 0x0C
	maxSignatureDepth      = 256
)

// Struct field information tags
const (
	fieldsNative   byte = 0x01
	fieldsDeclared byte = 0x02
)

// Function definition flags
const (
	flagNative byte = 0x02
	flagEntry  byte = 0x04
)

// Visibility of a function definition.
type Visibility byte

const (
	VisibilityPrivate Visibility = 0x00
	VisibilityPublic  Visibility = 0x01
	VisibilityScript  Visibility = 0x02
	VisibilityFriend  Visibility = 0x03
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityPublic:
		return "public"
	case VisibilityScript:
		return "public(script)"
	case VisibilityFriend:
		return "public(friend)"
	}
	return "visibility_unknown"
}

// Opcode is a Move bytecode opcode.
type Opcode byte

const (
	OpPop                    Opcode = 0x01
	OpRet                    Opcode = 0x02
	OpBrTrue                 Opcode = 0x03
	OpBrFalse                Opcode = 0x04
	OpBranch                 Opcode = 0x05
	OpLdU64                  Opcode = 0x06
	OpLdConst                Opcode = 0x07
	OpLdTrue                 Opcode = 0x08
	OpLdFalse                Opcode = 0x09
	OpCopyLoc                Opcode = 0x0A
	OpMoveLoc                Opcode = 0x0B
	OpStLoc                  Opcode = 0x0C
	OpMutBorrowLoc           Opcode = 0x0D
	OpImmBorrowLoc           Opcode = 0x0E
	OpMutBorrowField         Opcode = 0x0F
	OpImmBorrowField         Opcode = 0x10
	OpCall                   Opcode = 0x11
	OpPack                   Opcode = 0x12
	OpUnpack                 Opcode = 0x13
	OpReadRef                Opcode = 0x14
	OpWriteRef               Opcode = 0x15
	OpAdd                    Opcode = 0x16
	OpSub                    Opcode = 0x17
	OpMul                    Opcode = 0x18
	OpMod                    Opcode = 0x19
	OpDiv                    Opcode = 0x1A
	OpBitOr                  Opcode = 0x1B
	OpBitAnd                 Opcode = 0x1C
	OpXor                    Opcode = 0x1D
	OpOr                     Opcode = 0x1E
	OpAnd                    Opcode = 0x1F
	OpNot                    Opcode = 0x20
	OpEq                     Opcode = 0x21
	OpNeq                    Opcode = 0x22
	OpLt                     Opcode = 0x23
	OpGt                     Opcode = 0x24
	OpLe                     Opcode = 0x25
	OpGe                     Opcode = 0x26
	OpAbort                  Opcode = 0x27
	OpNop                    Opcode = 0x28
	OpExists                 Opcode = 0x29
	OpMutBorrowGlobal        Opcode = 0x2A
	OpImmBorrowGlobal        Opcode = 0x2B
	OpMoveFrom               Opcode = 0x2C
	OpMoveTo                 Opcode = 0x2D
	OpFreezeRef              Opcode = 0x2E
	OpShl                    Opcode = 0x2F
	OpShr                    Opcode = 0x30
	OpLdU8                   Opcode = 0x31
	OpLdU128                 Opcode = 0x32
	OpCastU8                 Opcode = 0x33
	OpCastU64                Opcode = 0x34
	OpCastU128               Opcode = 0x35
	OpMutBorrowFieldGeneric  Opcode = 0x36
	OpImmBorrowFieldGeneric  Opcode = 0x37
	OpCallGeneric            Opcode = 0x38
	OpPackGeneric            Opcode = 0x39
	OpUnpackGeneric          Opcode = 0x3A
	OpExistsGeneric          Opcode = 0x3B
	OpMutBorrowGlobalGeneric Opcode = 0x3C
	OpImmBorrowGlobalGeneric Opcode = 0x3D
	OpMoveFromGeneric        Opcode = 0x3E
	OpMoveToGeneric          Opcode = 0x3F
)

// operand describes the immediate an opcode carries in the binary.
type operand byte

const (
	operandNone   operand = iota
	operandU8             // raw byte literal
	operandU64            // 8-byte little-endian literal
	operandU128           // 16-byte little-endian literal
	operandLocal          // u8 local slot
	operandIndex          // ULEB128 table index
	operandOffset         // ULEB128 code offset
)

type opcodeInfo struct {
	name    string
	operand operand
}

var opcodes = map[Opcode]opcodeInfo{
	OpPop:                    {"Pop", operandNone},
	OpRet:                    {"Ret", operandNone},
	OpBrTrue:                 {"BrTrue", operandOffset},
	OpBrFalse:                {"BrFalse", operandOffset},
	OpBranch:                 {"Branch", operandOffset},
	OpLdU64:                  {"LdU64", operandU64},
	OpLdConst:                {"LdConst", operandIndex},
	OpLdTrue:                 {"LdTrue", operandNone},
	OpLdFalse:                {"LdFalse", operandNone},
	OpCopyLoc:                {"CopyLoc", operandLocal},
	OpMoveLoc:                {"MoveLoc", operandLocal},
	OpStLoc:                  {"StLoc", operandLocal},
	OpMutBorrowLoc:           {"MutBorrowLoc", operandLocal},
	OpImmBorrowLoc:           {"ImmBorrowLoc", operandLocal},
	OpMutBorrowField:         {"MutBorrowField", operandIndex},
	OpImmBorrowField:         {"ImmBorrowField", operandIndex},
	OpCall:                   {"Call", operandIndex},
	OpPack:                   {"Pack", operandIndex},
	OpUnpack:                 {"Unpack", operandIndex},
	OpReadRef:                {"ReadRef", operandNone},
	OpWriteRef:               {"WriteRef", operandNone},
	OpAdd:                    {"Add", operandNone},
	OpSub:                    {"Sub", operandNone},
	OpMul:                    {"Mul", operandNone},
	OpMod:                    {"Mod", operandNone},
	OpDiv:                    {"Div", operandNone},
	OpBitOr:                  {"BitOr", operandNone},
	OpBitAnd:                 {"BitAnd", operandNone},
	OpXor:                    {"Xor", operandNone},
	OpOr:                     {"Or", operandNone},
	OpAnd:                    {"And", operandNone},
	OpNot:                    {"Not", operandNone},
	OpEq:                     {"Eq", operandNone},
	OpNeq:                    {"Neq", operandNone},
	OpLt:                     {"Lt", operandNone},
	OpGt:                     {"Gt", operandNone},
	OpLe:                     {"Le", operandNone},
	OpGe:                     {"Ge", operandNone},
	OpAbort:                  {"Abort", operandNone},
	OpNop:                    {"Nop", operandNone},
	OpExists:                 {"Exists", operandIndex},
	OpMutBorrowGlobal:        {"MutBorrowGlobal", operandIndex},
	OpImmBorrowGlobal:        {"ImmBorrowGlobal", operandIndex},
	OpMoveFrom:               {"MoveFrom", operandIndex},
	OpMoveTo:                 {"MoveTo", operandIndex},
	OpFreezeRef:              {"FreezeRef", operandNone},
	OpShl:                    {"Shl", operandNone},
	OpShr:                    {"Shr", operandNone},
	OpLdU8:                   {"LdU8", operandU8},
	OpLdU128:                 {"LdU128", operandU128},
	OpCastU8:                 {"CastU8", operandNone},
	OpCastU64:                {"CastU64", operandNone},
	OpCastU128:               {"CastU128", operandNone},
	OpMutBorrowFieldGeneric:  {"MutBorrowFieldGeneric", operandIndex},
	OpImmBorrowFieldGeneric:  {"ImmBorrowFieldGeneric", operandIndex},
	OpCallGeneric:            {"CallGeneric", operandIndex},
	OpPackGeneric:            {"PackGeneric", operandIndex},
	OpUnpackGeneric:          {"UnpackGeneric", operandIndex},
	OpExistsGeneric:          {"ExistsGeneric", operandIndex},
	OpMutBorrowGlobalGeneric: {"MutBorrowGlobalGeneric", operandIndex},
	OpImmBorrowGlobalGeneric: {"ImmBorrowGlobalGeneric", operandIndex},
	OpMoveFromGeneric:        {"MoveFromGeneric", operandIndex},
	OpMoveToGeneric:          {"MoveToGeneric", operandIndex},
}

// String returns the opcode mnemonic.
func (op Opcode) String() string {
	if info, ok := opcodes[op]; ok {
		return info.name
	}
	return "Unknown"
}

// Known reports whether op is an opcode this package can decode.
func (op Opcode) Known() bool {
	_, ok := opcodes[op]
	return ok
}
