package move_test

import (
	stderrors "errors"
	"math/big"
	"testing"

	"github.com/wippyai/move-evm/errors"
	"github.com/wippyai/move-evm/move"
	"github.com/wippyai/move-evm/move/internal/binary"
	"github.com/wippyai/move-evm/move/movetest"
)

var header = []byte{0xA1, 0x1C, 0xEB, 0x0B, 0x02, 0x00, 0x00, 0x00}

func withHeader(rest ...byte) []byte {
	return append(append([]byte(nil), header...), rest...)
}

func TestDecodeMinimalScript(t *testing.T) {
	// no tables, no type params, params sig 0, locals sig 0, empty code
	data := withHeader(0x00, 0x00, 0x00, 0x00, 0x00)
	s, err := move.DecodeScript(data)
	if err != nil {
		t.Fatalf("DecodeScript: %v", err)
	}
	if s.Version != 2 {
		t.Errorf("version = %d, want 2", s.Version)
	}
	if len(s.Code.Code) != 0 {
		t.Errorf("expected empty code unit, got %d instructions", len(s.Code.Code))
	}
	if len(s.ModuleHandles) != 0 {
		t.Errorf("expected no module handles, got %d", len(s.ModuleHandles))
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		script bool
		kind   errors.Kind
		cause  error
	}{
		{
			name:   "truncated header",
			data:   []byte{0xA1, 0x1C},
			script: true,
			kind:   errors.KindInvalidData,
		},
		{
			name:   "invalid magic",
			data:   []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00, 0x00},
			script: true,
			kind:   errors.KindInvalidData,
			cause:  move.ErrInvalidMagic,
		},
		{
			name:   "version too new",
			data:   []byte{0xA1, 0x1C, 0xEB, 0x0B, 0x07, 0x00, 0x00, 0x00, 0x00},
			script: true,
			kind:   errors.KindUnsupported,
			cause:  move.ErrInvalidVersion,
		},
		{
			name:   "version zero",
			data:   []byte{0xA1, 0x1C, 0xEB, 0x0B, 0x00, 0x00, 0x00, 0x00, 0x00},
			script: true,
			kind:   errors.KindUnsupported,
			cause:  move.ErrInvalidVersion,
		},
		{
			name:   "table count overflow",
			data:   withHeader(0x7F),
			script: true,
			kind:   errors.KindOverflow,
			cause:  binary.ErrOverflow,
		},
		{
			name:   "unknown table kind",
			data:   withHeader(0x01, 0x09, 0x00, 0x00),
			script: true,
			kind:   errors.KindUnsupported,
		},
		{
			name:   "duplicate table",
			data:   withHeader(0x02, 0x07, 0x00, 0x00, 0x07, 0x00, 0x00),
			script: true,
			kind:   errors.KindInvalidData,
		},
		{
			name:   "table gap",
			data:   withHeader(0x01, 0x07, 0x01, 0x00),
			script: true,
			kind:   errors.KindInvalidData,
		},
		{
			name:   "table past end",
			data:   withHeader(0x01, 0x07, 0x00, 0x10),
			script: true,
			kind:   errors.KindInvalidData,
		},
		{
			name:   "function defs in script",
			data:   withHeader(0x01, 0x0C, 0x00, 0x00),
			script: true,
			kind:   errors.KindInvalidData,
		},
		{
			name:   "unknown opcode",
			data:   withHeader(0x00, 0x00, 0x00, 0x00, 0x01, 0x55),
			script: true,
			kind:   errors.KindUnsupported,
		},
		{
			name:   "truncated operand",
			data:   withHeader(0x00, 0x00, 0x00, 0x00, 0x01, byte(move.OpLdU64), 0x01),
			script: true,
			kind:   errors.KindInvalidData,
		},
		{
			name:   "trailing bytes",
			data:   withHeader(0x00, 0x00, 0x00, 0x00, 0x00, 0xFF),
			script: true,
			kind:   errors.KindInvalidData,
		},
		{
			name: "module without self handle",
			data: withHeader(0x00, 0x00),
			kind: errors.KindOutOfBounds,
		},
		{
			name: "module missing self handle index",
			data: withHeader(0x00),
			kind: errors.KindInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.script {
				var s *move.CompiledScript
				s, err = move.DecodeScript(tt.data)
				if s != nil {
					t.Error("expected nil script on error")
				}
			} else {
				var m *move.CompiledModule
				m, err = move.DecodeModule(tt.data)
				if m != nil {
					t.Error("expected nil module on error")
				}
			}
			if err == nil {
				t.Fatal("expected error")
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %T: %v", err, err)
			}
			if e.Phase != errors.PhaseDecode {
				t.Errorf("phase = %s, want %s", e.Phase, errors.PhaseDecode)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %s, want %s (%v)", e.Kind, tt.kind, err)
			}
			if tt.cause != nil && !stderrors.Is(err, tt.cause) {
				t.Errorf("expected errors.Is(err, %v)", tt.cause)
			}
		})
	}
}

func TestScriptEncodeDecode(t *testing.T) {
	wide, _ := new(big.Int).SetString("1180591620717411303424", 10) // 2^70
	b := movetest.NewScript()
	c := b.Constant(move.ByteVectorConstant([]byte("hello")))
	b.Emit(
		move.InstrImm(move.OpLdU8, 7),
		move.InstrImm(move.OpLdU64, 1<<40),
		move.LdU128(wide),
		move.InstrImm(move.OpLdConst, uint64(c)),
		move.InstrImm(move.OpStLoc, 3),
	)
	b.Call(0xA, "Registry", "get")
	b.Emit(move.Instr(move.OpRet))

	data := b.MustEncode()
	s, err := move.DecodeScript(data)
	if err != nil {
		t.Fatalf("DecodeScript: %v", err)
	}

	want := []string{"LdU8(7)", "LdU64(1099511627776)", "LdU128(1180591620717411303424)", "LdConst(0)", "StLoc(3)", "Call(0)", "Ret"}
	if len(s.Code.Code) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(s.Code.Code), len(want))
	}
	for i, w := range want {
		if got := s.Code.Code[i].String(); got != w {
			t.Errorf("instr %d = %s, want %s", i, got, w)
		}
	}

	fh, err := s.FunctionHandle(0)
	if err != nil {
		t.Fatalf("FunctionHandle: %v", err)
	}
	name, err := s.Identifier(fh.Name)
	if err != nil || name != "get" {
		t.Errorf("function name = %q, %v", name, err)
	}
	id, err := s.ModuleIDAt(fh.Module)
	if err != nil {
		t.Fatalf("ModuleIDAt: %v", err)
	}
	if id.String() != "0xa::Registry" {
		t.Errorf("module id = %s, want 0xa::Registry", id)
	}

	k, err := s.Constant(c)
	if err != nil {
		t.Fatalf("Constant: %v", err)
	}
	got, err := k.Bytes()
	if err != nil || string(got) != "hello" {
		t.Errorf("constant bytes = %q, %v", got, err)
	}
}

func TestModuleEncodeDecode(t *testing.T) {
	b := movetest.NewModule(0x1, "Coin").
		Struct("T", movetest.Field{Name: "value", Type: move.U64}).
		NativeStruct("Handle").
		Function("mint", move.InstrImm(move.OpPack, 0), move.Instr(move.OpRet)).
		Native("burn")

	m, err := move.DecodeModule(b.MustEncode())
	if err != nil {
		t.Fatalf("DecodeModule: %v", err)
	}

	id, err := m.SelfID()
	if err != nil {
		t.Fatalf("SelfID: %v", err)
	}
	if id.String() != "0x1::Coin" {
		t.Errorf("self id = %s", id)
	}

	if len(m.StructDefs) != 2 {
		t.Fatalf("expected 2 struct defs, got %d", len(m.StructDefs))
	}
	if m.StructDefs[0].Native || len(m.StructDefs[0].Fields) != 1 {
		t.Errorf("struct 0 = %+v", m.StructDefs[0])
	}
	if !m.StructDefs[1].Native {
		t.Error("struct 1 should be native")
	}
	if ty := m.TypeString(move.StructOf(m.StructDefs[0].StructHandle)); ty != "0x1::Coin::T" {
		t.Errorf("type string = %s", ty)
	}

	if len(m.FunctionDefs) != 2 {
		t.Fatalf("expected 2 function defs, got %d", len(m.FunctionDefs))
	}
	if m.FunctionDefs[0].Code == nil || len(m.FunctionDefs[0].Code.Code) != 2 {
		t.Errorf("mint code = %+v", m.FunctionDefs[0].Code)
	}
	if m.FunctionDefs[1].Code != nil {
		t.Error("native burn should have no code unit")
	}
	name, err := m.FunctionName(m.FunctionDefs[1])
	if err != nil || name != "burn" {
		t.Errorf("FunctionName = %q, %v", name, err)
	}
}

func TestWithAddressLength(t *testing.T) {
	data := movetest.NewModuleWidth(0xCAFE, "Wide", 32).MustEncode()

	m, err := move.DecodeModule(data, move.WithAddressLength(32))
	if err != nil {
		t.Fatalf("DecodeModule: %v", err)
	}
	if len(m.AddressIdentifiers) != 1 || len(m.AddressIdentifiers[0]) != 32 {
		t.Fatalf("address pool = %v", m.AddressIdentifiers)
	}
	if got := m.AddressIdentifiers[0].String(); got != "0xcafe" {
		t.Errorf("address = %s, want 0xcafe", got)
	}

	// 32 bytes of addresses are not a multiple of 24.
	if _, err := move.DecodeModule(data, move.WithAddressLength(24)); err == nil {
		t.Error("expected error for mismatched address length")
	}
}

func TestWithMaxVersion(t *testing.T) {
	data := withHeader(0x00, 0x00, 0x00, 0x00, 0x00)
	if _, err := move.DecodeScript(data, move.WithMaxVersion(1)); err == nil {
		t.Error("expected version 2 to be rejected with max version 1")
	}
}
