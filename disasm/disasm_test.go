package disasm

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/move-evm/linker"
	"github.com/wippyai/move-evm/move"
	"github.com/wippyai/move-evm/move/movetest"
)

func link(t *testing.T, s *movetest.Script, mods ...*movetest.Module) *linker.LinkedCode {
	t.Helper()
	compiled := make([]*move.CompiledModule, len(mods))
	for i, m := range mods {
		compiled[i] = m.Build()
	}
	lc, err := linker.New(s.Build(), compiled)
	if err != nil {
		t.Fatalf("linker.New: %v", err)
	}
	return lc
}

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestDisassemble_Registry(t *testing.T) {
	reg := movetest.NewModule(0xA, "Registry").
		Function("get", move.InstrImm(move.OpCopyLoc, 0), move.Instr(move.OpRet))
	s := movetest.NewScript().Call(0xA, "Registry", "get")

	r, err := Disassemble(link(t, s, reg))
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	if got := strings.Join(texts(r.Script), ","); got != "Call(0)" {
		t.Errorf("script = %s", got)
	}
	if len(r.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(r.Calls))
	}
	c := r.Calls[0]
	if c.Name != "get" || c.Module != "Registry" || c.Address != "0xa" {
		t.Errorf("call = %+v", c)
	}
	if got := strings.Join(texts(c.Body), ","); got != "CopyLoc(0),Ret" {
		t.Errorf("body = %s, want CopyLoc(0),Ret", got)
	}
	if len(r.Modules) != 0 {
		t.Errorf("expected empty struct summary, got %+v", r.Modules)
	}
}

func TestDisassemble_CallPerOccurrence(t *testing.T) {
	reg := movetest.NewModule(0xA, "Registry").
		Function("get", move.Instr(move.OpRet))
	s := movetest.NewScript().
		Call(0xA, "Registry", "get").
		Emit(move.Instr(move.OpPop)).
		Call(0xA, "Registry", "get")

	r, err := Disassemble(link(t, s, reg))
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(r.Calls) != 2 {
		t.Fatalf("expected 2 call entries, got %d", len(r.Calls))
	}
	if r.Calls[0].Offset != 0 || r.Calls[1].Offset != 2 {
		t.Errorf("call offsets = %d, %d", r.Calls[0].Offset, r.Calls[1].Offset)
	}
}

func TestDisassemble_StructSummary(t *testing.T) {
	coin := movetest.NewModule(0x1, "Coin").
		Struct("Coin", movetest.Field{Name: "value", Type: move.U64}).
		NativeStruct("Handle").
		Struct("Info", movetest.Field{Name: "owner", Type: move.Addr}, movetest.Field{Name: "data", Type: move.ByteVec})
	coin.Function("mint",
		move.InstrImm(move.OpPack, 2),
		move.InstrImm(move.OpMoveTo, 0),
		move.InstrImm(move.OpExists, 2),
		move.Instr(move.OpRet))
	coin.Function("burn",
		move.InstrImm(move.OpUnpack, 0),
		move.InstrImm(move.OpImmBorrowGlobal, 1),
		move.Instr(move.OpRet))

	s := movetest.NewScript().
		Call(0x1, "Coin", "mint").
		Call(0x1, "Coin", "burn")

	r, err := Disassemble(link(t, s, coin))
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(r.Modules) != 1 || r.Modules[0].Module != "Coin" {
		t.Fatalf("modules = %+v", r.Modules)
	}
	structs := r.Modules[0].Structs
	if len(structs) != 3 {
		t.Fatalf("expected 3 deduplicated structs, got %d", len(structs))
	}
	for i, want := range []string{"Coin", "Handle", "Info"} {
		if structs[i].Index != uint16(i) || structs[i].Name != want {
			t.Errorf("struct %d = %d %s, want %d %s", i, structs[i].Index, structs[i].Name, i, want)
		}
	}
	if !structs[1].Native || len(structs[1].Fields) != 0 {
		t.Errorf("Handle should be native: %+v", structs[1])
	}
	info := structs[2].Fields
	if len(info) != 2 || info[0].Type != "address" || info[1].Type != "vector<u8>" {
		t.Errorf("Info fields = %+v", info)
	}
}

func TestDisassemble_FailFast(t *testing.T) {
	reg := movetest.NewModule(0xA, "Registry").
		Function("get", move.Instr(move.OpRet)).
		Native("put")
	tests := []struct {
		want   error
		script *movetest.Script
		name   string
	}{
		{linker.ErrModuleMissing, movetest.NewScript().Call(0xA, "Registry", "get").Call(0xB, "Other", "f"), "unlinked module"},
		{linker.ErrModuleMissing, movetest.NewScript().Call(0xA, "Registry", "nope"), "unknown name"},
		{linker.ErrInvalidModule, movetest.NewScript().Call(0xA, "Registry", "get").Call(0xA, "Registry", "put"), "native"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Disassemble(link(t, tt.script, reg))
			if r != nil {
				t.Error("expected no partial report")
			}
			if !stderrors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDisassemble_StructOutOfBounds(t *testing.T) {
	reg := movetest.NewModule(0xA, "Registry").
		Function("get", move.InstrImm(move.OpPack, 4), move.Instr(move.OpRet))
	s := movetest.NewScript().Call(0xA, "Registry", "get")

	_, err := Disassemble(link(t, s, reg))
	if !stderrors.Is(err, linker.ErrOutOfBounds) {
		t.Errorf("expected out_of_bounds, got %v", err)
	}
}

func TestDisassemble_Empty(t *testing.T) {
	lc := linker.NewScriptOnly(movetest.NewScript().Build())
	r, err := Disassemble(lc)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(r.Script) != 0 || len(r.Calls) != 0 || len(r.Modules) != 0 {
		t.Errorf("expected empty report, got %+v", r)
	}

	var buf bytes.Buffer
	if err := Render(&buf, r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.String() != "\nCall Data\n\n\nModule Data\n\n" {
		t.Errorf("Render = %q", buf.String())
	}
}

func TestDisassemble_Deterministic(t *testing.T) {
	build := func() *linker.LinkedCode {
		a := movetest.NewModule(0x1, "A").
			Struct("S0").Struct("S1").Struct("S2").
			Function("f", move.InstrImm(move.OpMoveFrom, 2), move.InstrImm(move.OpPack, 0), move.Instr(move.OpRet))
		b := movetest.NewModule(0x2, "B").
			Struct("T", movetest.Field{Name: "x", Type: move.U128}).
			Function("g", move.InstrImm(move.OpMutBorrowGlobal, 0), move.Instr(move.OpRet))
		s := movetest.NewScript().
			Call(0x2, "B", "g").
			Call(0x1, "A", "f").
			Call(0x2, "B", "g").
			Emit(move.Instr(move.OpRet))
		return link(t, s, a, b)
	}

	var text [2]bytes.Buffer
	var wire [2][]byte
	for i := range text {
		r, err := Disassemble(build())
		if err != nil {
			t.Fatalf("Disassemble: %v", err)
		}
		if err := Render(&text[i], r); err != nil {
			t.Fatalf("Render: %v", err)
		}
		if wire[i], err = Marshal(r); err != nil {
			t.Fatalf("Marshal: %v", err)
		}
	}
	if text[0].String() != text[1].String() {
		t.Errorf("text output differs:\n%s\n---\n%s", text[0].String(), text[1].String())
	}
	if !bytes.Equal(wire[0], wire[1]) {
		t.Error("CBOR output differs between runs")
	}

	want := `Call(0)
Call(1)
Call(0)
Ret

Call Data

0 - g:
  MutBorrowGlobal(0)
  Ret

1 - f:
  MoveFrom(2)
  Pack(0)
  Ret

0 - g:
  MutBorrowGlobal(0)
  Ret


Module Data

B:
  0: T
      x: u128
A:
  0: S0
  2: S2
`
	if text[0].String() != want {
		t.Errorf("Render =\n%s\nwant\n%s", text[0].String(), want)
	}
}

func TestRender_SameNameModules(t *testing.T) {
	registry := func(addr uint64) *movetest.Module {
		return movetest.NewModule(addr, "Registry").
			Struct("Entry", movetest.Field{Name: "key", Type: move.U64}).
			Function("get", move.InstrImm(move.OpPack, 0), move.Instr(move.OpRet))
	}
	s := movetest.NewScript().
		Call(0xA, "Registry", "get").
		Call(0xB, "Registry", "get")

	r, err := Disassemble(link(t, s, registry(0xA), registry(0xB)))
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(r.Modules) != 2 {
		t.Fatalf("expected 2 module groups, got %d", len(r.Modules))
	}

	var buf bytes.Buffer
	if err := Render(&buf, r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "Module Data\n\n" +
		"0xa::Registry:\n  0: Entry\n      key: u64\n" +
		"0xb::Registry:\n  0: Entry\n      key: u64\n"
	if !strings.HasSuffix(buf.String(), want) {
		t.Errorf("Render =\n%s\nwant suffix\n%s", buf.String(), want)
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	reg := movetest.NewModule(0xA, "Registry").
		Struct("Entry", movetest.Field{Name: "key", Type: move.U64}).
		Function("get", move.InstrImm(move.OpImmBorrowGlobal, 0), move.Instr(move.OpRet))
	r, err := Disassemble(link(t, movetest.NewScript().Call(0xA, "Registry", "get"), reg))
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	var want, got bytes.Buffer
	_ = Render(&want, r)
	_ = Render(&got, back)
	if want.String() != got.String() {
		t.Errorf("decoded report renders differently:\n%s\n---\n%s", got.String(), want.String())
	}

	if _, err := Unmarshal([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error for malformed CBOR")
	}
}

func TestDisassembleScript(t *testing.T) {
	s := movetest.NewScript().
		Emit(move.InstrImm(move.OpLdU64, 10)).
		Call(0xA, "Registry", "get").
		Emit(move.Instr(move.OpRet))
	lines := DisassembleScript(linker.NewScriptOnly(s.Build()))

	want := []string{"LdU64(10)", "Call(0)", "Ret"}
	got := texts(lines)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("listing = %v, want %v", got, want)
	}

	var buf bytes.Buffer
	if err := RenderScript(&buf, lines); err != nil {
		t.Fatalf("RenderScript: %v", err)
	}
	if buf.String() != "LdU64(10)\nCall(0)\nRet\n" {
		t.Errorf("RenderScript = %q", buf.String())
	}
}
