package evm_test

import (
	"bytes"
	stderrors "errors"
	"math/big"
	"strings"
	"testing"

	"github.com/wippyai/move-evm/errors"
	"github.com/wippyai/move-evm/evm"
)

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   evm.Opcode
		want string
	}{
		{evm.STOP, "STOP"},
		{evm.MLOAD, "MLOAD"},
		{evm.PUSH1, "PUSH1"},
		{evm.PUSH2, "PUSH2"},
		{evm.PUSH32, "PUSH32"},
		{evm.DUP1 + 2, "DUP3"},
		{evm.SWAP16, "SWAP16"},
		{evm.LOG0, "LOG0"},
		{0x0C, "UNKNOWN(0x0c)"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestOpcodeFamilies(t *testing.T) {
	tests := []struct {
		op    evm.Opcode
		arity int
		push  bool
	}{
		{evm.PUSH1, 1, true},
		{evm.PUSH2, 2, true},
		{evm.PUSH32, 32, true},
		{evm.DUP1, 1, false},
		{evm.SWAP16, 16, false},
		{evm.LOG0, 0, false},
		{evm.MSTORE, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			if got := tt.op.Arity(); got != tt.arity {
				t.Errorf("Arity() = %d, want %d", got, tt.arity)
			}
			if got := tt.op.IsPush(); got != tt.push {
				t.Errorf("IsPush() = %v, want %v", got, tt.push)
			}
			if tt.push && tt.op.PushSize() != tt.arity {
				t.Errorf("PushSize() = %d, want %d", tt.op.PushSize(), tt.arity)
			}
		})
	}
	if evm.PUSH2 != evm.PUSH1+1 {
		t.Errorf("PUSH2 = %#x, want PUSH1+1", byte(evm.PUSH2))
	}
}

func TestPushBig(t *testing.T) {
	tests := []struct {
		name string
		v    *big.Int
		op   evm.Opcode
		data []byte
	}{
		{"zero", big.NewInt(0), evm.PUSH1, []byte{0x00}},
		{"one byte", big.NewInt(0x2a), evm.PUSH1, []byte{0x2a}},
		{"two bytes", big.NewInt(0x0100), evm.PUSH2, []byte{0x01, 0x00}},
		{"u64 max", new(big.Int).SetUint64(^uint64(0)), evm.PUSH1 + 7, bytes.Repeat([]byte{0xff}, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evm.PushBig(tt.v)
			if got.Op != tt.op {
				t.Errorf("op = %s, want %s", got.Op, tt.op)
			}
			if !bytes.Equal(got.Data, tt.data) {
				t.Errorf("data = %x, want %x", got.Data, tt.data)
			}
		})
	}
}

func TestAssembleDisassemble(t *testing.T) {
	code := []evm.Instruction{
		evm.Op(evm.DUP1),
		evm.PushUint(0x2a),
		evm.PushUint(0x1234),
		evm.Op(evm.MSTORE),
		evm.Op(evm.STOP),
	}
	data, err := evm.Assemble(code)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x80, 0x60, 0x2a, 0x61, 0x12, 0x34, 0x52, 0x00}
	if !bytes.Equal(data, want) {
		t.Fatalf("Assemble = %x, want %x", data, want)
	}

	located, err := evm.Disassemble(data)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	offsets := []int{0, 1, 3, 6, 7}
	if len(located) != len(offsets) {
		t.Fatalf("got %d instructions, want %d", len(located), len(offsets))
	}
	for i, l := range located {
		if l.Offset != offsets[i] {
			t.Errorf("instr %d offset = %d, want %d", i, l.Offset, offsets[i])
		}
		if l.Instr.String() != code[i].String() {
			t.Errorf("instr %d = %s, want %s", i, l.Instr, code[i])
		}
	}

	relocated := evm.Locate(code)
	for i := range relocated {
		if relocated[i].Offset != offsets[i] {
			t.Errorf("Locate offset %d = %d, want %d", i, relocated[i].Offset, offsets[i])
		}
	}
}

func TestAssembleRejectsBadImmediate(t *testing.T) {
	bad := []evm.Instruction{{Op: evm.PUSH2, Data: []byte{0x01}}}
	if _, err := evm.Assemble(bad); err == nil {
		t.Error("expected error for short PUSH2 immediate")
	}
	bad = []evm.Instruction{{Op: evm.POP, Data: []byte{0x01}}}
	if _, err := evm.Assemble(bad); err == nil {
		t.Error("expected error for immediate on POP")
	}
}

func TestDisassembleTruncatedPush(t *testing.T) {
	_, err := evm.Disassemble([]byte{0x00, 0x62, 0x01})
	if err == nil {
		t.Fatal("expected error")
	}
	decodeErr := &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData}
	if !stderrors.Is(err, decodeErr) {
		t.Errorf("expected decode invalid_data, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	located, err := evm.Disassemble([]byte{0x60, 0x2a, 0x80, 0x91, 0xa2, 0x51, 0x00})
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	var buf bytes.Buffer
	if err := evm.Format(&buf, located); err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := strings.Join([]string{
		"0x0 PUSH 0x2a",
		"0x2 DUP 0x1",
		"0x3 SWAP 0x2",
		"0x4 LOG 0x2",
		"0x5 MLOAD",
		"0x6 STOP",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("Format =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestFormatPushZero(t *testing.T) {
	line := evm.FormatLine(evm.Located{Instr: evm.PushUint(0)})
	if line != "0x0 PUSH 0x0" {
		t.Errorf("FormatLine = %q", line)
	}
}
