package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/wippyai/move-evm/disasm"
	"github.com/wippyai/move-evm/move"
	"github.com/wippyai/move-evm/move/movetest"
)

func disableColor(t *testing.T) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

// fixture writes a Registry module to a temp dir and returns the script
// (as hex) calling it and the module path.
func fixture(t *testing.T) (scriptHex, modulePath string) {
	t.Helper()
	reg := movetest.NewModule(0xA, "Registry").
		Function("get", move.InstrImm(move.OpCopyLoc, 0), move.Instr(move.OpRet))
	s := movetest.NewScript().
		Emit(move.InstrImm(move.OpLdU8, 7)).
		Call(0xA, "Registry", "get").
		Emit(move.Instr(move.OpRet))

	modulePath = filepath.Join(t.TempDir(), "registry.mv")
	if err := os.WriteFile(modulePath, reg.MustEncode(), 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}
	return "0x" + hex.EncodeToString(s.MustEncode()), modulePath
}

func TestBytesFromHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"plain", "600a", []byte{0x60, 0x0a}, false},
		{"lower prefix", "0x600a", []byte{0x60, 0x0a}, false},
		{"upper prefix", "0X600A", []byte{0x60, 0x0a}, false},
		{"whitespace", "  0x01\n", []byte{0x01}, false},
		{"empty", "", []byte{}, false},
		{"odd length", "0x123", nil, true},
		{"not hex", "zz", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bytesFromHex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("bytesFromHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, tt.want) {
				t.Errorf("bytesFromHex(%q) = %x, want %x", tt.input, got, tt.want)
			}
		})
	}
}

func TestModuleList(t *testing.T) {
	var m moduleList
	if err := m.Set("a.mv, b.mv"); err != nil {
		t.Fatal(err)
	}
	if err := m.Set("c.mv"); err != nil {
		t.Fatal(err)
	}
	if got := m.String(); got != "a.mv,b.mv,c.mv" {
		t.Errorf("moduleList = %q", got)
	}
}

func TestSelectMode(t *testing.T) {
	if m, err := selectMode(false, false, false, false, false); err != nil || m != modeMove {
		t.Errorf("default mode = %v, %v", m, err)
	}
	if m, err := selectMode(false, false, false, true, false); err != nil || m != modeLower {
		t.Errorf("lower mode = %v, %v", m, err)
	}
	if _, err := selectMode(true, false, true, false, false); err == nil {
		t.Error("expected error for two modes")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "moveasm.toml")
		content := `
[decode]
address_length = 32

[modules]
paths = ["lib/registry.mv", "/abs/store.mv"]

[output]
format = "cbor"
color = "never"
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Decode.AddressLength != 32 {
			t.Errorf("address_length = %d", cfg.Decode.AddressLength)
		}
		if cfg.Output.Format != "cbor" || cfg.Output.Color != "never" {
			t.Errorf("output = %+v", cfg.Output)
		}
		want := []string{filepath.Join(dir, "lib/registry.mv"), "/abs/store.mv"}
		if strings.Join(cfg.Modules.Paths, ",") != strings.Join(want, ",") {
			t.Errorf("paths = %v, want %v", cfg.Modules.Paths, want)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "moveasm.toml")
		if err := os.WriteFile(path, []byte("[decode]\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Output.Format != "text" || cfg.Output.Color != "auto" || cfg.Decode.AddressLength != 0 {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "moveasm.toml")
		if err := os.WriteFile(path, []byte("[output]\nformat = \"yaml\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for unknown format")
		}
	})

	t.Run("missing explicit", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing explicit config")
		}
	})
}

func TestRun(t *testing.T) {
	disableColor(t)
	scriptHex, modulePath := fixture(t)

	tests := []struct {
		name     string
		opts     options
		contains []string
		wantErr  bool
	}{
		{
			name:     "move",
			opts:     options{hexInput: scriptHex, modules: []string{modulePath}},
			contains: []string{"LdU8(7)\nCall(0)\nRet\n", "0 - get:\n  CopyLoc(0)\n  Ret\n", "Module Data"},
		},
		{
			name:     "script",
			opts:     options{hexInput: scriptHex, mode: modeScript},
			contains: []string{"LdU8(7)\nCall(0)\nRet\n"},
		},
		{
			name: "lower",
			opts: options{hexInput: scriptHex, modules: []string{modulePath}, mode: modeLower},
			contains: []string{
				"EVM code\n0x0 DUP 0x1\n0x1 PUSH 0x7\n",
				"0x9 STOP\n",
				"Hex\n0x80600760005260005100\n",
			},
		},
		{
			name:     "check ok",
			opts:     options{hexInput: scriptHex, modules: []string{modulePath}, mode: modeCheck},
			contains: []string{"all calls resolve"},
		},
		{
			name:    "file and hex",
			opts:    options{file: modulePath, hexInput: scriptHex},
			wantErr: true,
		},
		{
			name:     "check missing",
			opts:     options{hexInput: scriptHex, mode: modeCheck},
			contains: []string{"call at offset 1 to 0xa::Registry::get"},
			wantErr:  true,
		},
		{
			name:     "evm",
			opts:     options{hexInput: "0x602a600052", mode: modeEVM},
			contains: []string{"0x0 PUSH 0x2a\n0x2 PUSH 0x0\n0x4 MSTORE\n"},
		},
		{
			name:    "missing module",
			opts:    options{hexInput: scriptHex},
			wantErr: true,
		},
		{
			name:    "bad hex",
			opts:    options{hexInput: "0xzz"},
			wantErr: true,
		},
		{
			name:    "unknown format",
			opts:    options{hexInput: scriptHex, modules: []string{modulePath}, format: "yaml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := run(tt.opts, DefaultConfig(), &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("run error = %v, wantErr %v\noutput:\n%s", err, tt.wantErr, buf.String())
			}
			for _, s := range tt.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("output missing %q:\n%s", s, buf.String())
				}
			}
		})
	}
}

func TestRun_CBOR(t *testing.T) {
	scriptHex, modulePath := fixture(t)

	cfg := DefaultConfig()
	cfg.Output.Format = "cbor"
	cfg.Modules.Paths = []string{modulePath}

	var buf bytes.Buffer
	if err := run(options{hexInput: scriptHex}, cfg, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	r, err := disasm.Unmarshal(buf.Bytes())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(r.Calls) != 1 || r.Calls[0].Name != "get" {
		t.Errorf("calls = %+v", r.Calls)
	}
}

func TestBrowserModel(t *testing.T) {
	r := &disasm.Report{Calls: []disasm.Call{
		{Module: "Registry", Address: "0xa", Name: "get", Offset: 0, Body: []disasm.Line{{Text: "CopyLoc(0)"}}},
		{Module: "Store", Address: "0xb", Name: "put", Offset: 2, Body: []disasm.Line{{Text: "StLoc(1)"}}},
	}}
	m := newBrowserModel("test", r)
	if len(m.visible) != 2 {
		t.Fatalf("visible = %v", m.visible)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Errorf("selected = %d after down", m.selected)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("registry")})
	if len(m.visible) != 1 || m.visible[0] != 0 {
		t.Fatalf("visible = %v after filter", m.visible)
	}
	if m.selected != 0 {
		t.Errorf("selected = %d, want clamped to 0", m.selected)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateBody {
		t.Fatalf("state = %v, want body", m.state)
	}
	if view := m.View(); !strings.Contains(view, "CopyLoc(0)") {
		t.Errorf("body view missing instruction:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateList {
		t.Errorf("esc should return to list")
	}
}
