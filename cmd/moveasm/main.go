package main

import (
	"encoding/hex"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/term"

	moveevm "github.com/wippyai/move-evm"
	"github.com/wippyai/move-evm/disasm"
	"github.com/wippyai/move-evm/errors"
	"github.com/wippyai/move-evm/evm"
	"github.com/wippyai/move-evm/linker"
	"github.com/wippyai/move-evm/move"
	"github.com/wippyai/move-evm/transpiler"
)

type mode int

const (
	modeMove mode = iota
	modeScript
	modeEVM
	modeLower
	modeCheck
)

type options struct {
	file          string
	hexInput      string
	format        string
	modules       []string
	addressLength int
	mode          mode
	interactive   bool
}

// moduleList collects -m values; each value may hold several
// comma-separated paths.
type moduleList []string

func (m *moduleList) String() string {
	return strings.Join(*m, ",")
}

func (m *moduleList) Set(v string) error {
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*m = append(*m, p)
		}
	}
	return nil
}

var (
	red     = color.New(color.FgRed).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	heading = color.New(color.FgCyan, color.Bold).SprintFunc()
)

func main() {
	var modules moduleList
	var (
		file        = flag.String("f", "", "Input file (Move script, or EVM bytecode with -evm)")
		hexInput    = flag.String("x", "", "Input as hex, 0x prefix optional")
		evmMode     = flag.Bool("evm", false, "Disassemble EVM bytecode")
		moveMode    = flag.Bool("move", false, "Disassemble a linked Move script (default)")
		scriptMode  = flag.Bool("script", false, "List the Move script without linking")
		lowerMode   = flag.Bool("lower", false, "Transpile the Move script to EVM")
		checkMode   = flag.Bool("check", false, "Report every unresolved call")
		format      = flag.String("format", "", "Output format: text or cbor")
		addrLen     = flag.Int("addrlen", 0, "Address length in bytes")
		configPath  = flag.String("config", "", "Config file (default ./moveasm.toml)")
		interactive = flag.Bool("i", false, "Interactive call browser")
		verbose     = flag.Bool("v", false, "Debug logging")
	)
	flag.Var(&modules, "m", "Module file to link (repeatable, comma-separated)")
	flag.Parse()

	if *file == "" && *hexInput == "" {
		fmt.Fprintln(os.Stderr, "Usage: moveasm -f <script.mv> [-m module.mv,...] [-move|-script|-lower|-check] [-format text|cbor]")
		fmt.Fprintln(os.Stderr, "       moveasm -x <hex> -evm")
		fmt.Fprintln(os.Stderr, "       moveasm -f <script.mv> -m <module.mv> -i  (interactive mode)")
		os.Exit(1)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	setupColor(cfg.Output.Color)

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fatal(err)
		}
		defer logger.Sync() //nolint:errcheck
		linker.SetLogger(logger)
		transpiler.SetLogger(logger)
	}

	opts := options{
		file:          *file,
		hexInput:      *hexInput,
		format:        *format,
		modules:       modules,
		addressLength: *addrLen,
		interactive:   *interactive,
	}
	opts.mode, err = selectMode(*moveMode, *scriptMode, *evmMode, *lowerMode, *checkMode)
	if err != nil {
		fatal(err)
	}

	if err := run(opts, cfg, os.Stdout); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", red("Error: "+err.Error()))
	os.Exit(1)
}

func setupColor(mode string) {
	switch mode {
	case "never":
		color.NoColor = true
	case "always":
		color.NoColor = false
	default:
		color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func selectMode(moveMode, scriptMode, evmMode, lowerMode, checkMode bool) (mode, error) {
	selected := modeMove
	count := 0
	for _, m := range []struct {
		set  bool
		mode mode
	}{
		{moveMode, modeMove},
		{scriptMode, modeScript},
		{evmMode, modeEVM},
		{lowerMode, modeLower},
		{checkMode, modeCheck},
	} {
		if m.set {
			selected = m.mode
			count++
		}
	}
	if count > 1 {
		return 0, errors.InvalidInput(errors.PhaseParse, "choose one of -move, -script, -evm, -lower, -check")
	}
	return selected, nil
}

// bytesFromHex decodes hex input, accepting an optional 0x or 0X prefix and
// surrounding whitespace.
func bytesFromHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.ParseFailed("hex input", err)
	}
	return data, nil
}

func readInput(opts options) ([]byte, error) {
	if opts.file != "" && opts.hexInput != "" {
		return nil, errors.InvalidInput(errors.PhaseParse, "choose one of -f, -x")
	}
	if opts.hexInput != "" {
		return bytesFromHex(opts.hexInput)
	}
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func run(opts options, cfg *Config, w io.Writer) error {
	input, err := readInput(opts)
	if err != nil {
		return err
	}

	if opts.mode == modeEVM {
		code, err := evm.Disassemble(input)
		if err != nil {
			return fmt.Errorf("disassemble: %w", err)
		}
		return evm.Format(w, code)
	}

	var decodeOpts []move.DecodeOption
	addrLen := cfg.Decode.AddressLength
	if opts.addressLength != 0 {
		addrLen = opts.addressLength
	}
	if addrLen != 0 {
		decodeOpts = append(decodeOpts, move.WithAddressLength(addrLen))
	}

	if opts.mode == modeScript {
		s, err := move.DecodeScript(input, decodeOpts...)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		return disasm.RenderScript(w, disasm.DisassembleScript(linker.NewScriptOnly(s)))
	}

	paths := opts.modules
	if len(paths) == 0 {
		paths = cfg.Modules.Paths
	}
	lc, err := moveevm.LoadFiles(input, paths, decodeOpts...)
	if err != nil {
		return err
	}

	switch opts.mode {
	case modeLower:
		return lower(lc, w)
	case modeCheck:
		return check(lc, w)
	}

	r, err := disasm.Disassemble(lc)
	if err != nil {
		return fmt.Errorf("disassemble: %w", err)
	}
	if opts.interactive {
		return runInteractive(opts.file, r)
	}

	format := cfg.Output.Format
	if opts.format != "" {
		format = opts.format
	}
	switch format {
	case "cbor":
		data, err := disasm.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "text", "":
		return disasm.Render(w, r)
	default:
		return errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("unknown output format %q", format))
	}
}

func lower(lc *linker.LinkedCode, w io.Writer) error {
	code, err := transpiler.Lower(lc)
	if err != nil {
		return fmt.Errorf("lower: %w", err)
	}
	bytecode, err := evm.Assemble(code)
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	located, err := evm.Disassemble(bytecode)
	if err != nil {
		return fmt.Errorf("disassemble: %w", err)
	}

	fmt.Fprintln(w, heading("EVM code"))
	if err := evm.Format(w, located); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, heading("Hex"))
	_, err = fmt.Fprintf(w, "0x%x\n", bytecode)
	return err
}

func check(lc *linker.LinkedCode, w io.Writer) error {
	err := lc.Check()
	if err == nil {
		_, err = fmt.Fprintln(w, green("all calls resolve"))
		return err
	}

	var merr *multierror.Error
	if !stderrors.As(err, &merr) {
		return err
	}
	for _, e := range merr.Errors {
		fmt.Fprintln(w, red(e.Error()))
	}
	return fmt.Errorf("%d unresolved call(s)", len(merr.Errors))
}
