package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode      Phase = "decode"      // bytes to file-format objects
	PhaseEncode      Phase = "encode"      // file-format objects to bytes
	PhaseLinking     Phase = "linking"     // module resolution and call lookup
	PhaseDisassemble Phase = "disassemble" // call-graph report construction
	PhaseLower       Phase = "lower"       // Move to EVM lowering
	PhaseLoad        Phase = "load"        // reading inputs
	PhaseParse       Phase = "parse"       // hex/config parsing
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds         Kind = "out_of_bounds"
	KindInvalidData         Kind = "invalid_data"
	KindUnsupported         Kind = "unsupported"
	KindInvalidUTF8         Kind = "invalid_utf8"
	KindOverflow            Kind = "overflow"
	KindModuleMissing       Kind = "module_missing"
	KindInvalidModule       Kind = "invalid_module"
	KindUnimplementedOpcode Kind = "unimplemented_opcode"
	KindRecursiveCall       Kind = "recursive_call"
	KindNotByteVector       Kind = "not_byte_vector"
	KindInvalidInput        Kind = "invalid_input"
)

// Error is the structured error type shared by all packages.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Symbol string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Symbol != "" {
		b.WriteString(": ")
		b.WriteString(e.Symbol)
	}

	if e.Detail != "" {
		if e.Symbol != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// Two errors match when phase and kind are equal, so bare values like
// &Error{Phase: PhaseLinking, Kind: KindModuleMissing} work as sentinels.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the table path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Symbol sets the symbol the error refers to, e.g. "0x1::Coin::mint"
func (b *Builder) Symbol(s string) *Builder {
	b.err.Symbol = s
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfBounds creates an out of bounds error for a pool or table index
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// ModuleMissing reports a call whose owning module was not supplied,
// or whose supplied module does not declare the function.
func ModuleMissing(module, function string) *Error {
	return &Error{
		Phase:  PhaseLinking,
		Kind:   KindModuleMissing,
		Symbol: module + "::" + function,
		Detail: fmt.Sprintf("module %s not linked or does not define %s", module, function),
	}
}

// InvalidModule reports a resolved function that has no code body.
func InvalidModule(module, function string) *Error {
	return &Error{
		Phase:  PhaseLinking,
		Kind:   KindInvalidModule,
		Symbol: module + "::" + function,
		Detail: "function has no code unit (native)",
	}
}

// UnimplementedOpcode reports an instruction with no lowering rule.
func UnimplementedOpcode(instr string, offset int) *Error {
	return &Error{
		Phase:  PhaseLower,
		Kind:   KindUnimplementedOpcode,
		Detail: fmt.Sprintf("no lowering for %s at offset %d", instr, offset),
		Value:  instr,
	}
}

// RecursiveCall reports a cycle in the inlined call graph.
func RecursiveCall(chain []string) *Error {
	return &Error{
		Phase:  PhaseLower,
		Kind:   KindRecursiveCall,
		Detail: "call cycle " + strings.Join(chain, " -> "),
		Value:  chain,
	}
}

// NotByteVector reports a constant that is not a vector<u8>.
func NotByteVector(typ string) *Error {
	return &Error{
		Phase:  PhaseLinking,
		Kind:   KindNotByteVector,
		Detail: fmt.Sprintf("constant of type %s is not a byte vector", typ),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates an input loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
