package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrOverflow is returned when a ULEB128 value exceeds the target width.
var ErrOverflow = errors.New("uleb128: overflow")

// ErrInvalidUTF8 is returned by ReadName for non UTF-8 identifiers.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in identifier")

// Reader wraps a bytes.Reader with position tracking and Move-specific read methods.
type Reader struct {
	r   *bytes.Reader
	pos int
}

// NewReader creates a new Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{r: bytes.NewReader(data)}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return r.r.Len()
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.r.Len() {
		return nil, r.wrapError(io.ErrUnexpectedEOF)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, r.wrapError(err)
	}
	r.pos += n
	return buf, nil
}

// ReadULEB reads an unsigned LEB128 value and rejects anything above max.
func (r *Reader) ReadULEB(max uint64) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		digit := uint64(b & 0x7f)
		if shift == 63 && digit > 1 {
			return 0, r.wrapError(ErrOverflow)
		}
		result |= digit << shift
		if b&0x80 == 0 {
			if result > max {
				return 0, r.wrapError(ErrOverflow)
			}
			return result, nil
		}
		shift += 7
		if shift > 63 {
			return 0, r.wrapError(ErrOverflow)
		}
	}
}

// ReadU16 reads a ULEB128 encoded table index.
func (r *Reader) ReadU16() (uint16, error) {
	v, err := r.ReadULEB(0xFFFF)
	return uint16(v), err
}

// ReadU32 reads a ULEB128 encoded uint32.
func (r *Reader) ReadU32() (uint32, error) {
	v, err := r.ReadULEB(0xFFFFFFFF)
	return uint32(v), err
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32LE() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadU64LE reads a little-endian uint64 (fixed 8 bytes).
func (r *Reader) ReadU64LE() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadName reads a ULEB128 length-prefixed UTF-8 string.
func (r *Reader) ReadName() (string, error) {
	length, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	data, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", r.wrapError(ErrInvalidUTF8)
	}
	return string(data), nil
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}

// ParseError represents an error during binary parsing with position information.
type ParseError struct {
	Err      error
	Section  string
	Position int
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("move: %s at position %d: %v", e.Section, e.Position, e.Err)
	}
	return fmt.Sprintf("move: at position %d: %v", e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapError creates a ParseError with the current position.
func (r *Reader) WrapError(section string, err error) error {
	return &ParseError{
		Position: r.pos,
		Section:  section,
		Err:      err,
	}
}
