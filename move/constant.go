package move

import (
	"math/big"
	"strings"

	"github.com/wippyai/move-evm/errors"
	"github.com/wippyai/move-evm/move/internal/binary"
)

// Constant is a typed, BCS-serialized value from the constant pool.
type Constant struct {
	Data []byte
	Type SignatureToken
}

// Value is a decoded constant. Kind selects which field is meaningful:
// Bool for TokenBool, Int for the integer kinds, Address for TokenAddress
// and Elems for TokenVector.
type Value struct {
	Int     *big.Int
	Address Address
	Elems   []Value
	Kind    TokenKind
	Bool    bool
}

func (v Value) String() string {
	switch v.Kind {
	case TokenBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case TokenU8, TokenU64, TokenU128:
		return v.Int.String()
	case TokenAddress:
		return v.Address.String()
	case TokenVector:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "?"
}

// Value decodes the constant according to its type. addressLength is the
// account address width of the binary the constant came from.
func (c Constant) Value(addressLength int) (Value, error) {
	r := binary.NewReader(c.Data)
	v, err := readValue(r, c.Type, addressLength)
	if err != nil {
		return Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path("constant").
			Detail("constant of type %s", c.Type).
			Cause(err).
			Build()
	}
	if r.Len() != 0 {
		return Value{}, errors.InvalidData(errors.PhaseDecode, []string{"constant"},
			"trailing bytes after constant value")
	}
	return v, nil
}

// Bytes extracts a vector<u8> constant as a flat byte slice. Any other
// constant type yields a not_byte_vector error.
func (c Constant) Bytes() ([]byte, error) {
	if !c.Type.IsByteVector() {
		return nil, errors.NotByteVector(c.Type.String())
	}
	r := binary.NewReader(c.Data)
	n, err := r.ReadULEB(uint64(len(c.Data)))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "byte vector length")
	}
	data, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "byte vector data")
	}
	if r.Len() != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"constant"},
			"trailing bytes after byte vector")
	}
	return data, nil
}

// ByteVectorConstant builds a vector<u8> constant.
func ByteVectorConstant(data []byte) Constant {
	w := binary.NewWriter()
	w.WriteULEB(uint64(len(data)))
	w.WriteBytes(data)
	return Constant{Type: ByteVec, Data: w.Bytes()}
}

// U64Constant builds a u64 constant.
func U64Constant(v uint64) Constant {
	w := binary.NewWriter()
	w.WriteU64LE(v)
	return Constant{Type: U64, Data: w.Bytes()}
}

func readValue(r *binary.Reader, t SignatureToken, addressLength int) (Value, error) {
	switch t.Kind {
	case TokenBool:
		b, err := r.ReadByte()
		if err != nil {
			return Value{}, err
		}
		if b > 1 {
			return Value{}, errors.InvalidData(errors.PhaseDecode, nil, "bool byte out of range")
		}
		return Value{Kind: TokenBool, Bool: b == 1}, nil
	case TokenU8:
		b, err := r.ReadByte()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: TokenU8, Int: new(big.Int).SetUint64(uint64(b))}, nil
	case TokenU64:
		v, err := r.ReadU64LE()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: TokenU64, Int: new(big.Int).SetUint64(v)}, nil
	case TokenU128:
		le, err := r.ReadBytes(16)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: TokenU128, Int: leToBig(le)}, nil
	case TokenAddress:
		a, err := r.ReadBytes(addressLength)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: TokenAddress, Address: a}, nil
	case TokenVector:
		if t.Inner == nil {
			return Value{}, errors.InvalidData(errors.PhaseDecode, nil, "vector without element type")
		}
		n, err := r.ReadULEB(uint64(r.Len()))
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, 0, n)
		for i := uint64(0); i < n; i++ {
			e, err := readValue(r, *t.Inner, addressLength)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, e)
		}
		return Value{Kind: TokenVector, Elems: elems}, nil
	}
	return Value{}, errors.Unsupported(errors.PhaseDecode, "constant of type "+t.String())
}

func leToBig(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}

func bigToLE(v *big.Int, width int) []byte {
	be := v.Bytes()
	le := make([]byte, width)
	for i := 0; i < len(be) && i < width; i++ {
		le[i] = be[len(be)-1-i]
	}
	return le
}
