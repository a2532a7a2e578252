package move

import (
	"strconv"
	"strings"
)

// TokenKind is the shape of a signature token.
type TokenKind byte

const (
	TokenBool TokenKind = iota + 1
	TokenU8
	TokenU64
	TokenU128
	TokenAddress
	TokenReference
	TokenMutableReference
	TokenStruct
	TokenTypeParameter
	TokenVector
	TokenStructInstantiation
	TokenSigner
)

// SignatureToken is a (possibly nested) type in a signature.
//
// Inner is set for references and vectors, Struct for struct types,
// TypeParameter for type parameters and TypeArgs for instantiations.
type SignatureToken struct {
	Inner         *SignatureToken
	TypeArgs      []SignatureToken
	Kind          TokenKind
	Struct        StructHandleIndex
	TypeParameter uint16
}

// Signature is an ordered list of types (parameters, returns, locals).
type Signature []SignatureToken

// Primitive token constructors.
var (
	Bool    = SignatureToken{Kind: TokenBool}
	U8      = SignatureToken{Kind: TokenU8}
	U64     = SignatureToken{Kind: TokenU64}
	U128    = SignatureToken{Kind: TokenU128}
	Addr    = SignatureToken{Kind: TokenAddress}
	Signer  = SignatureToken{Kind: TokenSigner}
	ByteVec = VectorOf(U8)
)

// VectorOf returns vector<elem>.
func VectorOf(elem SignatureToken) SignatureToken {
	return SignatureToken{Kind: TokenVector, Inner: &elem}
}

// RefOf returns &inner, or &mut inner when mutable is set.
func RefOf(inner SignatureToken, mutable bool) SignatureToken {
	kind := TokenReference
	if mutable {
		kind = TokenMutableReference
	}
	return SignatureToken{Kind: kind, Inner: &inner}
}

// StructOf returns a non-generic struct type.
func StructOf(h StructHandleIndex) SignatureToken {
	return SignatureToken{Kind: TokenStruct, Struct: h}
}

// IsByteVector reports whether the token is vector<u8>.
func (t SignatureToken) IsByteVector() bool {
	return t.Kind == TokenVector && t.Inner != nil && t.Inner.Kind == TokenU8
}

// String renders the token without resolving struct names.
func (t SignatureToken) String() string {
	return formatToken(t, nil)
}

// TypeString renders a token, naming structs through these tables
// ("0x1::Coin::T"). Unresolvable struct handles fall back to "Struct(<idx>)".
func (t *Tables) TypeString(tok SignatureToken) string {
	return formatToken(tok, t)
}

func formatToken(tok SignatureToken, t *Tables) string {
	switch tok.Kind {
	case TokenBool:
		return "bool"
	case TokenU8:
		return "u8"
	case TokenU64:
		return "u64"
	case TokenU128:
		return "u128"
	case TokenAddress:
		return "address"
	case TokenSigner:
		return "signer"
	case TokenReference:
		return "&" + formatInner(tok, t)
	case TokenMutableReference:
		return "&mut " + formatInner(tok, t)
	case TokenVector:
		return "vector<" + formatInner(tok, t) + ">"
	case TokenTypeParameter:
		return "T" + strconv.Itoa(int(tok.TypeParameter))
	case TokenStruct, TokenStructInstantiation:
		name := structName(tok.Struct, t)
		if tok.Kind == TokenStruct {
			return name
		}
		args := make([]string, len(tok.TypeArgs))
		for i, a := range tok.TypeArgs {
			args[i] = formatToken(a, t)
		}
		return name + "<" + strings.Join(args, ", ") + ">"
	}
	return "unknown"
}

func formatInner(tok SignatureToken, t *Tables) string {
	if tok.Inner == nil {
		return "?"
	}
	return formatToken(*tok.Inner, t)
}

func structName(idx StructHandleIndex, t *Tables) string {
	fallback := "Struct(" + strconv.Itoa(int(idx)) + ")"
	if t == nil {
		return fallback
	}
	sh, err := t.StructHandle(idx)
	if err != nil {
		return fallback
	}
	name, err := t.Identifier(sh.Name)
	if err != nil {
		return fallback
	}
	id, err := t.ModuleIDAt(sh.Module)
	if err != nil {
		return name
	}
	return id.String() + "::" + name
}
