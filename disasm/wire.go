package disasm

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Canonical mode sorts map keys, so equal reports encode to equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("disasm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes a Report to canonical CBOR.
func Marshal(r *Report) ([]byte, error) {
	return cborEncMode.Marshal(r)
}

// Unmarshal deserializes a Report from CBOR bytes.
func Unmarshal(data []byte) (*Report, error) {
	var r Report
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("disasm: unmarshal report: %w", err)
	}
	return &r, nil
}
