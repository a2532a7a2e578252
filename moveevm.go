package moveevm

import (
	"os"

	"github.com/wippyai/move-evm/errors"
	"github.com/wippyai/move-evm/linker"
	"github.com/wippyai/move-evm/move"
)

// Load decodes a script and its modules and links them. Decode errors are
// returned unchanged.
func Load(script []byte, modules [][]byte, opts ...move.DecodeOption) (*linker.LinkedCode, error) {
	s, err := move.DecodeScript(script, opts...)
	if err != nil {
		return nil, err
	}

	compiled := make([]*move.CompiledModule, 0, len(modules))
	for _, data := range modules {
		m, err := move.DecodeModule(data, opts...)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, m)
	}

	return linker.New(s, compiled)
}

// LoadFiles is Load with the modules read from files. Later files win when
// two modules share an identity.
func LoadFiles(script []byte, paths []string, opts ...move.DecodeOption) (*linker.LinkedCode, error) {
	modules := make([][]byte, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Load("read module "+p, err)
		}
		modules = append(modules, data)
	}
	return Load(script, modules, opts...)
}
