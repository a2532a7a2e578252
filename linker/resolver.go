package linker

import (
	"go.uber.org/zap"

	"github.com/wippyai/move-evm/move"
)

// Resolve matches each declared module handle against the candidates.
//
// A handle is resolved through pools (the declaring binary's tables) to an
// (address, name) pair; each candidate is identified by its self handle
// resolved through its own tables. A handle maps to a candidate iff both
// pairs are equal.
//
// When several candidates share an identity the later one wins. Handles
// with no matching candidate are absent from the result; that is reported
// lazily by ResolveCall, not here. A declared handle outside the script's
// pools is an out_of_bounds error; a candidate whose self handle does not
// resolve in its own pools is skipped.
func Resolve(handles []move.ModuleHandle, pools *move.Tables, candidates []*move.CompiledModule) (map[move.ModuleHandle]*move.CompiledModule, error) {
	ids := make([]move.ModuleID, len(handles))
	for i, h := range handles {
		id, err := pools.ModuleID(h)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	resolved := make(map[move.ModuleHandle]*move.CompiledModule, len(handles))
	for ci, m := range candidates {
		if m == nil {
			continue
		}
		self, err := m.SelfID()
		if err != nil {
			Logger().Debug("skipping candidate with malformed self handle",
				zap.Int("candidate", ci),
				zap.Error(err))
			continue
		}
		for i, h := range handles {
			if !ids[i].Equal(self) {
				continue
			}
			if prev, ok := resolved[h]; ok && prev != m {
				Logger().Debug("module overwritten by later candidate",
					zap.Stringer("module", self),
					zap.Int("candidate", ci))
			} else {
				Logger().Debug("module resolved",
					zap.Stringer("module", self),
					zap.Int("handle", i),
					zap.Int("candidate", ci))
			}
			resolved[h] = m
		}
	}
	return resolved, nil
}
