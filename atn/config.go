package atn

import (
	"sync"

	"github.com/dekarrin/allstarrt/rtcollections"
)

// PredictionContext is a node in the prediction-context graph: the call
// stack of ATN rule-invocation return states a configuration carries so
// that, on reaching a RuleStop, the simulator knows where to resume. It is
// hash-consed (§9): two contexts with the same (returnState, parent) share
// a single allocation, found via the shared cache the simulator owns.
type PredictionContext struct {
	// ReturnState is the ATN state to resume at after the called rule
	// completes. EmptyReturnState marks the bottom of the stack (the
	// context is empty / comes from the outermost invocation).
	ReturnState int
	Parent      *PredictionContext
}

// EmptyReturnState marks the bottom of a PredictionContext stack.
const EmptyReturnState = -1

// EmptyPredictionContext is the shared, singleton "empty" context.
var EmptyPredictionContext = &PredictionContext{ReturnState: EmptyReturnState}

// Hash returns a structural fingerprint suitable for hash-consing.
func (p *PredictionContext) Hash() uint32 {
	if p == nil {
		return 0
	}
	parentHash := int32(0)
	if p.Parent != nil {
		parentHash = int32(p.Parent.Hash())
	}
	return rtcollections.Murmur3(0, int32(p.ReturnState), parentHash)
}

// Equal does a structural (not pointer) comparison, walking Parent chains.
func (p *PredictionContext) Equal(o *PredictionContext) bool {
	for p != nil && o != nil {
		if p.ReturnState != o.ReturnState {
			return false
		}
		p, o = p.Parent, o.Parent
	}
	return p == o
}

// ContextCache hash-conses PredictionContext nodes so that structurally
// identical call stacks, built independently while exploring different
// ATNConfigs, end up as the same allocation. This is the
// "sharedContextCache" the §6 ParserSimulator contract exposes. Intern is
// safe to call from several simulators at once.
type ContextCache struct {
	mu     sync.Mutex
	byHash map[uint32][]*PredictionContext
}

// NewContextCache returns an empty cache.
func NewContextCache() *ContextCache {
	return &ContextCache{byHash: map[uint32][]*PredictionContext{}}
}

// Intern returns the canonical PredictionContext structurally equal to p,
// registering p itself as canonical if none exists yet.
func (c *ContextCache) Intern(p *PredictionContext) *PredictionContext {
	if p == EmptyPredictionContext || p == nil {
		return EmptyPredictionContext
	}
	h := p.Hash()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.byHash[h] {
		if existing.Equal(p) {
			return existing
		}
	}
	c.byHash[h] = append(c.byHash[h], p)
	return p
}

// ATNConfig is one element of an ATNConfigSet: a state/alt pair under a
// given prediction context, in the middle of matching alt alt of some
// decision.
type ATNConfig struct {
	State   *ATNState
	Alt     int
	Context *PredictionContext

	// ReachesIntoOuterContext counts how many rule invocations, if any,
	// this config's closure passed through above the starting context
	// (dipsIntoOuterContext in §3).
	ReachesIntoOuterContext int
}

// key identifies a config for the purposes of set membership: (state, alt,
// context) per §3 ("identity-compared by (state,alt,semanticContext) tuples
// while mutable" -- this reference simulator has no semantic-context
// predicates in its SLL-only slice, so context stands in for that slot).
func (c *ATNConfig) key() uint32 {
	ctxHash := uint32(0)
	if c.Context != nil {
		ctxHash = c.Context.Hash()
	}
	return rtcollections.Murmur3(ctxHash, int32(c.State.StateNumber), int32(c.Alt))
}

// ATNConfigSet is the working set of configurations explored while closing
// over epsilon transitions or reaching a decision (§3). SetReadOnly(true)
// freezes it; the reference simulators never freeze the sets they build.
type ATNConfigSet struct {
	configs  []*ATNConfig
	byKey    map[uint32]bool
	readOnly bool

	FullCtx          bool
	UniqueAlt        int
	ConflictingAlts  *rtcollections.BitSet
	HasSemanticCtx   bool
	DipsIntoOuterCtx bool
}

// NewATNConfigSet returns an empty, mutable set.
func NewATNConfigSet(fullCtx bool) *ATNConfigSet {
	return &ATNConfigSet{byKey: map[uint32]bool{}, FullCtx: fullCtx, UniqueAlt: ATNInvalidAltNumber}
}

// ATNInvalidAltNumber represents an alt that has yet to be calculated, or
// which is invalid for the struct using it.
const ATNInvalidAltNumber = 0

func (s *ATNConfigSet) checkMutable() {
	if s.readOnly {
		panic("atn: attempt to mutate a read-only ATNConfigSet")
	}
}

// SetReadOnly freezes (or unfreezes) the set; Add panics while it is frozen.
func (s *ATNConfigSet) SetReadOnly(ro bool) { s.readOnly = ro }

// Add inserts cfg if no structurally-identical config is already present;
// reports whether it was actually added.
func (s *ATNConfigSet) Add(cfg *ATNConfig) bool {
	s.checkMutable()
	k := cfg.key()
	if s.byKey[k] {
		return false
	}
	s.byKey[k] = true
	s.configs = append(s.configs, cfg)
	return true
}

// Configs returns the configurations in insertion order. Callers must not
// mutate the returned slice.
func (s *ATNConfigSet) Configs() []*ATNConfig { return s.configs }

// Len returns the number of configurations.
func (s *ATNConfigSet) Len() int { return len(s.configs) }

// IsEmpty reports whether the set has no configurations.
func (s *ATNConfigSet) IsEmpty() bool { return len(s.configs) == 0 }

// Alts returns the distinct alt numbers present in the set.
func (s *ATNConfigSet) Alts() *rtcollections.BitSet {
	b := rtcollections.NewBitSet()
	for _, c := range s.configs {
		b.Add(c.Alt)
	}
	return b
}
