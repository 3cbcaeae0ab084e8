package monitor

// The observed engine walks tasks through a known progression:
//
//	pending -> launched -> running -> (running_ended | joining)
//	        -> (exec_done | memo_done | failed | dep_fail | fail_retryable)
//
// with unsched/unknown as off-path states, and retries re-entering at
// launched on a new try. Nothing here enforces that progression; this
// program only observes, and the log is written concurrently, so every
// state must be accepted at any time.

// DefaultStates is the extended lifecycle vocabulary.
var DefaultStates = []string{
	"pending", "launched", "running", "joining", "running_ended",
	"unsched", "unknown",
	"exec_done", "memo_done", "failed", "dep_fail", "fail_retryable",
}

// LegacyStates is the vocabulary older engine versions recorded, without
// the running_ended state.
var LegacyStates = []string{
	"pending", "launched", "joining", "running",
	"unsched", "unknown",
	"exec_done", "memo_done", "failed", "dep_fail", "fail_retryable",
}

// Preset names usable wherever a status filter is accepted.
const (
	PresetNotDone = "notdone"
	PresetRunz    = "runz"
	PresetDead    = "dead"
	PresetOddball = "oddball"
)

var presetMembers = map[string][]string{
	PresetNotDone: {"pending", "launched", "running"},
	PresetRunz:    {"running", "joining", "running_ended", "exec_done", "memo_done", "failed", "dep_fail", "fail_retryable"},
	PresetDead:    {"exec_done", "memo_done", "failed", "dep_fail", "fail_retryable"},
	PresetOddball: {"unsched", "unknown"},
}

// Vocabulary is the closed set of legal task states plus the named presets
// over them, resolved once at construction.
type Vocabulary struct {
	states  []string
	known   map[string]bool
	presets map[string][]string
}

// NewVocabulary builds a vocabulary from a state list. Preset membership is
// intersected with the given states, so a legacy vocabulary yields legacy
// presets.
func NewVocabulary(states []string) Vocabulary {
	v := Vocabulary{
		states:  append([]string(nil), states...),
		known:   make(map[string]bool, len(states)),
		presets: make(map[string][]string, len(presetMembers)),
	}
	for _, s := range states {
		v.known[s] = true
	}
	for name, members := range presetMembers {
		var in []string
		for _, m := range members {
			if v.known[m] {
				in = append(in, m)
			}
		}
		v.presets[name] = in
	}
	return v
}

// DefaultVocabulary returns the extended vocabulary.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(DefaultStates)
}

// States returns the vocabulary's states in declaration order.
func (v Vocabulary) States() []string {
	return append([]string(nil), v.states...)
}

// Contains reports whether state is a legal vocabulary member.
func (v Vocabulary) Contains(state string) bool {
	return v.known[state]
}

// IsPreset reports whether name is a known preset.
func (v Vocabulary) IsPreset(name string) bool {
	_, ok := v.presets[name]
	return ok
}

// Expand resolves a status filter value into the set of states it matches:
// a preset name yields its members, anything else matches only itself.
func (v Vocabulary) Expand(status string) []string {
	if members, ok := v.presets[status]; ok {
		return append([]string(nil), members...)
	}
	return []string{status}
}
