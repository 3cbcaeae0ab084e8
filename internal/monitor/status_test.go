package monitor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TomGlanzman/Perp/internal/monitor"
)

func TestVocabularyPresets(t *testing.T) {
	vocab := monitor.DefaultVocabulary()

	assert.ElementsMatch(t,
		[]string{"pending", "launched", "running"},
		vocab.Expand(monitor.PresetNotDone))
	assert.ElementsMatch(t,
		[]string{"running", "joining", "running_ended", "exec_done", "memo_done", "failed", "dep_fail", "fail_retryable"},
		vocab.Expand(monitor.PresetRunz))
	assert.ElementsMatch(t,
		[]string{"exec_done", "memo_done", "failed", "dep_fail", "fail_retryable"},
		vocab.Expand(monitor.PresetDead))
	assert.ElementsMatch(t,
		[]string{"unsched", "unknown"},
		vocab.Expand(monitor.PresetOddball))
}

func TestVocabularyExpandLiteral(t *testing.T) {
	vocab := monitor.DefaultVocabulary()

	// Anything that is not a preset matches only itself, even values
	// outside the vocabulary: the read-model filters on what the user
	// asked for, the aggregator decides what is legal.
	assert.Equal(t, []string{"running"}, vocab.Expand("running"))
	assert.Equal(t, []string{"no_such_state"}, vocab.Expand("no_such_state"))
}

func TestVocabularyContains(t *testing.T) {
	vocab := monitor.DefaultVocabulary()

	for _, state := range monitor.DefaultStates {
		assert.True(t, vocab.Contains(state), state)
	}
	assert.False(t, vocab.Contains("completed"))
	assert.False(t, vocab.Contains("TOTAL"))
}

func TestLegacyVocabularyPresetIntersection(t *testing.T) {
	vocab := monitor.NewVocabulary(monitor.LegacyStates)

	// running_ended does not exist in the legacy vocabulary, so the
	// runz preset shrinks accordingly.
	assert.NotContains(t, vocab.Expand(monitor.PresetRunz), "running_ended")
	assert.Contains(t, vocab.Expand(monitor.PresetRunz), "running")
	assert.False(t, vocab.Contains("running_ended"))
}

func TestVocabularyIsPreset(t *testing.T) {
	vocab := monitor.DefaultVocabulary()

	assert.True(t, vocab.IsPreset("notdone"))
	assert.True(t, vocab.IsPreset("oddball"))
	assert.False(t, vocab.IsPreset("running"))
	assert.False(t, vocab.IsPreset(""))
}
