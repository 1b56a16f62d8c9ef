package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestAdvancesInOrder(t *testing.T) {
	r := NewRequest()
	assert.Equal(t, Parsed, r.State())

	require.NoError(t, r.Advance(Validated))
	require.NoError(t, r.Advance(Planned))
	require.NoError(t, r.Advance(Streaming))
	require.NoError(t, r.Advance(Done))
	assert.Equal(t, Done, r.State())
}

func TestRequestRejectsSkippingAState(t *testing.T) {
	r := NewRequest()
	err := r.Advance(Planned)
	assert.Error(t, err)
	assert.Equal(t, Parsed, r.State())
}

func TestRequestCanFailFromAnyState(t *testing.T) {
	r := NewRequest()
	require.NoError(t, r.Advance(Validated))
	require.NoError(t, r.Advance(Failed))
	assert.Equal(t, Failed, r.State())
}

func TestMarkStreamingRecordsPartialOutput(t *testing.T) {
	r := NewRequest()
	assert.False(t, r.PartialOutput)
	r.MarkStreaming()
	assert.True(t, r.PartialOutput)

	r.Fail()
	assert.Equal(t, Failed, r.State())
	assert.True(t, r.PartialOutput, "a failure after streaming started still implies partial output was written")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "streaming", Streaming.String())
	assert.Equal(t, "unknown", State(99).String())
}
