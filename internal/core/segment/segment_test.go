package segment

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-time-tracker/internal/core/interval"
)

func TestSegmentValueSemantics(t *testing.T) {
	s := New(1, "backend", interval.New(100, 200))

	copied := s
	copied.TaskID = "frontend"
	copied.Range.End = 900

	// The original is untouched: segments are values, not shared state
	assert.Equal(t, TaskID("backend"), s.TaskID)
	assert.Equal(t, int64(200), s.Range.End)
}

func TestSegmentDuration(t *testing.T) {
	assert.Equal(t, int64(100), New(1, "a", interval.New(100, 200)).Duration())
	assert.True(t, New(2, "a", interval.New(50, 50)).IsEmpty())
}

func TestSegmentJSONShape(t *testing.T) {
	s := New(7, "backend", interval.New(100, 200))

	data, err := sonic.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"task_id":"backend","range":{"start":100,"end":200}}`, string(data))

	var decoded Segment
	require.NoError(t, sonic.Unmarshal(data, &decoded))
	assert.Equal(t, s, decoded)
}
