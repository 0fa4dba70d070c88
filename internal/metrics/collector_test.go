package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsInvocations(t *testing.T) {
	c := NewCollector()

	c.RecordInvocation("text_stat", 10*time.Millisecond, false)
	c.RecordInvocation("text_stat", 20*time.Millisecond, false)
	c.RecordInvocation("text_stat", 30*time.Millisecond, true)

	snapshots := c.Snapshot()
	require.Len(t, snapshots, 1)

	s := snapshots[0]
	assert.Equal(t, "text_stat", s.CapabilityID)
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, int64(1), s.Failures)
	assert.InDelta(t, 10.0, s.Min, 1.0)
	assert.InDelta(t, 30.0, s.Max, 1.0)
	assert.InDelta(t, 20.0, s.Mean, 1.0)
	assert.GreaterOrEqual(t, s.P99, s.P50)
}

func TestCollectorSnapshotSorted(t *testing.T) {
	c := NewCollector()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		c.RecordInvocation(id, time.Millisecond, false)
	}

	snapshots := c.Snapshot()
	require.Len(t, snapshots, 3)
	assert.Equal(t, "alpha", snapshots[0].CapabilityID)
	assert.Equal(t, "mid", snapshots[1].CapabilityID)
	assert.Equal(t, "zeta", snapshots[2].CapabilityID)
}

func TestCollectorClampsOutOfRangeValues(t *testing.T) {
	c := NewCollector()

	c.RecordInvocation("edge", 0, false)
	c.RecordInvocation("edge", time.Hour, false)

	snapshots := c.Snapshot()
	require.Len(t, snapshots, 1)
	assert.Equal(t, int64(2), snapshots[0].Count)
	assert.LessOrEqual(t, snapshots[0].Max, 10*60*1000.0)
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector()
	c.RecordInvocation("text_stat", time.Millisecond, false)

	c.Reset()
	assert.Empty(t, c.Snapshot())
}
