package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var d0 = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

// --- ReadinessState ---

func TestReadinessState_Clamp(t *testing.T) {
	s := ReadinessState{Condition: 12000, Sharpness: -5, Fatigue: -300}.Clamp()
	assert.Equal(t, ReadinessMax, s.Condition)
	assert.Equal(t, 0.0, s.Sharpness)
	assert.Equal(t, -300.0, s.Fatigue, "fatigue is not clamped")
}

func TestReadinessState_CloneIsDeep(t *testing.T) {
	s := ReadinessState{Recent: []Appearance{{Date: d0, Minutes: 90}}}
	c := s.Clone()
	c.Recent[0].Minutes = 10
	assert.Equal(t, 90, s.Recent[0].Minutes)
}

func TestReadinessState_WindowMinutesExcludesKickoffDay(t *testing.T) {
	s := ReadinessState{Recent: []Appearance{
		{Date: AddDays(d0, -20), Minutes: 90}, // fuera de la ventana
		{Date: AddDays(d0, -14), Minutes: 80},
		{Date: AddDays(d0, -3), Minutes: 70},
		{Date: d0, Minutes: 60},
	}}
	assert.Equal(t, 150, s.WindowMinutes(d0, 14))
}

// --- Timeline ---

func TestTimeline_AppendIsCopyOnWrite(t *testing.T) {
	tl := NewTimeline(ReadinessState{Date: d0, Condition: 9000})
	next, err := tl.Append("a", ReadinessState{Date: AddDays(d0, 2), Condition: 9500})
	require.NoError(t, err)

	assert.Equal(t, 1, tl.Len())
	assert.Equal(t, 2, next.Len())
	assert.Equal(t, 9500.0, next.Latest().Condition)
	assert.Equal(t, 9000.0, tl.Latest().Condition)
}

func TestTimeline_RejectsBackwardsSnapshot(t *testing.T) {
	tl := NewTimeline(ReadinessState{Date: AddDays(d0, 5)})
	_, err := tl.Append("a", ReadinessState{Date: d0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInfeasibleState)

	var infeasible *InfeasibleStateError
	require.ErrorAs(t, err, &infeasible)
	assert.Equal(t, AgentID("a"), infeasible.AgentID)
}

func TestTimeline_AtFindsLatestNotAfter(t *testing.T) {
	tl := NewTimeline(ReadinessState{Date: d0, Condition: 1})
	tl, _ = tl.Append("a", ReadinessState{Date: AddDays(d0, 3), Condition: 2})
	tl, _ = tl.Append("a", ReadinessState{Date: AddDays(d0, 7), Condition: 3})

	s, ok := tl.At(AddDays(d0, 5))
	require.True(t, ok)
	assert.Equal(t, 2.0, s.Condition)

	s, ok = tl.At(AddDays(d0, 7))
	require.True(t, ok)
	assert.Equal(t, 3.0, s.Condition)

	_, ok = tl.At(AddDays(d0, -1))
	assert.False(t, ok)
}

func TestTimeline_SnapshotsAreCopies(t *testing.T) {
	tl := NewTimeline(ReadinessState{Date: d0, Recent: []Appearance{{Minutes: 90}}})
	snaps := tl.Snapshots()
	snaps[0].Recent[0].Minutes = 1
	assert.Equal(t, 90, tl.Latest().Recent[0].Minutes)
}

// --- fechas ---

func TestDates(t *testing.T) {
	late := time.Date(2026, 8, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, d0, Day(late))
	assert.Equal(t, 3, DaysBetween(late, AddDays(d0, 3)))
	assert.Equal(t, -2, DaysBetween(d0, AddDays(d0, -2)))

	parsed, err := ParseDay("2026-08-01")
	require.NoError(t, err)
	assert.Equal(t, d0, parsed)

	_, err = ParseDay("01/08/2026")
	assert.Error(t, err)
}
