package readiness

import (
	"testing"
	"time"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func testAgent() domain.Agent {
	return domain.Agent{ID: "a1", Physical: domain.DefaultPhysical()}
}

func stateAt(d time.Time, condition, sharpness, fatigue float64) domain.ReadinessState {
	return domain.ReadinessState{Date: d, Condition: condition, Sharpness: sharpness, Fatigue: fatigue}
}

func plusDays(n int) time.Time {
	return domain.AddDays(day0, n)
}

// --- sin eventos ---

func TestPropagate_NoEvents_ConditionMonotonicAndBounded(t *testing.T) {
	p := DefaultParams()
	s := stateAt(day0, 6000, 8000, 800)

	prev := s.Condition
	for i := 1; i <= 30; i++ {
		next, err := Propagate(p, testAgent(), s, plusDays(i), nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, next.Condition, prev, "day %d", i)
		assert.LessOrEqual(t, next.Condition, domain.ReadinessMax)
		prev = next.Condition
	}
}

func TestPropagate_NoEvents_FatigueBoundedByFastestDecay(t *testing.T) {
	p := DefaultParams()
	start := stateAt(day0, 9000, 8000, 2000)

	for _, days := range []int{1, 3, 7, 21} {
		next, err := Propagate(p, testAgent(), start, plusDays(days), nil)
		require.NoError(t, err)
		drop := start.Fatigue - next.Fatigue
		assert.GreaterOrEqual(t, drop, 0.0)
		assert.LessOrEqual(t, drop, float64(days)*p.FastestFatigueDecay())
	}
}

func TestPropagate_SameDay_ReturnsStart(t *testing.T) {
	s := stateAt(day0, 9100, 7000, 300)
	next, err := Propagate(DefaultParams(), testAgent(), s, day0, nil)
	require.NoError(t, err)
	assert.Equal(t, s.Condition, next.Condition)
	assert.Equal(t, s.Sharpness, next.Sharpness)
	assert.Equal(t, s.Fatigue, next.Fatigue)
}

// --- sharpness ---

func TestPropagate_SharpnessCliff(t *testing.T) {
	p := DefaultParams()
	s := stateAt(day0, 10000, 8000, 0)
	s.LastMatch = day0

	week, err := Propagate(p, testAgent(), s, plusDays(7), nil)
	require.NoError(t, err)
	assert.InDelta(t, 8000-7*p.SharpnessDecaySlow, week.Sharpness, 0.001)

	later, err := Propagate(p, testAgent(), s, plusDays(10), nil)
	require.NoError(t, err)
	assert.InDelta(t, 8000-7*p.SharpnessDecaySlow-3*p.SharpnessDecayFast, later.Sharpness, 0.001)
}

func TestPropagate_UnknownLastMatchCountsFromStateDate(t *testing.T) {
	p := DefaultParams()
	unknown := stateAt(day0, 10000, 9000, 0)
	known := stateAt(day0, 10000, 9000, 0)
	known.LastMatch = plusDays(-1)

	a, err := Propagate(p, testAgent(), unknown, plusDays(2), nil)
	require.NoError(t, err)
	b, err := Propagate(p, testAgent(), known, plusDays(2), nil)
	require.NoError(t, err)

	assert.InDelta(t, 9000-2*p.SharpnessDecaySlow, a.Sharpness, 0.001)
	assert.InDelta(t, b.Sharpness, a.Sharpness, 0.001)

	// pasado el umbral desde la foto, la caída se acelera igual
	long, err := Propagate(p, testAgent(), unknown, plusDays(10), nil)
	require.NoError(t, err)
	assert.InDelta(t, 9000-7*p.SharpnessDecaySlow-3*p.SharpnessDecayFast, long.Sharpness, 0.001)
	assert.True(t, long.LastMatch.IsZero())
}

func TestPropagate_MatchGainsSharpness_DiminishingNearCeiling(t *testing.T) {
	p := DefaultParams()
	agent := testAgent()
	low := applyMatch(p, agent, stateAt(day0, 10000, 2000, 0), domain.Event{Kind: domain.EventMatch, From: day0, To: day0, Minutes: 90}, day0)
	high := applyMatch(p, agent, stateAt(day0, 10000, 9000, 0), domain.Event{Kind: domain.EventMatch, From: day0, To: day0, Minutes: 90}, day0)

	assert.Greater(t, low.Sharpness-2000, high.Sharpness-9000)
	assert.LessOrEqual(t, high.Sharpness, domain.ReadinessMax)
}

// --- condition ---

func TestPropagate_MatchDrainsCondition(t *testing.T) {
	p := DefaultParams()
	s := stateAt(day0, 10000, 8000, 0)
	match := domain.MatchEvent(day0, 90, domain.Role{ID: "CM"}, 1)

	played, err := Propagate(p, testAgent(), s, plusDays(1), []domain.Event{match})
	require.NoError(t, err)
	rested, err := Propagate(p, testAgent(), s, plusDays(1), nil)
	require.NoError(t, err)

	assert.Less(t, played.Condition, rested.Condition)
	assert.Equal(t, day0, played.LastMatch)
	require.Len(t, played.Recent, 1)
	assert.Equal(t, 90, played.Recent[0].Minutes)
}

func TestApplyMatch_ExhaustionAccelerates(t *testing.T) {
	p := DefaultParams()
	agent := testAgent()
	m := domain.Event{Kind: domain.EventMatch, From: day0, To: day0, Minutes: 30}

	fresh := applyMatch(p, agent, stateAt(day0, 10000, 5000, 0), m, day0)
	tired := applyMatch(p, agent, stateAt(day0, 6500, 5000, 0), m, day0)

	assert.Greater(t, 6500-tired.Condition, 10000-fresh.Condition)
}

func TestApplyMatch_WorkRateAndDragIncreaseDrain(t *testing.T) {
	p := DefaultParams()
	base := testAgent()
	worker := testAgent()
	worker.Physical.WorkRate = 1.4

	m := domain.Event{Kind: domain.EventMatch, From: day0, To: day0, Minutes: 90}
	heavy := m
	heavy.Drag = 1.3

	s := stateAt(day0, 10000, 5000, 0)
	assert.Less(t, applyMatch(p, worker, s, m, day0).Condition, applyMatch(p, base, s, m, day0).Condition)
	assert.Less(t, applyMatch(p, base, s, heavy, day0).Condition, applyMatch(p, base, s, m, day0).Condition)
}

func TestOvernight_FatigueSlowsRecovery(t *testing.T) {
	p := DefaultParams()
	fresh := overnight(p, testAgent(), stateAt(day0, 7000, 5000, 0), modeNormal, day0, plusDays(1))
	jaded := overnight(p, testAgent(), stateAt(day0, 7000, 5000, 2500), modeNormal, day0, plusDays(1))
	assert.Greater(t, fresh.Condition, jaded.Condition)
}

// --- fatiga ---

func TestApplyMatch_OverloadStepMultiplier(t *testing.T) {
	p := DefaultParams()
	m := domain.Event{Kind: domain.EventMatch, From: day0, To: day0, Minutes: 90}

	normal := applyMatch(p, testAgent(), stateAt(day0, 10000, 5000, 0), m, day0)

	loaded := stateAt(day0, 10000, 5000, 0)
	loaded.Recent = []domain.Appearance{
		{Date: domain.AddDays(day0, -9), Minutes: 90},
		{Date: domain.AddDays(day0, -6), Minutes: 90},
		{Date: domain.AddDays(day0, -3), Minutes: 90},
	}
	overloaded := applyMatch(p, testAgent(), loaded, m, day0)

	assert.InDelta(t, 90*p.FatiguePerMinute, normal.Fatigue, 0.001)
	assert.InDelta(t, 90*p.FatiguePerMinute*p.OverloadMultiplier, overloaded.Fatigue, 0.001)
}

func TestPropagate_ZeroMinutesNeverOverload(t *testing.T) {
	p := DefaultParams()
	s := stateAt(day0, 10000, 5000, 0)
	m := domain.MatchEvent(day0, 0, domain.Role{ID: "ST"}, 1)

	next, err := Propagate(p, testAgent(), s, plusDays(1), []domain.Event{m})
	require.NoError(t, err)
	assert.False(t, next.Overloaded)
	assert.Empty(t, next.Recent)
	assert.Equal(t, 0.0, next.Fatigue)
}

func TestPropagate_OverloadFlagFromWindow(t *testing.T) {
	p := DefaultParams()
	s := stateAt(day0, 10000, 5000, 0)
	role := domain.Role{ID: "ST"}
	events := []domain.Event{
		domain.MatchEvent(plusDays(0), 90, role, 1),
		domain.MatchEvent(plusDays(3), 90, role, 1),
		domain.MatchEvent(plusDays(6), 90, role, 1),
		domain.MatchEvent(plusDays(9), 90, role, 1),
	}

	next, err := Propagate(p, testAgent(), s, plusDays(10), events)
	require.NoError(t, err)
	assert.True(t, next.Overloaded)

	// pasada la ventana, la sobrecarga desaparece
	later, err := Propagate(p, testAgent(), next, plusDays(30), nil)
	require.NoError(t, err)
	assert.False(t, later.Overloaded)
	assert.Empty(t, later.Recent)
}

func TestPropagate_SoftCapDampensAccrual(t *testing.T) {
	p := DefaultParams()
	assert.InDelta(t, p.FatigueSoftCap+100*p.OverCapFactor, accrue(p, p.FatigueSoftCap-100, 200), 0.001)
	assert.InDelta(t, p.FatigueSoftCap+500+200*p.OverCapFactor, accrue(p, p.FatigueSoftCap+500, 200), 0.001)
}

func TestPropagate_RestDissipatesFastest(t *testing.T) {
	p := DefaultParams()
	s := stateAt(day0, 9000, 8000, 1500)

	rest, err := Propagate(p, testAgent(), s, plusDays(4), []domain.Event{domain.RestEvent(day0, plusDays(3))})
	require.NoError(t, err)
	reduced, err := Propagate(p, testAgent(), s, plusDays(4), []domain.Event{domain.TrainingEvent(day0, plusDays(3), domain.TrainingReduced)})
	require.NoError(t, err)
	normal, err := Propagate(p, testAgent(), s, plusDays(4), nil)
	require.NoError(t, err)

	assert.Less(t, rest.Fatigue, reduced.Fatigue)
	assert.Less(t, reduced.Fatigue, normal.Fatigue)
}

func TestPropagate_VacationAllowsNegativeFatigue(t *testing.T) {
	p := DefaultParams()
	s := stateAt(day0, 9000, 8000, 50)

	next, err := Propagate(p, testAgent(), s, plusDays(10), []domain.Event{domain.VacationEvent(day0, plusDays(9))})
	require.NoError(t, err)
	assert.Less(t, next.Fatigue, 0.0)
}

func TestPropagate_IntensiveTrainingAccruesFatigue(t *testing.T) {
	p := DefaultParams()
	s := stateAt(day0, 9000, 8000, 100)

	next, err := Propagate(p, testAgent(), s, plusDays(3), []domain.Event{domain.TrainingEvent(day0, plusDays(2), domain.TrainingIntensive)})
	require.NoError(t, err)
	assert.InDelta(t, 100+3*p.IntensiveAccrual, next.Fatigue, 0.001)
}

// --- errores ---

func TestPropagate_NegativeElapsedIsInfeasible(t *testing.T) {
	s := stateAt(plusDays(5), 9000, 8000, 0)
	_, err := Propagate(DefaultParams(), testAgent(), s, day0, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInfeasibleState)
}

func TestPropagate_RejectsMalformedEvents(t *testing.T) {
	p := DefaultParams()
	s := stateAt(day0, 9000, 8000, 0)
	role := domain.Role{ID: "ST"}

	cases := map[string][]domain.Event{
		"overlapping windows": {
			domain.RestEvent(plusDays(1), plusDays(3)),
			domain.VacationEvent(plusDays(3), plusDays(5)),
		},
		"two matches same day": {
			domain.MatchEvent(plusDays(1), 90, role, 1),
			domain.MatchEvent(plusDays(1), 45, role, 1),
		},
		"match during vacation": {
			domain.VacationEvent(plusDays(1), plusDays(4)),
			domain.MatchEvent(plusDays(2), 90, role, 1),
		},
		"match outside range": {
			domain.MatchEvent(plusDays(8), 90, role, 1),
		},
		"match on target day": {
			domain.MatchEvent(plusDays(7), 90, role, 1),
		},
		"window ends before start": {
			{Kind: domain.EventRest, From: plusDays(3), To: plusDays(1)},
		},
		"too many minutes": {
			domain.MatchEvent(plusDays(1), 500, role, 1),
		},
	}

	for name, events := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Propagate(p, testAgent(), s, plusDays(7), events)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestPropagate_DoesNotMutateInput(t *testing.T) {
	s := stateAt(day0, 9000, 8000, 0)
	s.Recent = make([]domain.Appearance, 0, 4)
	events := []domain.Event{domain.MatchEvent(day0, 90, domain.Role{ID: "ST"}, 1)}

	_, err := Propagate(DefaultParams(), testAgent(), s, plusDays(2), events)
	require.NoError(t, err)
	assert.Empty(t, s.Recent)
	assert.Equal(t, 9000.0, s.Condition)
}
