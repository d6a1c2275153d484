package shadow

import (
	"testing"
	"time"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/readiness"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/utility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

var roleX = domain.Role{ID: "X"}

func agent(id string, rating int, recovery float64) domain.Agent {
	phys := domain.DefaultPhysical()
	phys.Recovery = recovery
	return domain.Agent{
		ID:          domain.AgentID(id),
		Ratings:     map[domain.RoleID]int{"X": rating},
		Familiarity: map[domain.RoleID]domain.Familiarity{"X": domain.FamiliarityNatural},
		Physical:    phys,
	}
}

func state() domain.ReadinessState {
	return domain.ReadinessState{Date: day0, Condition: 10000, Sharpness: 9500}
}

func fixtureAt(id string, offset int, imp domain.Importance) domain.Fixture {
	return domain.Fixture{
		ID:         domain.FixtureID(id),
		Date:       domain.AddDays(day0, offset),
		Opponent:   0.5,
		Importance: imp,
		Roles:      []domain.RoleID{"X"},
	}
}

func roster(agents ...domain.Agent) domain.RosterSnapshot {
	return domain.RosterSnapshot{
		AsOf:   day0,
		Agents: agents,
		Roles:  map[domain.RoleID]domain.Role{"X": roleX},
		States: map[domain.AgentID]domain.ReadinessState{},
		Events: map[domain.AgentID][]domain.Event{},
	}
}

func pricer() Pricer {
	return NewPricer(DefaultParams(), readiness.DefaultParams(), utility.DefaultParams())
}

func request(a domain.Agent, r domain.RosterSnapshot, current domain.Fixture, upcoming ...domain.Fixture) Request {
	return Request{Agent: a, Role: roleX, State: state(), Current: current, Upcoming: upcoming, Roster: r}
}

// --- Penalty ---

func TestPenalty_SlowRecoveryCostsMore(t *testing.T) {
	slow := agent("slow", 15, 0.5)
	fast := agent("fast", 15, 1.5)
	r := roster(slow, fast)
	current := fixtureAt("f1", 0, domain.ImportanceMedium)
	cup := fixtureAt("f2", 3, domain.ImportanceCritical)

	ps, err := pricer().Penalty(request(slow, r, current, cup))
	require.NoError(t, err)
	pf, err := pricer().Penalty(request(fast, r, current, cup))
	require.NoError(t, err)

	require.Len(t, ps.Terms, 1)
	assert.Equal(t, domain.FixtureID("f2"), ps.Terms[0].Fixture)
	assert.InDelta(t, 0.5, ps.Terms[0].Scarcity, 1e-9)
	assert.Greater(t, ps.Value, pf.Value)
	assert.Greater(t, ps.Value, 5.0)
}

func TestPenalty_DisabledWithoutLookahead(t *testing.T) {
	pr := pricer()
	pr.Params.Lookahead = 0
	a := agent("a", 15, 0.5)

	pen, err := pr.Penalty(request(a, roster(a), fixtureAt("f1", 0, domain.ImportanceLow), fixtureAt("f2", 2, domain.ImportanceCritical)))
	require.NoError(t, err)
	assert.Zero(t, pen.Value)
	assert.Empty(t, pen.Terms)
}

func TestPenalty_IgnoresImmaterialFixtures(t *testing.T) {
	a := agent("a", 15, 0.5)

	pen, err := pricer().Penalty(request(a, roster(a), fixtureAt("f1", 0, domain.ImportanceHigh), fixtureAt("f2", 2, domain.ImportanceHigh)))
	require.NoError(t, err)
	assert.Zero(t, pen.Value)

	pen, err = pricer().Penalty(request(a, roster(a), fixtureAt("f1", 0, domain.ImportanceCritical), fixtureAt("f2", 2, domain.ImportanceCritical)))
	require.NoError(t, err)
	assert.Zero(t, pen.Value)
}

func TestPenalty_DiscountScalesTerm(t *testing.T) {
	a := agent("a", 15, 0.5)
	req := request(a, roster(a), fixtureAt("f1", 0, domain.ImportanceMedium), fixtureAt("f2", 3, domain.ImportanceCritical))

	pr := pricer()
	base, err := pr.Penalty(req)
	require.NoError(t, err)
	pr.Params.Discount = 0.5
	halved, err := pr.Penalty(req)
	require.NoError(t, err)

	require.Greater(t, base.Value, 0.0)
	assert.InDelta(t, base.Value*0.5/0.85, halved.Value, 1e-9)
}

func TestPenalty_ScarcityFallsWithAlternatives(t *testing.T) {
	a := agent("a", 15, 0.5)
	current := fixtureAt("f1", 0, domain.ImportanceMedium)
	cup := fixtureAt("f2", 3, domain.ImportanceCritical)

	alone, err := pricer().Penalty(request(a, roster(a), current, cup))
	require.NoError(t, err)
	// un suplente de rating 10 no es comparable (< 0.9 × 15)
	weak, err := pricer().Penalty(request(a, roster(a, agent("b", 10, 1)), current, cup))
	require.NoError(t, err)
	covered, err := pricer().Penalty(request(a, roster(a, agent("b", 14, 1)), current, cup))
	require.NoError(t, err)

	assert.InDelta(t, alone.Value, weak.Value, 1e-9)
	assert.InDelta(t, alone.Value/2, covered.Value, 1e-9)
}

func TestPenalty_InjuredAlternativeIsNotComparable(t *testing.T) {
	a := agent("a", 15, 0.5)
	b := agent("b", 15, 1)
	b.Availability.Injured = true

	pen, err := pricer().Penalty(request(a, roster(a, b), fixtureAt("f1", 0, domain.ImportanceMedium), fixtureAt("f2", 3, domain.ImportanceCritical)))
	require.NoError(t, err)
	require.Len(t, pen.Terms, 1)
	assert.InDelta(t, 1.0, pen.Terms[0].Scarcity, 1e-9)
}

func TestPenalty_SkipsFixtureAgentCannotPlay(t *testing.T) {
	a := agent("a", 15, 0.5)
	r := roster(a)
	r.Events["a"] = []domain.Event{domain.VacationEvent(domain.AddDays(day0, 2), domain.AddDays(day0, 4))}

	pen, err := pricer().Penalty(request(a, r, fixtureAt("f1", 0, domain.ImportanceMedium), fixtureAt("f2", 3, domain.ImportanceCritical)))
	require.NoError(t, err)
	assert.Zero(t, pen.Value)
}

func TestPenalty_BeyondLookaheadIgnored(t *testing.T) {
	a := agent("a", 15, 0.5)
	pr := pricer()
	pr.Params.Lookahead = 1

	pen, err := pr.Penalty(request(a, roster(a),
		fixtureAt("f1", 0, domain.ImportanceMedium),
		fixtureAt("f2", 3, domain.ImportanceLow),
		fixtureAt("f3", 4, domain.ImportanceCritical)))
	require.NoError(t, err)
	assert.Zero(t, pen.Value)

	pr.Params.Lookahead = 2
	pen, err = pr.Penalty(request(a, roster(a),
		fixtureAt("f1", 0, domain.ImportanceMedium),
		fixtureAt("f2", 3, domain.ImportanceLow),
		fixtureAt("f3", 4, domain.ImportanceCritical)))
	require.NoError(t, err)
	require.Len(t, pen.Terms, 1)
	assert.Equal(t, 2, pen.Terms[0].Offset)
}

func TestPenalty_UnratedRoleSkipped(t *testing.T) {
	a := agent("a", 15, 0.5)
	cup := fixtureAt("f2", 3, domain.ImportanceCritical)
	cup.Roles = []domain.RoleID{"GK"}
	r := roster(a)
	r.Roles["GK"] = domain.Role{ID: "GK"}

	pen, err := pricer().Penalty(request(a, r, fixtureAt("f1", 0, domain.ImportanceMedium), cup))
	require.NoError(t, err)
	assert.Zero(t, pen.Value)
}

// --- Apply ---

func TestApply(t *testing.T) {
	pr := pricer()
	assert.Equal(t, 7.0, pr.Apply(10, Penalty{Value: 3}))
	assert.Equal(t, 0.0, pr.Apply(2, Penalty{Value: 3}))
	assert.Equal(t, 10.0, pr.Apply(10, Penalty{}))
	assert.True(t, utility.IsProhibitive(pr.Apply(utility.Prohibitive, Penalty{Value: 3})))
}
