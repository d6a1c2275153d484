package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRoster() RosterSnapshot {
	return RosterSnapshot{
		AsOf: d0,
		Agents: []Agent{
			{ID: "a", Ratings: map[RoleID]int{"X": 14}, Physical: DefaultPhysical()},
			{ID: "b", Ratings: map[RoleID]int{"X": 12}, Physical: DefaultPhysical()},
		},
		Roles:  map[RoleID]Role{"X": {ID: "X"}, "Y": {ID: "Y"}},
		States: map[AgentID]ReadinessState{"a": {Date: d0}},
		Events: map[AgentID][]Event{"b": {RestEvent(d0, AddDays(d0, 1))}},
	}
}

func TestRosterSnapshot_Validate(t *testing.T) {
	fixtures := []Fixture{fx("f1", 1, ImportanceMedium)}
	require.NoError(t, validRoster().Validate(fixtures))

	tests := []struct {
		name     string
		mutate   func(*RosterSnapshot, *[]Fixture)
		contains string
	}{
		{"empty", func(r *RosterSnapshot, _ *[]Fixture) { r.Agents = nil }, "empty roster"},
		{"duplicate agent", func(r *RosterSnapshot, _ *[]Fixture) { r.Agents[1].ID = "a" }, "duplicate agent"},
		{"rating out of scale", func(r *RosterSnapshot, _ *[]Fixture) { r.Agents[0].Ratings["X"] = 21 }, "outside 0..20"},
		{"zero recovery", func(r *RosterSnapshot, _ *[]Fixture) { r.Agents[0].Physical.Recovery = 0 }, "physical"},
		{"state for stranger", func(r *RosterSnapshot, _ *[]Fixture) { r.States["z"] = ReadinessState{} }, "unknown agent"},
		{"events for stranger", func(r *RosterSnapshot, _ *[]Fixture) { r.Events["z"] = nil }, "unknown agent"},
		{"duplicate fixture", func(_ *RosterSnapshot, f *[]Fixture) { *f = append(*f, (*f)[0]) }, "duplicate fixture"},
		{"fixture in the past", func(_ *RosterSnapshot, f *[]Fixture) { (*f)[0].Date = AddDays(d0, -1) }, "before roster snapshot"},
		{"no roles", func(_ *RosterSnapshot, f *[]Fixture) { (*f)[0].Roles = nil }, "no required roles"},
		{"unknown role", func(_ *RosterSnapshot, f *[]Fixture) { (*f)[0].Roles = []RoleID{"Q"} }, "unknown role"},
		{"role twice", func(_ *RosterSnapshot, f *[]Fixture) { (*f)[0].Roles = []RoleID{"X", "X"} }, "required twice"},
		{"bad importance", func(_ *RosterSnapshot, f *[]Fixture) { (*f)[0].Importance = Importance(9) }, "invalid importance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRoster()
			fs := []Fixture{fx("f1", 1, ImportanceMedium)}
			tt.mutate(&r, &fs)

			err := r.Validate(fs)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestRosterSnapshot_BlockedOn(t *testing.T) {
	r := validRoster()

	blocked, why := r.BlockedOn("b", AddDays(d0, 1))
	assert.True(t, blocked)
	assert.Contains(t, why, "rest")

	blocked, _ = r.BlockedOn("b", AddDays(d0, 2))
	assert.False(t, blocked)
	blocked, _ = r.BlockedOn("a", d0)
	assert.False(t, blocked)
}

func TestRosterSnapshot_StatesCopyIsDeep(t *testing.T) {
	r := validRoster()
	r.States["a"] = ReadinessState{Date: d0, Recent: []Appearance{{Minutes: 90}}}
	cp := r.StatesCopy()
	cp["a"].Recent[0].Minutes = 1
	assert.Equal(t, 90, r.States["a"].Recent[0].Minutes)
}

func TestAgent_RatingAndFamiliarity(t *testing.T) {
	a := Agent{
		ID:          "a",
		Ratings:     map[RoleID]int{"DC": 15},
		Familiarity: map[RoleID]Familiarity{"DCL": FamiliarityAwkward},
	}
	// DCL lee el rating de DC
	role := Role{ID: "DCL", RatingKey: "DC"}
	rating, ok := a.Rating(role)
	assert.True(t, ok)
	assert.Equal(t, 15, rating)
	assert.Equal(t, FamiliarityAwkward, a.FamiliarityAt(role))
	assert.Equal(t, FamiliarityCompetent, a.FamiliarityAt(Role{ID: "ST"}))

	_, ok = a.Rating(Role{ID: "ST"})
	assert.False(t, ok)
	assert.Equal(t, "a", a.Label())
}

func TestErrors_Taxonomy(t *testing.T) {
	v := NewValidationError("fixture.f1", "unknown role %q", "Q")
	assert.Equal(t, `validation: fixture.f1: unknown role "Q"`, v.Error())
	assert.True(t, errors.Is(v, ErrValidation))
	assert.False(t, errors.Is(v, ErrInfeasibleState))

	inf := NewInfeasibleStateError("a", "negative elapsed time")
	assert.True(t, errors.Is(inf, ErrInfeasibleState))
	assert.Contains(t, inf.Error(), "agent a")
}

func TestFamiliarity_Parse(t *testing.T) {
	f, err := ParseFamiliarity(" Natural ")
	require.NoError(t, err)
	assert.Equal(t, FamiliarityNatural, f)
	assert.Equal(t, 1.0, f.Level())
	assert.Equal(t, 0.0, FamiliarityIneffective.Level())

	_, err = ParseFamiliarity("expert")
	assert.ErrorIs(t, err, ErrValidation)
}
