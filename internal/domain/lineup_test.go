package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlags_RoundTripNames(t *testing.T) {
	fl := FlagNeedsRest | FlagShadowDiscounted
	assert.Equal(t, "needs-rest,shadow-discounted", fl.String())
	assert.Equal(t, fl, ParseFlags(fl.String()))
	assert.True(t, fl.Has(FlagNeedsRest))
	assert.False(t, fl.Has(FlagManualOverride))
	assert.Equal(t, Flags(0), ParseFlags(""))
}

func TestProvenance_Parse(t *testing.T) {
	for _, p := range []Provenance{ProvenanceAuto, ProvenanceOverridden, ProvenanceConfirmed} {
		assert.Equal(t, p, ParseProvenance(p.String()))
	}
	assert.Equal(t, ProvenanceAuto, ParseProvenance("garbage"))
}

func TestLineup_Lookups(t *testing.T) {
	l := Lineup{
		Provenance: ProvenanceConfirmed,
		Assignments: []Assignment{
			{Role: "GK", Agent: "a", Score: 12},
			{Role: "ST", Agent: "b", Score: 16},
		},
	}
	assert.True(t, l.Confirmed())

	agent, ok := l.AgentFor("ST")
	assert.True(t, ok)
	assert.Equal(t, AgentID("b"), agent)

	role, ok := l.RoleOf("a")
	assert.True(t, ok)
	assert.Equal(t, RoleID("GK"), role)

	_, ok = l.RoleOf("z")
	assert.False(t, ok)
	assert.InDelta(t, 14, l.AverageScore(), 1e-9)
	assert.Zero(t, Lineup{}.AverageScore())
}
