package stability

import (
	"testing"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/utility"
	"github.com/stretchr/testify/assert"
)

func previousLineup() *domain.Lineup {
	return &domain.Lineup{
		FixtureID: "f0",
		Assignments: []domain.Assignment{
			{Role: "ST", Agent: "a1"},
			{Role: "CM", Agent: "a2"},
		},
	}
}

func TestAdjust_SameRoleBonus(t *testing.T) {
	p := DefaultParams()
	assert.InDelta(t, 10*(1+p.ContinuityBonus), p.Adjust(10, "a1", "ST", previousLineup(), 1), 1e-9)
	assert.InDelta(t, 10*(1+p.ContinuityBonus*0.5), p.Adjust(10, "a1", "ST", previousLineup(), 0.5), 1e-9)
}

func TestAdjust_SwitchPenalty(t *testing.T) {
	p := DefaultParams()
	assert.InDelta(t, 10*(1-p.SwitchPenalty), p.Adjust(10, "a1", "CM", previousLineup(), 1), 1e-9)
}

func TestAdjust_ZeroInertiaIgnoresHistory(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 10.0, p.Adjust(10, "a1", "ST", previousLineup(), 0))
	assert.Equal(t, 10.0, p.Adjust(10, "a1", "CM", previousLineup(), 0))
}

func TestAdjust_NoHistory(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 10.0, p.Adjust(10, "a1", "ST", nil, 1))
	assert.Equal(t, 10.0, p.Adjust(10, "a9", "ST", previousLineup(), 1))
}

func TestAdjust_InertiaClamped(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, p.Adjust(10, "a1", "ST", previousLineup(), 1), p.Adjust(10, "a1", "ST", previousLineup(), 3))
	assert.Equal(t, 10.0, p.Adjust(10, "a1", "ST", previousLineup(), -2))
}

func TestAdjust_KeepsProhibitive(t *testing.T) {
	p := DefaultParams()
	assert.True(t, utility.IsProhibitive(p.Adjust(utility.Prohibitive, "a1", "ST", previousLineup(), 1)))
}
