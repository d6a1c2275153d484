// Package stability penaliza la rotación innecesaria de roles entre lineups.
package stability

import (
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/utility"
)

// Params controla la magnitud de los ajustes con inertiaWeight = 1.
type Params struct {
	ContinuityBonus float64 // mismo rol que en el lineup anterior
	SwitchPenalty   float64 // rol distinto al del lineup anterior
}

// DefaultParams devuelve los valores por defecto.
func DefaultParams() Params {
	return Params{ContinuityBonus: 0.12, SwitchPenalty: 0.06}
}

// Adjust aplica el ajuste de continuidad a un score:
//   - mismo rol en el lineup anterior: × (1 + ContinuityBonus × inertia)
//   - otro rol en el lineup anterior:  × (1 − SwitchPenalty × inertia)
//   - sin lineup anterior o sin aparecer en él: sin cambios
//
// inertia se acota a [0, 1]; con 0 el historial se ignora por completo.
func (p Params) Adjust(score float64, agent domain.AgentID, role domain.RoleID, previous *domain.Lineup, inertia float64) float64 {
	if previous == nil || utility.IsProhibitive(score) {
		return score
	}
	inertia = clampUnit(inertia)
	if inertia == 0 {
		return score
	}
	prevRole, ok := previous.RoleOf(agent)
	if !ok {
		return score
	}
	if prevRole == role {
		return score * (1 + p.ContinuityBonus*inertia)
	}
	factor := 1 - p.SwitchPenalty*inertia
	if factor < 0 {
		factor = 0
	}
	return score * factor
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
