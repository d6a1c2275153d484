package utility

import (
	"fmt"
	"math"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
)

// Prohibitive es el score de una celda no elegible (agente no disponible o
// sin rating). El solver la trata como prohibida sin casos especiales.
var Prohibitive = math.Inf(-1)

// IsProhibitive devuelve true para una celda no elegible.
func IsProhibitive(v float64) bool {
	return math.IsInf(v, -1)
}

// Breakdown expone cada factor del score para diagnóstico.
type Breakdown struct {
	Raw    float64
	Phi    float64
	Psi    float64
	Theta  float64
	Omega  float64
	Lambda float64
	Band   Band
}

// Score es el resultado de EffectiveScore.
type Score struct {
	Value     float64
	Eligible  bool
	Reason    string
	Breakdown Breakdown
}

// EffectiveScore calcula el score de un agente en un rol para un fixture:
//
//	raw × Φ(condition) × Ψ(sharpness) × Θ(familiarity) × Ω(band) × Λ(importance, readiness)
//
// Todos los factores son ≥ 0, así que el score es monótono en el rating.
func (p Params) EffectiveScore(agent domain.Agent, role domain.Role, st domain.ReadinessState, fx domain.Fixture) Score {
	if !agent.Availability.Available() {
		return Score{Value: Prohibitive, Reason: agent.Availability.Reason()}
	}
	rating, ok := agent.Rating(role)
	if !ok {
		return Score{Value: Prohibitive, Reason: fmt.Sprintf("no rating for %s", role.Key())}
	}

	curve := p.For(fx.Importance)
	cond := st.ConditionPct()
	sharp := st.SharpnessPct()
	band := p.Classify(st)

	b := Breakdown{
		Raw:   float64(rating),
		Phi:   Phi(curve, cond),
		Psi:   Psi(curve, sharp),
		Theta: p.Theta(agent.FamiliarityAt(role), role.UnfamiliarityWeight()),
		Omega: p.Omega(band),
		Band:  band,
	}
	b.Lambda = p.Lambda(curve, b.Phi, b.Omega, sharp)

	value := b.Raw * b.Phi * b.Psi * b.Theta * b.Omega * b.Lambda
	return Score{Value: math.Max(0, value), Eligible: true, Breakdown: b}
}

// NeedsRest devuelve true si la condición está por debajo del umbral seguro
// o el agente está en la banda Jaded.
func (p Params) NeedsRest(st domain.ReadinessState) bool {
	return st.ConditionPct() < p.SafeCondition || p.Classify(st) == BandJaded
}

// LowSharpness devuelve true si el agente no está en forma de partido.
func (p Params) LowSharpness(st domain.ReadinessState) bool {
	return st.SharpnessPct() < p.MatchFitSharpness
}

// ReadinessFactor es Φ·Ω·Λ sin rating ni familiaridad: cuánto del valor de un
// agente sobrevive a su estado físico en un fixture dado.
func (p Params) ReadinessFactor(st domain.ReadinessState, imp domain.Importance) float64 {
	curve := p.For(imp)
	phi := Phi(curve, st.ConditionPct())
	omega := p.Omega(p.Classify(st))
	return phi * omega * p.Lambda(curve, phi, omega, st.SharpnessPct())
}
