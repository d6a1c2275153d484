package utility

import "github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"

// Curve son los parámetros de las curvas para un tier de importancia.
type Curve struct {
	ConditionMid       float64 // punto de inflexión de Φ (fracción 0–1)
	ConditionSteepness float64
	SharpnessMid       float64 // punto de inflexión de Ψ
	SharpnessSteepness float64
	// PenaltyAmplifier > 1 endurece las penalizaciones de condición y fatiga
	// (partidos importantes); < 1 las suaviza.
	PenaltyAmplifier float64
	// DevelopmentBonus premia a agentes con poca sharpness (minutos de rodaje).
	DevelopmentBonus float64
	// Weight es el peso del tier en el shadow pricing.
	Weight float64
}

// Bands son los multiplicadores Ω por banda de fatiga.
type Bands struct {
	Fresh    float64
	MatchFit float64
	Tired    float64
	Jaded    float64
}

// Params agrupa los cuatro tiers como campos explícitos (no un mapa) y el
// resto de constantes del motor.
type Params struct {
	Low      Curve
	Medium   Curve
	High     Curve
	Critical Curve

	// SafeCondition: por debajo, el agente se marca "needs rest".
	SafeCondition float64
	// MatchFitSharpness: por debajo, el agente se marca "low sharpness".
	MatchFitSharpness float64
	// DevelopmentTarget: sharpness a partir de la cual no hay bonus de rodaje.
	DevelopmentTarget float64

	// FamiliarityFloor es Θ con familiaridad cero y peso de rol 1.
	FamiliarityFloor float64
	// MinFamiliarity acota Θ por abajo cuando el peso de rol es alto.
	MinFamiliarity float64

	Bands Bands
	// Umbrales de fatiga para las bandas. Tired y Jaded requieren además la
	// sobrecarga de la ventana móvil, salvo que la fatiga supere JadedFatigue.
	MatchFitFatigue float64
	TiredFatigue    float64
	JadedFatigue    float64
}

// DefaultParams devuelve la calibración por defecto.
func DefaultParams() Params {
	return Params{
		Low: Curve{
			ConditionMid: 0.80, ConditionSteepness: 35,
			SharpnessMid: 0.50, SharpnessSteepness: 10,
			PenaltyAmplifier: 0.8, DevelopmentBonus: 0.15, Weight: 0.5,
		},
		Medium: Curve{
			ConditionMid: 0.84, ConditionSteepness: 45,
			SharpnessMid: 0.55, SharpnessSteepness: 11,
			PenaltyAmplifier: 1.0, DevelopmentBonus: 0.05, Weight: 1.0,
		},
		High: Curve{
			ConditionMid: 0.87, ConditionSteepness: 60,
			SharpnessMid: 0.60, SharpnessSteepness: 12,
			PenaltyAmplifier: 1.25, DevelopmentBonus: 0, Weight: 1.6,
		},
		Critical: Curve{
			ConditionMid: 0.88, ConditionSteepness: 70,
			SharpnessMid: 0.62, SharpnessSteepness: 13,
			PenaltyAmplifier: 1.5, DevelopmentBonus: 0, Weight: 2.2,
		},
		SafeCondition:     0.90,
		MatchFitSharpness: 0.60,
		DevelopmentTarget: 0.85,
		FamiliarityFloor:  0.45,
		MinFamiliarity:    0.05,
		Bands: Bands{
			Fresh:    1.0,
			MatchFit: 0.96,
			Tired:    0.85,
			Jaded:    0.65,
		},
		MatchFitFatigue: 400,
		TiredFatigue:    1200,
		JadedFatigue:    2500,
	}
}

// For devuelve la curva del tier.
func (p Params) For(imp domain.Importance) Curve {
	switch imp {
	case domain.ImportanceLow:
		return p.Low
	case domain.ImportanceHigh:
		return p.High
	case domain.ImportanceCritical:
		return p.Critical
	}
	return p.Medium
}
