package utility

import (
	"math"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
)

// Band es la banda de fatiga usada por Ω.
type Band int

const (
	BandFresh Band = iota
	BandMatchFit
	BandTired
	BandJaded
)

func (b Band) String() string {
	switch b {
	case BandMatchFit:
		return "match-fit"
	case BandTired:
		return "tired"
	case BandJaded:
		return "jaded"
	}
	return "fresh"
}

// Classify asigna la banda de fatiga. La sobrecarga de la ventana móvil
// decide Tired/Jaded; la fatiga instantánea solo basta en el extremo.
func (p Params) Classify(s domain.ReadinessState) Band {
	f := s.Fatigue
	switch {
	case f >= p.JadedFatigue:
		return BandJaded
	case s.Overloaded && f >= p.TiredFatigue:
		return BandJaded
	case s.Overloaded:
		return BandTired
	case f >= p.TiredFatigue:
		return BandTired
	case f >= p.MatchFitFatigue:
		return BandMatchFit
	}
	return BandFresh
}

// Phi es el multiplicador de condición: logística empinada, ≈1 por encima
// del umbral seguro y colapso brusco por debajo. c en [0, 1].
func Phi(c Curve, condition float64) float64 {
	return normalizedLogistic(condition, c.ConditionMid, c.ConditionSteepness)
}

// Psi es el multiplicador de sharpness: logística más suave que Φ, casi 0
// por debajo del umbral de forma de partido.
func Psi(c Curve, sharpness float64) float64 {
	return normalizedLogistic(sharpness, c.SharpnessMid, c.SharpnessSteepness)
}

// Theta es el multiplicador de familiaridad: suelo + pendiente casi lineal.
// Familiaridad cero conserva el suelo; familiaridad plena da 1. El peso del
// rol escala la pendiente (roles defensivos penalizan más).
func (p Params) Theta(f domain.Familiarity, roleWeight float64) float64 {
	if roleWeight <= 0 {
		roleWeight = 1
	}
	theta := 1 - (1-p.FamiliarityFloor)*roleWeight*(1-f.Level())
	return math.Min(1, math.Max(p.MinFamiliarity, theta))
}

// Omega es el multiplicador por banda de fatiga.
func (p Params) Omega(b Band) float64 {
	switch b {
	case BandMatchFit:
		return p.Bands.MatchFit
	case BandTired:
		return p.Bands.Tired
	case BandJaded:
		return p.Bands.Jaded
	}
	return p.Bands.Fresh
}

// Lambda ajusta por importancia: eleva las penalizaciones Φ·Ω a
// (PenaltyAmplifier − 1) y premia la poca sharpness en partidos de rodaje.
func (p Params) Lambda(c Curve, phi, omega, sharpness float64) float64 {
	dev := 1.0
	if c.DevelopmentBonus > 0 && p.DevelopmentTarget > 0 && sharpness < p.DevelopmentTarget {
		dev += c.DevelopmentBonus * (p.DevelopmentTarget - sharpness) / p.DevelopmentTarget
	}
	base := phi * omega
	if base <= 0 {
		return dev
	}
	return math.Pow(base, c.PenaltyAmplifier-1) * dev
}

// normalizedLogistic devuelve L(x)/L(1): 1 en el máximo de la escala.
func normalizedLogistic(x, mid, k float64) float64 {
	if x >= 1 {
		return 1
	}
	if x < 0 {
		x = 0
	}
	top := logistic(1, mid, k)
	if top <= 0 {
		return 0
	}
	return math.Min(1, logistic(x, mid, k)/top)
}

func logistic(x, mid, k float64) float64 {
	return 1 / (1 + math.Exp(-k*(x-mid)))
}
