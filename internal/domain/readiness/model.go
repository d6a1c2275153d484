package readiness

import (
	"fmt"
	"math"
	"time"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
)

// dayMode es el régimen de un día, derivado de las ventanas del calendario.
type dayMode int

const (
	modeNormal dayMode = iota
	modeReduced
	modeIntensive
	modeRest
	modeVacation
)

// Propagate avanza el estado de un agente desde start.Date hasta el kickoff
// del día `to`. Un partido fechado en D se aplica en D y después corre la
// noche D→D+1; los partidos del propio `to` no se aplican (aún no se jugaron).
//
// Los eventos deben caer en [start.Date, to): cualquier evento fuera de rango,
// solapado o mal formado se rechaza con un ValidationError, nunca se ignora.
// Un `to` anterior a start.Date devuelve un InfeasibleStateError.
func Propagate(p Params, agent domain.Agent, start domain.ReadinessState, to time.Time, events []domain.Event) (domain.ReadinessState, error) {
	if start.Date.IsZero() {
		return start, domain.NewInfeasibleStateError(agent.ID, "readiness state has no date")
	}
	from := domain.Day(start.Date)
	target := domain.Day(to)
	if target.Before(from) {
		return start, domain.NewInfeasibleStateError(agent.ID, "negative elapsed time %s → %s",
			from.Format(domain.DateLayout), target.Format(domain.DateLayout))
	}
	if err := ValidateEvents(p, events, from, target); err != nil {
		return start, fmt.Errorf("readiness.Propagate: agent %s: %w", agent.ID, err)
	}

	s := start.Clone().Clamp()
	s.Stale = false
	s.StaleReason = ""

	// sin último partido conocido, la inactividad se cuenta desde start.Date
	lastPlayed := s.LastMatch
	if lastPlayed.IsZero() {
		lastPlayed = from
	}
	for day := from; day.Before(target); day = day.AddDate(0, 0, 1) {
		if m, ok := matchOn(events, day); ok {
			s = applyMatch(p, agent, s, m, day)
			if !s.LastMatch.IsZero() {
				lastPlayed = s.LastMatch
			}
		}
		s = overnight(p, agent, s, modeOn(events, day), lastPlayed, day.AddDate(0, 0, 1))
	}

	s.Date = target
	s.Recent = pruneRecent(s.Recent, target, p.WindowDays)
	s.Overloaded = s.WindowMinutes(target, p.WindowDays) > p.OverloadMinutes
	return s.Clamp(), nil
}

// applyMatch aplica los minutos jugados: desgaste de condición minuto a minuto,
// ganancia de sharpness y acumulación de fatiga con posible sobrecarga.
func applyMatch(p Params, agent domain.Agent, s domain.ReadinessState, m domain.Event, day time.Time) domain.ReadinessState {
	if m.Minutes <= 0 {
		return s
	}
	minutes := float64(m.Minutes)
	drag := m.Drag
	if drag <= 0 {
		drag = 1
	}
	intensity := m.Intensity
	if intensity <= 0 {
		intensity = 1
	}

	base := p.DrainPerMinute * drag * intensity * agent.Physical.DrainRatio()
	c := s.Condition
	for i := 0; i < m.Minutes; i++ {
		rate := base
		if p.SoftFloor > 0 && c < p.SoftFloor {
			// agotamiento compuesto: el desgaste crece con el cuadrado del déficit
			deficit := (p.SoftFloor - c) / p.SoftFloor
			rate *= 1 + p.ExhaustionFactor*deficit*deficit
		}
		c -= rate
		if c <= 0 {
			c = 0
			break
		}
	}
	s.Condition = c

	s.Sharpness += p.SharpnessGainPerMinute * minutes * (1 - s.Sharpness/domain.ReadinessMax)

	prior := s.WindowMinutes(day, p.WindowDays)
	accrual := p.FatiguePerMinute * minutes * intensity
	if p.OverloadMinutes > 0 && prior+m.Minutes > p.OverloadMinutes {
		accrual *= p.OverloadMultiplier
	}
	s.Fatigue = accrue(p, s.Fatigue, accrual)

	s.Recent = append(s.Recent, domain.Appearance{Date: day, Minutes: m.Minutes, Role: m.Role})
	s.LastMatch = day
	return s.Clamp()
}

// overnight aplica la transición de un día al siguiente. lastPlayed decide
// si la sharpness ya pasó el umbral de caída rápida.
func overnight(p Params, agent domain.Agent, s domain.ReadinessState, mode dayMode, lastPlayed, next time.Time) domain.ReadinessState {
	rate := p.RecoveryRate * agent.Physical.Recovery * recoveryMul(p, mode)
	damp := 1 + p.FatigueDamping*math.Max(s.Fatigue, 0)/1000
	frac := 1 - math.Exp(-rate/damp)
	s.Condition += (domain.ReadinessMax - s.Condition) * frac

	decay := p.SharpnessDecaySlow
	if domain.DaysBetween(lastPlayed, next) > p.SharpnessCliffDays {
		decay = p.SharpnessDecayFast
	}
	switch mode {
	case modeVacation:
		decay *= p.VacationSharpnessMul
	case modeIntensive:
		decay *= p.IntensiveSharpnessMul
	}
	s.Sharpness -= decay

	s.Fatigue = dissipate(p, s.Fatigue, mode)
	return s.Clamp()
}

func recoveryMul(p Params, mode dayMode) float64 {
	switch mode {
	case modeRest, modeVacation:
		return p.RestRecoveryBoost
	case modeReduced:
		return p.ReducedRecoveryMul
	case modeIntensive:
		return p.IntensiveRecovery
	}
	return 1
}

// dissipate reduce la fatiga según el régimen del día. Solo el descanso real
// lleva la fatiga por debajo de 0 (falta de ritmo), y más despacio.
func dissipate(p Params, f float64, mode dayMode) float64 {
	switch mode {
	case modeRest, modeVacation:
		if f > 0 {
			f -= p.FatigueDecayRest
			if f < 0 {
				f *= p.UnderConditioningRate
			}
			return f
		}
		return f - p.FatigueDecayRest*p.UnderConditioningRate
	case modeReduced:
		return towardZero(f, p.FatigueDecayReduced)
	case modeIntensive:
		return f + p.IntensiveAccrual
	}
	return towardZero(f, p.FatigueDecayNormal)
}

// accrue suma fatiga respetando el tope blando.
func accrue(p Params, f, amount float64) float64 {
	if p.FatigueSoftCap <= 0 {
		return f + amount
	}
	if f >= p.FatigueSoftCap {
		return f + amount*p.OverCapFactor
	}
	if f+amount <= p.FatigueSoftCap {
		return f + amount
	}
	over := f + amount - p.FatigueSoftCap
	return p.FatigueSoftCap + over*p.OverCapFactor
}

func towardZero(f, step float64) float64 {
	switch {
	case f > step:
		return f - step
	case f < -step:
		return f + step
	}
	return 0
}

func matchOn(events []domain.Event, day time.Time) (domain.Event, bool) {
	for _, e := range events {
		if e.Kind == domain.EventMatch && domain.Day(e.From).Equal(day) {
			return e, true
		}
	}
	return domain.Event{}, false
}

func modeOn(events []domain.Event, day time.Time) dayMode {
	for _, e := range events {
		if !e.IsWindow() || !e.Covers(day) {
			continue
		}
		switch e.Kind {
		case domain.EventVacation:
			return modeVacation
		case domain.EventRest:
			return modeRest
		case domain.EventTraining:
			switch e.Training {
			case domain.TrainingReduced:
				return modeReduced
			case domain.TrainingIntensive:
				return modeIntensive
			}
		}
	}
	return modeNormal
}

func pruneRecent(recent []domain.Appearance, asOf time.Time, windowDays int) []domain.Appearance {
	out := recent[:0:0]
	for _, a := range recent {
		if domain.DaysBetween(a.Date, asOf) <= windowDays {
			out = append(out, a)
		}
	}
	return out
}
