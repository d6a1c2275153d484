package domain

import "time"

// ReadinessMax es el techo de Condition y Sharpness.
const ReadinessMax = 10000.0

// Appearance es un partido jugado que cuenta para la ventana móvil de minutos.
type Appearance struct {
	Date    time.Time
	Minutes int
	Role    RoleID
}

// ReadinessState es la foto de un agente en el kickoff de una fecha.
// Condition y Sharpness se acotan a [0, ReadinessMax]; Fatigue puede ser
// negativa (falta de ritmo) y solo tiene un tope blando por arriba.
type ReadinessState struct {
	Date      time.Time
	Condition float64
	Sharpness float64
	Fatigue   float64
	// Recent contiene las apariciones dentro de la ventana móvil.
	Recent     []Appearance
	LastMatch  time.Time
	Overloaded bool
	// Stale marca un estado que no pudo propagarse y conserva el último válido.
	Stale       bool
	StaleReason string
}

// Clamp acota Condition y Sharpness a su rango.
func (s ReadinessState) Clamp() ReadinessState {
	s.Condition = clamp(s.Condition, 0, ReadinessMax)
	s.Sharpness = clamp(s.Sharpness, 0, ReadinessMax)
	return s
}

// Clone copia el estado incluyendo el slice de apariciones (copy-on-write).
func (s ReadinessState) Clone() ReadinessState {
	if s.Recent != nil {
		recent := make([]Appearance, len(s.Recent))
		copy(recent, s.Recent)
		s.Recent = recent
	}
	return s
}

// ConditionPct devuelve la condición en [0, 1].
func (s ReadinessState) ConditionPct() float64 {
	return clamp(s.Condition/ReadinessMax, 0, 1)
}

// SharpnessPct devuelve la sharpness en [0, 1].
func (s ReadinessState) SharpnessPct() float64 {
	return clamp(s.Sharpness/ReadinessMax, 0, 1)
}

// WindowMinutes suma los minutos jugados en los windowDays anteriores a asOf
// (asOf excluido: el estado es el de antes del kickoff).
func (s ReadinessState) WindowMinutes(asOf time.Time, windowDays int) int {
	total := 0
	for _, a := range s.Recent {
		d := DaysBetween(a.Date, asOf)
		if d > 0 && d <= windowDays {
			total += a.Minutes
		}
	}
	return total
}

// Timeline es la historia append-only de estados de un agente.
// Append nunca reescribe: devuelve un Timeline nuevo.
type Timeline struct {
	snapshots []ReadinessState
}

// NewTimeline crea un timeline con el estado inicial.
func NewTimeline(initial ReadinessState) Timeline {
	return Timeline{snapshots: []ReadinessState{initial.Clone()}}
}

// Append añade un estado. Un estado anterior al último es un historial imposible.
func (t Timeline) Append(agent AgentID, s ReadinessState) (Timeline, error) {
	if n := len(t.snapshots); n > 0 {
		last := t.snapshots[n-1]
		if Day(s.Date).Before(Day(last.Date)) {
			return t, NewInfeasibleStateError(agent, "snapshot %s precedes latest %s",
				s.Date.Format(DateLayout), last.Date.Format(DateLayout))
		}
	}
	next := make([]ReadinessState, len(t.snapshots), len(t.snapshots)+1)
	copy(next, t.snapshots)
	next = append(next, s.Clone())
	return Timeline{snapshots: next}, nil
}

// Latest devuelve el último estado (cero si el timeline está vacío).
func (t Timeline) Latest() ReadinessState {
	if len(t.snapshots) == 0 {
		return ReadinessState{}
	}
	return t.snapshots[len(t.snapshots)-1].Clone()
}

// At devuelve el último estado con fecha <= date.
func (t Timeline) At(date time.Time) (ReadinessState, bool) {
	d := Day(date)
	for i := len(t.snapshots) - 1; i >= 0; i-- {
		if !Day(t.snapshots[i].Date).After(d) {
			return t.snapshots[i].Clone(), true
		}
	}
	return ReadinessState{}, false
}

// Len devuelve el número de estados.
func (t Timeline) Len() int {
	return len(t.snapshots)
}

// Snapshots devuelve una copia de todos los estados.
func (t Timeline) Snapshots() []ReadinessState {
	out := make([]ReadinessState, len(t.snapshots))
	for i, s := range t.snapshots {
		out[i] = s.Clone()
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
