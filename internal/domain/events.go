package domain

import (
	"fmt"
	"sort"
	"time"
)

// EventKind clasifica los eventos del calendario de un agente.
type EventKind int

const (
	EventMatch EventKind = iota
	EventRest
	EventTraining
	EventVacation
)

func (k EventKind) String() string {
	switch k {
	case EventMatch:
		return "match"
	case EventRest:
		return "rest"
	case EventTraining:
		return "training"
	case EventVacation:
		return "vacation"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// ParseEventKind convierte el nombre de un tipo de evento.
func ParseEventKind(s string) (EventKind, error) {
	for k := EventMatch; k <= EventVacation; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, NewValidationError("event.kind", "unknown kind %q", s)
}

// TrainingIntensity es la carga de entrenamiento de una ventana.
type TrainingIntensity int

const (
	TrainingNormal TrainingIntensity = iota
	TrainingReduced
	TrainingIntensive
)

func (t TrainingIntensity) String() string {
	switch t {
	case TrainingNormal:
		return "normal"
	case TrainingReduced:
		return "reduced"
	case TrainingIntensive:
		return "intensive"
	}
	return fmt.Sprintf("training(%d)", int(t))
}

// ParseTrainingIntensity convierte el nombre de una intensidad ("" = normal).
func ParseTrainingIntensity(s string) (TrainingIntensity, error) {
	switch s {
	case "", "normal":
		return TrainingNormal, nil
	case "reduced":
		return TrainingReduced, nil
	case "intensive":
		return TrainingIntensive, nil
	}
	return 0, NewValidationError("event.training", "unknown intensity %q", s)
}

// Event es un evento del calendario. Los partidos son de un día (From == To);
// descanso, vacaciones y entrenamiento son ventanas inclusivas [From, To].
type Event struct {
	Kind      EventKind
	From      time.Time
	To        time.Time
	Minutes   int
	Role      RoleID
	Drag      float64 // coeficiente de desgaste del rol jugado (0 = 1)
	Intensity float64 // intensidad táctica del partido (0 = 1)
	Training  TrainingIntensity
}

// MatchEvent construye un partido jugado.
func MatchEvent(date time.Time, minutes int, role Role, intensity float64) Event {
	d := Day(date)
	return Event{
		Kind:      EventMatch,
		From:      d,
		To:        d,
		Minutes:   minutes,
		Role:      role.ID,
		Drag:      role.DragCoefficient(),
		Intensity: intensity,
	}
}

// RestEvent construye una ventana de descanso completo.
func RestEvent(from, to time.Time) Event {
	return Event{Kind: EventRest, From: Day(from), To: Day(to)}
}

// VacationEvent construye una ventana de vacaciones.
func VacationEvent(from, to time.Time) Event {
	return Event{Kind: EventVacation, From: Day(from), To: Day(to)}
}

// TrainingEvent construye una ventana con una intensidad de entrenamiento.
func TrainingEvent(from, to time.Time, intensity TrainingIntensity) Event {
	return Event{Kind: EventTraining, From: Day(from), To: Day(to), Training: intensity}
}

// IsWindow devuelve true para eventos de varios días (todo salvo partidos).
func (e Event) IsWindow() bool {
	return e.Kind != EventMatch
}

// Covers devuelve true si el día cae dentro de [From, To].
func (e Event) Covers(day time.Time) bool {
	d := Day(day)
	return !d.Before(Day(e.From)) && !d.After(Day(e.To))
}

// Overlaps devuelve true si el evento toca algún día de [from, to).
func (e Event) Overlaps(from, to time.Time) bool {
	return Day(e.From).Before(Day(to)) && !Day(e.To).Before(Day(from))
}

// BlocksSelection devuelve true si el evento impide jugar ese día.
func (e Event) BlocksSelection(day time.Time) bool {
	return (e.Kind == EventRest || e.Kind == EventVacation) && e.Covers(day)
}

func (e Event) String() string {
	if e.Kind == EventMatch {
		return fmt.Sprintf("match %s %dmin", e.From.Format(DateLayout), e.Minutes)
	}
	return fmt.Sprintf("%s %s..%s", e.Kind, e.From.Format(DateLayout), e.To.Format(DateLayout))
}

// EventsBetween devuelve, ordenados, los eventos que tocan [from, to).
func EventsBetween(events []Event, from, to time.Time) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Overlaps(from, to) {
			out = append(out, e)
		}
	}
	SortEvents(out)
	return out
}

// SortEvents ordena por fecha de inicio; a igualdad, las ventanas antes que los partidos.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].From.Equal(events[j].From) {
			return events[i].From.Before(events[j].From)
		}
		return events[i].IsWindow() && !events[j].IsWindow()
	})
}
