package readiness

import (
	"sort"
	"time"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
)

// ValidateEvents comprueba que los eventos estén bien formados, no se solapen
// y caigan dentro de [from, to).
func ValidateEvents(p Params, events []domain.Event, from, to time.Time) error {
	if err := ValidateCalendar(p, events); err != nil {
		return err
	}
	for _, e := range events {
		if e.Kind == domain.EventMatch {
			d := domain.Day(e.From)
			if d.Before(from) || !d.Before(to) {
				return domain.NewValidationError("event", "%s outside propagation range %s..%s",
					e, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
			}
			continue
		}
		if !e.Overlaps(from, to) {
			return domain.NewValidationError("event", "%s outside propagation range %s..%s",
				e, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
		}
	}
	return nil
}

// ValidateCalendar comprueba la forma del calendario sin mirar el rango:
// ventanas bien ordenadas y sin solapes, partidos únicos por día y nunca
// dentro de un descanso o unas vacaciones.
func ValidateCalendar(p Params, events []domain.Event) error {
	var windows []domain.Event
	matchDays := make(map[time.Time]bool)

	for _, e := range events {
		if e.From.IsZero() || e.To.IsZero() {
			return domain.NewValidationError("event", "%s without date", e.Kind)
		}
		if domain.Day(e.To).Before(domain.Day(e.From)) {
			return domain.NewValidationError("event", "%s ends before it starts", e)
		}
		switch e.Kind {
		case domain.EventMatch:
			if !domain.Day(e.From).Equal(domain.Day(e.To)) {
				return domain.NewValidationError("event", "match spans several days: %s", e)
			}
			limit := p.MaxMatchMinutes
			if limit <= 0 {
				limit = DefaultParams().MaxMatchMinutes
			}
			if e.Minutes < 0 || e.Minutes > limit {
				return domain.NewValidationError("event", "match minutes %d outside 0..%d", e.Minutes, limit)
			}
			if e.Drag < 0 || e.Intensity < 0 {
				return domain.NewValidationError("event", "negative drag or intensity in %s", e)
			}
			d := domain.Day(e.From)
			if matchDays[d] {
				return domain.NewValidationError("event", "two matches on %s", d.Format(domain.DateLayout))
			}
			matchDays[d] = true
		case domain.EventRest, domain.EventVacation:
			windows = append(windows, e)
		case domain.EventTraining:
			if e.Training < domain.TrainingNormal || e.Training > domain.TrainingIntensive {
				return domain.NewValidationError("event", "invalid training intensity in %s", e)
			}
			windows = append(windows, e)
		default:
			return domain.NewValidationError("event", "unknown kind %d", int(e.Kind))
		}
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].From.Before(windows[j].From)
	})
	for i := 1; i < len(windows); i++ {
		prev, cur := windows[i-1], windows[i]
		if !domain.Day(cur.From).After(domain.Day(prev.To)) {
			return domain.NewValidationError("event", "overlapping windows: %s and %s", prev, cur)
		}
	}

	for d := range matchDays {
		for _, w := range windows {
			if w.BlocksSelection(d) {
				return domain.NewValidationError("event", "match on %s during %s", d.Format(domain.DateLayout), w)
			}
		}
	}
	return nil
}
