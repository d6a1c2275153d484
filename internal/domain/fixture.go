package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Importance es la clasificación de un fixture. Es un enum cerrado: cada
// valor mapea a un struct explícito de parámetros en el motor de utilidad.
type Importance int

const (
	ImportanceLow Importance = iota
	ImportanceMedium
	ImportanceHigh
	ImportanceCritical
)

func (i Importance) String() string {
	switch i {
	case ImportanceLow:
		return "low"
	case ImportanceMedium:
		return "medium"
	case ImportanceHigh:
		return "high"
	case ImportanceCritical:
		return "critical"
	}
	return fmt.Sprintf("importance(%d)", int(i))
}

// Valid devuelve true si el valor pertenece al enum.
func (i Importance) Valid() bool {
	return i >= ImportanceLow && i <= ImportanceCritical
}

// Downgrade baja un escalón, nunca por debajo de Low.
func (i Importance) Downgrade() Importance {
	if i <= ImportanceLow {
		return ImportanceLow
	}
	return i - 1
}

// ParseImportance convierte el nombre de un tier.
func ParseImportance(s string) (Importance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return ImportanceLow, nil
	case "", "medium":
		return ImportanceMedium, nil
	case "high":
		return ImportanceHigh, nil
	case "critical":
		return ImportanceCritical, nil
	}
	return 0, NewValidationError("fixture.importance", "unknown importance %q", s)
}

// FixtureID identifica un partido del calendario.
type FixtureID string

// Fixture es un partido con su once requerido.
type Fixture struct {
	ID   FixtureID
	Date time.Time
	// Opponent es el proxy de fuerza del rival en [0, 1].
	Opponent   float64
	Importance Importance
	// ImportanceLocked impide el reajuste por congestión.
	ImportanceLocked bool
	Roles            []RoleID
}

// TacticalIntensity deriva la intensidad del partido de la fuerza del rival:
// 0.9 contra el rival más débil, 1.2 contra el más fuerte.
func (f Fixture) TacticalIntensity() float64 {
	o := clamp(f.Opponent, 0, 1)
	return 0.9 + 0.3*o
}

// Label devuelve "id (fecha, importancia)".
func (f Fixture) Label() string {
	return fmt.Sprintf("%s (%s, %s)", f.ID, f.Date.Format(DateLayout), f.Importance)
}

// SortFixtures devuelve una copia ordenada cronológicamente (desempate por ID).
func SortFixtures(fixtures []Fixture) []Fixture {
	out := make([]Fixture, len(fixtures))
	copy(out, fixtures)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// RegradeForCongestion baja un escalón la importancia de los fixtures seguidos,
// a menos de `days` días, por otro estrictamente más importante. Los fixtures
// con ImportanceLocked no se tocan. Espera fixtures ordenados; devuelve una
// copia y un motivo legible por cada cambio.
func RegradeForCongestion(fixtures []Fixture, days int) ([]Fixture, []string) {
	out := make([]Fixture, len(fixtures))
	copy(out, fixtures)
	if days <= 0 {
		return out, nil
	}

	var reasons []string
	for i := range out {
		if out[i].ImportanceLocked || out[i].Importance == ImportanceLow {
			continue
		}
		for j := i + 1; j < len(fixtures); j++ {
			gap := DaysBetween(fixtures[i].Date, fixtures[j].Date)
			if gap > days {
				break
			}
			// compara con la importancia original, no con la ya reajustada
			if fixtures[j].Importance > fixtures[i].Importance {
				out[i].Importance = fixtures[i].Importance.Downgrade()
				reasons = append(reasons, fmt.Sprintf(
					"fixture %s downgraded %s→%s: %s (%s) follows in %d days",
					out[i].ID, fixtures[i].Importance, out[i].Importance,
					fixtures[j].ID, fixtures[j].Importance, gap))
				break
			}
		}
	}
	return out, reasons
}
