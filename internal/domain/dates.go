package domain

import (
	"fmt"
	"time"
)

// DateLayout es el formato de fecha usado en ficheros y en la base de datos.
const DateLayout = "2006-01-02"

// Day normaliza un instante a medianoche UTC. El calendario trabaja en días completos.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween devuelve los días completos entre from y to. Negativo si to < from.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// AddDays suma n días de calendario.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// ParseDay parsea una fecha en formato 2006-01-02.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("domain.ParseDay: %q: %w", s, err)
	}
	return Day(t), nil
}
