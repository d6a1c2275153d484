package scheduler

import (
	"fmt"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
)

// summarize completa los diagnósticos con las métricas de los lineups.
func summarize(d domain.Diagnostics, lineups []domain.Lineup) domain.Diagnostics {
	if d.Appearances == nil {
		d.Appearances = make(map[domain.AgentID]int)
	}
	total, n := 0.0, 0
	for _, l := range lineups {
		for _, as := range l.Assignments {
			total += as.Score
			n++
			d.Appearances[as.Agent]++
		}
		for _, u := range l.Unfilled {
			d.Unfilled++
			d.Reasons = append(d.Reasons, fmt.Sprintf("fixture %s: role %s unfilled: %s", l.FixtureID, u.Role, u.Reason))
		}
	}
	if n > 0 {
		d.AverageScore = total / float64(n)
	}
	return d
}
