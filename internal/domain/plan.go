package domain

import "time"

// AgentIssue es un error aislado de un agente durante una ejecución.
type AgentIssue struct {
	Agent   AgentID
	Fixture FixtureID
	Reason  string
}

// Diagnostics agrega métricas de todo el horizonte planificado.
type Diagnostics struct {
	AverageScore float64
	Appearances  map[AgentID]int
	Unfilled     int
	Reasons      []string
	Issues       []AgentIssue
}

// Plan es el resultado de una ejecución del scheduler.
type Plan struct {
	RunID       string
	CreatedAt   time.Time
	Fixtures    []Fixture
	Lineups     []Lineup
	Timelines   map[AgentID]Timeline
	Diagnostics Diagnostics
}

// LineupFor busca el lineup de un fixture.
func (p Plan) LineupFor(id FixtureID) (Lineup, bool) {
	for _, l := range p.Lineups {
		if l.FixtureID == id {
			return l, true
		}
	}
	return Lineup{}, false
}

// PlanRun es el resumen persistido de una ejecución.
type PlanRun struct {
	ID           string
	CreatedAt    time.Time
	Fixtures     int
	AverageScore float64
	Unfilled     int
}

// Summary resume el plan para persistencia.
func (p Plan) Summary() PlanRun {
	return PlanRun{
		ID:           p.RunID,
		CreatedAt:    p.CreatedAt,
		Fixtures:     len(p.Lineups),
		AverageScore: p.Diagnostics.AverageScore,
		Unfilled:     p.Diagnostics.Unfilled,
	}
}
