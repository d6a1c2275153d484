package domain

import (
	"fmt"
	"time"
)

// RosterSnapshot es la entrada inmutable del scheduler: plantilla, roles,
// readiness actual y calendario planificado. Se pasa por valor; cada
// iteración trabaja con su propia copia de States.
type RosterSnapshot struct {
	AsOf   time.Time
	Agents []Agent // orden de inserción = orden de desempate
	Roles  map[RoleID]Role
	States map[AgentID]ReadinessState
	Events map[AgentID][]Event
}

// Agent busca un agente por ID.
func (r RosterSnapshot) Agent(id AgentID) (Agent, bool) {
	for _, a := range r.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}

// Role busca un rol por ID.
func (r RosterSnapshot) Role(id RoleID) (Role, bool) {
	role, ok := r.Roles[id]
	return role, ok
}

// StatesCopy devuelve una copia profunda de States.
func (r RosterSnapshot) StatesCopy() map[AgentID]ReadinessState {
	out := make(map[AgentID]ReadinessState, len(r.States))
	for id, s := range r.States {
		out[id] = s.Clone()
	}
	return out
}

// BlockedOn devuelve true si el calendario del agente impide jugar ese día.
func (r RosterSnapshot) BlockedOn(id AgentID, day time.Time) (bool, string) {
	for _, e := range r.Events[id] {
		if e.BlocksSelection(day) {
			return true, fmt.Sprintf("%s on %s", e.Kind, Day(day).Format(DateLayout))
		}
	}
	return false, ""
}

// Validate comprueba referencias cruzadas: IDs únicos, roles conocidos,
// ratings y fixtures coherentes. No muta nada.
func (r RosterSnapshot) Validate(fixtures []Fixture) error {
	if len(r.Agents) == 0 {
		return NewValidationError("roster.agents", "empty roster")
	}
	seen := make(map[AgentID]bool, len(r.Agents))
	for _, a := range r.Agents {
		if a.ID == "" {
			return NewValidationError("roster.agents", "agent with empty id")
		}
		if seen[a.ID] {
			return NewValidationError("roster.agents", "duplicate agent %q", a.ID)
		}
		seen[a.ID] = true
		for key, rating := range a.Ratings {
			if rating < 0 || rating > RatingScale {
				return NewValidationError("agent."+string(a.ID), "rating %d for %s outside 0..%d", rating, key, RatingScale)
			}
		}
		if a.Physical.Recovery <= 0 || a.Physical.WorkRate <= 0 || a.Physical.Efficiency <= 0 {
			return NewValidationError("agent."+string(a.ID), "physical coefficients must be positive")
		}
	}
	for id := range r.States {
		if !seen[id] {
			return NewValidationError("roster.states", "state for unknown agent %q", id)
		}
	}
	for id := range r.Events {
		if !seen[id] {
			return NewValidationError("roster.events", "events for unknown agent %q", id)
		}
	}

	fixtureIDs := make(map[FixtureID]bool, len(fixtures))
	for _, f := range fixtures {
		if f.ID == "" {
			return NewValidationError("fixtures", "fixture with empty id")
		}
		if fixtureIDs[f.ID] {
			return NewValidationError("fixtures", "duplicate fixture %q", f.ID)
		}
		fixtureIDs[f.ID] = true
		if f.Date.IsZero() {
			return NewValidationError("fixture."+string(f.ID), "missing date")
		}
		if !r.AsOf.IsZero() && Day(f.Date).Before(Day(r.AsOf)) {
			return NewValidationError("fixture."+string(f.ID), "dated before roster snapshot %s", r.AsOf.Format(DateLayout))
		}
		if !f.Importance.Valid() {
			return NewValidationError("fixture."+string(f.ID), "invalid importance %d", int(f.Importance))
		}
		if len(f.Roles) == 0 {
			return NewValidationError("fixture."+string(f.ID), "no required roles")
		}
		roleSeen := make(map[RoleID]bool, len(f.Roles))
		for _, role := range f.Roles {
			if _, ok := r.Roles[role]; !ok {
				return NewValidationError("fixture."+string(f.ID), "unknown role %q", role)
			}
			if roleSeen[role] {
				return NewValidationError("fixture."+string(f.ID), "role %q required twice", role)
			}
			roleSeen[role] = true
		}
	}
	return nil
}
