package roster

import (
	"fmt"
	"time"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
)

// mapRoster convierte el documento a un snapshot y sus fixtures. Solo valida
// lo que el propio formato necesita (fechas, enums, referencias de rol en
// partidos); la validación cruzada la hace el scheduler.
func mapRoster(f rosterFile) (domain.RosterSnapshot, []domain.Fixture, error) {
	var snap domain.RosterSnapshot

	if f.AsOf != "" {
		asOf, err := parseDate("as_of", f.AsOf)
		if err != nil {
			return snap, nil, err
		}
		snap.AsOf = asOf
	}

	snap.Roles = make(map[domain.RoleID]domain.Role, len(f.Roles))
	for _, r := range f.Roles {
		role, err := mapRole(r)
		if err != nil {
			return snap, nil, err
		}
		if _, dup := snap.Roles[role.ID]; dup {
			return snap, nil, domain.NewValidationError("roles", "duplicate role %q", role.ID)
		}
		snap.Roles[role.ID] = role
	}

	snap.Agents = make([]domain.Agent, 0, len(f.Agents))
	snap.States = make(map[domain.AgentID]domain.ReadinessState)
	snap.Events = make(map[domain.AgentID][]domain.Event)
	for _, a := range f.Agents {
		agent, err := mapAgent(a)
		if err != nil {
			return snap, nil, err
		}
		snap.Agents = append(snap.Agents, agent)

		if a.Readiness != nil {
			st, err := mapReadiness(*a.Readiness, snap.AsOf)
			if err != nil {
				return snap, nil, fmt.Errorf("agent %s: %w", a.ID, err)
			}
			snap.States[agent.ID] = st
		}
		if len(a.Events) > 0 {
			events, err := mapEvents(a.Events, snap.Roles)
			if err != nil {
				return snap, nil, fmt.Errorf("agent %s: %w", a.ID, err)
			}
			snap.Events[agent.ID] = events
		}
	}

	fixtures := make([]domain.Fixture, 0, len(f.Fixtures))
	for _, fx := range f.Fixtures {
		mapped, err := mapFixture(fx)
		if err != nil {
			return snap, nil, err
		}
		fixtures = append(fixtures, mapped)
	}
	return snap, fixtures, nil
}

func mapRole(r roleEntry) (domain.Role, error) {
	if r.ID == "" {
		return domain.Role{}, domain.NewValidationError("roles", "role with empty id")
	}
	if r.Weight < 0 || r.Drag < 0 {
		return domain.Role{}, domain.NewValidationError("role."+r.ID, "negative weight or drag")
	}
	return domain.Role{
		ID:        domain.RoleID(r.ID),
		RatingKey: domain.RoleID(r.RatingKey),
		Weight:    r.Weight,
		Drag:      r.Drag,
	}, nil
}

// mapAgent convierte un agentEntry. Los coeficientes ausentes toman el valor
// neutro; los presentes se respetan aunque sean inválidos (los rechaza Validate).
func mapAgent(a agentEntry) (domain.Agent, error) {
	phys := domain.DefaultPhysical()
	if a.Recovery != nil {
		phys.Recovery = *a.Recovery
	}
	if a.WorkRate != nil {
		phys.WorkRate = *a.WorkRate
	}
	if a.Efficiency != nil {
		phys.Efficiency = *a.Efficiency
	}

	agent := domain.Agent{
		ID:           domain.AgentID(a.ID),
		Name:         a.Name,
		Physical:     phys,
		Availability: domain.Availability{Injured: a.Injured, Suspended: a.Suspended},
		Ratings:      make(map[domain.RoleID]int, len(a.Ratings)),
		Familiarity:  make(map[domain.RoleID]domain.Familiarity, len(a.Familiarity)),
	}
	for key, v := range a.Ratings {
		agent.Ratings[domain.RoleID(key)] = v
	}
	for key, tier := range a.Familiarity {
		fam, err := domain.ParseFamiliarity(tier)
		if err != nil {
			return agent, fmt.Errorf("agent %s: role %s: %w", a.ID, key, err)
		}
		agent.Familiarity[domain.RoleID(key)] = fam
	}
	return agent, nil
}

// mapReadiness convierte el estado conocido. Sin fecha se asume as_of.
func mapReadiness(r readinessEntry, asOf time.Time) (domain.ReadinessState, error) {
	st := domain.ReadinessState{
		Date:      asOf,
		Condition: r.Condition,
		Sharpness: r.Sharpness,
		Fatigue:   r.Fatigue,
	}
	if r.Date != "" {
		d, err := parseDate("readiness.date", r.Date)
		if err != nil {
			return st, err
		}
		st.Date = d
	}
	if r.LastMatch != "" {
		d, err := parseDate("readiness.last_match", r.LastMatch)
		if err != nil {
			return st, err
		}
		st.LastMatch = d
	}
	for _, ap := range r.Recent {
		d, err := parseDate("readiness.recent", ap.Date)
		if err != nil {
			return st, err
		}
		if ap.Minutes < 0 {
			return st, domain.NewValidationError("readiness.recent", "negative minutes on %s", ap.Date)
		}
		st.Recent = append(st.Recent, domain.Appearance{Date: d, Minutes: ap.Minutes, Role: domain.RoleID(ap.Role)})
		if d.After(st.LastMatch) {
			st.LastMatch = d
		}
	}
	if st.Condition < 0 || st.Condition > domain.ReadinessMax ||
		st.Sharpness < 0 || st.Sharpness > domain.ReadinessMax {
		return st, domain.NewValidationError("readiness", "condition/sharpness outside 0..%.0f", domain.ReadinessMax)
	}
	return st, nil
}

// mapEvents convierte el calendario de un agente y lo deja ordenado.
// Los partidos toman drag del rol jugado.
func mapEvents(raw []eventEntry, roles map[domain.RoleID]domain.Role) ([]domain.Event, error) {
	events := make([]domain.Event, 0, len(raw))
	for i, e := range raw {
		kind, err := domain.ParseEventKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}

		fromStr, toStr := e.From, e.To
		if e.Date != "" {
			if fromStr == "" {
				fromStr = e.Date
			}
			if toStr == "" {
				toStr = e.Date
			}
		}
		if toStr == "" {
			toStr = fromStr
		}
		from, err := parseDate("event.from", fromStr)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		to, err := parseDate("event.to", toStr)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}

		var ev domain.Event
		switch kind {
		case domain.EventMatch:
			role, ok := roles[domain.RoleID(e.Role)]
			if !ok {
				// un rol fuera del once configurado sigue contando como partido
				role = domain.Role{ID: domain.RoleID(e.Role)}
			}
			ev = domain.MatchEvent(from, e.Minutes, role, e.Intensity)
			ev.To = to
		case domain.EventRest:
			ev = domain.RestEvent(from, to)
		case domain.EventVacation:
			ev = domain.VacationEvent(from, to)
		case domain.EventTraining:
			intensity, err := domain.ParseTrainingIntensity(e.Training)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			ev = domain.TrainingEvent(from, to, intensity)
		}
		events = append(events, ev)
	}
	domain.SortEvents(events)
	return events, nil
}

func mapFixture(f fixtureFile) (domain.Fixture, error) {
	date, err := parseDate("fixture."+f.ID+".date", f.Date)
	if err != nil {
		return domain.Fixture{}, err
	}
	imp, err := domain.ParseImportance(f.Importance)
	if err != nil {
		return domain.Fixture{}, fmt.Errorf("fixture %s: %w", f.ID, err)
	}
	if f.Opponent < 0 || f.Opponent > 1 {
		return domain.Fixture{}, domain.NewValidationError("fixture."+f.ID, "opponent %.2f outside 0..1", f.Opponent)
	}
	roles := make([]domain.RoleID, len(f.Roles))
	for i, r := range f.Roles {
		roles[i] = domain.RoleID(r)
	}
	return domain.Fixture{
		ID:               domain.FixtureID(f.ID),
		Date:             date,
		Opponent:         f.Opponent,
		Importance:       imp,
		ImportanceLocked: f.ImportanceLocked,
		Roles:            roles,
	}, nil
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, domain.NewValidationError(field, "missing date")
	}
	d, err := domain.ParseDay(s)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "%v", err)
	}
	return d, nil
}
