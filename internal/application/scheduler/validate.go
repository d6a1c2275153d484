package scheduler

import (
	"fmt"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/readiness"
)

// Validate comprueba una entrada sin planificarla.
func (s *Scheduler) Validate(in Input) error {
	if err := s.validate(in); err != nil {
		return fmt.Errorf("scheduler.Validate: %w", err)
	}
	return nil
}

// validate rechaza la entrada completa antes de simular nada.
func (s *Scheduler) validate(in Input) error {
	roster := in.Roster
	if roster.AsOf.IsZero() {
		return domain.NewValidationError("roster.as_of", "missing snapshot date")
	}
	if err := roster.Validate(in.Fixtures); err != nil {
		return err
	}

	fixtures := make(map[domain.FixtureID]domain.Fixture, len(in.Fixtures))
	fixtureDays := make(map[string]domain.FixtureID, len(in.Fixtures))
	for _, fx := range in.Fixtures {
		fixtures[fx.ID] = fx
		day := domain.Day(fx.Date).Format(domain.DateLayout)
		if other, ok := fixtureDays[day]; ok {
			// un agente no juega dos partidos el mismo día
			return domain.NewValidationError("fixture."+string(fx.ID), "same date %s as fixture %s", day, other)
		}
		fixtureDays[day] = fx.ID
	}

	for _, a := range roster.Agents {
		events := roster.Events[a.ID]
		if err := readiness.ValidateCalendar(s.cfg.Readiness, events); err != nil {
			return fmt.Errorf("agent %s: %w", a.ID, err)
		}
		for _, e := range events {
			if e.Kind != domain.EventMatch {
				continue
			}
			if id, ok := fixtureDays[domain.Day(e.From).Format(domain.DateLayout)]; ok {
				return domain.NewValidationError("agent."+string(a.ID),
					"calendar match on %s clashes with fixture %s", e.From.Format(domain.DateLayout), id)
			}
		}
	}

	if err := validateExisting(roster, fixtures, in.Existing); err != nil {
		return err
	}
	return validateOverrides(roster, fixtures, in.Overrides)
}

func validateExisting(roster domain.RosterSnapshot, fixtures map[domain.FixtureID]domain.Fixture, existing map[domain.FixtureID]domain.Lineup) error {
	for id, l := range existing {
		if !l.Confirmed() {
			continue
		}
		field := "lineup." + string(id)
		fx, ok := fixtures[id]
		if !ok {
			// confirmado para un fixture fuera del horizonte: no afecta al plan
			continue
		}
		if l.FixtureID != "" && l.FixtureID != id {
			return domain.NewValidationError(field, "keyed under %s but belongs to %s", id, l.FixtureID)
		}
		required := make(map[domain.RoleID]bool, len(fx.Roles))
		for _, r := range fx.Roles {
			required[r] = true
		}
		agents := make(map[domain.AgentID]bool, len(l.Assignments))
		for _, as := range l.Assignments {
			ag, ok := roster.Agent(as.Agent)
			if !ok {
				return domain.NewValidationError(field, "unknown agent %q", as.Agent)
			}
			if !ag.Availability.Available() {
				return domain.NewValidationError(field, "agent %q confirmed while %s", as.Agent, ag.Availability.Reason())
			}
			if !required[as.Role] {
				return domain.NewValidationError(field, "role %q not required by fixture", as.Role)
			}
			if agents[as.Agent] {
				return domain.NewValidationError(field, "agent %q assigned twice", as.Agent)
			}
			agents[as.Agent] = true
			if blocked, why := roster.BlockedOn(as.Agent, fx.Date); blocked {
				return domain.NewValidationError(field, "agent %q confirmed during %s", as.Agent, why)
			}
		}
	}
	return nil
}

func validateOverrides(roster domain.RosterSnapshot, fixtures map[domain.FixtureID]domain.Fixture, overrides []domain.Override) error {
	type slot struct {
		fixture domain.FixtureID
		agent   domain.AgentID
	}
	forced := make(map[slot]domain.RoleID, len(overrides))
	for _, o := range overrides {
		field := "override." + string(o.FixtureID)
		fx, ok := fixtures[o.FixtureID]
		if !ok {
			return domain.NewValidationError(field, "unknown fixture")
		}
		if !containsRole(fx.Roles, o.Role) {
			return domain.NewValidationError(field, "role %q not required by fixture", o.Role)
		}
		if _, ok := roster.Agent(o.Agent); !ok {
			return domain.NewValidationError(field, "unknown agent %q", o.Agent)
		}
		key := slot{o.FixtureID, o.Agent}
		if prev, ok := forced[key]; ok && prev != o.Role {
			return domain.NewValidationError(field, "agent %q forced into %s and %s", o.Agent, prev, o.Role)
		}
		forced[key] = o.Role
	}
	return nil
}

func containsRole(roles []domain.RoleID, id domain.RoleID) bool {
	for _, r := range roles {
		if r == id {
			return true
		}
	}
	return false
}
