package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/assignment"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/shadow"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/utility"
)

// maxUnfilledReasons limita cuántos motivos se listan por rol sin cubrir.
const maxUnfilledReasons = 3

// planFixture construye la matriz, aplica los overrides, resuelve y arma el lineup.
func (s *Scheduler) planFixture(
	ctx context.Context,
	r *run,
	fx domain.Fixture,
	upcoming []domain.Fixture,
	states map[domain.AgentID]domain.ReadinessState,
) domain.Lineup {
	roles := make([]domain.Role, len(fx.Roles))
	for j, id := range fx.Roles {
		roles[j], _ = r.in.Roster.Role(id)
	}
	agents := r.in.Roster.Agents

	rows := scoreRowsConcurrent(ctx, agents, s.cfg.Workers, func(a domain.Agent) []cell {
		return s.scoreAgent(r, a, roles, fx, upcoming, states[a.ID])
	})
	if ctx.Err() != nil {
		return domain.Lineup{}
	}
	for i, row := range rows {
		for _, c := range row {
			if c.err != nil {
				r.diag.Issues = append(r.diag.Issues, domain.AgentIssue{
					Agent:   agents[i].ID,
					Fixture: fx.ID,
					Reason:  "shadow pricing skipped: " + c.err.Error(),
				})
				break
			}
		}
	}

	overridden := s.applyOverrides(r, fx, roles, rows)

	matrix := make([][]float64, len(rows))
	for i, row := range rows {
		matrix[i] = make([]float64, len(row))
		for j, c := range row {
			matrix[i][j] = c.value
		}
	}
	res, err := assignment.Solve(matrix)
	if err != nil {
		// la matriz se construye aquí: un error es un bug, no una entrada inválida
		slog.Error("assignment failed", "fixture", fx.ID, "err", err)
		res = assignment.Result{RoleAgent: make([]int, len(roles))}
		for j := range res.RoleAgent {
			res.RoleAgent[j] = -1
			res.Unfilled = append(res.Unfilled, j)
		}
	}

	return s.assemble(fx, roles, agents, rows, states, res, overridden)
}

// scoreAgent calcula la fila de un agente: utilidad → continuidad → shadow.
func (s *Scheduler) scoreAgent(
	r *run,
	a domain.Agent,
	roles []domain.Role,
	fx domain.Fixture,
	upcoming []domain.Fixture,
	st domain.ReadinessState,
) []cell {
	row := make([]cell, len(roles))
	blocked, why := r.in.Roster.BlockedOn(a.ID, fx.Date)
	for j, role := range roles {
		if blocked {
			row[j] = cell{value: utility.Prohibitive, reason: fmt.Sprintf("%s: %s", a.ID, why)}
			continue
		}
		sc := s.cfg.Utility.EffectiveScore(a, role, st, fx)
		c := cell{value: sc.Value, score: sc}
		if !sc.Eligible {
			c.reason = fmt.Sprintf("%s: %s", a.ID, sc.Reason)
			row[j] = c
			continue
		}
		c.value = s.cfg.Stability.Adjust(c.value, a.ID, role.ID, r.previous, s.cfg.InertiaWeight)

		pen, err := s.pricer.Penalty(shadow.Request{
			Agent:    a,
			Role:     role,
			State:    st,
			Current:  fx,
			Upcoming: upcoming,
			Roster:   r.in.Roster,
		})
		if err != nil {
			c.err = err
		} else {
			c.penalty = pen
			c.value = s.pricer.Apply(c.value, pen)
		}
		row[j] = c
	}
	return row
}

// applyOverrides fuerza los overrides del fixture sobre la matriz. Un
// override sobre un agente no disponible se ignora con un motivo. Devuelve
// true si algún override se aplicó.
func (s *Scheduler) applyOverrides(
	r *run,
	fx domain.Fixture,
	roles []domain.Role,
	rows [][]cell,
) bool {
	agentIdx := make(map[domain.AgentID]int, len(r.in.Roster.Agents))
	for i, a := range r.in.Roster.Agents {
		agentIdx[a.ID] = i
	}
	roleIdx := make(map[domain.RoleID]int, len(roles))
	for j, role := range roles {
		roleIdx[role.ID] = j
	}

	// el último override de un rol gana
	forced := make(map[int]int)
	order := make([]int, 0)
	for _, o := range r.in.Overrides {
		if o.FixtureID != fx.ID {
			continue
		}
		a, _ := r.in.Roster.Agent(o.Agent)
		unavailable := !a.Availability.Available()
		why := a.Availability.Reason()
		if !unavailable {
			unavailable, why = r.in.Roster.BlockedOn(a.ID, fx.Date)
		}
		if unavailable {
			reason := fmt.Sprintf("fixture %s: override %s→%s ignored: %s", fx.ID, o.Agent, o.Role, why)
			r.diag.Reasons = append(r.diag.Reasons, reason)
			slog.Warn("override ignored", "fixture", fx.ID, "role", o.Role, "agent", o.Agent, "reason", why)
			continue
		}
		j := roleIdx[o.Role]
		if _, ok := forced[j]; !ok {
			order = append(order, j)
		}
		forced[j] = agentIdx[o.Agent]
	}

	for _, j := range order {
		i := forced[j]
		for k := range rows {
			if k != i {
				rows[k][j] = cell{value: utility.Prohibitive, reason: fmt.Sprintf("%s forced by override", r.in.Roster.Agents[i].ID)}
			}
		}
		for l := range rows[i] {
			if l != j {
				rows[i][l] = cell{value: utility.Prohibitive, reason: "forced into " + string(roles[j].ID)}
			}
		}
		c := rows[i][j]
		if utility.IsProhibitive(c.value) {
			// forzado sin rating en el rol: cuenta como 0
			c = cell{value: 0, score: c.score}
		}
		c.override = true
		rows[i][j] = c
	}
	return len(order) > 0
}

// assemble convierte el resultado del solver en un Lineup con flags y motivos.
func (s *Scheduler) assemble(
	fx domain.Fixture,
	roles []domain.Role,
	agents []domain.Agent,
	rows [][]cell,
	states map[domain.AgentID]domain.ReadinessState,
	res assignment.Result,
	overridden bool,
) domain.Lineup {
	lineup := domain.Lineup{
		ID:         s.newID(),
		FixtureID:  fx.ID,
		Date:       fx.Date,
		Objective:  res.Objective,
		Provenance: domain.ProvenanceAuto,
		CreatedAt:  s.now(),
	}
	if overridden {
		lineup.Provenance = domain.ProvenanceOverridden
	}

	for j, i := range res.RoleAgent {
		role := roles[j]
		if i < 0 {
			lineup.Unfilled = append(lineup.Unfilled, domain.UnfilledRole{
				Role:   role.ID,
				Reason: unfilledReason(rows, j),
			})
			continue
		}
		a := agents[i]
		c := rows[i][j]
		st := states[a.ID]

		as := domain.Assignment{Role: role.ID, Agent: a.ID, Score: c.value}
		if s.cfg.Utility.NeedsRest(st) {
			as.Flags |= domain.FlagNeedsRest
			as.Reasons = append(as.Reasons, fmt.Sprintf("needs rest: condition %.0f%%, %s",
				st.ConditionPct()*100, s.cfg.Utility.Classify(st)))
		}
		if s.cfg.Utility.LowSharpness(st) {
			as.Flags |= domain.FlagLowSharpness
			as.Reasons = append(as.Reasons, fmt.Sprintf("low sharpness: %.0f%%", st.SharpnessPct()*100))
		}
		if c.override {
			as.Flags |= domain.FlagManualOverride
			as.Reasons = append(as.Reasons, "manual override")
		}
		if st.Stale {
			as.Flags |= domain.FlagStaleReadiness
			as.Reasons = append(as.Reasons, "stale readiness: "+st.StaleReason)
		}
		if c.penalty.Value > 0 {
			as.Flags |= domain.FlagShadowDiscounted
			for _, t := range c.penalty.Terms {
				as.Reasons = append(as.Reasons, fmt.Sprintf("shadow cost %.2f for %s (+%d)", t.Cost, t.Fixture, t.Offset))
			}
		}
		lineup.Assignments = append(lineup.Assignments, as)
	}
	return lineup
}

// unfilledReason resume por qué ningún agente cubre la columna j.
func unfilledReason(rows [][]cell, j int) string {
	var reasons []string
	eligible := 0
	for _, row := range rows {
		if j >= len(row) {
			continue
		}
		if row[j].reason != "" {
			reasons = append(reasons, row[j].reason)
		} else if !utility.IsProhibitive(row[j].value) {
			eligible++
		}
	}
	switch {
	case len(rows) == 0:
		return "empty roster"
	case eligible > 0:
		return "all eligible agents assigned elsewhere"
	case len(reasons) > maxUnfilledReasons:
		extra := len(reasons) - maxUnfilledReasons
		reasons = append(reasons[:maxUnfilledReasons], fmt.Sprintf("%d more", extra))
	}
	return "no eligible agent (" + strings.Join(reasons, "; ") + ")"
}

// reuseConfirmed devuelve una copia del lineup confirmado anclada al fixture.
func reuseConfirmed(l domain.Lineup, fx domain.Fixture) domain.Lineup {
	out := l
	out.FixtureID = fx.ID
	out.Date = fx.Date
	out.Provenance = domain.ProvenanceConfirmed
	out.Assignments = make([]domain.Assignment, len(l.Assignments))
	for i, as := range l.Assignments {
		as.Reasons = append([]string(nil), as.Reasons...)
		out.Assignments[i] = as
	}
	out.Unfilled = append([]domain.UnfilledRole(nil), l.Unfilled...)
	if out.Objective == 0 {
		for _, as := range out.Assignments {
			out.Objective += as.Score
		}
	}
	return out
}
