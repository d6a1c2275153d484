// Package planner orquesta una ejecución completa: carga la plantilla, mezcla
// lo persistido (lineups confirmados, overrides, ancla de continuidad),
// ejecuta el scheduler, presenta el plan y opcionalmente lo guarda.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/application/scheduler"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/ports"
)

// Planner es el caso de uso principal del CLI.
type Planner struct {
	sched    *scheduler.Scheduler
	source   ports.RosterSource
	store    ports.LineupStore // nil = sin persistencia
	notifier ports.Notifier
}

// New crea un Planner con todas las dependencias inyectadas.
func New(
	sched *scheduler.Scheduler,
	source ports.RosterSource,
	store ports.LineupStore,
	notifier ports.Notifier,
) *Planner {
	return &Planner{
		sched:    sched,
		source:   source,
		store:    store,
		notifier: notifier,
	}
}

// Plan planifica el horizonte del roster. Con save=true persiste la ejecución
// y los lineups no confirmados.
func (p *Planner) Plan(ctx context.Context, save bool) (domain.Plan, error) {
	start := time.Now()

	in, err := p.input(ctx)
	if err != nil {
		return domain.Plan{}, err
	}

	plan, err := p.sched.Run(ctx, in)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("planner.Plan: %w", err)
	}

	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, plan); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	if save {
		if err := p.persist(ctx, plan); err != nil {
			return plan, err
		}
	}

	slog.Info("plan complete",
		"run_id", plan.RunID,
		"fixtures", len(plan.Lineups),
		"unfilled", plan.Diagnostics.Unfilled,
		"saved", save && p.store != nil,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return plan, nil
}

// input construye la entrada del scheduler. Lo persistido que no pertenece
// al horizonte actual se ignora.
func (p *Planner) input(ctx context.Context) (scheduler.Input, error) {
	roster, fixtures, err := p.source.LoadRoster(ctx)
	if err != nil {
		return scheduler.Input{}, fmt.Errorf("planner: load roster: %w", err)
	}
	in := scheduler.Input{Roster: roster, Fixtures: fixtures}
	if p.store == nil || len(fixtures) == 0 {
		return in, nil
	}

	horizon := make(map[domain.FixtureID]bool, len(fixtures))
	first := fixtures[0].Date
	for _, fx := range fixtures {
		horizon[fx.ID] = true
		if fx.Date.Before(first) {
			first = fx.Date
		}
	}

	confirmed, err := p.store.ConfirmedLineups(ctx)
	if err != nil {
		return in, fmt.Errorf("planner: load confirmed lineups: %w", err)
	}
	in.Existing = make(map[domain.FixtureID]domain.Lineup, len(confirmed))
	for id, l := range confirmed {
		if horizon[id] {
			in.Existing[id] = l
		}
	}

	overrides, err := p.store.GetOverrides(ctx)
	if err != nil {
		return in, fmt.Errorf("planner: load overrides: %w", err)
	}
	for _, o := range overrides {
		if !horizon[o.FixtureID] {
			slog.Debug("override outside horizon skipped", "fixture", o.FixtureID, "role", o.Role)
			continue
		}
		in.Overrides = append(in.Overrides, o)
	}

	prev, err := p.store.LatestConfirmed(ctx, first)
	if err != nil {
		return in, fmt.Errorf("planner: load continuity anchor: %w", err)
	}
	in.Previous = prev

	slog.Debug("stored state loaded",
		"confirmed", len(in.Existing),
		"overrides", len(in.Overrides),
		"anchor", prev != nil,
	)
	return in, nil
}

// persist guarda la ejecución y sus lineups. Los confirmados no se reescriben.
func (p *Planner) persist(ctx context.Context, plan domain.Plan) error {
	if p.store == nil {
		return errors.New("planner.persist: no storage configured")
	}
	if err := p.store.SaveRun(ctx, plan.Summary()); err != nil {
		return fmt.Errorf("planner.persist: %w", err)
	}
	for _, l := range plan.Lineups {
		if l.Confirmed() {
			continue
		}
		if err := p.store.SaveLineup(ctx, plan.RunID, l); err != nil {
			return fmt.Errorf("planner.persist: fixture %s: %w", l.FixtureID, err)
		}
	}
	return nil
}

// Confirm bloquea el lineup guardado de un fixture.
func (p *Planner) Confirm(ctx context.Context, id domain.FixtureID) (domain.Lineup, error) {
	if p.store == nil {
		return domain.Lineup{}, errors.New("planner.Confirm: no storage configured")
	}
	l, err := p.store.ConfirmLineup(ctx, id)
	if err != nil {
		return domain.Lineup{}, fmt.Errorf("planner.Confirm: %w", err)
	}
	slog.Info("lineup confirmed", "fixture", id, "lineup_id", l.ID)
	return l, nil
}

// SetOverride valida el override contra la plantilla actual y lo guarda.
// Los overrides ya guardados del mismo fixture entran en la validación, así
// que un agente no puede quedar forzado en dos roles.
func (p *Planner) SetOverride(ctx context.Context, o domain.Override) error {
	if p.store == nil {
		return errors.New("planner.SetOverride: no storage configured")
	}
	roster, fixtures, err := p.source.LoadRoster(ctx)
	if err != nil {
		return fmt.Errorf("planner.SetOverride: load roster: %w", err)
	}
	stored, err := p.store.GetOverrides(ctx)
	if err != nil {
		return fmt.Errorf("planner.SetOverride: %w", err)
	}

	overrides := []domain.Override{o}
	for _, s := range stored {
		if s.FixtureID == o.FixtureID && s.Role != o.Role {
			overrides = append(overrides, s)
		}
	}
	in := scheduler.Input{Roster: roster, Fixtures: fixtures, Overrides: overrides}
	if err := p.sched.Validate(in); err != nil {
		return fmt.Errorf("planner.SetOverride: %w", err)
	}

	if err := p.store.SaveOverride(ctx, o); err != nil {
		return fmt.Errorf("planner.SetOverride: %w", err)
	}
	slog.Info("override saved", "fixture", o.FixtureID, "role", o.Role, "agent", o.Agent)
	return nil
}

// ClearOverride elimina el override de un rol.
func (p *Planner) ClearOverride(ctx context.Context, id domain.FixtureID, role domain.RoleID) error {
	if p.store == nil {
		return errors.New("planner.ClearOverride: no storage configured")
	}
	if err := p.store.DeleteOverride(ctx, id, role); err != nil {
		return fmt.Errorf("planner.ClearOverride: %w", err)
	}
	return nil
}

// History devuelve las últimas ejecuciones y los lineups guardados.
func (p *Planner) History(ctx context.Context, limit int) ([]domain.PlanRun, []domain.Lineup, error) {
	if p.store == nil {
		return nil, nil, errors.New("planner.History: no storage configured")
	}
	runs, err := p.store.GetRuns(ctx, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("planner.History: %w", err)
	}
	lineups, err := p.store.GetLineups(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("planner.History: %w", err)
	}
	return runs, lineups, nil
}
