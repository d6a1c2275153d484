// Package scheduler recorre los fixtures en orden cronológico y, para cada
// uno, propaga la readiness, construye la matriz de scores (utilidad →
// continuidad → shadow pricing), resuelve la asignación y realimenta el
// lineup resultante al modelo de estado antes del siguiente fixture.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/readiness"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/shadow"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/stability"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/utility"
)

// Config contiene la configuración del scheduler.
type Config struct {
	InertiaWeight  float64 // 0 = sin preferencia por continuidad, 1 = máxima
	MatchMinutes   int     // minutos registrados por cada aparición planificada
	CongestionDays int     // ventana de reajuste de importancia (0 = desactivado)
	Workers        int     // goroutines para construir la matriz (0 = NumCPU*2)

	Readiness readiness.Params
	Utility   utility.Params
	Stability stability.Params
	Shadow    shadow.Params
}

// DefaultConfig devuelve la configuración por defecto.
func DefaultConfig() Config {
	return Config{
		InertiaWeight:  0.5,
		MatchMinutes:   90,
		CongestionDays: 3,
		Readiness:      readiness.DefaultParams(),
		Utility:        utility.DefaultParams(),
		Stability:      stability.DefaultParams(),
		Shadow:         shadow.DefaultParams(),
	}
}

// Input es todo lo que necesita una ejecución. Nada se muta.
type Input struct {
	Roster   domain.RosterSnapshot
	Fixtures []domain.Fixture
	// Existing son lineups confirmados: se reutilizan tal cual.
	Existing  map[domain.FixtureID]domain.Lineup
	Overrides []domain.Override
	// Previous es el último lineup anterior al horizonte (ancla de continuidad).
	Previous *domain.Lineup
}

// Scheduler es el orquestador del pipeline por fixture.
type Scheduler struct {
	cfg    Config
	pricer shadow.Pricer
	now    func() time.Time
	newID  func() string
}

// New crea un Scheduler.
func New(cfg Config) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		pricer: shadow.NewPricer(cfg.Shadow, cfg.Readiness, cfg.Utility),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// run es el estado mutable de una ejecución.
type run struct {
	in        Input
	fixtures  []domain.Fixture
	states    map[domain.AgentID]domain.ReadinessState
	cursor    map[domain.AgentID]time.Time
	realized  map[domain.AgentID][]domain.Event
	timelines map[domain.AgentID]domain.Timeline
	previous  *domain.Lineup
	diag      domain.Diagnostics
	warn      rate.Sometimes
}

// Run planifica todos los fixtures de la entrada. Una entrada inválida se
// rechaza antes de simular nada; un estado imposible de un agente se aísla
// (el agente conserva su último estado válido marcado Stale) y el resto del
// plan continúa.
func (s *Scheduler) Run(ctx context.Context, in Input) (domain.Plan, error) {
	start := time.Now()
	if err := s.validate(in); err != nil {
		return domain.Plan{}, fmt.Errorf("scheduler.Run: %w", err)
	}

	fixtures, regraded := domain.RegradeForCongestion(domain.SortFixtures(in.Fixtures), s.cfg.CongestionDays)
	r := &run{
		in:        in,
		fixtures:  fixtures,
		states:    initialStates(in.Roster),
		cursor:    make(map[domain.AgentID]time.Time, len(in.Roster.Agents)),
		realized:  make(map[domain.AgentID][]domain.Event, len(in.Roster.Agents)),
		timelines: make(map[domain.AgentID]domain.Timeline, len(in.Roster.Agents)),
		previous:  in.Previous,
		diag: domain.Diagnostics{
			Appearances: make(map[domain.AgentID]int, len(in.Roster.Agents)),
			Reasons:     regraded,
		},
		warn: rate.Sometimes{First: 3, Interval: 10 * time.Second},
	}
	for id, st := range r.states {
		r.cursor[id] = st.Date
		r.timelines[id] = domain.NewTimeline(st)
	}

	slog.Info("scheduler starting",
		"agents", len(in.Roster.Agents),
		"fixtures", len(fixtures),
		"inertia", s.cfg.InertiaWeight,
		"lookahead", s.cfg.Shadow.Lookahead,
	)

	plan := domain.Plan{
		RunID:     s.newID(),
		CreatedAt: s.now(),
		Fixtures:  fixtures,
		Lineups:   make([]domain.Lineup, 0, len(fixtures)),
	}
	for k, fx := range fixtures {
		if err := ctx.Err(); err != nil {
			return domain.Plan{}, fmt.Errorf("scheduler.Run: %w", err)
		}
		states := s.advance(r, fx)

		var lineup domain.Lineup
		if confirmed, ok := in.Existing[fx.ID]; ok && confirmed.Confirmed() {
			lineup = reuseConfirmed(confirmed, fx)
			slog.Debug("confirmed lineup reused", "fixture", fx.ID)
		} else {
			lineup = s.planFixture(ctx, r, fx, fixtures[k+1:], states)
		}
		if err := ctx.Err(); err != nil {
			return domain.Plan{}, fmt.Errorf("scheduler.Run: %w", err)
		}

		s.realize(r, fx, lineup)
		plan.Lineups = append(plan.Lineups, lineup)
		l := lineup
		r.previous = &l

		slog.Info("fixture planned",
			"fixture", fx.ID,
			"importance", fx.Importance,
			"provenance", lineup.Provenance,
			"filled", len(lineup.Assignments),
			"unfilled", len(lineup.Unfilled),
			"objective", fmt.Sprintf("%.2f", lineup.Objective),
		)
	}

	plan.Timelines = r.timelines
	plan.Diagnostics = summarize(r.diag, plan.Lineups)

	slog.Info("scheduler complete",
		"run_id", plan.RunID,
		"lineups", len(plan.Lineups),
		"avg_score", fmt.Sprintf("%.2f", plan.Diagnostics.AverageScore),
		"issues", len(plan.Diagnostics.Issues),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return plan, nil
}

// advance propaga cada agente hasta el kickoff de fx y devuelve los estados
// a usar para puntuar. Un fallo aísla al agente: conserva su último estado
// válido, marcado Stale.
func (s *Scheduler) advance(r *run, fx domain.Fixture) map[domain.AgentID]domain.ReadinessState {
	out := make(map[domain.AgentID]domain.ReadinessState, len(r.states))
	for _, a := range r.in.Roster.Agents {
		from := r.cursor[a.ID]
		events := domain.EventsBetween(r.in.Roster.Events[a.ID], from, fx.Date)
		for _, m := range r.realized[a.ID] {
			if !m.From.Before(from) && m.From.Before(domain.Day(fx.Date)) {
				events = append(events, m)
			}
		}
		domain.SortEvents(events)

		next, err := readiness.Propagate(s.cfg.Readiness, a, r.states[a.ID], fx.Date, events)
		if err != nil {
			stale := r.states[a.ID].Clone()
			stale.Stale = true
			stale.StaleReason = err.Error()
			out[a.ID] = stale
			r.diag.Issues = append(r.diag.Issues, domain.AgentIssue{Agent: a.ID, Fixture: fx.ID, Reason: err.Error()})
			r.warn.Do(func() {
				slog.Warn("readiness propagation failed, using last valid state",
					"agent", a.ID,
					"fixture", fx.ID,
					"infeasible", errors.Is(err, domain.ErrInfeasibleState),
					"err", err,
				)
			})
			if tl, err := r.timelines[a.ID].Append(a.ID, stale); err == nil {
				r.timelines[a.ID] = tl
			}
			continue
		}

		tl, err := r.timelines[a.ID].Append(a.ID, next)
		if err != nil {
			// no debería ocurrir: Propagate nunca retrocede en el tiempo
			r.diag.Issues = append(r.diag.Issues, domain.AgentIssue{Agent: a.ID, Fixture: fx.ID, Reason: err.Error()})
			out[a.ID] = r.states[a.ID].Clone()
			continue
		}
		r.timelines[a.ID] = tl
		r.states[a.ID] = next
		r.cursor[a.ID] = next.Date
		out[a.ID] = next
	}
	return out
}

// realize registra las apariciones del lineup para la siguiente propagación.
func (s *Scheduler) realize(r *run, fx domain.Fixture, l domain.Lineup) {
	for _, as := range l.Assignments {
		role, ok := r.in.Roster.Role(as.Role)
		if !ok {
			role = domain.Role{ID: as.Role}
		}
		r.realized[as.Agent] = append(r.realized[as.Agent],
			domain.MatchEvent(fx.Date, s.cfg.MatchMinutes, role, fx.TacticalIntensity()))
	}
}

// initialStates copia los estados de la plantilla. Un agente sin estado
// arranca fresco (condición y sharpness máximas, sin fatiga) en AsOf.
// Un LastMatch desconocido se ancla en la fecha del estado.
func initialStates(roster domain.RosterSnapshot) map[domain.AgentID]domain.ReadinessState {
	states := roster.StatesCopy()
	for _, a := range roster.Agents {
		st, ok := states[a.ID]
		if !ok {
			st = domain.ReadinessState{Condition: domain.ReadinessMax, Sharpness: domain.ReadinessMax}
		}
		if st.Date.IsZero() {
			st.Date = roster.AsOf
		}
		st.Date = domain.Day(st.Date)
		if st.LastMatch.IsZero() {
			// sin partido conocido la inactividad cuenta desde la foto, no
			// desde cada tramo de propagación
			st.LastMatch = st.Date
		}
		states[a.ID] = st.Clamp()
	}
	return states
}
