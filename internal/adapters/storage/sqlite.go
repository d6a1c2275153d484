package storage

// sqlite.go: persistencia de lineups, overrides y ejecuciones.
//
// Estrategia:
//   - `lineups`: UNA fila por fixture (UPSERT). Cada plan guardado reemplaza
//     el lineup anterior salvo que esté confirmado: los confirmados no se
//     reescriben nunca.
//   - `lineup_slots`: una fila por rol del lineup, cubierto o no.
//   - `overrides`: una fila por (fixture, rol); el último override gana.
//   - `plan_runs`: resumen ligero por ejecución.
//   - Cache en memoria de fixtures confirmados: evita abrir transacciones
//     para lineups que no se pueden tocar.
//   - Prune automático al arrancar: plan_runs > 180d.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
-- Resumen ligero por ejecución del planificador
CREATE TABLE IF NOT EXISTS plan_runs (
    id         TEXT PRIMARY KEY,
    created_at TEXT    NOT NULL,
    fixtures   INTEGER NOT NULL DEFAULT 0,
    avg_score  REAL    NOT NULL DEFAULT 0,
    unfilled   INTEGER NOT NULL DEFAULT 0
);

-- Un lineup por fixture
CREATE TABLE IF NOT EXISTS lineups (
    fixture_id   TEXT PRIMARY KEY,
    id           TEXT NOT NULL,
    run_id       TEXT,
    fixture_date TEXT NOT NULL,
    provenance   TEXT NOT NULL,
    objective    REAL NOT NULL DEFAULT 0,
    created_at   TEXT NOT NULL,
    confirmed_at TEXT
);

CREATE TABLE IF NOT EXISTS lineup_slots (
    fixture_id TEXT    NOT NULL,
    position   INTEGER NOT NULL,
    role       TEXT    NOT NULL,
    agent_id   TEXT,
    score      REAL    NOT NULL DEFAULT 0,
    flags      TEXT    NOT NULL DEFAULT '',
    reasons    TEXT    NOT NULL DEFAULT '',
    PRIMARY KEY (fixture_id, role)
);

CREATE TABLE IF NOT EXISTS overrides (
    fixture_id TEXT NOT NULL,
    role       TEXT NOT NULL,
    agent_id   TEXT NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (fixture_id, role)
);

CREATE INDEX IF NOT EXISTS idx_runs_at      ON plan_runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_lineups_date ON lineups(fixture_date);
`

const (
	retentionRuns  = 180 * 24 * time.Hour
	timeLayout     = "2006-01-02T15:04:05.000000Z07:00" // ancho fijo: ordena como texto
	reasonSep      = "\n"
	defaultRunRows = 20
)

// SQLiteStorage implementa ports.LineupStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db        *sql.DB
	confirmed map[domain.FixtureID]bool // fixtures con lineup bloqueado
	mu        sync.Mutex
}

var _ ports.LineupStore = (*SQLiteStorage)(nil)

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema, limpia ejecuciones antiguas y precarga la cache.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{
		db:        db,
		confirmed: make(map[domain.FixtureID]bool),
	}
	s.pruneOld(context.Background())
	s.warmCache(context.Background())
	return s, nil
}

// SaveRun registra el resumen de una ejecución.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run domain.PlanRun) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO plan_runs (id, created_at, fixtures, avg_score, unfilled) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			fixtures  = excluded.fixtures,
			avg_score = excluded.avg_score,
			unfilled  = excluded.unfilled`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout), run.Fixtures, run.AverageScore, run.Unfilled,
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert %s: %w", run.ID, err)
	}
	return nil
}

// SaveLineup hace upsert del lineup y reemplaza sus slots. Los lineups
// confirmados no se tocan.
func (s *SQLiteStorage) SaveLineup(ctx context.Context, runID string, l domain.Lineup) error {
	if s.isConfirmed(l.FixtureID) {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveLineup: begin tx: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT provenance FROM lineups WHERE fixture_id = ?`, string(l.FixtureID)).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("storage.SaveLineup: lookup %s: %w", l.FixtureID, err)
	case domain.ParseProvenance(current) == domain.ProvenanceConfirmed:
		s.markConfirmed(l.FixtureID)
		return nil
	}

	var confirmedAt *string
	if l.Confirmed() {
		now := time.Now().UTC().Format(timeLayout)
		confirmedAt = &now
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO lineups (fixture_id, id, run_id, fixture_date, provenance, objective, created_at, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fixture_id) DO UPDATE SET
			id           = excluded.id,
			run_id       = excluded.run_id,
			fixture_date = excluded.fixture_date,
			provenance   = excluded.provenance,
			objective    = excluded.objective,
			created_at   = excluded.created_at,
			confirmed_at = excluded.confirmed_at
		WHERE lineups.provenance <> 'confirmed'`,
		string(l.FixtureID), l.ID, runID, l.Date.Format(domain.DateLayout),
		l.Provenance.String(), l.Objective, l.CreatedAt.UTC().Format(timeLayout), confirmedAt,
	); err != nil {
		return fmt.Errorf("storage.SaveLineup: upsert %s: %w", l.FixtureID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lineup_slots WHERE fixture_id = ?`, string(l.FixtureID)); err != nil {
		return fmt.Errorf("storage.SaveLineup: clear slots %s: %w", l.FixtureID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lineup_slots (fixture_id, position, role, agent_id, score, flags, reasons)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveLineup: prepare: %w", err)
	}
	defer stmt.Close()

	pos := 0
	for _, as := range l.Assignments {
		if _, err := stmt.ExecContext(ctx,
			string(l.FixtureID), pos, string(as.Role), string(as.Agent), as.Score,
			as.Flags.String(), strings.Join(as.Reasons, reasonSep),
		); err != nil {
			return fmt.Errorf("storage.SaveLineup: slot %s/%s: %w", l.FixtureID, as.Role, err)
		}
		pos++
	}
	for _, u := range l.Unfilled {
		if _, err := stmt.ExecContext(ctx,
			string(l.FixtureID), pos, string(u.Role), nil, 0.0, "", u.Reason,
		); err != nil {
			return fmt.Errorf("storage.SaveLineup: unfilled %s/%s: %w", l.FixtureID, u.Role, err)
		}
		pos++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveLineup: commit: %w", err)
	}
	if l.Confirmed() {
		s.markConfirmed(l.FixtureID)
	}
	return nil
}

// ConfirmLineup bloquea el lineup guardado del fixture.
func (s *SQLiteStorage) ConfirmLineup(ctx context.Context, fixtureID domain.FixtureID) (domain.Lineup, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE lineups SET provenance = 'confirmed', confirmed_at = COALESCE(confirmed_at, ?)
		WHERE fixture_id = ?`,
		time.Now().UTC().Format(timeLayout), string(fixtureID),
	)
	if err != nil {
		return domain.Lineup{}, fmt.Errorf("storage.ConfirmLineup: update %s: %w", fixtureID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Lineup{}, fmt.Errorf("storage.ConfirmLineup: fixture %s: %w", fixtureID, ports.ErrNotFound)
	}
	s.markConfirmed(fixtureID)

	lineups, err := s.queryLineups(ctx, `WHERE fixture_id = ?`, string(fixtureID))
	if err != nil {
		return domain.Lineup{}, fmt.Errorf("storage.ConfirmLineup: %w", err)
	}
	if len(lineups) == 0 {
		return domain.Lineup{}, fmt.Errorf("storage.ConfirmLineup: fixture %s: %w", fixtureID, ports.ErrNotFound)
	}
	return lineups[0], nil
}

// GetLineups devuelve todos los lineups en orden cronológico.
func (s *SQLiteStorage) GetLineups(ctx context.Context) ([]domain.Lineup, error) {
	lineups, err := s.queryLineups(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("storage.GetLineups: %w", err)
	}
	return lineups, nil
}

// ConfirmedLineups devuelve los lineups confirmados indexados por fixture.
func (s *SQLiteStorage) ConfirmedLineups(ctx context.Context) (map[domain.FixtureID]domain.Lineup, error) {
	lineups, err := s.queryLineups(ctx, `WHERE provenance = 'confirmed'`)
	if err != nil {
		return nil, fmt.Errorf("storage.ConfirmedLineups: %w", err)
	}
	out := make(map[domain.FixtureID]domain.Lineup, len(lineups))
	for _, l := range lineups {
		out[l.FixtureID] = l
	}
	return out, nil
}

// LatestConfirmed devuelve el último lineup confirmado anterior a before.
func (s *SQLiteStorage) LatestConfirmed(ctx context.Context, before time.Time) (*domain.Lineup, error) {
	lineups, err := s.queryLineups(ctx,
		`WHERE provenance = 'confirmed' AND fixture_date < ?`, domain.Day(before).Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("storage.LatestConfirmed: %w", err)
	}
	if len(lineups) == 0 {
		return nil, nil
	}
	l := lineups[len(lineups)-1]
	return &l, nil
}

// SaveOverride guarda un override; reemplaza el anterior del mismo rol.
func (s *SQLiteStorage) SaveOverride(ctx context.Context, o domain.Override) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO overrides (fixture_id, role, agent_id, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(fixture_id, role) DO UPDATE SET
			agent_id   = excluded.agent_id,
			created_at = excluded.created_at`,
		string(o.FixtureID), string(o.Role), string(o.Agent), time.Now().UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("storage.SaveOverride: %s/%s: %w", o.FixtureID, o.Role, err)
	}
	return nil
}

// GetOverrides devuelve todos los overrides en orden de creación.
func (s *SQLiteStorage) GetOverrides(ctx context.Context) ([]domain.Override, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fixture_id, role, agent_id FROM overrides ORDER BY created_at, fixture_id, role`)
	if err != nil {
		return nil, fmt.Errorf("storage.GetOverrides: query: %w", err)
	}
	defer rows.Close()

	var out []domain.Override
	for rows.Next() {
		var fixtureID, role, agent string
		if err := rows.Scan(&fixtureID, &role, &agent); err != nil {
			return nil, fmt.Errorf("storage.GetOverrides: scan row: %w", err)
		}
		out = append(out, domain.Override{
			FixtureID: domain.FixtureID(fixtureID),
			Role:      domain.RoleID(role),
			Agent:     domain.AgentID(agent),
		})
	}
	return out, rows.Err()
}

// DeleteOverride elimina el override de un rol. No es un error si no existe.
func (s *SQLiteStorage) DeleteOverride(ctx context.Context, fixtureID domain.FixtureID, role domain.RoleID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM overrides WHERE fixture_id = ? AND role = ?`, string(fixtureID), string(role),
	); err != nil {
		return fmt.Errorf("storage.DeleteOverride: %s/%s: %w", fixtureID, role, err)
	}
	return nil
}

// GetRuns devuelve las últimas ejecuciones, la más reciente primero.
func (s *SQLiteStorage) GetRuns(ctx context.Context, limit int) ([]domain.PlanRun, error) {
	if limit <= 0 {
		limit = defaultRunRows
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, fixtures, avg_score, unfilled
		FROM plan_runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.GetRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.PlanRun
	for rows.Next() {
		var r domain.PlanRun
		var createdAt string
		if err := rows.Scan(&r.ID, &createdAt, &r.Fixtures, &r.AverageScore, &r.Unfilled); err != nil {
			return nil, fmt.Errorf("storage.GetRuns: scan row: %w", err)
		}
		r.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// queryLineups carga lineups (con sus slots) filtrados por where.
func (s *SQLiteStorage) queryLineups(ctx context.Context, where string, args ...any) ([]domain.Lineup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fixture_id, id, fixture_date, provenance, objective, created_at
		FROM lineups `+where+`
		ORDER BY fixture_date, fixture_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query lineups: %w", err)
	}

	var lineups []domain.Lineup
	for rows.Next() {
		var l domain.Lineup
		var fixtureID, date, provenance, createdAt string
		if err := rows.Scan(&fixtureID, &l.ID, &date, &provenance, &l.Objective, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan lineup: %w", err)
		}
		l.FixtureID = domain.FixtureID(fixtureID)
		l.Date, _ = domain.ParseDay(date)
		l.Provenance = domain.ParseProvenance(provenance)
		l.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		lineups = append(lineups, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// una sola conexión: los slots se leen después de cerrar el cursor anterior
	for i := range lineups {
		if err := s.loadSlots(ctx, &lineups[i]); err != nil {
			return nil, err
		}
	}
	return lineups, nil
}

func (s *SQLiteStorage) loadSlots(ctx context.Context, l *domain.Lineup) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, agent_id, score, flags, reasons
		FROM lineup_slots
		WHERE fixture_id = ?
		ORDER BY position`, string(l.FixtureID))
	if err != nil {
		return fmt.Errorf("query slots %s: %w", l.FixtureID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var role, flags, reasons string
		var agent sql.NullString
		var score float64
		if err := rows.Scan(&role, &agent, &score, &flags, &reasons); err != nil {
			return fmt.Errorf("scan slot %s: %w", l.FixtureID, err)
		}
		if !agent.Valid || agent.String == "" {
			l.Unfilled = append(l.Unfilled, domain.UnfilledRole{Role: domain.RoleID(role), Reason: reasons})
			continue
		}
		as := domain.Assignment{
			Role:  domain.RoleID(role),
			Agent: domain.AgentID(agent.String),
			Score: score,
			Flags: domain.ParseFlags(flags),
		}
		if reasons != "" {
			as.Reasons = strings.Split(reasons, reasonSep)
		}
		l.Assignments = append(l.Assignments, as)
	}
	return rows.Err()
}

func (s *SQLiteStorage) isConfirmed(id domain.FixtureID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmed[id]
}

func (s *SQLiteStorage) markConfirmed(id domain.FixtureID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed[id] = true
}

// pruneOld elimina ejecuciones antiguas para mantener la DB ligera.
// Los lineups confirmados se conservan siempre.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns).Format(timeLayout)
	s.db.ExecContext(ctx, `DELETE FROM plan_runs WHERE created_at < ?`, cutoff)
}

// warmCache precarga los fixtures confirmados al arrancar.
func (s *SQLiteStorage) warmCache(ctx context.Context) {
	rows, err := s.db.QueryContext(ctx, `SELECT fixture_id FROM lineups WHERE provenance = 'confirmed'`)
	if err != nil {
		return
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var id string
		if rows.Scan(&id) == nil {
			s.confirmed[domain.FixtureID(id)] = true
		}
	}
}

// IsNotFound devuelve true si err indica un fixture sin lineup guardado.
func IsNotFound(err error) bool {
	return errors.Is(err, ports.ErrNotFound)
}
