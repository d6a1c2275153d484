package ports

import (
	"context"
	"errors"
	"time"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
)

// ErrNotFound se devuelve cuando el fixture pedido no tiene lineup guardado.
var ErrNotFound = errors.New("not found")

// LineupStore persiste lineups (auto, overridden, confirmed), overrides
// manuales y el resumen de cada ejecución del planificador.
type LineupStore interface {
	// SaveRun registra el resumen de una ejecución.
	SaveRun(ctx context.Context, run domain.PlanRun) error

	// SaveLineup guarda el lineup de un fixture. Un lineup confirmado es
	// inmutable: guardar encima de él no hace nada.
	SaveLineup(ctx context.Context, runID string, lineup domain.Lineup) error

	// ConfirmLineup bloquea el lineup guardado de un fixture y lo devuelve.
	ConfirmLineup(ctx context.Context, fixtureID domain.FixtureID) (domain.Lineup, error)

	// GetLineups devuelve todos los lineups guardados en orden cronológico.
	GetLineups(ctx context.Context) ([]domain.Lineup, error)

	// ConfirmedLineups devuelve los lineups confirmados indexados por fixture.
	ConfirmedLineups(ctx context.Context) (map[domain.FixtureID]domain.Lineup, error)

	// LatestConfirmed devuelve el último lineup confirmado anterior a before
	// (nil si no hay ninguno). Sirve de ancla de continuidad.
	LatestConfirmed(ctx context.Context, before time.Time) (*domain.Lineup, error)

	SaveOverride(ctx context.Context, o domain.Override) error
	GetOverrides(ctx context.Context) ([]domain.Override, error)
	DeleteOverride(ctx context.Context, fixtureID domain.FixtureID, role domain.RoleID) error

	// GetRuns devuelve las últimas ejecuciones, la más reciente primero.
	GetRuns(ctx context.Context, limit int) ([]domain.PlanRun, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
