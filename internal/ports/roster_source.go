package ports

import (
	"context"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
)

// RosterSource carga la plantilla, su readiness, el calendario y los fixtures.
type RosterSource interface {
	// LoadRoster devuelve un snapshot sin validar: la validación cruzada es
	// responsabilidad del scheduler.
	LoadRoster(ctx context.Context) (domain.RosterSnapshot, []domain.Fixture, error)
}
