package ports

import (
	"context"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
)

// Notifier presenta el plan calculado al usuario.
type Notifier interface {
	// Notify muestra los lineups del plan y sus diagnósticos.
	// En la implementación de consola, imprime tablas formateadas.
	Notify(ctx context.Context, plan domain.Plan) error
}
