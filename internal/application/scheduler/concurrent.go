package scheduler

// concurrent.go: worker pool que construye la matriz de scores por filas.

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/shadow"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/utility"
)

// cell es una celda agente×rol con lo necesario para explicar su valor.
type cell struct {
	value    float64
	reason   string // por qué la celda no es elegible
	score    utility.Score
	penalty  shadow.Penalty
	err      error // fallo del shadow pricing (la celda conserva su valor sin descontar)
	override bool
}

// scoreRowsConcurrent puntúa cada agente (una fila) en paralelo. El orden de
// las filas es el de agents, independientemente del orden de terminación.
// Con el contexto cancelado los workers dejan de puntuar y las filas
// pendientes quedan a nil.
//
// Si workers <= 0 usa runtime.NumCPU() × 2.
func scoreRowsConcurrent(
	ctx context.Context,
	agents []domain.Agent,
	workers int,
	score func(domain.Agent) []cell,
) [][]cell {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	if workers > len(agents) {
		workers = len(agents)
	}

	type work struct {
		idx   int
		agent domain.Agent
	}
	type result struct {
		idx int
		row []cell
	}

	workCh := make(chan work, len(agents))
	resultCh := make(chan result, len(agents))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				if ctx.Err() != nil {
					continue
				}
				resultCh <- result{idx: w.idx, row: score(w.agent)}
			}
		}()
	}

	for i, a := range agents {
		workCh <- work{idx: i, agent: a}
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	rows := make([][]cell, len(agents))
	scored := 0
	for res := range resultCh {
		rows[res.idx] = res.row
		scored++
	}

	slog.Debug("score matrix built",
		"agents", len(agents),
		"scored", scored,
		"workers", workers,
	)
	return rows
}
