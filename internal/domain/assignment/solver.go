// Package assignment calcula el mapeo óptimo agente→rol sobre una matriz de
// scores efectivos.
package assignment

import (
	"fmt"
	"math"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
)

// tieBreak es la perturbación por fila que hace determinista el desempate:
// ante scores iguales gana el agente insertado antes.
const tieBreak = 1e-9

// Result es el mapeo óptimo.
//   - RoleAgent[r] es la fila (agente) asignada al rol r, o -1 si queda sin cubrir.
//   - Objective es la suma de scores de las celdas asignadas (sin perturbación).
//   - Unfilled lista los roles sin agente elegible.
type Result struct {
	RoleAgent []int
	Objective float64
	Unfilled  []int
}

// Filled devuelve el número de roles cubiertos.
func (r Result) Filled() int {
	return len(r.RoleAgent) - len(r.Unfilled)
}

// Solve maximiza la suma de scores con una asignación uno a uno (parcial si
// hay menos agentes elegibles que roles). Entre asignaciones con distinto
// número de roles cubiertos gana siempre la que cubre más. scores[i][j] es el score del agente
// i en el rol j; una celda -Inf (o NaN) es no elegible. Un rol sin ningún
// agente elegible disponible aparece en Unfilled, nunca como error.
func Solve(scores [][]float64) (Result, error) {
	agents := len(scores)
	roles := 0
	if agents > 0 {
		roles = len(scores[0])
	}
	for i, row := range scores {
		if len(row) != roles {
			return Result{}, domain.NewValidationError("assignment.scores",
				"ragged matrix: row %d has %d roles, want %d", i, len(row), roles)
		}
		for j, v := range row {
			if math.IsInf(v, 1) {
				return Result{}, domain.NewValidationError("assignment.scores",
					"cell (%d,%d) is +Inf", i, j)
			}
		}
	}

	res := Result{RoleAgent: make([]int, roles)}
	for j := range res.RoleAgent {
		res.RoleAgent[j] = -1
	}
	if roles == 0 {
		return res, nil
	}
	if agents == 0 {
		for j := 0; j < roles; j++ {
			res.Unfilled = append(res.Unfilled, j)
		}
		return res, nil
	}

	// coste de una celda prohibida: supera cualquier diferencia entre dos
	// asignaciones elegibles, así que primero se maximiza el número de roles
	// cubiertos y después el score total
	total := 0.0
	for _, row := range scores {
		for _, v := range row {
			if eligible(v) {
				total += math.Abs(v) + tieBreak*float64(agents)
			}
		}
	}
	bigM := 1 + 2*total

	n := agents
	if roles > n {
		n = roles
	}
	cost := make([][]float64, n)
	for i := 0; i < n; i++ {
		cost[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			switch {
			case j >= roles:
				cost[i][j] = 0 // rol ficticio: el agente queda en el banquillo
			case i >= agents:
				cost[i][j] = bigM // agente ficticio: el rol queda sin cubrir
			case !eligible(scores[i][j]):
				cost[i][j] = bigM
			default:
				cost[i][j] = -(scores[i][j] - tieBreak*float64(i))
			}
		}
	}

	rowCol := hungarian(cost)
	for i := 0; i < agents; i++ {
		j := rowCol[i]
		if j >= roles || !eligible(scores[i][j]) {
			continue
		}
		res.RoleAgent[j] = i
		res.Objective += scores[i][j]
	}
	for j, i := range res.RoleAgent {
		if i < 0 {
			res.Unfilled = append(res.Unfilled, j)
		}
	}
	return res, nil
}

func eligible(v float64) bool {
	return !math.IsInf(v, -1) && !math.IsNaN(v)
}

func (r Result) String() string {
	return fmt.Sprintf("filled=%d unfilled=%d objective=%.3f", r.Filled(), len(r.Unfilled), r.Objective)
}
