// Package shadow descuenta el score actual de un agente por el coste de
// oportunidad de usarlo hoy frente a preservarlo para un fixture posterior
// materialmente más importante.
package shadow

import (
	"fmt"
	"math"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/readiness"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/utility"
)

// MaxLookahead es el máximo de fixtures futuros que se escanean.
const MaxLookahead = 5

// Params controla el escaneo.
type Params struct {
	Lookahead       int     // K, fixtures futuros considerados (0 = desactivado)
	Discount        float64 // γ ∈ (0, 1)
	Weight          float64 // peso del shadowCost sobre el score
	Materiality     float64 // un fixture cuenta si su peso ≥ Materiality × peso actual
	ComparableRatio float64 // alternativa comparable: rating ≥ ratio × rating propio
	AssumedMinutes  int     // minutos supuestos si el agente juega hoy
}

// DefaultParams devuelve los valores por defecto.
func DefaultParams() Params {
	return Params{
		Lookahead:       3,
		Discount:        0.85,
		Weight:          1.0,
		Materiality:     1.2,
		ComparableRatio: 0.9,
		AssumedMinutes:  90,
	}
}

// Term es la contribución de un fixture futuro al shadowCost.
type Term struct {
	Fixture  domain.FixtureID
	Role     domain.RoleID
	Offset   int     // posición en la ventana (1..K)
	Jeopardy float64 // pérdida de readiness en ese fixture por jugar hoy
	Scarcity float64
	Cost     float64
}

// Penalty es el shadowCost ponderado de una celda agente×rol.
type Penalty struct {
	Value float64
	Terms []Term
}

// Pricer combina los parámetros de los tres modelos que necesita la proyección.
type Pricer struct {
	Params    Params
	Readiness readiness.Params
	Utility   utility.Params
}

// NewPricer construye un Pricer.
func NewPricer(p Params, rp readiness.Params, up utility.Params) Pricer {
	return Pricer{Params: p, Readiness: rp, Utility: up}
}

// Request describe una celda a valorar.
type Request struct {
	Agent    domain.Agent
	Role     domain.Role
	State    domain.ReadinessState // estado al kickoff del fixture actual
	Current  domain.Fixture
	Upcoming []domain.Fixture // fixtures posteriores, en orden cronológico
	Roster   domain.RosterSnapshot
}

// Penalty calcula
//
//	shadowCost = Weight × Σ_{f=1..K} γ^f × importance(f) × scarcity(agent, role) × jeopardy(f) × rating
//
// sólo sobre los fixtures cuyo peso de importancia supera Materiality veces
// el del actual. jeopardy compara la readiness proyectada al fixture f
// descansando hoy frente a jugando AssumedMinutes hoy.
func (pr Pricer) Penalty(req Request) (Penalty, error) {
	var pen Penalty
	k := pr.Params.Lookahead
	if k <= 0 || !req.Agent.Availability.Available() {
		return pen, nil
	}
	if blocked, _ := req.Roster.BlockedOn(req.Agent.ID, req.Current.Date); blocked {
		return pen, nil
	}
	if k > MaxLookahead {
		k = MaxLookahead
	}

	currentWeight := pr.Utility.For(req.Current.Importance).Weight
	discount := 1.0
	offset := 0
	for _, fx := range req.Upcoming {
		if !fx.Date.After(req.Current.Date) {
			continue
		}
		offset++
		if offset > k {
			break
		}
		discount *= pr.Params.Discount

		weight := pr.Utility.For(fx.Importance).Weight
		if weight < pr.Params.Materiality*currentWeight {
			continue
		}
		if blocked, _ := req.Roster.BlockedOn(req.Agent.ID, fx.Date); blocked {
			continue
		}
		role, rating, scarcity, ok := pr.valueAt(req, fx)
		if !ok {
			continue
		}
		jeopardy, err := pr.jeopardy(req, fx)
		if err != nil {
			return Penalty{}, fmt.Errorf("shadow.Penalty: fixture %s: %w", fx.ID, err)
		}
		if jeopardy <= 0 {
			continue
		}
		cost := discount * weight * scarcity * jeopardy * float64(rating)
		pen.Terms = append(pen.Terms, Term{
			Fixture:  fx.ID,
			Role:     role,
			Offset:   offset,
			Jeopardy: jeopardy,
			Scarcity: scarcity,
			Cost:     cost,
		})
		pen.Value += cost
	}
	pen.Value *= pr.Params.Weight
	return pen, nil
}

// Apply descuenta la penalización: score'' = max(0, score − penalty).
// Las celdas prohibidas no se tocan.
func (pr Pricer) Apply(score float64, pen Penalty) float64 {
	if utility.IsProhibitive(score) || pen.Value <= 0 {
		return score
	}
	return math.Max(0, score-pen.Value)
}

// valueAt elige el rol por el que el agente importa en fx: el rol actual si
// fx lo requiere; si no, el de mayor rating × escasez entre los de fx.
func (pr Pricer) valueAt(req Request, fx domain.Fixture) (domain.RoleID, int, float64, bool) {
	for _, id := range fx.Roles {
		if id == req.Role.ID {
			if rating, ok := req.Agent.Rating(req.Role); ok && rating > 0 {
				return id, rating, pr.scarcity(req, req.Role, rating, fx), true
			}
		}
	}

	var (
		bestRole   domain.RoleID
		bestRating int
		bestScar   float64
		found      bool
	)
	for _, id := range fx.Roles {
		role, ok := req.Roster.Role(id)
		if !ok {
			continue
		}
		rating, ok := req.Agent.Rating(role)
		if !ok || rating <= 0 {
			continue
		}
		scar := pr.scarcity(req, role, rating, fx)
		if !found || float64(rating)*scar > float64(bestRating)*bestScar {
			bestRole, bestRating, bestScar, found = id, rating, scar, true
		}
	}
	return bestRole, bestRating, bestScar, found
}

// scarcity = 1 / (1 + alternativas comparables disponibles en fx).
func (pr Pricer) scarcity(req Request, role domain.Role, rating int, fx domain.Fixture) float64 {
	threshold := pr.Params.ComparableRatio * float64(rating)
	comparable := 0
	for _, other := range req.Roster.Agents {
		if other.ID == req.Agent.ID || !other.Availability.Available() {
			continue
		}
		if blocked, _ := req.Roster.BlockedOn(other.ID, fx.Date); blocked {
			continue
		}
		r, ok := other.Rating(role)
		if ok && float64(r) >= threshold {
			comparable++
		}
	}
	return 1 / float64(1+comparable)
}

// jeopardy proyecta el estado a fx en dos ramas (descansa hoy / juega hoy) y
// devuelve la readiness que se pierde jugando.
func (pr Pricer) jeopardy(req Request, fx domain.Fixture) (float64, error) {
	from := domain.Day(req.Current.Date)
	calendar := domain.EventsBetween(req.Roster.Events[req.Agent.ID], from, fx.Date)

	rest := make([]domain.Event, 0, len(calendar))
	for _, e := range calendar {
		if e.Kind == domain.EventMatch && domain.Day(e.From).Equal(from) {
			continue
		}
		rest = append(rest, e)
	}
	play := append([]domain.Event{
		domain.MatchEvent(from, pr.Params.AssumedMinutes, req.Role, req.Current.TacticalIntensity()),
	}, rest...)
	domain.SortEvents(play)

	start := req.State.Clone()
	start.Date = from

	rested, err := readiness.Propagate(pr.Readiness, req.Agent, start, fx.Date, rest)
	if err != nil {
		return 0, err
	}
	played, err := readiness.Propagate(pr.Readiness, req.Agent, start, fx.Date, play)
	if err != nil {
		return 0, err
	}
	loss := pr.Utility.ReadinessFactor(rested, fx.Importance) - pr.Utility.ReadinessFactor(played, fx.Importance)
	return math.Max(0, loss), nil
}
