package domain

import (
	"fmt"
	"strings"
)

// RatingScale es el máximo de la escala discreta de ratings (1–20).
const RatingScale = 20

// AgentID identifica a un jugador de la plantilla.
type AgentID string

// RoleID identifica una posición del once o una clave de rating.
type RoleID string

// Familiarity es el nivel de naturalidad de un agente en un rol.
type Familiarity int

const (
	FamiliarityIneffective Familiarity = iota
	FamiliarityAwkward
	FamiliarityUnconvincing
	FamiliarityCompetent
	FamiliarityAccomplished
	FamiliarityNatural
)

var familiarityNames = [...]string{
	FamiliarityIneffective:  "ineffective",
	FamiliarityAwkward:      "awkward",
	FamiliarityUnconvincing: "unconvincing",
	FamiliarityCompetent:    "competent",
	FamiliarityAccomplished: "accomplished",
	FamiliarityNatural:      "natural",
}

func (f Familiarity) String() string {
	if f < FamiliarityIneffective || f > FamiliarityNatural {
		return fmt.Sprintf("familiarity(%d)", int(f))
	}
	return familiarityNames[f]
}

// Level devuelve la familiaridad normalizada en [0, 1]. Ineffective = 0, Natural = 1.
func (f Familiarity) Level() float64 {
	switch {
	case f <= FamiliarityIneffective:
		return 0
	case f >= FamiliarityNatural:
		return 1
	}
	return float64(f) / float64(FamiliarityNatural)
}

// ParseFamiliarity convierte el nombre de un tier en Familiarity.
func ParseFamiliarity(s string) (Familiarity, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range familiarityNames {
		if name == key {
			return Familiarity(i), nil
		}
	}
	return 0, NewValidationError("familiarity", "unknown tier %q", s)
}

// Physical agrupa los coeficientes físicos intrínsecos del agente.
//   - Recovery: escala la recuperación de condición entre fechas.
//   - WorkRate: intensidad de trabajo en el campo (más alto = más desgaste).
//   - Efficiency: eficiencia de recuperación en partido (más alto = menos desgaste).
type Physical struct {
	Recovery   float64
	WorkRate   float64
	Efficiency float64
}

// DefaultPhysical devuelve coeficientes neutros.
func DefaultPhysical() Physical {
	return Physical{Recovery: 1, WorkRate: 1, Efficiency: 1}
}

// DrainRatio es work-intensity ÷ recovery-efficiency, usado en el desgaste por minuto.
func (p Physical) DrainRatio() float64 {
	if p.Efficiency <= 0 {
		return p.WorkRate
	}
	return p.WorkRate / p.Efficiency
}

// Availability contiene los flags de disponibilidad del agente.
type Availability struct {
	Injured   bool
	Suspended bool
}

// Available devuelve true si el agente puede ser alineado.
func (a Availability) Available() bool {
	return !a.Injured && !a.Suspended
}

// Reason devuelve un texto legible del motivo de indisponibilidad ("" si disponible).
func (a Availability) Reason() string {
	switch {
	case a.Injured && a.Suspended:
		return "injured and suspended"
	case a.Injured:
		return "injured"
	case a.Suspended:
		return "suspended"
	}
	return ""
}

// Agent es un jugador de la plantilla. Se crea al cargar el roster y no se
// destruye durante la sesión; su readiness vive en un Timeline aparte.
type Agent struct {
	ID           AgentID
	Name         string
	Ratings      map[RoleID]int
	Familiarity  map[RoleID]Familiarity
	Physical     Physical
	Availability Availability
}

// Rating devuelve el rating bruto que el rol usa. ok=false si el agente no
// tiene rating para esa clave: se excluye del rol, nunca se asume 0.
func (a Agent) Rating(role Role) (int, bool) {
	r, ok := a.Ratings[role.Key()]
	return r, ok
}

// FamiliarityAt devuelve la familiaridad del agente con el rol. Sin dato
// explícito se usa Competent.
func (a Agent) FamiliarityAt(role Role) Familiarity {
	if f, ok := a.Familiarity[role.ID]; ok {
		return f
	}
	if f, ok := a.Familiarity[role.Key()]; ok {
		return f
	}
	return FamiliarityCompetent
}

// Label devuelve el nombre si existe, o el ID.
func (a Agent) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return string(a.ID)
}

// Role es una posición del once requerido por un fixture.
type Role struct {
	ID RoleID
	// RatingKey es la clave de rating de la que bebe el rol (vacío = ID).
	RatingKey RoleID
	// Weight distingue roles defensivos (>1, penaliza duro la falta de
	// familiaridad) de roles de lujo (<1). 0 = peso uniforme 1.
	Weight float64
	// Drag es el coeficiente de desgaste de condición por minuto (0 = 1).
	Drag float64
}

// Key devuelve la clave de rating efectiva.
func (r Role) Key() RoleID {
	if r.RatingKey == "" {
		return r.ID
	}
	return r.RatingKey
}

// UnfamiliarityWeight devuelve el peso de penalización por falta de familiaridad.
func (r Role) UnfamiliarityWeight() float64 {
	if r.Weight <= 0 {
		return 1
	}
	return r.Weight
}

// DragCoefficient devuelve el coeficiente de desgaste del rol.
func (r Role) DragCoefficient() float64 {
	if r.Drag <= 0 {
		return 1
	}
	return r.Drag
}
