package domain

import (
	"strings"
	"time"
)

// Provenance indica el origen de un lineup.
type Provenance int

const (
	ProvenanceAuto Provenance = iota
	ProvenanceOverridden
	ProvenanceConfirmed
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceOverridden:
		return "overridden"
	case ProvenanceConfirmed:
		return "confirmed"
	}
	return "auto"
}

// ParseProvenance es la inversa de String (desconocido = auto).
func ParseProvenance(s string) Provenance {
	switch s {
	case "overridden":
		return ProvenanceOverridden
	case "confirmed":
		return ProvenanceConfirmed
	}
	return ProvenanceAuto
}

// Flags son los avisos de estado de una asignación.
type Flags uint8

const (
	FlagNeedsRest Flags = 1 << iota
	FlagLowSharpness
	FlagManualOverride
	FlagStaleReadiness
	FlagShadowDiscounted
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagNeedsRest, "needs-rest"},
	{FlagLowSharpness, "low-sharpness"},
	{FlagManualOverride, "manual-override"},
	{FlagStaleReadiness, "stale-readiness"},
	{FlagShadowDiscounted, "shadow-discounted"},
}

// Has devuelve true si todos los bits de f están activos.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

// Strings devuelve los nombres de los flags activos.
func (fl Flags) Strings() []string {
	var out []string
	for _, fn := range flagNames {
		if fl.Has(fn.flag) {
			out = append(out, fn.name)
		}
	}
	return out
}

func (fl Flags) String() string {
	return strings.Join(fl.Strings(), ",")
}

// ParseFlags es la inversa de String.
func ParseFlags(s string) Flags {
	var fl Flags
	for _, part := range strings.Split(s, ",") {
		for _, fn := range flagNames {
			if fn.name == part {
				fl |= fn.flag
			}
		}
	}
	return fl
}

// Assignment es un rol cubierto por un agente.
type Assignment struct {
	Role    RoleID
	Agent   AgentID
	Score   float64
	Flags   Flags
	Reasons []string
}

// UnfilledRole es un rol sin agente elegible. No es un error: el resto del
// lineup se devuelve igual.
type UnfilledRole struct {
	Role   RoleID
	Reason string
}

// Lineup es el once de un fixture. Un lineup confirmado es inmutable.
type Lineup struct {
	ID          string
	FixtureID   FixtureID
	Date        time.Time
	Assignments []Assignment
	Unfilled    []UnfilledRole
	Objective   float64
	Provenance  Provenance
	CreatedAt   time.Time
}

// Confirmed devuelve true si el lineup está bloqueado.
func (l Lineup) Confirmed() bool {
	return l.Provenance == ProvenanceConfirmed
}

// AgentFor devuelve el agente asignado a un rol.
func (l Lineup) AgentFor(role RoleID) (AgentID, bool) {
	for _, a := range l.Assignments {
		if a.Role == role {
			return a.Agent, true
		}
	}
	return "", false
}

// RoleOf devuelve el rol que ocupa un agente.
func (l Lineup) RoleOf(agent AgentID) (RoleID, bool) {
	for _, a := range l.Assignments {
		if a.Agent == agent {
			return a.Role, true
		}
	}
	return "", false
}

// AverageScore devuelve la media de score efectivo de las asignaciones.
func (l Lineup) AverageScore() float64 {
	if len(l.Assignments) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range l.Assignments {
		total += a.Score
	}
	return total / float64(len(l.Assignments))
}

// Override fuerza un agente en un rol de un fixture.
type Override struct {
	FixtureID FixtureID
	Role      RoleID
	Agent     AgentID
}
