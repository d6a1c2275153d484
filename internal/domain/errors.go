package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marca entradas mal formadas o contradictorias.
	ErrValidation = errors.New("validation error")
	// ErrInfeasibleState marca historiales imposibles (p.ej. tiempo negativo).
	ErrInfeasibleState = errors.New("infeasible state")
)

// ValidationError se devuelve cuando la entrada es rechazada antes de aplicarse.
// Nunca se aplica parcialmente: quien la recibe no ha mutado nada.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError construye un ValidationError con un motivo formateado.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InfeasibleStateError es fatal solo para el agente afectado.
type InfeasibleStateError struct {
	AgentID AgentID
	Reason  string
}

// NewInfeasibleStateError construye un InfeasibleStateError para un agente.
func NewInfeasibleStateError(agent AgentID, format string, args ...any) *InfeasibleStateError {
	return &InfeasibleStateError{AgentID: agent, Reason: fmt.Sprintf(format, args...)}
}

func (e *InfeasibleStateError) Error() string {
	return fmt.Sprintf("infeasible state for agent %s: %s", e.AgentID, e.Reason)
}

// Is permite errors.Is(err, ErrInfeasibleState).
func (e *InfeasibleStateError) Is(target error) bool {
	return target == ErrInfeasibleState
}
