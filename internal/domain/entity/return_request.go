package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// ReturnStatus estado de una solicitud de devolución.
type ReturnStatus string

const (
	ReturnPending   ReturnStatus = "PENDING"
	ReturnApproved  ReturnStatus = "APPROVED"
	ReturnRejected  ReturnStatus = "REJECTED"
	ReturnCompleted ReturnStatus = "COMPLETED"
)

// ReturnAction acción del flujo de aprobación.
type ReturnAction string

const (
	ActionApprove  ReturnAction = "approve"
	ActionReject   ReturnAction = "reject"
	ActionComplete ReturnAction = "complete"
)

// returnTransitions única fuente de verdad del flujo: PENDING→APPROVED→COMPLETED, PENDING→REJECTED.
var returnTransitions = map[ReturnStatus]map[ReturnAction]ReturnStatus{
	ReturnPending: {
		ActionApprove: ReturnApproved,
		ActionReject:  ReturnRejected,
	},
	ReturnApproved: {
		ActionComplete: ReturnCompleted,
	},
}

// Valid indica si s es un estado conocido.
func (s ReturnStatus) Valid() bool {
	switch s {
	case ReturnPending, ReturnApproved, ReturnRejected, ReturnCompleted:
		return true
	}
	return false
}

// ParseReturnStatus acepta el estado en cualquier combinación de mayúsculas.
func ParseReturnStatus(s string) (ReturnStatus, bool) {
	st := ReturnStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

// Next devuelve el estado destino de aplicar action, o ErrInvalidTransition.
func (s ReturnStatus) Next(action ReturnAction) (ReturnStatus, error) {
	next, ok := returnTransitions[s][action]
	if !ok {
		return s, domain.ErrInvalidTransition
	}
	return next, nil
}

// IsTerminal indica si ya no hay transiciones posibles.
func (s ReturnStatus) IsTerminal() bool {
	return len(returnTransitions[s]) == 0
}

// Editable indica si los campos distintos al estado pueden modificarse.
func (s ReturnStatus) Editable() bool {
	return s == ReturnPending
}

// ReturnRequest solicitud para reingresar stock al inventario, sujeta a aprobación.
// El artículo se referencia por nombre + departamento y se resuelve al completar.
type ReturnRequest struct {
	ID            string
	ItemName      string
	Quantity      int64
	Reason        string
	DepartmentID  string
	Status        ReturnStatus
	RequestedBy   string
	LedgerEntryID string // asiento producido al completar
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// Validate verifica los campos obligatorios.
func (r *ReturnRequest) Validate() error {
	if strings.TrimSpace(r.ItemName) == "" {
		return domain.NewValidationError("item_name", "el artículo es obligatorio")
	}
	if r.Quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser mayor que cero")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return domain.NewValidationError("reason", "el motivo es obligatorio")
	}
	return nil
}
