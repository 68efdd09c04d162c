package dto

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CreateReturnRequest body para POST /api/returns.
type CreateReturnRequest struct {
	ItemName     string `json:"item_name"`
	Quantity     int64  `json:"quantity"`
	Reason       string `json:"reason"`
	DepartmentID string `json:"department_id,omitempty"`
}

// EditReturnRequest body para PUT /api/returns/:id.
type EditReturnRequest struct {
	ItemName     *string `json:"item_name,omitempty"`
	Quantity     *int64  `json:"quantity,omitempty"`
	Reason       *string `json:"reason,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
}

// ReturnResponse solicitud de devolución.
type ReturnResponse struct {
	ID            string     `json:"id"`
	ItemName      string     `json:"item_name"`
	Quantity      int64      `json:"quantity"`
	Reason        string     `json:"reason"`
	DepartmentID  string     `json:"department_id,omitempty"`
	Status        string     `json:"status"`
	RequestedBy   string     `json:"requested_by,omitempty"`
	LedgerEntryID string     `json:"ledger_entry_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// CompleteReturnResponse solicitud completada más el asiento de reingreso.
type CompleteReturnResponse struct {
	Return ReturnResponse      `json:"return"`
	Entry  LedgerEntryResponse `json:"entry"`
}

// ToReturnResponse mapea la entidad.
func ToReturnResponse(r *entity.ReturnRequest) ReturnResponse {
	return ReturnResponse{
		ID:            r.ID,
		ItemName:      r.ItemName,
		Quantity:      r.Quantity,
		Reason:        r.Reason,
		DepartmentID:  r.DepartmentID,
		Status:        string(r.Status),
		RequestedBy:   r.RequestedBy,
		LedgerEntryID: r.LedgerEntryID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		CompletedAt:   r.CompletedAt,
	}
}
