package dto

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/ledger/movements.
type RegisterMovementRequest struct {
	ItemID       string `json:"item_id"`
	Direction    string `json:"direction"` // IN | OUT
	Quantity     int64  `json:"quantity"`
	DepartmentID string `json:"department_id,omitempty"`
	Observation  string `json:"observation,omitempty"`
}

// BulkExitLineRequest una línea de salida masiva.
type BulkExitLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// BulkExitRequest body para POST /api/ledger/bulk-exit.
type BulkExitRequest struct {
	Lines        []BulkExitLineRequest `json:"lines"`
	DepartmentID string                `json:"department_id,omitempty"`
	Observation  string                `json:"observation,omitempty"`
}

// BulkExitFailureDTO línea rechazada.
type BulkExitFailureDTO struct {
	Line   int    `json:"line"`
	ItemID string `json:"item_id"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// BulkExitResponse reporte de éxito parcial.
type BulkExitResponse struct {
	Applied []string              `json:"applied"`
	Entries []LedgerEntryResponse `json:"entries"`
	Failed  []BulkExitFailureDTO  `json:"failed"`
}

// EditObservationRequest body para PATCH /api/ledger/entries/:id/observation.
type EditObservationRequest struct {
	Observation string `json:"observation"`
}

// CorrectionRequest body para POST /api/ledger/entries/:id/correction.
type CorrectionRequest struct {
	Reason string `json:"reason"`
}

// LedgerEntryResponse asiento del kardex.
type LedgerEntryResponse struct {
	ID              string    `json:"id"`
	ItemID          string    `json:"item_id"`
	ItemName        string    `json:"item_name"`
	Direction       string    `json:"direction"`
	QuantityChanged int64     `json:"quantity_changed"`
	Origin          string    `json:"origin"`
	DepartmentID    string    `json:"department_id,omitempty"`
	ActorName       string    `json:"actor_name"`
	Observation     string    `json:"observation"`
	CreatedAt       time.Time `json:"created_at"`
}

// LedgerCorrectionResponse registro de auditoría de una corrección.
type LedgerCorrectionResponse struct {
	ID              string    `json:"id"`
	EntryID         string    `json:"entry_id"`
	ItemID          string    `json:"item_id"`
	Direction       string    `json:"direction"`
	QuantityChanged int64     `json:"quantity_changed"`
	ActorName       string    `json:"actor_name"`
	Reason          string    `json:"reason"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToLedgerEntryResponse mapea la entidad.
func ToLedgerEntryResponse(e *entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		ItemID:          e.ItemID,
		ItemName:        e.ItemName,
		Direction:       string(e.Direction),
		QuantityChanged: e.QuantityChanged,
		Origin:          string(e.Origin),
		DepartmentID:    e.DepartmentID,
		ActorName:       e.ActorName,
		Observation:     e.Observation,
		CreatedAt:       e.CreatedAt,
	}
}

// ToLedgerEntryList mapea una lista (nunca nil, para serializar []).
func ToLedgerEntryList(entries []*entity.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToLedgerEntryResponse(e))
	}
	return out
}

// ToLedgerCorrectionResponse mapea el registro de auditoría.
func ToLedgerCorrectionResponse(c *entity.LedgerCorrection) LedgerCorrectionResponse {
	return LedgerCorrectionResponse{
		ID:              c.ID,
		EntryID:         c.EntryID,
		ItemID:          c.ItemID,
		Direction:       string(c.Direction),
		QuantityChanged: c.QuantityChanged,
		ActorName:       c.ActorName,
		Reason:          c.Reason,
		CreatedAt:       c.CreatedAt,
	}
}
