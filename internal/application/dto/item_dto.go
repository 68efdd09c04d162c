package dto

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name            string `json:"name"`
	CategoryID      string `json:"category_id,omitempty"`
	DepartmentID    string `json:"department_id,omitempty"`
	MinimumQuantity int64  `json:"minimum_quantity"`
	InitialQuantity int64  `json:"initial_quantity"`
}

// UpdateItemRequest body para PUT /api/items/:id (solo campos descriptivos).
type UpdateItemRequest struct {
	Name            *string `json:"name,omitempty"`
	CategoryID      *string `json:"category_id,omitempty"`
	DepartmentID    *string `json:"department_id,omitempty"`
	MinimumQuantity *int64  `json:"minimum_quantity,omitempty"`
}

// ItemResponse respuesta de artículo.
type ItemResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	CategoryID      string    `json:"category_id,omitempty"`
	DepartmentID    string    `json:"department_id,omitempty"`
	CurrentQuantity int64     `json:"current_quantity"`
	MinimumQuantity int64     `json:"minimum_quantity"`
	LowStock        bool      `json:"low_stock"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ItemListResponse listado paginado.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ReconciliationResponse GET /api/items/:id/reconciliation.
type ReconciliationResponse struct {
	ItemID     string `json:"item_id"`
	Current    int64  `json:"current_quantity"`
	Expected   int64  `json:"expected_quantity"`
	Drift      int64  `json:"drift"`
	TotalIn    int64  `json:"total_in"`
	TotalOut   int64  `json:"total_out"`
	EntryCount int    `json:"entry_count"`
	Consistent bool   `json:"consistent"`
}

// ToItemResponse mapea la entidad.
func ToItemResponse(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID:              i.ID,
		Name:            i.Name,
		CategoryID:      i.CategoryID,
		DepartmentID:    i.DepartmentID,
		CurrentQuantity: i.CurrentQuantity,
		MinimumQuantity: i.MinimumQuantity,
		LowStock:        i.IsLowStock(),
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}
