package dto

// LowStockDTO artículo en o por debajo de su mínimo.
type LowStockDTO struct {
	ItemID          string `json:"item_id"`
	Name            string `json:"name"`
	DepartmentID    string `json:"department_id,omitempty"`
	CurrentQuantity int64  `json:"current_quantity"`
	MinimumQuantity int64  `json:"minimum_quantity"`
	Deficit         int64  `json:"deficit"`
}

// DepartmentDistributionDTO bucket por departamento ("unassigned" si no tiene).
type DepartmentDistributionDTO struct {
	DepartmentID  string `json:"department_id"`
	Name          string `json:"name"`
	Unassigned    bool   `json:"unassigned"`
	Known         bool   `json:"known"`
	ItemCount     int    `json:"item_count"`
	TotalQuantity int64  `json:"total_quantity"`
}

// MonthlyMovementDTO totales de un mes (YYYY-MM).
type MonthlyMovementDTO struct {
	Month      string `json:"month"`
	In         int64  `json:"in"`
	Out        int64  `json:"out"`
	Net        int64  `json:"net"`
	EntryCount int    `json:"entry_count"`
}
