package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ReferenceRepository lecturas de datos de referencia (categorías y departamentos).
// Su administración pertenece a la aplicación que rodea al kardex.
type ReferenceRepository interface {
	GetDepartment(ctx context.Context, id string) (*entity.Department, error)
	GetCategory(ctx context.Context, id string) (*entity.Category, error)
	ListDepartments(ctx context.Context) ([]*entity.Department, error)
	ListCategories(ctx context.Context) ([]*entity.Category, error)
}
