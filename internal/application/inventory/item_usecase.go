package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// CreateItemInput alta de artículo. InitialQuantity > 0 produce un asiento INITIAL.
type CreateItemInput struct {
	Name            string
	CategoryID      string
	DepartmentID    string
	MinimumQuantity int64
	InitialQuantity int64
	ActorName       string
}

// UpdateItemInput campos descriptivos opcionales. La cantidad no se edita aquí.
type UpdateItemInput struct {
	Name            *string
	CategoryID      *string
	DepartmentID    *string
	MinimumQuantity *int64
}

// ItemUseCase administración de artículos. La cantidad solo cambia vía MovementEngine.
type ItemUseCase struct {
	txRunner TxRunner
	engine   *MovementEngine
	repo     repository.ItemRepository
	log      zerolog.Logger
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner TxRunner, engine *MovementEngine, repo repository.ItemRepository, log zerolog.Logger) *ItemUseCase {
	return &ItemUseCase{
		txRunner: txRunner,
		engine:   engine,
		repo:     repo,
		log:      log.With().Str("component", "items").Logger(),
	}
}

// Create inserta el artículo con cantidad 0 y, si corresponde, aplica la cantidad inicial
// como movimiento IN en la misma transacción.
func (uc *ItemUseCase) Create(ctx context.Context, in CreateItemInput) (*entity.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	if in.MinimumQuantity < 0 {
		return nil, domain.NewValidationError("minimum_quantity", "no puede ser negativo")
	}
	if in.InitialQuantity < 0 {
		return nil, domain.NewValidationError("initial_quantity", "no puede ser negativo")
	}
	if in.InitialQuantity > 0 && strings.TrimSpace(in.ActorName) == "" {
		return nil, domain.NewValidationError("actor_name", "el responsable es obligatorio")
	}

	now := time.Now().UTC()
	item := &entity.Item{
		ID:              uuid.New().String(),
		Name:            name,
		CategoryID:      strings.TrimSpace(in.CategoryID),
		DepartmentID:    strings.TrimSpace(in.DepartmentID),
		MinimumQuantity: in.MinimumQuantity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.txRunner.Run(ctx, func(
		ctx context.Context,
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		if in.InitialQuantity == 0 {
			return nil
		}
		_, err := uc.engine.ApplyInTx(ctx, itemRepo, ledgerRepo, MovementInput{
			ItemID:      item.ID,
			Direction:   entity.DirectionIn,
			Quantity:    in.InitialQuantity,
			ActorName:   in.ActorName,
			Observation: "Stock inicial",
			Origin:      entity.OriginInitial,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	item.CurrentQuantity = in.InitialQuantity
	if in.InitialQuantity > 0 {
		item.Version++
	}
	uc.log.Info().Str("item_id", item.ID).Str("name", item.Name).Int64("initial_quantity", in.InitialQuantity).Msg("artículo creado")
	return item, nil
}

// GetByID obtiene un artículo; ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// Update modifica campos descriptivos. No genera asiento ni toca la cantidad.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in UpdateItemInput) (*entity.Item, error) {
	item, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "el nombre es obligatorio")
		}
		item.Name = name
	}
	if in.CategoryID != nil {
		item.CategoryID = strings.TrimSpace(*in.CategoryID)
	}
	if in.DepartmentID != nil {
		item.DepartmentID = strings.TrimSpace(*in.DepartmentID)
	}
	if in.MinimumQuantity != nil {
		if *in.MinimumQuantity < 0 {
			return nil, domain.NewValidationError("minimum_quantity", "no puede ser negativo")
		}
		item.MinimumQuantity = *in.MinimumQuantity
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.UpdateDetails(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List lista artículos con filtros.
func (uc *ItemUseCase) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	return uc.repo.List(ctx, filter)
}

// Delete elimina el artículo. Su kardex se conserva.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("item_id", id).Msg("artículo eliminado")
	return nil
}
