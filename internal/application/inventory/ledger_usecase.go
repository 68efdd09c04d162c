package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	stock "github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// LedgerUseCase consultas del kardex, edición de observaciones y corrección auditada.
type LedgerUseCase struct {
	txRunner         TxRunner
	ledgerRepo       repository.LedgerRepository
	allowCorrections bool
	log              zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	ledgerRepo repository.LedgerRepository,
	allowCorrections bool,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:         txRunner,
		ledgerRepo:       ledgerRepo,
		allowCorrections: allowCorrections,
		log:              log.With().Str("component", "ledger").Logger(),
	}
}

// List lista asientos con filtros.
func (uc *LedgerUseCase) List(ctx context.Context, filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	if filter.Direction != "" && !filter.Direction.Valid() {
		return nil, domain.NewValidationError("direction", "debe ser IN u OUT")
	}
	return uc.ledgerRepo.List(ctx, filter)
}

// GetByID obtiene un asiento; ErrNotFound si no existe.
func (uc *LedgerUseCase) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	entry, err := uc.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// EditObservation modifica la observación, el único campo editable de un asiento.
func (uc *LedgerUseCase) EditObservation(ctx context.Context, id, observation string) (*entity.LedgerEntry, error) {
	entry, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	observation = strings.TrimSpace(observation)
	if err := uc.ledgerRepo.UpdateObservation(ctx, id, observation); err != nil {
		return nil, err
	}
	entry.Observation = observation
	return entry, nil
}

// Correct elimina un asiento dejando un registro de auditoría en la misma transacción.
// No ajusta la cantidad del artículo: puede romper la conciliación y por eso exige motivo.
func (uc *LedgerUseCase) Correct(ctx context.Context, id, actorName, reason string) (*entity.LedgerCorrection, error) {
	if !uc.allowCorrections {
		return nil, domain.ErrInvalidState
	}
	if strings.TrimSpace(actorName) == "" {
		return nil, domain.NewValidationError("actor_name", "el responsable es obligatorio")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, domain.NewValidationError("reason", "el motivo de la corrección es obligatorio")
	}

	var correction *entity.LedgerCorrection
	err := uc.txRunner.Run(ctx, func(
		ctx context.Context,
		_ repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		entry, err := ledgerRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		correction = &entity.LedgerCorrection{
			ID:              uuid.New().String(),
			EntryID:         entry.ID,
			ItemID:          entry.ItemID,
			ItemName:        entry.ItemName,
			Direction:       entry.Direction,
			QuantityChanged: entry.QuantityChanged,
			EntryCreatedAt:  entry.CreatedAt,
			ActorName:       strings.TrimSpace(actorName),
			Reason:          strings.TrimSpace(reason),
			CreatedAt:       time.Now().UTC(),
		}
		if err := ledgerRepo.Delete(ctx, entry.ID); err != nil {
			return err
		}
		return ledgerRepo.InsertCorrection(ctx, correction)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Warn().
		Str("entry_id", correction.EntryID).
		Str("item_id", correction.ItemID).
		Str("direction", string(correction.Direction)).
		Int64("quantity", correction.QuantityChanged).
		Str("actor", correction.ActorName).
		Str("reason", correction.Reason).
		Msg("asiento eliminado por corrección; la cantidad del artículo no se ajusta")
	return correction, nil
}

// Reconcile compara la cantidad actual del artículo con la suma de su kardex.
// Lee ambos con la fila del artículo bloqueada para no observar un movimiento a medias.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, itemID string) (stock.Reconciliation, error) {
	var rec stock.Reconciliation
	err := uc.txRunner.Run(ctx, func(
		ctx context.Context,
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		entries, err := ledgerRepo.List(ctx, repository.LedgerFilter{ItemID: itemID})
		if err != nil {
			return err
		}
		rec = stock.Reconcile(item, entries)
		return nil
	})
	return rec, err
}
