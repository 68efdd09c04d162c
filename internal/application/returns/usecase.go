// Package returns implementa el flujo de aprobación de devoluciones:
// PENDING → APPROVED → COMPLETED, o PENDING → REJECTED.
// Completar reingresa el stock vía el motor de movimientos exactamente una vez por solicitud.
package returns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// CreateInput alta de una solicitud de devolución.
type CreateInput struct {
	ItemName     string
	Quantity     int64
	Reason       string
	DepartmentID string
	RequestedBy  string
}

// EditInput campos editables mientras la solicitud está PENDING.
type EditInput struct {
	ItemName     *string
	Quantity     *int64
	Reason       *string
	DepartmentID *string
}

// UseCase casos de uso del flujo de devoluciones.
type UseCase struct {
	txRunner ReturnsTxRunner
	repo     repository.ReturnRequestRepository
	mutator  StockMutator
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ReturnsTxRunner, repo repository.ReturnRequestRepository, mutator StockMutator, log zerolog.Logger) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		repo:     repo,
		mutator:  mutator,
		log:      log.With().Str("component", "returns").Logger(),
	}
}

// Create registra una solicitud en estado PENDING.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.ReturnRequest, error) {
	now := time.Now().UTC()
	req := &entity.ReturnRequest{
		ID:           uuid.New().String(),
		ItemName:     strings.TrimSpace(in.ItemName),
		Quantity:     in.Quantity,
		Reason:       strings.TrimSpace(in.Reason),
		DepartmentID: strings.TrimSpace(in.DepartmentID),
		Status:       entity.ReturnPending,
		RequestedBy:  strings.TrimSpace(in.RequestedBy),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	uc.log.Info().Str("return_id", req.ID).Str("item_name", req.ItemName).Int64("quantity", req.Quantity).Msg("devolución registrada")
	return req, nil
}

// GetByID obtiene una solicitud; ErrNotFound si no existe.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.ReturnRequest, error) {
	req, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

// List lista solicitudes con filtros.
func (uc *UseCase) List(ctx context.Context, filter repository.ReturnFilter) ([]*entity.ReturnRequest, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status", "estado desconocido")
	}
	return uc.repo.List(ctx, filter)
}

// Edit modifica campos no relacionados con el estado; solo en PENDING, si no ErrInvalidState.
func (uc *UseCase) Edit(ctx context.Context, id string, in EditInput) (*entity.ReturnRequest, error) {
	var updated *entity.ReturnRequest
	err := uc.txRunner.RunReturns(ctx, func(
		ctx context.Context,
		_ repository.ItemRepository,
		_ repository.LedgerRepository,
		returnRepo repository.ReturnRequestRepository,
	) error {
		req, err := returnRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if !req.Status.Editable() {
			return domain.ErrInvalidState
		}
		if in.ItemName != nil {
			req.ItemName = strings.TrimSpace(*in.ItemName)
		}
		if in.Quantity != nil {
			req.Quantity = *in.Quantity
		}
		if in.Reason != nil {
			req.Reason = strings.TrimSpace(*in.Reason)
		}
		if in.DepartmentID != nil {
			req.DepartmentID = strings.TrimSpace(*in.DepartmentID)
		}
		if err := req.Validate(); err != nil {
			return err
		}
		req.UpdatedAt = time.Now().UTC()
		if err := returnRepo.Update(ctx, req); err != nil {
			return err
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Approve PENDING → APPROVED, sin efectos adicionales.
func (uc *UseCase) Approve(ctx context.Context, id, actorName string) (*entity.ReturnRequest, error) {
	return uc.transition(ctx, id, actorName, entity.ActionApprove)
}

// Reject PENDING → REJECTED (terminal), sin efectos adicionales.
func (uc *UseCase) Reject(ctx context.Context, id, actorName string) (*entity.ReturnRequest, error) {
	return uc.transition(ctx, id, actorName, entity.ActionReject)
}

// Complete APPROVED → COMPLETED. Reingresa request.Quantity al artículo resuelto por
// nombre + departamento y marca la solicitud, todo en una transacción. Si la solicitud no está
// APPROVED (por ejemplo ya COMPLETED) devuelve ErrInvalidTransition sin mutar nada, lo que
// impide acreditar dos veces la misma devolución.
func (uc *UseCase) Complete(ctx context.Context, id, actorName string) (*entity.ReturnRequest, *entity.LedgerEntry, error) {
	if strings.TrimSpace(actorName) == "" {
		return nil, nil, domain.NewValidationError("actor_name", "el responsable es obligatorio")
	}

	var (
		completed *entity.ReturnRequest
		entry     *entity.LedgerEntry
	)
	err := uc.txRunner.RunReturns(ctx, func(
		ctx context.Context,
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		returnRepo repository.ReturnRequestRepository,
	) error {
		req, err := returnRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		next, err := req.Status.Next(entity.ActionComplete)
		if err != nil {
			return err
		}

		item, err := itemRepo.GetByNameAndDepartment(ctx, req.ItemName, req.DepartmentID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("artículo %q de la devolución: %w", req.ItemName, domain.ErrNotFound)
		}

		entry, err = uc.mutator.ApplyInTx(ctx, itemRepo, ledgerRepo, inventory.MovementInput{
			ItemID:       item.ID,
			Direction:    entity.DirectionIn,
			Quantity:     req.Quantity,
			DepartmentID: req.DepartmentID,
			ActorName:    actorName,
			Observation:  "Devolución: " + req.Reason,
			Origin:       entity.OriginReturn,
		})
		if err != nil {
			return err
		}

		now := entry.CreatedAt
		if err := returnRepo.UpdateStatus(ctx, req.ID, req.Status, next, entry.ID, now); err != nil {
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				return domain.ErrInvalidTransition
			}
			return err
		}
		req.Status = next
		req.LedgerEntryID = entry.ID
		req.UpdatedAt = now
		req.CompletedAt = &now
		completed = req
		return nil
	})
	if err != nil {
		uc.log.Info().Str("return_id", id).Str("code", domain.ErrorCode(err)).Msg("completar devolución rechazado")
		return nil, nil, err
	}

	uc.log.Info().
		Str("return_id", completed.ID).
		Str("item_id", entry.ItemID).
		Int64("quantity", entry.QuantityChanged).
		Str("entry_id", entry.ID).
		Str("actor", actorName).
		Msg("devolución completada, stock reingresado")
	return completed, entry, nil
}

// Delete elimina la solicitud en cualquier estado. Nunca revierte una cantidad ya reingresada.
func (uc *UseCase) Delete(ctx context.Context, id, actorName string) error {
	req, err := uc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Warn().
		Str("return_id", id).
		Str("status", string(req.Status)).
		Str("actor", actorName).
		Msg("devolución eliminada")
	return nil
}

func (uc *UseCase) transition(ctx context.Context, id, actorName string, action entity.ReturnAction) (*entity.ReturnRequest, error) {
	var updated *entity.ReturnRequest
	err := uc.txRunner.RunReturns(ctx, func(
		ctx context.Context,
		_ repository.ItemRepository,
		_ repository.LedgerRepository,
		returnRepo repository.ReturnRequestRepository,
	) error {
		req, err := returnRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		next, err := req.Status.Next(action)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := returnRepo.UpdateStatus(ctx, req.ID, req.Status, next, "", now); err != nil {
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				return domain.ErrInvalidTransition
			}
			return err
		}
		req.Status = next
		req.UpdatedAt = now
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("return_id", id).
		Str("action", string(action)).
		Str("status", string(updated.Status)).
		Str("actor", actorName).
		Msg("transición de devolución")
	return updated, nil
}
