package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var tracer = otel.Tracer("kardex-api/inventory")

// MovementInput entrada de un movimiento de stock sobre un solo artículo.
// DepartmentID vacío toma el departamento del artículo; Origin vacío es MANUAL.
type MovementInput struct {
	ItemID       string
	Direction    entity.Direction
	Quantity     int64
	DepartmentID string
	ActorName    string
	Observation  string
	Origin       entity.EntryOrigin
}

// EngineConfig reintentos ante domain.ErrConcurrencyConflict.
type EngineConfig struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

// MovementEngine es el único camino de escritura de Item.CurrentQuantity.
// Cada movimiento actualiza el artículo y agrega exactamente un asiento en la misma transacción,
// con la fila del artículo bloqueada (SELECT FOR UPDATE) y compare-and-swap sobre su versión.
type MovementEngine struct {
	txRunner TxRunner
	cfg      EngineConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewMovementEngine construye el motor de movimientos.
func NewMovementEngine(txRunner TxRunner, cfg EngineConfig, log zerolog.Logger) *MovementEngine {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &MovementEngine{
		txRunner: txRunner,
		cfg:      cfg,
		log:      log.With().Str("component", "movement_engine").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ApplyMovement aplica un movimiento en su propia transacción y devuelve el asiento creado.
// Los conflictos de concurrencia se reintentan hasta cfg.MaxRetries veces; cualquier otro
// error se devuelve sin reintentar y sin cambios persistidos.
func (e *MovementEngine) ApplyMovement(ctx context.Context, in MovementInput) (*entity.LedgerEntry, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "inventory.ApplyMovement", trace.WithAttributes(
		attribute.String("item.id", in.ItemID),
		attribute.String("movement.direction", string(in.Direction)),
		attribute.Int64("movement.quantity", in.Quantity),
	))
	defer span.End()

	for attempt := 0; ; attempt++ {
		var entry *entity.LedgerEntry
		err := e.txRunner.Run(ctx, func(
			ctx context.Context,
			itemRepo repository.ItemRepository,
			ledgerRepo repository.LedgerRepository,
		) error {
			var err error
			entry, err = e.ApplyInTx(ctx, itemRepo, ledgerRepo, in)
			return err
		})
		if err == nil {
			e.log.Debug().
				Str("item_id", in.ItemID).
				Str("entry_id", entry.ID).
				Str("direction", string(entry.Direction)).
				Int64("quantity", entry.QuantityChanged).
				Str("actor", entry.ActorName).
				Msg("movimiento aplicado")
			return entry, nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) || attempt >= e.cfg.MaxRetries {
			span.RecordError(err)
			span.SetStatus(codes.Error, domain.ErrorCode(err))
			return nil, err
		}
		e.log.Warn().
			Str("item_id", in.ItemID).
			Int("attempt", attempt+1).
			Msg("conflicto de concurrencia, reintentando movimiento")
		if err := sleepCtx(ctx, e.cfg.RetryBackoff*time.Duration(attempt+1)); err != nil {
			return nil, err
		}
	}
}

// ApplyInTx aplica el movimiento usando los repositorios de la transacción del caller.
// Lo usan ApplyMovement, el alta de artículos (cantidad inicial) y la completación de devoluciones,
// de modo que no existe un segundo camino de escritura de la cantidad.
func (e *MovementEngine) ApplyInTx(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
	in MovementInput,
) (*entity.LedgerEntry, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}

	// Bloquea la fila del artículo para serializar movimientos concurrentes sobre él
	item, err := itemRepo.GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	newQty := item.CurrentQuantity
	switch in.Direction {
	case entity.DirectionIn:
		newQty += in.Quantity
		if newQty < item.CurrentQuantity {
			return nil, domain.ErrInvalidQuantity
		}
	case entity.DirectionOut:
		if item.CurrentQuantity < in.Quantity {
			return nil, domain.ErrInsufficientStock
		}
		newQty -= in.Quantity
	}

	now := e.now()
	if err := itemRepo.UpdateQuantity(ctx, item.ID, newQty, item.Version, now); err != nil {
		return nil, err
	}

	origin := in.Origin
	if origin == "" {
		origin = entity.OriginManual
	}
	departmentID := in.DepartmentID
	if departmentID == "" {
		departmentID = item.DepartmentID
	}
	entry := &entity.LedgerEntry{
		ID:              uuid.New().String(),
		ItemID:          item.ID,
		ItemName:        item.Name,
		Direction:       in.Direction,
		QuantityChanged: in.Quantity,
		Origin:          origin,
		DepartmentID:    departmentID,
		ActorName:       strings.TrimSpace(in.ActorName),
		Observation:     strings.TrimSpace(in.Observation),
		CreatedAt:       now,
	}
	if err := ledgerRepo.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func validateMovement(in MovementInput) error {
	if strings.TrimSpace(in.ItemID) == "" {
		return domain.NewValidationError("item_id", "el artículo es obligatorio")
	}
	if !in.Direction.Valid() {
		return domain.NewValidationError("direction", "debe ser IN u OUT")
	}
	if in.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if strings.TrimSpace(in.ActorName) == "" {
		return domain.NewValidationError("actor_name", "el responsable es obligatorio")
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
