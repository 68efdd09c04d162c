package inventory

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// BulkExitLine una línea de salida masiva.
type BulkExitLine struct {
	ItemID   string
	Quantity int64
}

// BulkExitInput salida masiva hacia un departamento.
type BulkExitInput struct {
	Lines        []BulkExitLine
	DepartmentID string
	ActorName    string
	Observation  string
}

// BulkExitFailure línea rechazada. Line es el índice en BulkExitInput.Lines.
type BulkExitFailure struct {
	Line   int
	ItemID string
	Code   string
	Reason string
	Err    error
}

// BulkExitResult reporte de éxito parcial. Applied contiene exactamente los artículos
// cuya cantidad y kardex fueron modificados, en el orden de las líneas.
type BulkExitResult struct {
	Applied []string
	Entries []*entity.LedgerEntry
	Failed  []BulkExitFailure
}

// BulkExitProcessor aplica cada línea como un movimiento OUT independiente.
// El lote no es todo-o-nada: el fallo de una línea no revierte ni bloquea las demás.
type BulkExitProcessor struct {
	engine      *MovementEngine
	itemRepo    repository.ItemRepository
	concurrency int
	log         zerolog.Logger
}

// NewBulkExitProcessor construye el procesador. concurrency <= 0 aplica las líneas en serie.
func NewBulkExitProcessor(engine *MovementEngine, itemRepo repository.ItemRepository, concurrency int, log zerolog.Logger) *BulkExitProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BulkExitProcessor{
		engine:      engine,
		itemRepo:    itemRepo,
		concurrency: concurrency,
		log:         log.With().Str("component", "bulk_exit").Logger(),
	}
}

// ApplyBulkExit valida cada línea contra el stock actual y aplica las válidas vía MovementEngine.
// Solo devuelve error para fallos del lote completo (sin líneas, sin responsable); los fallos
// por línea van en BulkExitResult.Failed.
func (p *BulkExitProcessor) ApplyBulkExit(ctx context.Context, in BulkExitInput) (*BulkExitResult, error) {
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "la salida debe tener al menos una línea")
	}
	if strings.TrimSpace(in.ActorName) == "" {
		return nil, domain.NewValidationError("actor_name", "el responsable es obligatorio")
	}

	type outcome struct {
		entry *entity.LedgerEntry
		err   error
	}
	outcomes := make([]outcome, len(in.Lines))

	// 1. Validación línea por línea contra el stock al momento de validar
	pending := make([]int, 0, len(in.Lines))
	for i, line := range in.Lines {
		if err := p.validateLine(ctx, line); err != nil {
			outcomes[i].err = err
			continue
		}
		pending = append(pending, i)
	}

	// 2. Aplicación independiente; el motor vuelve a verificar el stock con la fila bloqueada
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for _, i := range pending {
		line := in.Lines[i]
		g.Go(func() error {
			entry, err := p.engine.ApplyMovement(ctx, MovementInput{
				ItemID:       line.ItemID,
				Direction:    entity.DirectionOut,
				Quantity:     line.Quantity,
				DepartmentID: in.DepartmentID,
				ActorName:    in.ActorName,
				Observation:  in.Observation,
				Origin:       entity.OriginBulkExit,
			})
			outcomes[i] = outcome{entry: entry, err: err}
			return nil
		})
	}
	_ = g.Wait()

	res := &BulkExitResult{
		Applied: make([]string, 0, len(in.Lines)),
		Entries: make([]*entity.LedgerEntry, 0, len(in.Lines)),
		Failed:  make([]BulkExitFailure, 0),
	}
	for i, o := range outcomes {
		if o.err != nil {
			res.Failed = append(res.Failed, BulkExitFailure{
				Line:   i,
				ItemID: in.Lines[i].ItemID,
				Code:   domain.ErrorCode(o.err),
				Reason: o.err.Error(),
				Err:    o.err,
			})
			continue
		}
		res.Applied = append(res.Applied, in.Lines[i].ItemID)
		res.Entries = append(res.Entries, o.entry)
	}

	p.log.Info().
		Int("lines", len(in.Lines)).
		Int("applied", len(res.Applied)).
		Int("failed", len(res.Failed)).
		Str("department_id", in.DepartmentID).
		Str("actor", in.ActorName).
		Msg("salida masiva procesada")
	return res, nil
}

func (p *BulkExitProcessor) validateLine(ctx context.Context, line BulkExitLine) error {
	if strings.TrimSpace(line.ItemID) == "" {
		return domain.NewValidationError("item_id", "el artículo es obligatorio")
	}
	if line.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	item, err := p.itemRepo.GetByID(ctx, line.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if line.Quantity > item.CurrentQuantity {
		return domain.ErrInsufficientStock
	}
	return nil
}
