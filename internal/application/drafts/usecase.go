// Package drafts casos de uso de borradores de recepción: el único estado que
// la consola persiste por su cuenta (el libro vive en el sistema remoto).
package drafts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/vendor-console/internal/application/dto"
	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
	"github.com/invorya/vendor-console/internal/domain/repository"
)

// UseCase CRUD de borradores, uno por (operador, producto).
type UseCase struct {
	repo repository.BatchDraftRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.BatchDraftRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Get devuelve el borrador del operador para un producto.
func (uc *UseCase) Get(ctx context.Context, operatorID, productID string) (*dto.DraftResponse, error) {
	draft, err := uc.repo.Get(ctx, operatorID, productID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToDraftResponse(draft)
	return &resp, nil
}

// Save crea o sobrescribe el borrador del operador para el producto.
func (uc *UseCase) Save(ctx context.Context, operatorID, productID string, in dto.SaveDraftRequest) (*dto.DraftResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]entity.BatchDraftLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		reserved := decimal.Zero
		if l.ReservedQuantity != nil {
			reserved = *l.ReservedQuantity
		}
		lines = append(lines, entity.BatchDraftLine{
			LocationID:       l.LocationID,
			VariantID:        l.VariantID,
			Quantity:         l.Quantity,
			CostPrice:        l.CostPrice,
			ReservedQuantity: reserved,
		})
	}
	draft := &entity.BatchDraft{
		ID:          uuid.New().String(),
		OperatorID:  operatorID,
		ProductID:   productID,
		BatchNumber: in.BatchNumber,
		Supplier:    in.Supplier,
		Notes:       in.Notes,
		Lines:       lines,
		UpdatedAt:   time.Now(),
	}
	if err := uc.repo.Save(ctx, draft); err != nil {
		return nil, err
	}
	resp := dto.ToDraftResponse(draft)
	return &resp, nil
}

// Delete elimina el borrador. Se invoca también tras un envío de lote exitoso.
func (uc *UseCase) Delete(ctx context.Context, operatorID, productID string) error {
	return uc.repo.Delete(ctx, operatorID, productID)
}
