package repository

import (
	"context"

	"github.com/invorya/vendor-console/internal/domain/entity"
)

// BatchDraftRepository puerto de persistencia de borradores de recepción (DIP).
// Un borrador por (operador, producto); Save sobrescribe el existente.
type BatchDraftRepository interface {
	Get(ctx context.Context, operatorID, productID string) (*entity.BatchDraft, error)
	Save(ctx context.Context, draft *entity.BatchDraft) error
	Delete(ctx context.Context, operatorID, productID string) error
}
