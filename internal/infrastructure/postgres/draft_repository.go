package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
	"github.com/invorya/vendor-console/internal/domain/repository"
)

var _ repository.BatchDraftRepository = (*BatchDraftRepo)(nil)

// BatchDraftRepo implementación de BatchDraftRepository sobre PostgreSQL.
// Las líneas se guardan como JSONB: el borrador es un documento del formulario,
// no participa en consultas relacionales.
type BatchDraftRepo struct {
	pool *pgxpool.Pool
}

// NewBatchDraftRepository construye el adaptador de borradores.
func NewBatchDraftRepository(pool *pgxpool.Pool) *BatchDraftRepo {
	return &BatchDraftRepo{pool: pool}
}

// Get obtiene el borrador del operador para un producto.
func (r *BatchDraftRepo) Get(ctx context.Context, operatorID, productID string) (*entity.BatchDraft, error) {
	query := `
		SELECT id, operator_id, product_id, batch_number, supplier, notes, lines, updated_at
		FROM batch_drafts WHERE operator_id = $1 AND product_id = $2`
	var d entity.BatchDraft
	var lines []byte
	err := r.pool.QueryRow(ctx, query, operatorID, productID).Scan(
		&d.ID, &d.OperatorID, &d.ProductID, &d.BatchNumber, &d.Supplier, &d.Notes, &lines, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	if err := json.Unmarshal(lines, &d.Lines); err != nil {
		return nil, fmt.Errorf("decodificar líneas del borrador: %w", err)
	}
	return &d, nil
}

// Save inserta o sobrescribe el borrador (uno por operador y producto).
func (r *BatchDraftRepo) Save(ctx context.Context, draft *entity.BatchDraft) error {
	lines, err := json.Marshal(draft.Lines)
	if err != nil {
		return fmt.Errorf("serializar líneas del borrador: %w", err)
	}
	query := `
		INSERT INTO batch_drafts (id, operator_id, product_id, batch_number, supplier, notes, lines, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (operator_id, product_id)
		DO UPDATE SET batch_number = EXCLUDED.batch_number, supplier = EXCLUDED.supplier,
			notes = EXCLUDED.notes, lines = EXCLUDED.lines, updated_at = now()`
	_, err = r.pool.Exec(ctx, query,
		draft.ID, draft.OperatorID, draft.ProductID, draft.BatchNumber, draft.Supplier, draft.Notes, lines,
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Delete elimina el borrador; no es error que no exista.
func (r *BatchDraftRepo) Delete(ctx context.Context, operatorID, productID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM batch_drafts WHERE operator_id = $1 AND product_id = $2`,
		operatorID, productID,
	)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
