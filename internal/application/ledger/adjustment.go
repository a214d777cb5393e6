package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
	domledger "github.com/invorya/vendor-console/internal/domain/ledger"
)

// FormState estados del formulario de ajuste.
type FormState string

const (
	FormClosed FormState = "closed"
	FormOpen   FormState = "open"
	FormSaving FormState = "saving"
)

// StockAdjustmentForm máquina de estados compartida por defectos y bajas:
// closed → open (create o edit) → saving → closed (éxito) u open con error.
// El tope de cantidad se calcula al abrir y se aplica dos veces: clamp al
// teclear y rechazo al guardar. El tope es defensa en profundidad, no
// sustituye la validación del remoto.
type StockAdjustmentForm struct {
	gateway RemoteLedgerGateway

	mu       sync.Mutex
	state    FormState
	kind     entity.AdjustmentKind
	stockID  string
	recordID string // vacío en creación
	cap      domledger.Cap
	quantity *decimal.Decimal // nil = campo vacío (permitido transitoriamente)
	reason   string
	detail   string
	lastErr  error
}

// OpenAdjustmentForm abre el formulario para crear (existing=nil) o editar.
// En edición el tope efectivo es disponible + cantidad actual del registro,
// porque la edición libera primero la asignación vieja.
// Un registro de baja generado por traslado no se puede abrir para edición.
func OpenAdjustmentForm(gateway RemoteLedgerGateway, kind entity.AdjustmentKind, product *entity.Product, line *entity.StockLine, existing *entity.StockAdjustment) (*StockAdjustmentForm, error) {
	form := &StockAdjustmentForm{
		gateway: gateway,
		state:   FormOpen,
		kind:    kind,
		stockID: line.ID,
	}
	current := decimal.Zero
	if existing != nil {
		if existing.Locked() {
			return nil, domain.ErrAdjustmentLocked
		}
		current = existing.Quantity
		form.recordID = existing.ID
		q := existing.Quantity
		form.quantity = &q
		form.reason = existing.Reason
		form.detail = existing.ReasonDetail
	}
	form.cap = domledger.NewCap(product.MinStep(), line.AvailableQuantity, current)
	return form, nil
}

// State estado actual del formulario.
func (f *StockAdjustmentForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Cap tope vigente (para pruebas y presentación).
func (f *StockAdjustmentForm) Cap() decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cap.Max
}

// LastErr último error de guardado; se conserva mientras el formulario siga abierto.
func (f *StockAdjustmentForm) LastErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// SetQuantity fija la cantidad tecleada, ajustándola silenciosamente al rango
// [paso mínimo, tope]. nil limpia el campo (permitido mientras se teclea).
func (f *StockAdjustmentForm) SetQuantity(q *decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q == nil {
		f.quantity = nil
		return
	}
	clamped := f.cap.Clamp(*q)
	f.quantity = &clamped
}

// Quantity cantidad vigente del campo; nil si está vacío.
func (f *StockAdjustmentForm) Quantity() *decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.quantity == nil {
		return nil
	}
	q := *f.quantity
	return &q
}

// SetReason causal: texto libre en defectos, catálogo fijo en bajas.
func (f *StockAdjustmentForm) SetReason(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reason = reason
}

// SetReasonDetail detalle opcional de la causal (solo bajas).
func (f *StockAdjustmentForm) SetReasonDetail(detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detail = detail
}

// Save valida localmente y emite create o update según haya registro previo.
// Con éxito cierra el formulario (el llamador dispara el refresh completo);
// con fallo el formulario queda abierto con el error y los valores intactos.
func (f *StockAdjustmentForm) Save(ctx context.Context) error {
	f.mu.Lock()
	if f.state == FormSaving {
		f.mu.Unlock()
		return domain.ErrBusy
	}
	if f.state != FormOpen {
		f.mu.Unlock()
		return domain.ErrFormClosed
	}
	if f.quantity == nil {
		f.lastErr = domain.ErrQuantityRequired
		f.mu.Unlock()
		return domain.ErrQuantityRequired
	}
	if err := f.cap.Validate(*f.quantity); err != nil {
		f.lastErr = err
		f.mu.Unlock()
		return err
	}
	if f.kind == entity.AdjustmentWriteoff && !entity.ValidWriteoffReason(f.reason) {
		f.lastErr = domain.ErrInvalidInput
		f.mu.Unlock()
		return domain.ErrInvalidInput
	}
	payload := AdjustmentPayload{Quantity: *f.quantity, Reason: f.reason, ReasonDetail: f.detail}
	kind := f.kind
	stockID := f.stockID
	recordID := f.recordID
	f.state = FormSaving
	f.mu.Unlock()

	var err error
	switch {
	case kind == entity.AdjustmentDefect && recordID == "":
		err = f.gateway.CreateDefect(ctx, stockID, payload)
	case kind == entity.AdjustmentDefect:
		err = f.gateway.UpdateDefect(ctx, recordID, payload)
	case recordID == "":
		err = f.gateway.CreateWriteoff(ctx, stockID, payload)
	default:
		err = f.gateway.UpdateWriteoff(ctx, recordID, payload)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = FormOpen
		f.lastErr = err
		return err
	}
	f.state = FormClosed
	f.lastErr = nil
	return nil
}

// DeleteAdjustment elimina un registro existente. Exige confirmación explícita
// y rechaza registros generados por traslado (pertenecen a ese subsistema).
func DeleteAdjustment(ctx context.Context, gateway RemoteLedgerGateway, record *entity.StockAdjustment, confirmed bool) error {
	if record.Locked() {
		return domain.ErrAdjustmentLocked
	}
	if !confirmed {
		return domain.ErrConfirmRequired
	}
	if record.Kind == entity.AdjustmentDefect {
		return gateway.RemoveDefect(ctx, record.ID)
	}
	return gateway.DeleteWriteoff(ctx, record.ID)
}
