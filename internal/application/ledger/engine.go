package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stocktrack-api/internal/domain"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
	"github.com/tu-usuario/stocktrack-api/pkg/logger"
)

// Config política y límites del motor de ledger.
type Config struct {
	// MaxRetries intentos ante ErrVersionMismatch antes de devolver ErrConflict.
	MaxRetries int
	// AttemptTimeout cota de espera por intento contra el Store.
	AttemptTimeout time.Duration
	// AllowNegativeStock permite que una salida deje la cantidad en negativo
	// (backorder). Por defecto false: se rechaza con InsufficientStockError.
	AllowNegativeStock bool
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 3 * time.Second
	}
	return c
}

// ApplyResult estado resultante de aplicar un movimiento: el snapshot del
// producto con la nueva cantidad y el movimiento recién anexado.
type ApplyResult struct {
	Product  *entity.Product
	Movement *entity.StockMovement
}

// Engine motor del ledger de stock. Aplica un movimiento validado como unidad
// lógicamente atómica: escritura condicional de la cantidad + append del
// movimiento, con compensación si el append falla. Es el único componente
// autorizado a mutar Product.Quantity.
type Engine struct {
	store Store
	locks *keyLock
	cfg   Config
	log   *logger.Logger
}

// NewEngine construye el motor sobre un Store explícito (sin estado ambiente).
func NewEngine(store Store, cfg Config, log *logger.Logger) *Engine {
	return &Engine{
		store: store,
		locks: newKeyLock(),
		cfg:   cfg.withDefaults(),
		log:   log,
	}
}

// ApplyMovement valida la solicitud y aplica el movimiento al producto.
//
// Secuencia por intento: leer producto → calcular nueva cantidad → verificar
// política de stock → escribir cantidad condicionada a la cantidad leída →
// anexar movimiento. Si la condición falla (otro escritor ganó la carrera) se
// reintenta completo hasta Config.MaxRetries; agotados los reintentos se
// devuelve domain.ErrConflict, reintentable por el cliente.
//
// El lock por producto serializa los escritores de este proceso para que la
// contención local no queme reintentos; escritores de otros procesos quedan
// cubiertos por la escritura condicional.
func (e *Engine) ApplyMovement(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	if verr := ValidateMovement(in); verr != nil {
		return nil, verr
	}

	var res *ApplyResult
	err := e.locks.withLock(in.ProductID, func() error {
		r, err := e.apply(ctx, in)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) apply(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	delta := in.Quantity
	if in.Type == entity.MovementTypeOut {
		delta = delta.Neg()
	}

	for attempt := 1; attempt <= e.cfg.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, e.cfg.AttemptTimeout)
		res, err := e.attempt(attemptCtx, in, delta)
		cancel()

		if errors.Is(err, domain.ErrVersionMismatch) {
			e.log.Debug().
				Str("product_id", in.ProductID).
				Int("attempt", attempt).
				Msg("escritura condicional perdió la carrera, reintentando")
			continue
		}
		return res, err
	}

	e.log.Warn().
		Str("product_id", in.ProductID).
		Int("max_retries", e.cfg.MaxRetries).
		Msg("reintentos optimistas agotados")
	return nil, domain.ErrConflict
}

// attempt ejecuta una pasada completa lectura-cálculo-escritura-append.
func (e *Engine) attempt(ctx context.Context, in ApplyInput, delta decimal.Decimal) (*ApplyResult, error) {
	product, err := e.store.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	newQty := product.Quantity.Add(delta)
	if newQty.IsNegative() && !e.cfg.AllowNegativeStock {
		return nil, &domain.InsufficientStockError{
			ProductID: in.ProductID,
			Current:   product.Quantity,
			Requested: in.Quantity,
		}
	}

	if err := e.store.UpdateProductQuantity(ctx, in.ProductID, newQty, product.Quantity); err != nil {
		if errors.Is(err, domain.ErrVersionMismatch) {
			return nil, err
		}
		return nil, fmt.Errorf("actualizar cantidad: %w", err)
	}

	// La cantidad ya quedó escrita: el par debe completarse o revertirse
	// aunque el caller cancele entre ambas escrituras. Se desacopla de la
	// cancelación del request con su propia cota de tiempo.
	appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.AttemptTimeout)
	defer cancel()

	now := time.Now().UTC()
	movement := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
		CreatedAt: now,
	}
	if err := e.store.InsertMovement(appendCtx, movement); err != nil {
		// Compensación: nunca dejar un cambio de cantidad sin su movimiento.
		if rerr := e.store.UpdateProductQuantity(appendCtx, in.ProductID, product.Quantity, newQty); rerr != nil {
			e.log.Error().
				Err(rerr).
				Str("product_id", in.ProductID).
				Msg("falló la reversión de cantidad tras un append fallido")
			return nil, fmt.Errorf("anexar movimiento (reversión fallida: %v): %w", rerr, err)
		}
		return nil, fmt.Errorf("anexar movimiento: %w", err)
	}

	snapshot := *product
	snapshot.Quantity = newQty
	snapshot.UpdatedAt = now
	return &ApplyResult{Product: &snapshot, Movement: movement}, nil
}

// ListMovements devuelve el historial, más reciente primero, filtrable por
// producto y rango de fechas. Lectura estable: no ve estados intermedios
// porque el ledger solo recibe appends ya confirmados.
func (e *Engine) ListMovements(ctx context.Context, filter ListFilter) ([]*entity.StockMovement, error) {
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	movements, err := e.store.ListMovements(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	return movements, nil
}
