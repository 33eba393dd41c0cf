package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stocktrack-api/internal/application/ledger"
	"github.com/tu-usuario/stocktrack-api/internal/domain"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
	"github.com/tu-usuario/stocktrack-api/internal/infrastructure/memory"
	"github.com/tu-usuario/stocktrack-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testProductID = "00000000-0000-0000-0000-0000000000aa"

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

// newEngineWithProduct crea un motor sobre un store en memoria con un
// producto sembrado con la cantidad inicial dada.
func newEngineWithProduct(t *testing.T, initial string, cfg ledger.Config) (*ledger.Engine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.SeedProduct(&entity.Product{
		ID:       testProductID,
		Name:     "Tornillo M4",
		SKU:      "TOR-M4",
		Quantity: qty(initial),
	})
	return ledger.NewEngine(store, cfg, testLogger()), store
}

func applyIn(t *testing.T, e *ledger.Engine, magnitude string) *ledger.ApplyResult {
	t.Helper()
	res, err := e.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeIn,
		Quantity:  qty(magnitude),
	})
	require.NoError(t, err)
	return res
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos básicos
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_EntradaSumaCantidad(t *testing.T) {
	engine, store := newEngineWithProduct(t, "10", ledger.Config{})

	res := applyIn(t, engine, "5")

	assert.True(t, res.Product.Quantity.Equal(qty("15")),
		"la cantidad resultante debe ser 15, fue %s", res.Product.Quantity)
	assert.Equal(t, entity.MovementTypeIn, res.Movement.Type)
	assert.True(t, res.Movement.Quantity.Equal(qty("5")))
	assert.NotEmpty(t, res.Movement.ID, "el id lo asigna el motor")
	assert.False(t, res.Movement.CreatedAt.IsZero(), "el timestamp lo asigna el motor")

	stored, err := store.GetProduct(context.Background(), testProductID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.Equal(qty("15")), "la cantidad persistida debe ser 15")
	assert.Len(t, store.Movements(), 1, "debe haber exactamente un movimiento anexado")
}

func TestApplyMovement_SalidaRestaCantidad(t *testing.T) {
	engine, _ := newEngineWithProduct(t, "10", ledger.Config{})

	res, err := engine.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeOut,
		Quantity:  qty("4"),
		Notes:     "venta mostrador",
	})
	require.NoError(t, err)
	assert.True(t, res.Product.Quantity.Equal(qty("6")))
	assert.True(t, res.Movement.Delta().Equal(qty("-4")), "el delta de una salida es negativo")
	assert.Equal(t, "venta mostrador", res.Movement.Notes)
}

func TestApplyMovement_ProductoInexistente(t *testing.T) {
	engine, store := newEngineWithProduct(t, "10", ledger.Config{})

	_, err := engine.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: "no-existe",
		Type:      entity.MovementTypeIn,
		Quantity:  qty("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Movements(), "un rechazo no debe anexar movimientos")
}

func TestApplyMovement_ValidacionTerminal(t *testing.T) {
	engine, store := newEngineWithProduct(t, "10", ledger.Config{})

	cases := []struct {
		name  string
		in    ledger.ApplyInput
		field string
	}{
		{"sin producto", ledger.ApplyInput{Type: "in", Quantity: qty("1")}, "product_id"},
		{"tipo desconocido", ledger.ApplyInput{ProductID: testProductID, Type: "transfer", Quantity: qty("1")}, "type"},
		{"cantidad cero", ledger.ApplyInput{ProductID: testProductID, Type: "in", Quantity: decimal.Zero}, "quantity"},
		{"cantidad negativa", ledger.ApplyInput{ProductID: testProductID, Type: "out", Quantity: qty("-3")}, "quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.ApplyMovement(context.Background(), tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
	assert.Empty(t, store.Movements())
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de stock negativo
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_StockInsuficienteRechazado(t *testing.T) {
	engine, store := newEngineWithProduct(t, "15", ledger.Config{})

	_, err := engine.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeOut,
		Quantity:  qty("20"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ierr *domain.InsufficientStockError
	require.ErrorAs(t, err, &ierr)
	assert.True(t, ierr.Current.Equal(qty("15")), "el error debe reportar la cantidad actual")
	assert.True(t, ierr.Requested.Equal(qty("20")), "el error debe reportar la cantidad solicitada")

	stored, _ := store.GetProduct(context.Background(), testProductID)
	assert.True(t, stored.Quantity.Equal(qty("15")), "la cantidad no debe cambiar tras un rechazo")
	assert.Empty(t, store.Movements())
}

func TestApplyMovement_BackorderPermitidoPorPolitica(t *testing.T) {
	engine, _ := newEngineWithProduct(t, "3", ledger.Config{AllowNegativeStock: true})

	res, err := engine.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeOut,
		Quantity:  qty("10"),
	})
	require.NoError(t, err)
	assert.True(t, res.Product.Quantity.Equal(qty("-7")),
		"con la política de backorder la cantidad puede quedar negativa")
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: sin lost updates
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_SinLostUpdates(t *testing.T) {
	const writers = 50
	engine, store := newEngineWithProduct(t, "0", ledger.Config{})

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.ApplyMovement(context.Background(), ledger.ApplyInput{
				ProductID: testProductID,
				Type:      entity.MovementTypeIn,
				Quantity:  qty("1"),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err, "todas las escrituras concurrentes deben terminar aplicadas")
	}

	stored, _ := store.GetProduct(context.Background(), testProductID)
	assert.True(t, stored.Quantity.Equal(qty("50")),
		"50 entradas de 1 sobre cantidad 0 deben dejar 50, fue %s", stored.Quantity)
	assert.Len(t, store.Movements(), writers, "un movimiento por escritura aplicada")
}

func TestApplyMovement_ReintentaAnteVersionMismatch(t *testing.T) {
	engine, store := newEngineWithProduct(t, "10", ledger.Config{MaxRetries: 3})

	// El primer intento pierde la carrera; el segundo gana.
	fails := 1
	store.UpdateHook = func(id string, newQty, expectedQty decimal.Decimal) error {
		if fails > 0 {
			fails--
			return domain.ErrVersionMismatch
		}
		return nil
	}

	res := applyIn(t, engine, "5")
	assert.True(t, res.Product.Quantity.Equal(qty("15")))
	assert.Len(t, store.Movements(), 1)
}

func TestApplyMovement_ConflictoTrasAgotarReintentos(t *testing.T) {
	engine, store := newEngineWithProduct(t, "10", ledger.Config{MaxRetries: 4})

	attempts := 0
	store.UpdateHook = func(id string, newQty, expectedQty decimal.Decimal) error {
		attempts++
		return domain.ErrVersionMismatch
	}

	_, err := engine.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeIn,
		Quantity:  qty("1"),
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "agotados los reintentos se reporta Conflict")
	assert.Equal(t, 4, attempts, "los reintentos están acotados por MaxRetries")
	assert.Empty(t, store.Movements())
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad cantidad + movimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_CompensaAppendFallido(t *testing.T) {
	engine, store := newEngineWithProduct(t, "10", ledger.Config{})

	boom := errors.New("fallo simulado del almacén")
	store.InsertHook = func(m *entity.StockMovement) error { return boom }

	_, err := engine.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeIn,
		Quantity:  qty("5"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// Ni cambio de cantidad sin movimiento, ni movimiento sin cambio.
	stored, _ := store.GetProduct(context.Background(), testProductID)
	assert.True(t, stored.Quantity.Equal(qty("10")),
		"la cantidad debe revertirse si el append falla, fue %s", stored.Quantity)
	assert.Empty(t, store.Movements())
}

func TestApplyMovement_CancelacionNoDejaParMedioAplicado(t *testing.T) {
	engine, store := newEngineWithProduct(t, "10", ledger.Config{})

	// El caller cancela justo después de la escritura de cantidad y antes del
	// append: el motor debe completar el par de todas formas.
	ctx, cancel := context.WithCancel(context.Background())
	store.UpdateHook = func(id string, newQty, expectedQty decimal.Decimal) error {
		cancel()
		return nil
	}

	res, err := engine.ApplyMovement(ctx, ledger.ApplyInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeIn,
		Quantity:  qty("5"),
	})
	require.NoError(t, err, "el par cantidad+movimiento debe completarse pese a la cancelación")
	assert.True(t, res.Product.Quantity.Equal(qty("15")))
	assert.Len(t, store.Movements(), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario de la sección de propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_EscenarioCompleto(t *testing.T) {
	engine, store := newEngineWithProduct(t, "10", ledger.Config{})

	// Entrada de 5 → 15.
	res := applyIn(t, engine, "5")
	require.True(t, res.Product.Quantity.Equal(qty("15")))

	// Salida de 20 → rechazada, la cantidad sigue en 15.
	_, err := engine.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeOut,
		Quantity:  qty("20"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Dos entradas concurrentes de 1 → 17 y dos movimientos más.
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, aerr := engine.ApplyMovement(context.Background(), ledger.ApplyInput{
				ProductID: testProductID,
				Type:      entity.MovementTypeIn,
				Quantity:  qty("1"),
			})
			errs <- aerr
		}()
	}
	wg.Wait()
	close(errs)
	for aerr := range errs {
		require.NoError(t, aerr)
	}

	stored, _ := store.GetProduct(context.Background(), testProductID)
	assert.True(t, stored.Quantity.Equal(qty("17")), "cantidad final 17, fue %s", stored.Quantity)
	assert.Len(t, store.Movements(), 3, "tres movimientos aplicados en total")

	// Invariante: cantidad final == inicial + Σ deltas aplicados.
	sum := qty("10")
	for _, m := range store.Movements() {
		sum = sum.Add(m.Delta())
	}
	assert.True(t, stored.Quantity.Equal(sum), "la cantidad debe igualar la suma del ledger")
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura del historial
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_MasRecientePrimeroYFiltros(t *testing.T) {
	store := memory.NewStore()
	engine := ledger.NewEngine(store, ledger.Config{}, testLogger())

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	seed := []*entity.StockMovement{
		{ID: "m1", ProductID: "p1", Type: "in", Quantity: qty("1"), CreatedAt: base},
		{ID: "m2", ProductID: "p1", Type: "out", Quantity: qty("1"), CreatedAt: base.Add(time.Hour)},
		{ID: "m3", ProductID: "p2", Type: "in", Quantity: qty("2"), CreatedAt: base.Add(2 * time.Hour)},
		{ID: "m4", ProductID: "p1", Type: "in", Quantity: qty("3"), CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, m := range seed {
		require.NoError(t, store.InsertMovement(context.Background(), m))
	}

	// Sin filtros: historial completo, más reciente primero.
	all, err := engine.ListMovements(context.Background(), ledger.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "m4", all[0].ID)
	assert.Equal(t, "m1", all[3].ID)

	// Por producto.
	p1, err := engine.ListMovements(context.Background(), ledger.ListFilter{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, p1, 3)
	for _, m := range p1 {
		assert.Equal(t, "p1", m.ProductID)
	}

	// Rango de fechas [base+1h, base+2h].
	from := base.Add(time.Hour)
	to := base.Add(2 * time.Hour)
	ranged, err := engine.ListMovements(context.Background(), ledger.ListFilter{StartDate: &from, EndDate: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, "m3", ranged[0].ID)
	assert.Equal(t, "m2", ranged[1].ID)

	// Paginación.
	page, err := engine.ListMovements(context.Background(), ledger.ListFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "m3", page[0].ID)
	assert.Equal(t, "m2", page[1].ID)
}

func TestListMovements_EmpateDeTimestampDesempataPorID(t *testing.T) {
	store := memory.NewStore()
	engine := ledger.NewEngine(store, ledger.Config{}, testLogger())

	at := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"a", "c", "b"} {
		require.NoError(t, store.InsertMovement(context.Background(), &entity.StockMovement{
			ID: id, ProductID: "p1", Type: "in", Quantity: qty("1"), CreatedAt: at,
		}))
	}
	out, err := engine.ListMovements(context.Background(), ledger.ListFilter{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{out[0].ID, out[1].ID, out[2].ID},
		"mismo timestamp: orden total por id descendente")
}
