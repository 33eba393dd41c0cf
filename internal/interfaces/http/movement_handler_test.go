package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stocktrack-api/internal/application/dto"
	"github.com/tu-usuario/stocktrack-api/internal/application/ledger"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
	"github.com/tu-usuario/stocktrack-api/internal/infrastructure/memory"
	apphttp "github.com/tu-usuario/stocktrack-api/internal/interfaces/http"
	"github.com/tu-usuario/stocktrack-api/pkg/jwt"
	"github.com/tu-usuario/stocktrack-api/pkg/logger"
)

const productID = "11111111-1111-1111-1111-111111111111"

// buildApp arma la app completa (router + auth) sobre el almacén en memoria.
// Los casos de uso CRUD no se ejercitan aquí, solo las rutas del ledger.
func buildApp(t *testing.T, store *memory.Store) *fiber.App {
	t.Helper()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	engine := ledger.NewEngine(store, ledger.Config{MaxRetries: 3, AttemptTimeout: time.Second}, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Engine:    engine,
		JWTSecret: testJWTSecret,
	})
	return app
}

func seededStore(t *testing.T, qty int64) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	store.SeedProduct(&entity.Product{
		ID:       productID,
		Name:     "Tornillo 3mm",
		SKU:      "TOR-003",
		Quantity: decimal.NewFromInt(qty),
	})
	return store
}

func postMovement(t *testing.T, app *fiber.App, body dto.CreateMovementRequest) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/stock/movements", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bearerToken(t *testing.T) string {
	t.Helper()
	tok, err := jwt.Generate(testJWTSecret, testUserID, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestMovements_EntradaRetorna201ConNuevaCantidad(t *testing.T) {
	store := seededStore(t, 10)
	app := buildApp(t, store)

	resp := postMovement(t, app, dto.CreateMovementRequest{
		ProductID: productID,
		Type:      entity.MovementTypeIn,
		Quantity:  decimal.NewFromInt(5),
		Notes:     "reposición semanal",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body dto.MovementAppliedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, productID, body.Movement.ProductID)
	assert.Equal(t, entity.MovementTypeIn, body.Movement.Type)
	assert.True(t, body.Movement.Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, body.Product.Quantity.Equal(decimal.NewFromInt(15)),
		"el snapshot debe reflejar la cantidad ya actualizada")
	assert.NotEmpty(t, body.Movement.ID)
}

func TestMovements_TipoInvalidoRetorna400(t *testing.T) {
	app := buildApp(t, seededStore(t, 10))

	resp := postMovement(t, app, dto.CreateMovementRequest{
		ProductID: productID,
		Type:      "transfer",
		Quantity:  decimal.NewFromInt(1),
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "type", body.Field)
}

func TestMovements_ProductoInexistenteRetorna404(t *testing.T) {
	app := buildApp(t, memory.NewStore())

	resp := postMovement(t, app, dto.CreateMovementRequest{
		ProductID: productID,
		Type:      entity.MovementTypeOut,
		Quantity:  decimal.NewFromInt(1),
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMovements_StockInsuficienteRetorna409ConCantidades(t *testing.T) {
	app := buildApp(t, seededStore(t, 3))

	resp := postMovement(t, app, dto.CreateMovementRequest{
		ProductID: productID,
		Type:      entity.MovementTypeOut,
		Quantity:  decimal.NewFromInt(8),
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body dto.InsufficientStockResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.True(t, body.CurrentQuantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, body.RequestedQuantity.Equal(decimal.NewFromInt(8)))
}

func TestMovements_SinTokenRetorna401(t *testing.T) {
	app := buildApp(t, seededStore(t, 10))

	req := httptest.NewRequest(http.MethodGet, "/api/stock/movements", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMovements_ListaMasRecientePrimeroYFiltraPorProducto(t *testing.T) {
	store := seededStore(t, 100)
	app := buildApp(t, store)

	otherID := "22222222-2222-2222-2222-222222222222"
	store.SeedProduct(&entity.Product{ID: otherID, Name: "Tuerca 3mm", Quantity: decimal.NewFromInt(100)})

	for _, in := range []dto.CreateMovementRequest{
		{ProductID: productID, Type: entity.MovementTypeIn, Quantity: decimal.NewFromInt(1)},
		{ProductID: otherID, Type: entity.MovementTypeIn, Quantity: decimal.NewFromInt(2)},
		{ProductID: productID, Type: entity.MovementTypeOut, Quantity: decimal.NewFromInt(3)},
	} {
		resp := postMovement(t, app, in)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stock/movements?product_id="+productID, nil)
	req.Header.Set("Authorization", bearerToken(t))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []dto.MovementDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 2, "solo los movimientos del producto filtrado")
	assert.Equal(t, entity.MovementTypeOut, out[0].Type, "el más reciente primero")
	assert.Equal(t, entity.MovementTypeIn, out[1].Type)
}

func TestMovements_FechaInvalidaRetorna400(t *testing.T) {
	app := buildApp(t, seededStore(t, 10))

	req := httptest.NewRequest(http.MethodGet, "/api/stock/movements?start_date=ayer", nil)
	req.Header.Set("Authorization", bearerToken(t))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "start_date", body.Field)
}
