package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stocktrack-api/internal/application/ledger"
)

func TestValidateMovement_SolicitudValida(t *testing.T) {
	verr := ledger.ValidateMovement(ledger.ApplyInput{
		ProductID: "p1",
		Type:      "in",
		Quantity:  decimal.NewFromInt(3),
		Notes:     "reposición semanal",
	})
	assert.Nil(t, verr)

	verr = ledger.ValidateMovement(ledger.ApplyInput{
		ProductID: "p1",
		Type:      "out",
		Quantity:  decimal.RequireFromString("0.5"),
	})
	assert.Nil(t, verr, "las magnitudes fraccionarias positivas son válidas")
}

func TestValidateMovement_Rechazos(t *testing.T) {
	cases := []struct {
		name   string
		in     ledger.ApplyInput
		field  string
	}{
		{"product_id vacío", ledger.ApplyInput{Type: "in", Quantity: decimal.NewFromInt(1)}, "product_id"},
		{"tipo vacío", ledger.ApplyInput{ProductID: "p1", Quantity: decimal.NewFromInt(1)}, "type"},
		{"tipo no reconocido", ledger.ApplyInput{ProductID: "p1", Type: "adjust", Quantity: decimal.NewFromInt(1)}, "type"},
		{"tipo en mayúsculas", ledger.ApplyInput{ProductID: "p1", Type: "IN", Quantity: decimal.NewFromInt(1)}, "type"},
		{"cantidad cero", ledger.ApplyInput{ProductID: "p1", Type: "in", Quantity: decimal.Zero}, "quantity"},
		{"cantidad negativa", ledger.ApplyInput{ProductID: "p1", Type: "out", Quantity: decimal.NewFromInt(-2)}, "quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verr := ledger.ValidateMovement(tc.in)
			require.NotNil(t, verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.NotEmpty(t, verr.Reason)
		})
	}
}
