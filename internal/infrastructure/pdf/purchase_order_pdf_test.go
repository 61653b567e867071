package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

func TestMoney_PuntosDeMiles(t *testing.T) {
	g := NewMarotoRenderer()
	assert.Equal(t, "$1.234.567", g.money(decimal.RequireFromString("1234567.4")))
	assert.Equal(t, "$0", g.money(decimal.Zero))
}

func TestPurchaseOrder_GeneraPDF(t *testing.T) {
	dte := "F-123"
	po := &entity.PurchaseOrder{
		ID:            "po-1",
		Folio:         "A1B2C3",
		StoreID:       "store-1",
		PaymentStatus: entity.StatusPendiente,
		IssueDate:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		DTENumber:     &dte,
		Subtotal:      decimal.NewFromInt(250),
		Discount:      decimal.Zero,
		NetTotal:      decimal.NewFromInt(250),
		Tax:           decimal.RequireFromString("47.5"),
		Total:         decimal.RequireFromString("297.5"),
		Items: []*entity.PurchaseOrderItem{
			{VariationID: "v-1", UnitPrice: decimal.NewFromInt(10), QuantityRequested: 10, Subtotal: decimal.NewFromInt(100)},
			{VariationID: "v-desconocida", UnitPrice: decimal.NewFromInt(30), QuantityRequested: 5, Subtotal: decimal.NewFromInt(150)},
		},
	}
	store := &entity.Store{ID: "store-1", Name: "Providencia", Location: "Santiago"}
	variations := map[string]*entity.Variation{
		"v-1": {ID: "v-1", SKU: "POL-BAS-M-NEG", ProductName: "Polera básica", Size: "M", Color: "Negro"},
	}

	out, err := NewMarotoRenderer().PurchaseOrder(po, store, variations)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
