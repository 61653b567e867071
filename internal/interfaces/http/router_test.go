package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/application/pricing"
	"github.com/jhoicas/Tiendas-api/internal/application/purchasing"
	"github.com/jhoicas/Tiendas-api/internal/application/reconcile"
	"github.com/jhoicas/Tiendas-api/internal/application/sales"
	"github.com/jhoicas/Tiendas-api/internal/application/transfer"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/excel"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Tiendas-api/internal/interfaces/http"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

// newAPI levanta la API completa sobre el almacén en memoria con datos de demostración.
func newAPI(t *testing.T) *apiClient {
	t.Helper()
	db := memory.New()
	memory.SeedDemo(db)
	log := logger.Nop()
	repos := db.Repos()

	pricingUC := pricing.NewPricingUseCase(db, repos, nil, log)
	ledger := inventory.NewLedgerUseCase(db, repos, excel.NewStockExporter(), pricingUC, log, false)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:         ledger,
		Pricing:        pricingUC,
		PurchaseOrders: purchasing.NewPurchaseOrderUseCase(db, repos, ledger, pdf.NewMarotoRenderer(), log, decimal.RequireFromString("0.19")),
		Transfers:      transfer.NewTransferUseCase(db, repos, ledger, log),
		Sales:          sales.NewSaleUseCase(db, repos, ledger, log),
		Reconciler:     reconcile.NewService(repos, log),
		JWTSecret:      testJWTSecret,
	})
	return &apiClient{t: t, app: app}
}

func (a *apiClient) raw(method, path, role string, body interface{}) *http.Response {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(a.t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

func (a *apiClient) do(method, path, role string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()
	resp := a.raw(method, path, role, body)
	defer resp.Body.Close()
	out := map[string]interface{}{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if len(data) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func stockItems(t *testing.T, body map[string]interface{}) map[string]float64 {
	t.Helper()
	out := map[string]float64{}
	items, _ := body["items"].([]interface{})
	for _, raw := range items {
		it := raw.(map[string]interface{})
		out[it["sku"].(string)] = it["stock"].(float64)
	}
	return out
}

func TestFlujoCompraYVenta(t *testing.T) {
	api := newAPI(t)

	status, po := api.do(http.MethodPost, "/api/purchase-orders", "bodeguero", map[string]interface{}{
		"store_id": memory.DemoStoreAID,
		"items": []map[string]interface{}{
			{"variation_id": memory.DemoVariation1ID, "unit_price": "4000", "quantity": 3},
		},
	})
	require.Equal(t, http.StatusCreated, status, po)
	assert.Equal(t, "Pendiente", po["payment_status"])
	assert.Len(t, po["folio"], 6)
	poID := po["id"].(string)

	status, _ = api.do(http.MethodPatch, "/api/purchase-orders/"+poID+"/status", "bodeguero", map[string]string{"status": "Pagado"})
	assert.Equal(t, http.StatusForbidden, status)

	status, paid := api.do(http.MethodPatch, "/api/purchase-orders/"+poID+"/status", "admin", map[string]string{"status": "Pagado"})
	require.Equal(t, http.StatusOK, status, paid)
	assert.Equal(t, "Pagado", paid["payment_status"])

	status, stock := api.do(http.MethodGet, "/api/inventory/store/"+memory.DemoStoreAID, "vendedor", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), stockItems(t, stock)["POL-BAS-M-NEG"])

	status, sale := api.do(http.MethodPost, "/api/sales", "vendedor", map[string]interface{}{
		"store_id":     memory.DemoStoreAID,
		"payment_type": "Debito",
		"items": []map[string]interface{}{
			{"variation_id": memory.DemoVariation1ID, "unit_price": "9990", "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, status, sale)
	assert.Equal(t, "19980", sale["total"])

	status, envelope := api.do(http.MethodPost, "/api/sales", "vendedor", map[string]interface{}{
		"store_id":     memory.DemoStoreAID,
		"payment_type": "Efectivo",
		"items": []map[string]interface{}{
			{"variation_id": memory.DemoVariation1ID, "unit_price": "9990", "quantity": 5},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", envelope["error"])
	assert.Equal(t, float64(400), envelope["statusCode"])

	_, stock = api.do(http.MethodGet, "/api/inventory/store/"+memory.DemoStoreAID, "admin", nil)
	assert.Equal(t, float64(1), stockItems(t, stock)["POL-BAS-M-NEG"])

	status, movs := api.do(http.MethodGet, "/api/inventory/movements?store_id="+memory.DemoStoreAID, "vendedor", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, movs["items"], 2)

	status, report := api.do(http.MethodPost, "/api/inventory/reconcile", "admin", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, report["drifted"])
}

func TestRBAC(t *testing.T) {
	api := newAPI(t)

	cases := []struct {
		method, path, role string
		want               int
	}{
		{http.MethodGet, "/api/purchase-orders", "vendedor", http.StatusForbidden},
		{http.MethodGet, "/api/purchase-orders", "bodeguero", http.StatusOK},
		{http.MethodGet, "/api/sales", "bodeguero", http.StatusForbidden},
		{http.MethodGet, "/api/sales", "vendedor", http.StatusOK},
		{http.MethodGet, "/api/transfers", "vendedor", http.StatusForbidden},
		{http.MethodPost, "/api/pricing/offers", "bodeguero", http.StatusForbidden},
		{http.MethodPost, "/api/inventory/reconcile", "bodeguero", http.StatusForbidden},
		{http.MethodPost, "/api/transfers/dispatch", "bodeguero", http.StatusForbidden},
		{http.MethodGet, "/api/inventory/movements", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path+" "+tc.role, func(t *testing.T) {
			status, _ := api.do(tc.method, tc.path, tc.role, nil)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestErrores_Sobre(t *testing.T) {
	api := newAPI(t)

	status, body := api.do(http.MethodPost, "/api/sales", "vendedor", map[string]interface{}{
		"store_id":     memory.DemoStoreAID,
		"payment_type": "Cheque",
		"items":        []map[string]interface{}{{"variation_id": memory.DemoVariation1ID, "unit_price": "1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["error"])
	assert.Contains(t, body["message"], "PaymentType")

	for _, qty := range []int{0, -3} {
		status, body = api.do(http.MethodPost, "/api/inventory/movements", "bodeguero", map[string]interface{}{
			"store_id":     memory.DemoStoreAID,
			"variation_id": memory.DemoVariation1ID,
			"reason":       "PURCHASE",
			"quantity":     qty,
		})
		assert.Equal(t, http.StatusBadRequest, status, qty)
		assert.Equal(t, "VALIDATION", body["error"], qty)
		assert.Contains(t, body["message"], "Quantity", qty)
	}

	status, body = api.do(http.MethodGet, "/api/transfers/00000000-0000-0000-0000-00000000ffff", "bodeguero", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["error"])

	status, created := api.do(http.MethodPost, "/api/transfers", "bodeguero", map[string]string{
		"origin_store_id":      memory.DemoStoreAID,
		"destination_store_id": memory.DemoStoreBID,
	})
	require.Equal(t, http.StatusCreated, status)
	id := created["id"].(string)

	status, body = api.do(http.MethodPost, "/api/transfers/"+id+"/complete", "bodeguero", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["error"])

	status, _ = api.do(http.MethodPost, "/api/transfers/"+id+"/cancel", "bodeguero", nil)
	require.Equal(t, http.StatusOK, status)
	status, body = api.do(http.MethodPost, "/api/transfers/"+id+"/cancel", "bodeguero", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_TRANSITION", body["error"])
}

func TestPrecioYOferta(t *testing.T) {
	api := newAPI(t)

	status, _ := api.do(http.MethodPost, "/api/pricing/update", "admin", map[string]string{
		"store_id": memory.DemoStoreAID, "variation_id": memory.DemoVariation3ID, "price_type": "LIST", "new_price": "20000",
	})
	require.Equal(t, http.StatusCreated, status)

	status, catalog := api.do(http.MethodGet, "/api/pricing/catalog/"+memory.DemoStoreAID, "vendedor", nil)
	require.Equal(t, http.StatusOK, status)
	items := catalog["items"].([]interface{})
	require.Len(t, items, 1)
	spID := items[0].(map[string]interface{})["store_product_id"].(string)

	status, offer := api.do(http.MethodPost, "/api/pricing/offers", "admin", map[string]interface{}{
		"store_product_id": spID,
		"description":      "Liquidación",
		"discount_type":    "PERCENTAGE",
		"value":            "25",
		"start_date":       "2020-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, status, offer)

	status, check := api.do(http.MethodGet, "/api/pricing/price-check/"+spID, "vendedor", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, check["discount_applied"])
	assert.Equal(t, "15000", check["final_price"])

	status, body := api.do(http.MethodPost, "/api/pricing/offers", "admin", map[string]interface{}{
		"store_product_id": spID,
		"discount_type":    "FIXED_AMOUNT",
		"value":            "1000",
		"start_date":       "2021-01-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["error"])

	resp := api.raw(http.MethodGet, "/api/pricing/history?storeID="+memory.DemoStoreAID+"&variationID="+memory.DemoVariation3ID, "vendedor", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hist))
	require.Len(t, hist, 1)
	assert.Equal(t, "LIST", hist[0]["price_type"])
	assert.Equal(t, "0", hist[0]["old_price"])
	assert.Equal(t, "20000", hist[0]["new_price"])
}

func TestDescargas(t *testing.T) {
	api := newAPI(t)

	status, po := api.do(http.MethodPost, "/api/purchase-orders", "admin", map[string]interface{}{
		"store_id": memory.DemoStoreBID,
		"items":    []map[string]interface{}{{"variation_id": memory.DemoVariation2ID, "unit_price": "3500", "quantity": 4}},
	})
	require.Equal(t, http.StatusCreated, status)

	resp := api.raw(http.MethodGet, "/api/purchase-orders/"+po["id"].(string)+"/pdf", "bodeguero", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "OC-"+po["folio"].(string)+".pdf")

	xlsx := api.raw(http.MethodGet, "/api/inventory/store/"+memory.DemoStoreBID+"/export", "bodeguero", nil)
	defer xlsx.Body.Close()
	assert.Equal(t, http.StatusOK, xlsx.StatusCode)
	assert.Contains(t, xlsx.Header.Get("Content-Type"), "spreadsheetml")
}
