package labels

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jpos/models"
	"jpos/products"
)

func product() models.Product {
	return models.Product{
		ID:   7,
		Name: "Tee",
		Type: models.ProductVariable,
		Variations: []models.Variation{
			{ID: 71, SKU: "TEE-S", Barcode: "5000001", Price: "10", StockStatus: models.StockInStock, Attributes: map[string]string{"attribute_pa_size": "s"}},
			{ID: 72, Price: "10", StockStatus: models.StockInStock, Attributes: map[string]string{"attribute_pa_size": "m"}},
		},
	}
}

func TestHeldSlip(t *testing.T) {
	c := models.HeldCart{
		ID:        "abc",
		Register:  "front",
		Note:      "Customer will be back",
		CreatedAt: time.Now(),
		Cart: []models.CartLine{
			{ID: 71, Qty: 2, Name: "Tee - S", Price: "10.00"},
			{ID: 80, Qty: 1, Name: "Café mug", Price: "6.5"},
		},
	}
	doc, err := HeldSlip(c, "£")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestVariationLabel(t *testing.T) {
	p := product()
	doc, err := VariationLabel(p, p.Variations[0], "$")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	_, err = VariationLabel(p, p.Variations[1], "$")
	assert.Error(t, err)
}

func TestPrintLabel(t *testing.T) {
	h := &Handler{Products: products.NewMemoryRepository(product()), Currency: "$", Logger: zap.NewNop()}
	router := httprouter.New()
	router.GET("/api/products/:productid/variations/:variationid/label", h.PrintLabel)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/api/products/7/variations/71/label")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "label-71.pdf")

	assert.Equal(t, http.StatusNotFound, get("/api/products/7/variations/99/label").Code)
	assert.Equal(t, http.StatusNotFound, get("/api/products/8/variations/71/label").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get("/api/products/7/variations/72/label").Code)
}
