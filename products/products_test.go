package products

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jpos/models"
)

type recorder struct {
	mu      sync.Mutex
	notices []models.Notice
}

func (r *recorder) Emit(_ context.Context, n models.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func intp(n int) *int { return &n }

func fixture() models.Product {
	return models.Product{
		ID:   7,
		Name: "Tee",
		SKU:  "TEE",
		Type: models.ProductVariable,
		Variations: []models.Variation{
			{ID: 71, SKU: "TEE-S", Barcode: "5000001", Price: "10.00", StockStatus: models.StockInStock, ManagesStock: true, StockQuantity: intp(3), Attributes: map[string]string{"attribute_pa_size": "s"}},
			{ID: 72, SKU: "TEE-M", Barcode: "5000002", Price: "10.00", StockStatus: models.StockOutOfStock, Attributes: map[string]string{"attribute_pa_size": "m"}},
		},
	}
}

func newRouter(t *testing.T) (*httprouter.Router, *MemoryRepository, *recorder) {
	t.Helper()
	repo := NewMemoryRepository(fixture())
	events := &recorder{}
	h := &Handler{Repo: repo, Events: events, Logger: zap.NewNop(), UploadDir: t.TempDir()}

	router := httprouter.New()
	router.GET("/api/products/:productid", h.GetProduct)
	router.GET("/api/scan/:code", h.Scan)
	router.PUT("/api/products/:productid/variations/:variationid/stock", h.SaveStock)
	router.POST("/api/products/:productid/image", h.UploadImage)
	return router, repo, events
}

func TestGetProduct(t *testing.T) {
	router, _, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Tee", p.Name)
	assert.Len(t, p.Variations, 2)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScan(t *testing.T) {
	router, _, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scan/5000002", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res ScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "variation", res.Match)
	assert.Equal(t, int64(72), res.VariationID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scan/TEE", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "product", res.Match)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scan/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveStock(t *testing.T) {
	router, repo, events := newRouter(t)

	body := `{"manages_stock":true,"stock_quantity":0}`
	req := httptest.NewRequest(http.MethodPut, "/api/products/7/variations/71/stock", strings.NewReader(body))
	req.Header.Set("X-Register", "front")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var v models.Variation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, models.StockOutOfStock, v.StockStatus)
	require.NotNil(t, v.StockQuantity)
	assert.Equal(t, 0, *v.StockQuantity)

	p, err := repo.Product(context.Background(), 7)
	require.NoError(t, err)
	stored, _ := p.Variation(71)
	assert.Equal(t, models.StockOutOfStock, stored.StockStatus)

	require.Len(t, events.notices, 1)
	assert.Equal(t, models.NoticeStockChanged, events.notices[0].Type)
	assert.Equal(t, int64(71), events.notices[0].VariationID)
	assert.Equal(t, "front", events.notices[0].Register)
}

func TestSaveStockRejects(t *testing.T) {
	router, _, events := newRouter(t)

	cases := map[string]struct {
		path string
		body string
		code int
	}{
		"negative":          {"/api/products/7/variations/71/stock", `{"manages_stock":true,"stock_quantity":-1}`, http.StatusBadRequest},
		"unknown field":     {"/api/products/7/variations/71/stock", `{"qty":1}`, http.StatusBadRequest},
		"unknown variation": {"/api/products/7/variations/99/stock", `{"manages_stock":false}`, http.StatusNotFound},
		"unknown product":   {"/api/products/8/variations/71/stock", `{"manages_stock":false}`, http.StatusNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, tc.path, strings.NewReader(tc.body)))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
	assert.Empty(t, events.notices)
}

func TestStockChangeNormalize(t *testing.T) {
	c, err := StockChange{ManagesStock: true, StockQuantity: intp(5), StockStatus: models.StockOutOfStock}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, models.StockInStock, c.StockStatus)

	c, err = StockChange{ManagesStock: false, StockQuantity: intp(5)}.Normalize()
	require.NoError(t, err)
	assert.Nil(t, c.StockQuantity)
	assert.Equal(t, models.StockInStock, c.StockStatus)

	c, err = StockChange{ManagesStock: true, StockStatus: models.StockOutOfStock}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, models.StockOutOfStock, c.StockStatus)

	_, err = StockChange{ManagesStock: true, StockQuantity: intp(-2)}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 600, 400))
	img.Set(10, 10, color.RGBA{R: 255, A: 255})
	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, img))
	return raw.Bytes()
}

func postImage(router http.Handler, path string, data []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="tee.png"`)
	hdr.Set("Content-Type", "image/png")
	part, _ := mw.CreatePart(hdr)
	_, _ = part.Write(data)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadImage(t *testing.T) {
	repo := NewMemoryRepository(fixture())
	dir := t.TempDir()
	h := &Handler{Repo: repo, Events: &recorder{}, Logger: zap.NewNop(), UploadDir: dir}
	router := httprouter.New()
	router.POST("/api/products/:productid/image", h.UploadImage)

	rec := postImage(router, "/api/products/7/image", pngBytes(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	p, err := repo.Product(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p.Image, ".png"))
	assert.Equal(t, "thumb/"+p.Image, p.Thumb)

	_, err = os.Stat(filepath.Join(dir, p.Image))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, p.Thumb))
	assert.NoError(t, err)
}

func TestUploadImageUnknownProductLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	h := &Handler{Repo: NewMemoryRepository(fixture()), Events: &recorder{}, Logger: zap.NewNop(), UploadDir: dir}
	router := httprouter.New()
	router.POST("/api/products/:productid/image", h.UploadImage)

	rec := postImage(router, "/api/products/404/image", pngBytes(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, sub := range []string{".", "thumb"} {
		entries, err := os.ReadDir(filepath.Join(dir, sub))
		if os.IsNotExist(err) {
			continue
		}
		require.NoError(t, err)
		for _, e := range entries {
			assert.True(t, e.IsDir(), "unexpected file %s", e.Name())
		}
	}
}
