package drawer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jpos/middleware"
	"jpos/models"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	open, err := IsOpen(ctx, s, "front")
	require.NoError(t, err)
	assert.False(t, open)

	d, err := s.Open(ctx, "front", "c1", "100")
	require.NoError(t, err)
	assert.Equal(t, "100.00", d.OpeningFloat)
	assert.Equal(t, models.DrawerOpen, d.Status)

	_, err = s.Open(ctx, "front", "c2", "")
	assert.ErrorIs(t, err, ErrAlreadyOpen)

	ok, err := For(s, "front").DrawerOpen(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = For(s, "back").DrawerOpen(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	closed, err := s.Close(ctx, "front", "152.5")
	require.NoError(t, err)
	assert.Equal(t, models.DrawerClosed, closed.Status)
	assert.Equal(t, "152.50", closed.ClosingCount)
	require.NotNil(t, closed.ClosedAt)

	_, err = s.Close(ctx, "front", "0")
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestAmountValidation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Open(ctx, "front", "c1", "-5")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = s.Open(ctx, "front", "c1", "ten")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = s.Open(ctx, "", "c1", "1")
	assert.ErrorIs(t, err, ErrNoRegister)
}

func TestHandlers(t *testing.T) {
	h := &Handler{Store: NewMemoryStore(), Logger: zap.NewNop()}
	router := httprouter.New()
	router.POST("/api/drawer/open", middleware.RequireRegister(h.OpenDrawer))
	router.POST("/api/drawer/close", middleware.RequireRegister(h.CloseDrawer))
	router.GET("/api/drawer", middleware.RequireRegister(h.CurrentDrawer))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("X-Register", "front")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/drawer", "").Code)
	require.Equal(t, http.StatusCreated, do(http.MethodPost, "/api/drawer/open", `{"opening_float":"50"}`).Code)
	assert.Equal(t, http.StatusConflict, do(http.MethodPost, "/api/drawer/open", `{}`).Code)

	rec := do(http.MethodGet, "/api/drawer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var d models.Drawer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "front", d.Register)
	assert.Equal(t, "50.00", d.OpeningFloat)

	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/api/drawer/close", `{"closing_count":"x"}`).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/drawer/close", `{"closing_count":"75"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodPost, "/api/drawer/close", `{}`).Code)
}
