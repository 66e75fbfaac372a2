package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jpos/middleware"
	"jpos/models"
)

func cashiers(t *testing.T) *MemoryCashiers {
	t.Helper()
	hash, err := HashPIN("4321")
	require.NoError(t, err)
	return NewMemoryCashiers(models.Cashier{ID: "c1", Username: "ana", Name: "Ana", PinHash: hash, Roles: []string{"cashier"}})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	cs := cashiers(t)

	c, err := Verify(ctx, cs, "ana", "4321")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)

	_, err = Verify(ctx, cs, "ana", "0000")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = Verify(ctx, cs, "bob", "4321")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogin(t *testing.T) {
	tokens := middleware.Auth{Secret: []byte("test-secret")}
	h := &Handler{Cashiers: cashiers(t), Tokens: tokens, TTL: time.Hour, Logger: zap.NewNop()}
	router := httprouter.New()
	router.POST("/api/auth/login", h.Login)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))
		return rec
	}

	rec := post(`{"username":"ana","pin":"4321"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "c1", res.CashierID)

	claims, err := tokens.ValidateJWT("Bearer " + res.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, []string{"cashier"}, claims.Role)

	assert.Equal(t, http.StatusUnauthorized, post(`{"username":"ana","pin":"1111"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"username":"ana"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`not json`).Code)
}
