package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"jpos/middleware"
	"jpos/utils"
)

type Handler struct {
	Cashiers Cashiers
	Tokens   middleware.Auth
	TTL      time.Duration
	Logger   *zap.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	CashierID string    `json:"cashierId"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login exchanges a cashier's username and PIN for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input loginRequest
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.PIN == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and PIN are required")
		return
	}

	c, err := Verify(r.Context(), h.Cashiers, input.Username, input.PIN)
	if errors.Is(err, ErrBadCredentials) {
		h.Logger.Info("login rejected", zap.String("username", input.Username), zap.String("ip", utils.ClientIP(r)))
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("login", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.Tokens.Issue(c.ID, c.Username, c.Roles, h.TTL)
	if err != nil {
		h.Logger.Error("issue token", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	h.Logger.Info("cashier logged in", zap.String("cashier_id", c.ID))
	utils.RespondWithJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		CashierID: c.ID,
		Name:      c.Name,
		Roles:     c.Roles,
		ExpiresAt: time.Now().Add(h.TTL).UTC(),
	})
}
