package cart

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"jpos/middleware"
	"jpos/models"
	"jpos/utils"
)

// Handler serves the register cart endpoints. Routes are wrapped in
// middleware.RequireRegister.
type Handler struct {
	Store  Store
	Logger *zap.Logger
}

// GetCart returns the register's cart with its totals.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	register := middleware.Register(r.Context())
	items, err := h.Store.Items(r.Context(), register)
	if err != nil {
		h.fail(w, "get cart", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, Summarize(register, items))
}

// AddToCart adds a line directly, as a scanner or a resumed cart does.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var item models.CartItem
	if err := utils.DecodeJSON(r, &item); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	item.Register = middleware.Register(r.Context())
	qty := item.Quantity
	item.Quantity = 0

	if err := h.Store.Add(r.Context(), item, qty); err != nil {
		h.fail(w, "add to cart", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// ClearCart empties the register's cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.Store.Clear(r.Context(), middleware.Register(r.Context())); err != nil {
		h.fail(w, "clear cart", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNoRegister), errors.Is(err, ErrInvalidItem), errors.Is(err, ErrInvalidQuantity):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.Logger.Error(op, zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
	}
}
