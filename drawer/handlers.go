package drawer

import (
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"jpos/middleware"
	"jpos/utils"
)

type Handler struct {
	Store  Store
	Logger *zap.Logger
}

type openRequest struct {
	OpeningFloat string `json:"opening_float"`
}

type closeRequest struct {
	ClosingCount string `json:"closing_count"`
}

// OpenDrawer starts a drawer session for the request's register.
func (h *Handler) OpenDrawer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req openRequest
	if err := utils.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	register := middleware.Register(r.Context())
	d, err := h.Store.Open(r.Context(), register, middleware.CashierID(r.Context()), req.OpeningFloat)
	if err != nil {
		h.fail(w, "open drawer", err)
		return
	}
	h.Logger.Info("drawer opened", zap.String("register", register), zap.String("cashier_id", d.CashierID))
	utils.RespondWithJSON(w, http.StatusCreated, d)
}

// CloseDrawer ends the register's drawer session.
func (h *Handler) CloseDrawer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req closeRequest
	if err := utils.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	register := middleware.Register(r.Context())
	d, err := h.Store.Close(r.Context(), register, req.ClosingCount)
	if err != nil {
		h.fail(w, "close drawer", err)
		return
	}
	h.Logger.Info("drawer closed", zap.String("register", register), zap.String("closing_count", d.ClosingCount))
	utils.RespondWithJSON(w, http.StatusOK, d)
}

// CurrentDrawer returns the open drawer, or 404 when there is none.
func (h *Handler) CurrentDrawer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	d, err := h.Store.Current(r.Context(), middleware.Register(r.Context()))
	if err != nil {
		h.fail(w, "current drawer", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, d)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrAlreadyOpen):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotOpen):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoRegister), errors.Is(err, ErrInvalidAmount):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.Logger.Error(op, zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
