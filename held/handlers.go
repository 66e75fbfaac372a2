package held

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"jpos/cart"
	"jpos/labels"
	"jpos/metrics"
	"jpos/middleware"
	"jpos/models"
	"jpos/mq"
	"jpos/utils"
)

// Handler serves the held-cart endpoints. Parking and resuming move lines
// between the held collection and the requesting register's cart.
type Handler struct {
	Store    Store
	Cart     cart.Store
	Events   mq.Publisher
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Currency string
}

type parkRequest struct {
	Note string `json:"note"`
}

// List returns every held cart across registers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	carts, err := h.Store.List(r.Context())
	if err != nil {
		h.fail(w, "list held carts", err)
		return
	}
	h.Metrics.HeldCarts.Set(float64(len(carts)))
	if carts == nil {
		carts = []models.HeldCart{}
	}
	utils.RespondWithJSON(w, http.StatusOK, carts)
}

// Park moves the register's cart into the held collection and clears it.
func (h *Handler) Park(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req parkRequest
	if err := utils.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	register := middleware.Register(ctx)
	items, err := h.Cart.Items(ctx, register)
	if err != nil {
		h.fail(w, "park: read cart", err)
		return
	}

	c := models.HeldCart{
		Register: register,
		Cashier:  middleware.CashierID(ctx),
		Note:     strings.TrimSpace(req.Note),
		Cart:     make([]models.CartLine, 0, len(items)),
	}
	for _, it := range items {
		c.Cart = append(c.Cart, it.Line())
	}

	c, err = h.Store.Park(ctx, c)
	if err != nil {
		h.fail(w, "park", err)
		return
	}
	if err := h.Cart.Clear(ctx, register); err != nil {
		// lines left in the register cart must not stay held as well
		if _, terr := h.Store.Take(ctx, c.ID); terr != nil {
			h.Logger.Error("park: undo hold", zap.String("held_cart_id", c.ID), zap.Error(terr))
		}
		h.fail(w, "park: clear cart", err)
		return
	}

	h.Events.Emit(ctx, models.Notice{Type: models.NoticeCartParked, HeldCartID: c.ID, Register: register})
	h.Logger.Info("cart parked", zap.String("held_cart_id", c.ID), zap.String("register", register), zap.Int("lines", len(c.Cart)))
	utils.RespondWithJSON(w, http.StatusCreated, c)
}

// Resume removes a held cart and adds its lines to the register's cart.
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	register := middleware.Register(ctx)

	c, err := h.Store.Take(ctx, ps.ByName("heldid"))
	if err != nil {
		h.fail(w, "resume", err)
		return
	}

	for i, line := range c.Cart {
		if line.ID <= 0 || line.Qty <= 0 {
			continue
		}
		item := line.Item(register)
		item.Quantity = 0
		if err := h.Cart.Add(ctx, item, line.Qty); err != nil {
			// lines already in the register cart are released; the rest
			// stay held under the same id
			rest := c
			rest.Cart = c.Cart[i:]
			if _, perr := h.Store.Park(ctx, rest); perr != nil {
				h.Logger.Error("resume: restore held lines", zap.String("held_cart_id", c.ID), zap.Error(perr))
			}
			if i > 0 {
				h.Events.Emit(ctx, models.Notice{Type: models.NoticeCartResumed, HeldCartID: c.ID, Register: register})
			}
			h.fail(w, "resume: add line", err)
			return
		}
	}

	h.Events.Emit(ctx, models.Notice{Type: models.NoticeCartResumed, HeldCartID: c.ID, Register: register})
	h.Logger.Info("cart resumed", zap.String("held_cart_id", c.ID), zap.String("register", register))
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// Discard drops a held cart, releasing its holds.
func (h *Handler) Discard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	c, err := h.Store.Take(ctx, ps.ByName("heldid"))
	if err != nil {
		h.fail(w, "discard", err)
		return
	}
	h.Events.Emit(ctx, models.Notice{Type: models.NoticeCartRemoved, HeldCartID: c.ID, Register: middleware.Register(ctx)})
	h.Logger.Info("held cart discarded", zap.String("held_cart_id", c.ID))
	w.WriteHeader(http.StatusNoContent)
}

// Slip serves the printable slip of a held cart.
func (h *Handler) Slip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, err := h.Store.Get(r.Context(), ps.ByName("heldid"))
	if err != nil {
		h.fail(w, "slip", err)
		return
	}
	doc, err := labels.HeldSlip(c, h.Currency)
	if err != nil {
		h.fail(w, "slip: render", err)
		return
	}
	labels.WritePDF(w, "held-"+c.ID+".pdf", doc)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Held cart not found")
	case errors.Is(err, ErrEmptyCart):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrContended):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, cart.ErrNoRegister), errors.Is(err, cart.ErrInvalidItem):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.Logger.Error(op, zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
