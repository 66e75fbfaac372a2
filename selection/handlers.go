package selection

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"jpos/cart"
	"jpos/drawer"
	"jpos/held"
	"jpos/metrics"
	"jpos/middleware"
	"jpos/models"
	"jpos/products"
	"jpos/utils"
	"jpos/variants"
)

// Handler serves the variation selection surface. Sessions are rebuilt from
// fresh product and held-cart reads on every request; the client carries
// the selection between calls.
type Handler struct {
	Products products.Repository
	Held     held.Store
	Cart     cart.Store
	Drawers  drawer.Store
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Currency string
}

// View is what the surface renders.
type View struct {
	ProductID  int64              `json:"product_id"`
	Name       string             `json:"name"`
	Image      string             `json:"image,omitempty"`
	Groups     []variants.Group   `json:"groups"`
	Selection  variants.Selection `json:"selection"`
	Outcome    variants.Outcome   `json:"outcome"`
	Action     variants.Action    `json:"action,omitempty"`
	HeldCarts  []string           `json:"held_carts,omitempty"`
	AddedItem  *models.CartItem   `json:"added_item,omitempty"`
	CartTotals *cart.Summary      `json:"cart,omitempty"`
}

type resolveRequest struct {
	Selection variants.Selection `json:"selection"`
	Key       string             `json:"key"`
	Value     string             `json:"value"`
}

type addRequest struct {
	Selection variants.Selection `json:"selection"`
	Qty       int                `json:"qty"`
}

// Options opens the surface for a product. A code query parameter
// pre-selects the variation carrying that SKU or barcode.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, _, ok := h.open(w, r, ps, strings.TrimSpace(r.URL.Query().Get("code")))
	if !ok {
		return
	}
	h.countClassifications(s.Groups())
	utils.RespondWithJSON(w, http.StatusOK, h.view(s))
}

// Resolve applies a selection and an optional toggle of one value.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req resolveRequest
	if err := utils.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s, carts, ok := h.open(w, r, ps, "")
	if !ok {
		return
	}
	if req.Selection != nil {
		s.Restore(req.Selection)
	}

	var action variants.Action
	var holding []string
	if req.Key != "" {
		var err error
		action, err = s.Select(req.Key, req.Value)
		if err != nil {
			h.fail(w, "select", err)
			return
		}
		h.Metrics.Selections.WithLabelValues(string(action)).Inc()
		if action == variants.ActionNavigateHeld {
			holding = HoldingCarts(carts, s.Product().Variations, req.Key, req.Value)
		}
	}

	view := h.view(s)
	view.Action, view.HeldCarts = action, holding
	utils.RespondWithJSON(w, http.StatusOK, view)
}

// Add puts the resolved variation into the register's cart. Without an open
// drawer the cart is untouched and the action is open_drawer.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req addRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}

	s, _, ok := h.open(w, r, ps, "")
	if !ok {
		return
	}
	if req.Selection != nil {
		s.Restore(req.Selection)
	}

	ctx := r.Context()
	register := middleware.Register(ctx)
	action, err := s.AddToCart(ctx, drawer.For(h.Drawers, register), cart.For(h.Cart, register), req.Qty)
	if err != nil {
		h.fail(w, "add to cart", err)
		return
	}
	h.Metrics.Selections.WithLabelValues(string(action)).Inc()

	view := h.view(s)
	view.Action = action
	if action == variants.ActionAdded {
		item, _ := s.Item()
		item.Register = register
		item.Quantity = req.Qty
		view.AddedItem = &item
		view.CartTotals = h.cartSummary(ctx, register)
		h.Logger.Info("added to cart",
			zap.String("register", register),
			zap.Int64("variation_id", item.VariationID),
			zap.Int("qty", req.Qty))
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request, ps httprouter.Params, code string) (*variants.Session, []models.HeldCart, bool) {
	id, err := utils.ParamID(ps, "productid")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return nil, nil, false
	}
	p, err := h.Products.Product(r.Context(), id)
	if err != nil {
		h.fail(w, "load product", err)
		return nil, nil, false
	}

	// held carts are read on every open; a failed read means nothing held
	carts, err := h.Held.List(r.Context())
	if err != nil {
		h.Logger.Warn("list held carts", zap.Error(err))
		carts = nil
	}
	h.Metrics.HeldCarts.Set(float64(len(carts)))

	return variants.Open(p, carts, variants.Options{TargetCode: code, Currency: h.Currency}), carts, true
}

func (h *Handler) view(s *variants.Session) View {
	p := s.Product()
	return View{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.Thumb,
		Groups:    s.Groups(),
		Selection: s.Selection(),
		Outcome:   s.Outcome(),
	}
}

func (h *Handler) cartSummary(ctx context.Context, register string) *cart.Summary {
	items, err := h.Cart.Items(ctx, register)
	if err != nil {
		h.Logger.Warn("read cart", zap.String("register", register), zap.Error(err))
		return nil
	}
	s := cart.Summarize(register, items)
	return &s
}

func (h *Handler) countClassifications(groups []variants.Group) {
	for _, g := range groups {
		for _, sw := range g.Swatches {
			h.Metrics.Classifications.WithLabelValues(string(sw.Status)).Inc()
		}
	}
}

// HoldingCarts returns the ids of held carts reserving any variation whose
// attribute key has the given value.
func HoldingCarts(carts []models.HeldCart, vars []models.Variation, key, value string) []string {
	ids := make(map[int64]bool)
	for _, v := range vars {
		if v.Attributes[key] == value {
			ids[v.ID] = true
		}
	}
	var out []string
	for _, c := range carts {
		for _, line := range c.Cart {
			if line.Qty > 0 && ids[line.ID] {
				out = append(out, c.ID)
				break
			}
		}
	}
	return out
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, products.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, variants.ErrUnknownOption):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, variants.ErrInvalidQuantity), errors.Is(err, cart.ErrNoRegister), errors.Is(err, drawer.ErrNoRegister):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, variants.ErrOptionUnavailable), errors.Is(err, variants.ErrNoVariation), errors.Is(err, variants.ErrNotPurchasable):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		h.Logger.Error(op, zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
