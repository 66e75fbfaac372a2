package labels

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"jpos/products"
	"jpos/utils"
)

type Handler struct {
	Products products.Repository
	Currency string
	Logger   *zap.Logger
}

// PrintLabel serves the shelf label PDF for a variation.
func (h *Handler) PrintLabel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID, err := utils.ParamID(ps, "productid")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	variationID, err := utils.ParamID(ps, "variationid")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid variation ID")
		return
	}

	p, err := h.Products.Product(r.Context(), productID)
	if errors.Is(err, products.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.Logger.Error("label product", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	v, ok := p.Variation(variationID)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Variation not found")
		return
	}

	doc, err := VariationLabel(p, v, h.Currency)
	if err != nil {
		h.Logger.Warn("render label", zap.Int64("variation_id", variationID), zap.Error(err))
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Failed to generate label")
		return
	}
	WritePDF(w, fmt.Sprintf("label-%d.pdf", variationID), doc)
}

// WritePDF sends a rendered document as an attachment.
func WritePDF(w http.ResponseWriter, filename string, doc []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+utils.SanitizeFilename(filename))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
