package products

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"jpos/models"
	"jpos/mq"
	"jpos/utils"
)

const maxImageSize = 10 << 20

// Handler serves the product endpoints.
type Handler struct {
	Repo      Repository
	Events    mq.Publisher
	Logger    *zap.Logger
	UploadDir string
}

// ScanResult is the answer to a barcode or SKU scan.
type ScanResult struct {
	Product     models.Product `json:"product"`
	VariationID int64          `json:"variation_id,omitempty"`
	Match       string         `json:"match"`
}

// GetProduct returns one product with its variations.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParamID(ps, "productid")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	p, err := h.Repo.Product(r.Context(), id)
	if err != nil {
		h.fail(w, "get product", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// Scan looks a code up against product and variation SKUs and barcodes.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := strings.TrimSpace(ps.ByName("code"))
	if code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing code")
		return
	}

	p, err := h.Repo.ProductByCode(r.Context(), code)
	if err != nil {
		h.fail(w, "scan", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, Match(p, code))
}

// Match reports whether code identified the product itself or one of its
// variations.
func Match(p models.Product, code string) ScanResult {
	for _, v := range p.Variations {
		if v.SKU == code || v.Barcode == code {
			return ScanResult{Product: p, VariationID: v.ID, Match: "variation"}
		}
	}
	return ScanResult{Product: p, Match: "product"}
}

// SaveStock edits the stock fields of one variation.
func (h *Handler) SaveStock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	var change StockChange
	if err := utils.DecodeJSON(r, &change); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v, err := h.Repo.SetVariationStock(r.Context(), productID, variationID, change)
	if err != nil {
		h.fail(w, "save stock", err)
		return
	}

	h.Events.Emit(r.Context(), models.Notice{
		Type:        models.NoticeStockChanged,
		ProductID:   productID,
		VariationID: variationID,
		Register:    utils.RegisterFromRequest(r),
	})
	h.Logger.Info("stock saved",
		zap.Int64("product_id", productID),
		zap.Int64("variation_id", variationID),
		zap.String("stock_status", v.StockStatus))
	utils.RespondWithJSON(w, http.StatusOK, v)
}

// UploadImage stores a product image and its thumbnail.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID, err := utils.ParamID(ps, "productid")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing image")
		return
	}
	defer file.Close()

	ext, ok := utils.ImageExtension(header.Header.Get("Content-Type"))
	if !ok {
		utils.RespondWithError(w, http.StatusUnsupportedMediaType, "Unsupported image type")
		return
	}

	image, thumb, err := saveImage(file, h.UploadDir, ext)
	if err != nil {
		h.Logger.Warn("save image", zap.Int64("product_id", productID), zap.Error(err))
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid image")
		return
	}
	if err := h.Repo.SetImage(r.Context(), productID, image, thumb); err != nil {
		removeImages(h.UploadDir, image, thumb)
		h.fail(w, "set image", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"image": image, "thumb": thumb})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, ErrVariationNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Variation not found")
	case errors.Is(err, ErrInvalidStock):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.Logger.Error(op, zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
