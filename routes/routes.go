package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"jpos/auth"
	"jpos/cart"
	"jpos/drawer"
	"jpos/held"
	"jpos/labels"
	"jpos/live"
	"jpos/metrics"
	"jpos/middleware"
	"jpos/products"
	"jpos/ratelim"
	"jpos/selection"
)

// Deps are the handlers and middleware the routes are built from.
type Deps struct {
	Auth      middleware.Auth
	Limiter   *ratelim.RateLimiter
	Metrics   *metrics.Metrics
	Login     *auth.Handler
	Products  *products.Handler
	Selection *selection.Handler
	Cart      *cart.Handler
	Drawer    *drawer.Handler
	Held      *held.Handler
	Labels    *labels.Handler
	Hub       *live.Hub
	UploadDir string
}

// open wraps a handler with metrics only.
func (d *Deps) open(route string, h httprouter.Handle) httprouter.Handle {
	return middleware.Instrument(d.Metrics, route, h)
}

// secure requires a cashier token.
func (d *Deps) secure(route string, h httprouter.Handle) httprouter.Handle {
	return middleware.Instrument(d.Metrics, route, d.Auth.Authenticate(h))
}

// till requires a cashier token and a register.
func (d *Deps) till(route string, h httprouter.Handle) httprouter.Handle {
	return d.secure(route, middleware.RequireRegister(h))
}

func AddStaticRoutes(router *httprouter.Router, d *Deps) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir(d.UploadDir))
}

func AddAuthRoutes(router *httprouter.Router, d *Deps) {
	router.POST("/api/auth/login", d.open("auth_login", d.Limiter.Limit(d.Login.Login)))
}

func AddProductRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/products/:productid", d.secure("product_get", d.Products.GetProduct))
	router.GET("/api/scan/:code", d.secure("product_scan", d.Products.Scan))
	router.PUT("/api/products/:productid/variations/:variationid/stock", d.secure("stock_save", d.Limiter.Limit(d.Products.SaveStock)))
	router.POST("/api/products/:productid/image", d.secure("product_image", d.Limiter.Limit(d.Products.UploadImage)))
	router.GET("/api/products/:productid/variations/:variationid/label", d.secure("variation_label", d.Labels.PrintLabel))
}

func AddSelectionRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/products/:productid/options", d.secure("options_open", d.Selection.Options))
	router.POST("/api/products/:productid/options/resolve", d.secure("options_resolve", d.Selection.Resolve))
	router.POST("/api/products/:productid/options/add", d.till("options_add", d.Selection.Add))
}

func AddCartRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/cart", d.till("cart_get", d.Cart.GetCart))
	router.POST("/api/cart", d.till("cart_add", d.Cart.AddToCart))
	router.DELETE("/api/cart", d.till("cart_clear", d.Cart.ClearCart))
}

func AddHeldRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/held", d.secure("held_list", d.Held.List))
	router.POST("/api/held", d.till("held_park", d.Held.Park))
	router.POST("/api/held/:heldid/resume", d.till("held_resume", d.Held.Resume))
	router.DELETE("/api/held/:heldid", d.secure("held_discard", d.Held.Discard))
	router.GET("/api/held/:heldid/slip", d.secure("held_slip", d.Held.Slip))
}

func AddDrawerRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/drawer", d.till("drawer_current", d.Drawer.CurrentDrawer))
	router.POST("/api/drawer/open", d.till("drawer_open", d.Drawer.OpenDrawer))
	router.POST("/api/drawer/close", d.till("drawer_close", d.Drawer.CloseDrawer))
}

func AddLiveRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/live", d.secure("live", d.Hub.Handler()))
}
