package routes

import (
	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, d *Deps) {
	AddStaticRoutes(router, d)
	AddAuthRoutes(router, d)
	AddProductRoutes(router, d)
	AddSelectionRoutes(router, d)
	AddCartRoutes(router, d)
	AddHeldRoutes(router, d)
	AddDrawerRoutes(router, d)
	AddLiveRoutes(router, d)
}
