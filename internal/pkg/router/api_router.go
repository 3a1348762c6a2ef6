package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/humberto3389/Bodas-sub000/app/controllers"
	"github.com/humberto3389/Bodas-sub000/app/repository"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/middleware"
)

// ApiRouter installs the site-token management API.
type ApiRouter struct {
	engine *entitlements.Engine
}

func NewApiRouter(engine *entitlements.Engine) *ApiRouter {
	return &ApiRouter{engine: engine}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())

	accounts := repository.GetGlobalFactory().GetAccountRepository()
	v1 := api.Group("/v1", middleware.SiteTokenAuth(h.engine, accounts))

	v1.Get("/site", controllers.HandleGetSite)
	v1.Post("/site/upgrade", controllers.HandleRequestUpgrade)
	v1.Get("/site/usage", controllers.HandleGetUsage)

	v1.Get("/guests", controllers.HandleListGuests)
	v1.Post("/guests", controllers.HandleCreateGuest)
	v1.Get("/rsvps", controllers.HandleListRsvps)

	v1.Get("/guestbook", controllers.HandleListGuestbook)

	v1.Get("/photos", controllers.HandleListPhotos)
	v1.Post("/photos", controllers.HandleUploadPhoto)
	v1.Get("/videos", controllers.HandleListVideos)
	v1.Post("/videos", controllers.HandleUploadVideo)
}
