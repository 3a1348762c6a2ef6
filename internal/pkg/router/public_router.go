package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/humberto3389/Bodas-sub000/app/controllers"
)

// PublicRouter installs the tokenless guest-facing routes.
type PublicRouter struct {
}

func NewPublicRouter() *PublicRouter {
	return &PublicRouter{}
}

func (h PublicRouter) InstallRouter(app *fiber.App) {
	app.Get("/sites/:slug", controllers.HandlePublicSite)
	app.Get("/sites/:slug/guestbook", controllers.HandlePublicGuestbook)

	// Writes from anonymous visitors get rate limited.
	guarded := app.Group("/", limiter.New())
	guarded.Post("/sites/:slug/guestbook", controllers.HandleCreateGuestbookEntry)
	guarded.Post("/rsvp/:code", controllers.HandleSubmitRsvp)
}
