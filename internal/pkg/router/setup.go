package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
)

// Router installs a related group of routes on the app
type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App, engine *entitlements.Engine) {
	setup(app, NewPublicRouter(), NewApiRouter(engine), NewAdminRouter())
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
