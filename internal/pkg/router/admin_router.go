package router

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/humberto3389/Bodas-sub000/app/controllers"
	"github.com/humberto3389/Bodas-sub000/app/repository"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/env"
)

// AdminRouter installs the operator API behind basic auth.
type AdminRouter struct {
}

func NewAdminRouter() *AdminRouter {
	return &AdminRouter{}
}

func (h AdminRouter) InstallRouter(app *fiber.App) {
	user := env.GetEnv("ADMIN_USER", "admin")
	password := env.GetEnv("ADMIN_PASSWORD", "")

	admin := app.Group("/admin", basicauth.New(basicauth.Config{
		Authorizer: func(u, p string) bool {
			if password != "" {
				uh := sha256.Sum256([]byte(u))
				ph := sha256.Sum256([]byte(p))
				euh := sha256.Sum256([]byte(user))
				eph := sha256.Sum256([]byte(password))
				if subtle.ConstantTimeCompare(uh[:], euh[:]) == 1 &&
					subtle.ConstantTimeCompare(ph[:], eph[:]) == 1 {
					return true
				}
			}
			// Fall back to operator logins stored in the database.
			op, err := repository.GetGlobalFactory().GetOperatorRepository().GetByEmail(u)
			if err != nil {
				return false
			}
			return op.CheckPassword(p)
		},
	}))

	admin.Get("/sites", controllers.HandleAdminListSites)
	admin.Post("/sites", controllers.HandleAdminCreateSite)
	admin.Post("/sites/:id/approve", controllers.HandleAdminApproveUpgrade)
	admin.Post("/sites/:id/renew", controllers.HandleAdminRenew)
	admin.Post("/sites/:id/suspend", controllers.HandleAdminSuspend)
	admin.Post("/sites/:id/reactivate", controllers.HandleAdminReactivate)

	admin.Post("/operators", controllers.HandleAdminCreateOperator)

	admin.Get("/notifications", controllers.HandleAdminListNotifications)
	admin.Post("/notifications/:id/read", controllers.HandleAdminMarkNotificationRead)

	admin.Get("/queue", controllers.HandleAdminQueueStats)
}
