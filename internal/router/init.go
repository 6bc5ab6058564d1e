package router

import (
	userapp "github.com/telecare/telecare-api/internal/application"
	"github.com/telecare/telecare-api/internal/container"
	pginfra "github.com/telecare/telecare-api/internal/infrastructure/postgres"
	handlers "github.com/telecare/telecare-api/internal/interface/http"
	"github.com/telecare/telecare-api/internal/router/modules"
)

func buildUserModule() *modules.UserModule {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	cfg := container.GetConfig()

	service := userapp.NewService(repo, container.GetLogger())
	service.Pub = container.GetRabbitPub()
	service.MailEnabled = cfg.MailSendEnabled
	service.ES = container.GetES()
	service.ESUsersIndex = cfg.ESUsersIndex

	handler := handlers.NewUserHandler(service, container.GetLogger())
	return modules.NewUserModule(handler)
}

// InitModules initializes all application modules and registers them with the
// router registry. Called once during application startup.
func InitModules(r *Registry) {
	r.Add(buildUserModule())
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
