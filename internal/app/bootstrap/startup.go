// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	userstore "github.com/campusfind/campusfind/internal/app/store/users"
	"github.com/campusfind/campusfind/internal/app/system/mailer"
	"github.com/campusfind/campusfind/internal/app/system/notify"
)

// notifyWorker is created in Startup and stopped in Shutdown. It lives
// at package scope because the worker's lifetime spans the whole app,
// not one handler tree.
var notifyWorker *notify.Worker

// Startup runs one-time initialization after DB connections and schema
// setup are complete, but before the HTTP handler is built. CampusFind
// uses it to start the background owner-notification worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     fmt.Sprintf("%s <%s>", appCfg.MailFromName, appCfg.MailFrom),
	}, logger)

	notifyWorker = notify.NewWorker(
		userstore.New(deps.MongoDatabase),
		mail,
		logger,
		appCfg.SiteName,
		appCfg.BaseURL,
		appCfg.NotifyQueueSize,
	)
	notifyWorker.Start()

	return nil
}
