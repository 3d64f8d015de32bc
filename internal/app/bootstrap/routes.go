// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authgooglefeature "github.com/campusfind/campusfind/internal/app/features/authgoogle"
	healthfeature "github.com/campusfind/campusfind/internal/app/features/health"
	loginfeature "github.com/campusfind/campusfind/internal/app/features/login"
	logoutfeature "github.com/campusfind/campusfind/internal/app/features/logout"
	postsfeature "github.com/campusfind/campusfind/internal/app/features/posts"
	profilefeature "github.com/campusfind/campusfind/internal/app/features/profile"
	statsfeature "github.com/campusfind/campusfind/internal/app/features/stats"
	poststore "github.com/campusfind/campusfind/internal/app/store/posts"
	userstore "github.com/campusfind/campusfind/internal/app/store/users"
	"github.com/campusfind/campusfind/internal/app/system/aitags"
	"github.com/campusfind/campusfind/internal/app/system/auth"
	"github.com/campusfind/campusfind/internal/app/system/feedcache"
	"github.com/campusfind/campusfind/internal/app/system/imagestore"
	"github.com/campusfind/campusfind/internal/app/system/mailer"
	"github.com/campusfind/campusfind/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed, so the notification worker is
// already running when the first request arrives.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	posts := poststore.New(deps.MongoDatabase)

	images := imagestore.New(imagestore.Config{
		CloudName:    appCfg.CloudinaryCloudName,
		UploadPreset: appCfg.CloudinaryUploadPreset,
	}, logger)
	tags := aitags.New(aitags.Config{APIKey: appCfg.GeminiAPIKey}, logger)
	cache := feedcache.New(deps.RedisClient, appCfg.FeedCacheTTL, logger)
	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFromName + " <" + appCfg.MailFrom + ">",
	}, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged
	// in, making auth.CurrentUser(r) work everywhere.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.RedisClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, sessionMgr, ratelimit.NewLoginLimiter(), logger)
	r.Mount("/api/auth", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/api/auth/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(
		users, sessionMgr,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret,
		appCfg.BaseURL, appCfg.SessionKey,
		logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// The listing board
	postsHandler := postsfeature.NewHandler(posts, images, tags, cache, notifyWorker, logger)
	r.Mount("/api/posts", postsfeature.Routes(postsHandler))

	// Owner-scoped operations and onboarding share the /api/user prefix.
	profileHandler := profilefeature.NewHandler(users, mail, appCfg.SiteName, appCfg.BaseURL, logger)
	r.Route("/api/user", func(ur chi.Router) {
		ur.Use(auth.RequireSignedIn)
		postsfeature.UserRoutes(ur, postsHandler)
		profilefeature.Routes(ur, profileHandler)
	})

	// Public landing-page counters
	statsHandler := statsfeature.NewHandler(posts, users, logger)
	r.Mount("/api/stats", statsfeature.Routes(statsHandler))

	return r, nil
}
