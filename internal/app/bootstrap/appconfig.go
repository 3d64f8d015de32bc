// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// framework-level settings: HTTP ports, TLS, logging, CORS. AppConfig
// is everything specific to CampusFind.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Redis feed cache. Blank address disables caching; the feed then
	// hits Mongo on every request.
	RedisAddr    string
	RedisDB      int
	FeedCacheTTL time.Duration

	// Session management
	SessionKey    string // secret for signing session cookies
	SessionDomain string // cookie domain (blank means current host)

	// Email/SMTP. Blank host disables outbound mail.
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string // address, e.g. noreply@campusfind.example
	MailFromName string // display name

	// Site identity used in emails and OAuth redirects
	SiteName string
	BaseURL  string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Cloudinary image uploads. Blank cloud name disables uploads.
	CloudinaryCloudName    string
	CloudinaryUploadPreset string

	// Gemini tag generation. Blank key disables tagging.
	GeminiAPIKey string

	// Notification worker queue capacity
	NotifyQueueSize int
}
