package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/campusfind/campusfind/internal/testutil"
)

func testAppConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "campusfind_test",
		SessionKey:    "test-session-key-for-testing-only",
		SiteName:      "CampusFind",
		BaseURL:       "http://localhost:8080",
		MailFrom:      "noreply@campusfind.example",
		MailFromName:  "CampusFind",
	}
}

func TestValidateConfig_RejectsBadMongoURI(t *testing.T) {
	cfg := testAppConfig()
	cfg.MongoURI = "not-a-mongo-uri"

	if err := ValidateConfig(&config.CoreConfig{}, cfg, zap.NewNop()); err == nil {
		t.Error("ValidateConfig accepted an invalid MongoDB URI")
	}
}

func TestValidateConfig_RejectsDevKeyInProd(t *testing.T) {
	cfg := testAppConfig()
	cfg.SessionKey = "dev-only-change-me-please-0123456789ABCDEF"

	if err := ValidateConfig(&config.CoreConfig{Env: "prod"}, cfg, zap.NewNop()); err == nil {
		t.Error("ValidateConfig accepted the dev session key in prod")
	}
}

func TestValidateConfig_RequiresUploadPresetWithCloudName(t *testing.T) {
	cfg := testAppConfig()
	cfg.CloudinaryCloudName = "demo"

	if err := ValidateConfig(&config.CoreConfig{}, cfg, zap.NewNop()); err == nil {
		t.Error("ValidateConfig accepted a cloud name without an upload preset")
	}
}

func TestBuildHandler_Routing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	coreCfg := &config.CoreConfig{Env: "dev"}
	appCfg := testAppConfig()
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := Startup(ctx, coreCfg, appCfg, deps, logger); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	defer notifyWorker.Stop()

	h, err := BuildHandler(coreCfg, appCfg, deps, logger)
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/posts", http.StatusOK},
		{http.MethodGet, "/api/stats", http.StatusOK},
		{http.MethodGet, "/api/user/my-posts", http.StatusUnauthorized},
		{http.MethodPost, "/api/user/resolve-post", http.StatusUnauthorized},
		{http.MethodGet, "/api/user/check-profile", http.StatusUnauthorized},
		{http.MethodPost, "/api/posts", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Errorf("%s %s = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}
}
