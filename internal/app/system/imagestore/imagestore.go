// internal/app/system/imagestore/imagestore.go
//
// Package imagestore uploads post photos to Cloudinary using an
// unsigned upload preset. Images are downscaled before upload so a
// 12-megapixel phone photo does not eat bandwidth and storage for a
// listing thumbnail.
package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusfind/campusfind/internal/app/system/timeouts"
)

// DefaultBaseURL is the Cloudinary API endpoint. Tests point BaseURL
// at an httptest server.
const DefaultBaseURL = "https://api.cloudinary.com"

// MaxWidth is the bound images are downscaled to before upload.
const MaxWidth = 1600

// Config holds Cloudinary settings. An empty CloudName disables the
// store.
type Config struct {
	CloudName    string
	UploadPreset string
	BaseURL      string
}

// Store uploads images to the configured Cloudinary account.
type Store struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

// New creates a Store. The HTTP client timeout follows the upstream
// budget so a stalled upload cannot pin a request.
func New(cfg Config, log *zap.Logger) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Store{
		cfg:    cfg,
		client: &http.Client{Timeout: timeouts.Upstream()},
		log:    log,
	}
}

// Enabled reports whether uploads are configured.
func (s *Store) Enabled() bool { return s.cfg.CloudName != "" }

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Upload decodes the image, downscales it when wider than MaxWidth,
// re-encodes it as JPEG, and uploads it under a random public ID.
// Returns the hosted URL.
func (s *Store) Upload(ctx context.Context, r io.Reader) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("image uploads are not configured")
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	var encoded bytes.Buffer
	if err := imaging.Encode(&encoded, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	publicID := uuid.NewString()
	body, contentType, err := buildUploadForm(&encoded, publicID, s.cfg.UploadPreset)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1_1/%s/image/upload", s.cfg.BaseURL, s.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload image: status %d: %s", resp.StatusCode, payload)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("parse upload response: %w", err)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("upload response missing secure_url")
	}

	if s.log != nil {
		s.log.Info("image uploaded",
			zap.String("public_id", publicID),
			zap.String("url", parsed.SecureURL))
	}
	return parsed.SecureURL, nil
}

// buildUploadForm assembles the multipart body Cloudinary's unsigned
// upload endpoint expects.
func buildUploadForm(img io.Reader, publicID, preset string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", publicID+".jpg")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, img); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("upload_preset", preset); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("public_id", publicID); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
