// Package config loads environment configuration for the authoring core.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"promptforge/blob"
)

type Config struct {
	// APIKey authenticates against the model provider. Left empty, the
	// provider client reads GEMINI_API_KEY itself; a missing key fails at
	// the first capability invocation.
	APIKey string

	// PrimaryModel answers generate/test-execute calls; PersonaModel
	// answers persona inference. Empty values defer to the gateway's
	// defaults.
	PrimaryModel string
	PersonaModel string

	// StorePath is the file-backend location of the prompt store;
	// StoreDSN switches it to Postgres when set.
	StorePath string
	StoreDSN  string

	// Blob configures the optional raw-payload store.
	BlobEnabled bool
	Blob        blob.Config
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		PrimaryModel: strings.TrimSpace(os.Getenv("PROMPTFORGE_PRIMARY_MODEL")),
		PersonaModel: strings.TrimSpace(os.Getenv("PROMPTFORGE_PERSONA_MODEL")),
		StorePath:    firstNonEmpty(strings.TrimSpace(os.Getenv("PROMPT_STORE_PATH")), defaultStorePath()),
		StoreDSN:     strings.TrimSpace(os.Getenv("PROMPT_STORE_PG_DSN")),
	}

	endpoint := strings.TrimSpace(os.Getenv("ATTACHMENT_S3_ENDPOINT"))
	cfg.BlobEnabled = endpoint != ""
	cfg.Blob = blob.Config{
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ATTACHMENT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ATTACHMENT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ATTACHMENT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ATTACHMENT_S3_BUCKET")), "promptforge-attachments"),
		UseSSL:    parseBool(os.Getenv("ATTACHMENT_S3_USE_SSL"), true),
	}

	return cfg, nil
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "promptforge-state.json"
	}
	return home + "/.promptforge/state.json"
}

func parseBool(raw string, fallback bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
