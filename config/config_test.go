package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("PROMPT_STORE_PATH", "")
	t.Setenv("ATTACHMENT_S3_ENDPOINT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorePath == "" {
		t.Fatalf("store path must default")
	}
	if cfg.BlobEnabled {
		t.Fatalf("blob store must stay disabled without an endpoint")
	}
}

func TestLoad_BlobFromEnv(t *testing.T) {
	t.Setenv("ATTACHMENT_S3_ENDPOINT", "minio:9000")
	t.Setenv("ATTACHMENT_S3_ACCESS_KEY", "ak")
	t.Setenv("ATTACHMENT_S3_SECRET_KEY", "sk")
	t.Setenv("ATTACHMENT_S3_USE_SSL", "false")
	t.Setenv("ATTACHMENT_S3_BUCKET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.BlobEnabled {
		t.Fatalf("endpoint should enable the blob store")
	}
	if cfg.Blob.Bucket != "promptforge-attachments" {
		t.Fatalf("bucket default wrong: %s", cfg.Blob.Bucket)
	}
	if cfg.Blob.UseSSL {
		t.Fatalf("use_ssl=false not honored")
	}
}

func TestLoad_ModelsFromEnv(t *testing.T) {
	t.Setenv("PROMPTFORGE_PRIMARY_MODEL", "gemini-2.5-pro")
	t.Setenv("PROMPTFORGE_PERSONA_MODEL", "gemini-2.5-flash")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PrimaryModel != "gemini-2.5-pro" || cfg.PersonaModel != "gemini-2.5-flash" {
		t.Fatalf("model preferences not read: %+v", cfg)
	}
}
