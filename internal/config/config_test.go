package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, k := range []string{
		"SKILLTRAIL_API_URL", "SKILLTRAIL_TOKEN_PATH", "SKILLTRAIL_GENERATION_KEY", "SKILLTRAIL_TIMEOUT",
		"SKILLTRAIL_ADDR", "SKILLTRAIL_DB", "SKILLTRAIL_JWT_SECRET", "SKILLTRAIL_TOKEN_TTL", "SKILLTRAIL_CORS_ORIGINS",
		"SKILLTRAIL_LOG_MODE", "SKILLTRAIL_LOG_PATH", "SKILLTRAIL_LLM_PROVIDER",
		"SKILLTRAIL_GROQ_API_KEY", "SKILLTRAIL_OPENAI_API_KEY", "SKILLTRAIL_ANTHROPIC_API_KEY", "SKILLTRAIL_GEMINI_API_KEY",
		"SKILLTRAIL_GROQ_MODEL", "SKILLTRAIL_OPENAI_MODEL", "SKILLTRAIL_ANTHROPIC_MODEL", "SKILLTRAIL_GEMINI_MODEL",
		"GROQ_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Client, cfg.Client)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "skilltrail.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
client:
  base_url: https://trail.example.com/api/v1
  timeout: 15s
server:
  addr: ":9000"
  jwt_secret: file-secret-0123456789
  cors_origins: [https://a.example]
llm:
  provider: openai
  openai:
    api_key: sk-file
`), 0o600))

	t.Setenv("SKILLTRAIL_ADDR", ":9100")
	t.Setenv("SKILLTRAIL_CORS_ORIGINS", "https://b.example, https://c.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://trail.example.com/api/v1", cfg.Client.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Client.Timeout)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model, "defaults survive partial sections")
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoad_BadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Client.BaseURL = "localhost:8000"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	assert.Error(t, cfg.ValidateServer(), "jwt secret is required")
	cfg.Server.JWTSecret = "0123456789abcdef"
	assert.NoError(t, cfg.ValidateServer())
	cfg.LLM.Provider = "bogus"
	assert.Error(t, cfg.ValidateServer())
}

func TestResolvePaths(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	require.NoError(t, cfg.ResolvePaths())
	assert.Equal(t, filepath.Join(dir, "config", "skilltrail", "token"), cfg.Client.TokenPath)
	assert.Equal(t, filepath.Join(dir, "state", "skilltrail", "skilltrail.log"), cfg.Log.Path)

	cfg.Client.TokenPath = "/tmp/explicit"
	require.NoError(t, cfg.ResolvePaths())
	assert.Equal(t, "/tmp/explicit", cfg.Client.TokenPath)
}
