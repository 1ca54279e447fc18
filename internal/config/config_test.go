package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Файл unit-тестов для загрузки конфигурации (config.go).
//
// Проверяем приоритет источников (явный путь -> CONFIG_PATH -> ENV),
// значения по умолчанию и валидацию.
//
// Тесты с окружением не параллелятся: t.Setenv.

const validYAML = `
env: "dev"
http:
  host: "127.0.0.1"
  port: "8080"
upstream:
  base_url: "https://st.example.org/api"
  timeout: 5s
auth:
  secret: "test-secret"
limits:
  max_body_bytes: 1024
  max_threads: 50
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// TestLoad_ExplicitPath — явный путь имеет высший приоритет.
func TestLoad_ExplicitPath(t *testing.T) {
	path := writeConfig(t, validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr())
	require.Equal(t, "https://st.example.org/api", cfg.Upstream.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	require.Equal(t, 1024, cfg.Limits.MaxBodyBytes)
}

// TestLoad_Defaults — незаполненные поля получают дефолты.
func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
upstream:
  base_url: "https://st.example.org/api"
auth:
  secret: "s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "0.0.0.0:50070", cfg.HTTP.Addr())
	require.Equal(t, "0.0.0.0:50075", cfg.Metrics.Addr())
	require.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	require.Equal(t, "locreview", cfg.Auth.Issuer)
	require.Equal(t, 65536, cfg.Limits.MaxBodyBytes)
	require.Equal(t, 200, cfg.Limits.MaxThreads)
	require.Equal(t, 15*time.Second, cfg.Timeouts.Service)
}

// TestLoad_MissingExplicitPath — несуществующий явный путь это ошибка.
func TestLoad_MissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")
}

// TestLoad_ConfigPathEnv — CONFIG_PATH подхватывается без явного пути.
func TestLoad_ConfigPathEnv(t *testing.T) {
	path := writeConfig(t, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
}

// TestLoad_EnvOnly — без файлов конфигурация собирается из ENV.
func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("UPSTREAM_BASE_URL", "https://st.example.org/api")
	t.Setenv("AUTH_SECRET", "env-secret")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir())) // чтобы не зацепить ./local.yaml
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "https://st.example.org/api", cfg.Upstream.BaseURL)
	require.Equal(t, "env-secret", cfg.Auth.Secret)
}

// TestValidate — таблица ошибок валидации.
func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Upstream: UpstreamConfig{BaseURL: "https://x", Timeout: time.Second},
			Auth:     AuthConfig{Secret: "s"},
			Limits:   LimitsConfig{MaxBodyBytes: 1, MaxThreads: 1},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"ok", func(*Config) {}, ""},
		{"no_base_url", func(c *Config) { c.Upstream.BaseURL = "" }, "base_url"},
		{"bad_timeout", func(c *Config) { c.Upstream.Timeout = 0 }, "timeout"},
		{"no_secret", func(c *Config) { c.Auth.Secret = "" }, "secret"},
		{"bad_body_limit", func(c *Config) { c.Limits.MaxBodyBytes = 0 }, "max_body_bytes"},
		{"bad_threads_limit", func(c *Config) { c.Limits.MaxThreads = -1 }, "max_threads"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)

			err := cfg.validate()
			if tc.errSub == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errSub)
		})
	}
}
