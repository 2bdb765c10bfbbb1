package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

// First source to set a field wins; later sources only fill the gaps.
func TestBuild_FirstSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Namespace: "env"}},
		&StructuredConfig{App: App{Namespace: "flags", Version: "1.2.3"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.App.Namespace)
	assert.Equal(t, "1.2.3", cfg.App.Version)
}

func TestBuild_ValidatesBroadcastMode(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Broadcast: Broadcast{Mode: "carrier-pigeon"}})

	_, err := b.build()
	assert.ErrorIs(t, err, ErrInvalidBroadcastConfigs)
}

// ── withFlags / withJSON / withDefaults ───────────────────────────────────────

func TestWithFlags_NilArgsSkipped(t *testing.T) {
	b := newConfigBuilder().withFlags("client", nil)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

func TestWithFlags_InvalidFlagRecordsError(t *testing.T) {
	b := newConfigBuilder().withFlags("client", []string{"-unknown"})
	assert.Error(t, b.err)
}

func TestWithJSON_UsesPathFromEarlierSource(t *testing.T) {
	p := writeTempJSONConfig(t, `{"app":{"namespace":"from-json"}}`)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: p})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "from-json", b.configs[1].App.Namespace)
}

func TestWithJSON_MissingFileRecordsError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/does/not/exist.json"})
	b.withJSON()

	assert.Error(t, b.err)
}

func TestWithDefaults_FillsEverything(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, DefaultNamespace, cfg.App.Namespace)
	assert.Equal(t, DefaultCacheDSN, cfg.Storage.Cache.DSN)
	assert.Equal(t, 6*time.Second, cfg.Sync.FallbackTimeout)
	assert.Equal(t, DefaultChannel, cfg.Broadcast.Channel)
	assert.Equal(t, BroadcastMulticast, cfg.Broadcast.Mode)
}

// ── GetClientConfig / GetServerConfig ─────────────────────────────────────────

func TestGetClientConfig_FlagsOverJSONOverDefaults(t *testing.T) {
	p := writeTempJSONConfig(t, `{
		"app": {"namespace": "json-ns"},
		"sync": {"fallback_timeout": "3s", "grace_delay": "100ms"},
		"broadcast": {"mode": "hub"}
	}`)

	cfg, err := GetClientConfig([]string{"-c", p, "-namespace", "flag-ns", "-token", "tok"})
	require.NoError(t, err)

	assert.Equal(t, "flag-ns", cfg.Namespace)
	assert.Equal(t, "tok", cfg.Adapter.Token)
	assert.Equal(t, 3*time.Second, cfg.Sync.FallbackTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Sync.GraceDelay)
	assert.Equal(t, BroadcastHub, cfg.Broadcast.Mode)
	assert.Equal(t, DefaultCacheDSN, cfg.CacheDSN)
}

func TestGetClientConfig_EnvWins(t *testing.T) {
	t.Setenv("APP_NAMESPACE", "env-ns")

	cfg, err := GetClientConfig([]string{"-namespace", "flag-ns"})
	require.NoError(t, err)
	assert.Equal(t, "env-ns", cfg.Namespace)
}

func TestGetServerConfig_RequiresSignKey(t *testing.T) {
	_, err := GetServerConfig([]string{})
	assert.ErrorIs(t, err, ErrInvalidAuthConfigs)

	cfg, err := GetServerConfig([]string{"-token-sign-key", "secret", "-a", ":9090"})
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddress)
	assert.Equal(t, DefaultServerDSN, cfg.DSN)
	assert.Equal(t, DefaultTokenIssuer, cfg.Auth.TokenIssuer)
}
