package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	defer viper.Reset()

	tests := []struct {
		name     string
		settings map[string]interface{}
		wantErr  string
	}{
		{name: "development defaults"},
		{
			name:     "unknown session store",
			settings: map[string]interface{}{"session.store": "mongo"},
			wantErr:  "session.store must be one of memory, redis or postgres",
		},
		{
			name:     "postgres without a sweep interval",
			settings: map[string]interface{}{"session.store": "postgres", "postgres.sweep_interval": "0s"},
			wantErr:  "postgres.sweep_interval must be positive",
		},
		{
			name:     "postgres",
			settings: map[string]interface{}{"session.store": "postgres"},
		},
		{
			name:     "production without secure cookies",
			settings: map[string]interface{}{"environment": "production", "auth.secret": "s"},
			wantErr:  "session.secure must be set in production",
		},
		{
			name:     "production with auth disabled",
			settings: map[string]interface{}{"environment": "production", "session.secure": true, "auth.disabled": true},
			wantErr:  "auth.disabled is not allowed in production",
		},
		{
			name:     "production without a verification key",
			settings: map[string]interface{}{"environment": "production", "session.secure": true},
			wantErr:  "auth.secret or auth.public_key must be set in production",
		},
		{
			name:     "production",
			settings: map[string]interface{}{"environment": "production", "session.secure": true, "auth.public_key": "/keys/idm.pem"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			setDefaults()
			for k, v := range tt.settings {
				viper.Set(k, v)
			}

			err := validateConfig()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigReadsFileAndEnvironment(t *testing.T) {
	defer viper.Reset()
	viper.Reset()

	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("listen_port: \"8181\"\nsession:\n  store: redis\n"), 0o600))
	t.Setenv("FES_ORCHESTRATION_URL", "http://orchestration:5500")

	require.NoError(t, loadConfig(file))

	assert.Equal(t, "8181", viper.GetString("listen_port"))
	assert.Equal(t, "redis", viper.GetString("session.store"))
	assert.Equal(t, "http://orchestration:5500", viper.GetString("orchestration_url"))
	assert.Equal(t, "fes_id_token", viper.GetString("auth.cookie_name"))
}

func TestLoadConfigFailsOnAMissingNamedFile(t *testing.T) {
	defer viper.Reset()
	viper.Reset()

	assert.Error(t, loadConfig(filepath.Join(t.TempDir(), "missing.yaml")))
}
