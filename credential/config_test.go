package credential_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp301415/quivr/credential"
	"github.com/sp301415/quivr/syntax"
)

func TestParseConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := credential.ParseConfig([]byte("{}"))
		require.NoError(t, err)

		params := cfg.Parameters()
		assert.Equal(t, credential.DefaultParametersLiteral, params.Literal())
		assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	})

	t.Run("Explicit", func(t *testing.T) {
		cfg, err := credential.ParseConfig([]byte(`
workers: 3
parallel: false
max_data_length: 512
log_level: debug
`))
		require.NoError(t, err)

		params := cfg.Parameters()
		assert.Equal(t, 3, params.Workers())
		assert.False(t, params.Parallel())
		assert.Equal(t, 512, params.MaxDataLength())
		assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	})

	t.Run("Invalid", func(t *testing.T) {
		for name, content := range map[string]string{
			"Yaml":     "workers: [",
			"Workers":  "workers: -1",
			"LogLevel": "log_level: loud",
		} {
			t.Run(name, func(t *testing.T) {
				_, err := credential.ParseConfig([]byte(content))
				assert.Error(t, err)
			})
		}
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_data_length: 64\n"), 0o600))

	cfg, err := credential.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxDataLength)
	assert.Equal(t, credential.DefaultParametersLiteral.Workers, cfg.Workers)

	_, err = credential.LoadConfig("")
	assert.Error(t, err)
	_, err = credential.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParametersCompile(t *testing.T) {
	assert.Panics(t, func() { credential.ParametersLiteral{Workers: -1, MaxDataLength: 1}.Compile() })
	assert.Panics(t, func() { credential.ParametersLiteral{}.Compile() })
	assert.NotPanics(t, func() { credential.DefaultParametersLiteral.Compile() })
	assert.Equal(t, syntax.DefaultMaxDataLength, credential.DefaultParametersLiteral.Compile().MaxDataLength())
}
