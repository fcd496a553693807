package switcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestConfigLoad(t *testing.T) {
	path := writeConfigFile(t, `
include_names:
  - usb
  - bluez
include_descriptions:
  - (?i)headphones
exclude_names:
  - hdmi
exclude_descriptions:
  - Monitor of
`)

	cc, err := NewConfig(zap.NewNop().Sugar(), path)
	require.NoError(t, err)
	require.NoError(t, cc.Load())

	assert.Equal(t, []string{"usb", "bluez"}, cc.Patterns.IncludeNames)
	assert.Equal(t, []string{"(?i)headphones"}, cc.Patterns.IncludeDescriptions)
	assert.Equal(t, []string{"hdmi"}, cc.Patterns.ExcludeNames)
	assert.Equal(t, []string{"Monitor of"}, cc.Patterns.ExcludeDescriptions)
}

func TestConfigLoadAbsentFieldsDefaultEmpty(t *testing.T) {
	path := writeConfigFile(t, `
include_names:
  - usb
`)

	cc, err := NewConfig(zap.NewNop().Sugar(), path)
	require.NoError(t, err)
	require.NoError(t, cc.Load())

	assert.Equal(t, []string{"usb"}, cc.Patterns.IncludeNames)
	assert.Empty(t, cc.Patterns.IncludeDescriptions)
	assert.Empty(t, cc.Patterns.ExcludeNames)
	assert.Empty(t, cc.Patterns.ExcludeDescriptions)
}

func TestConfigLoadFiltersEmptyPatterns(t *testing.T) {
	path := writeConfigFile(t, `
include_names:
  - usb
  - ""
`)

	cc, err := NewConfig(zap.NewNop().Sugar(), path)
	require.NoError(t, err)
	require.NoError(t, cc.Load())

	assert.Equal(t, []string{"usb"}, cc.Patterns.IncludeNames)
}

func TestConfigLoadExplicitPathMustExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	cc, err := NewConfig(zap.NewNop().Sugar(), path)
	require.NoError(t, err)

	err = cc.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doesn't exist")
}

func TestConfigLoadInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "include_names: [unterminated\n")

	cc, err := NewConfig(zap.NewNop().Sugar(), path)
	require.NoError(t, err)

	assert.Error(t, cc.Load())
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, "pulse-switcher", filepath.Base(filepath.Dir(path)))
}
