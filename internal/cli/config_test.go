package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetPersistsOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRASHTRACKK_CONFIG_DIR", dir)
	t.Setenv("TRASHTRACKK_API", "")

	_, stderr, err := runCLI(t, []string{"config", "set", "--api-base", "http://10.0.0.5:3000/api/"})
	require.NoError(t, err, "stderr: %s", stderr)

	_, _, err = runCLI(t, []string{"config", "set", "--camera-command", "termux-camera-photo"})
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	var stored map[string]any
	require.NoError(t, json.Unmarshal(b, &stored))

	// Second set must not clobber the first field; trailing slash trimmed.
	assert.Equal(t, "http://10.0.0.5:3000/api", stored["apiBase"])
	assert.Equal(t, "termux-camera-photo", stored["cameraCommand"])
}

func TestConfigShowResolvedAppliesOverrides(t *testing.T) {
	t.Setenv("TRASHTRACKK_CONFIG_DIR", t.TempDir())
	t.Setenv("TRASHTRACKK_API", "")

	stdout, _, err := runCLI(t, []string{"config", "show", "--resolved", "--api", "http://override:9/api"})
	require.NoError(t, err)

	var env struct {
		Data struct {
			Config struct {
				APIBase   string `json:"apiBase"`
				PhotosDir string `json:"photosDir"`
			} `json:"config"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(stdout, &env))
	assert.Equal(t, "http://override:9/api", env.Data.Config.APIBase)
	assert.NotEmpty(t, env.Data.Config.PhotosDir)
}

func TestConfigShowUnresolvedIsStoredView(t *testing.T) {
	t.Setenv("TRASHTRACKK_CONFIG_DIR", t.TempDir())

	stdout, _, err := runCLI(t, []string{"config", "show"})
	require.NoError(t, err)

	var env struct {
		Data struct {
			Config map[string]any `json:"config"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(stdout, &env))
	// No file yet: the stored view is empty, no defaults injected.
	assert.Empty(t, env.Data.Config)
}
