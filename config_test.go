package pirogue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func Test_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigName)
	writeFile(t, path, lines(
		`prompt = "pg> "`,
		`memory = 128`,
		`prelude = true`,
		`image = "session.img"`,
		`trace = true`,
		``,
		`[log]`,
		`verbosity = 2`,
		`file = "/var/log/pirogue.log"`,
	))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Prompt:  "pg> ",
		Memory:  128,
		Prelude: true,
		Image:   filepath.Join(dir, "session.img"),
		Trace:   true,
		Log: LogConfig{
			Verbosity: 2,
			File:      "/var/log/pirogue.log",
		},
		Path: path,
	}, cfg)

	vm := New(cfg.Options())
	assert.Equal(t, 128, vm.Memory().Cap())
	assert.Contains(t, vm.Words(), "sq")
}

func Test_LoadConfig_defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigName)
	writeFile(t, path, "")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPrompt, cfg.Prompt)
	assert.Equal(t, "", cfg.Image)

	vm := New(cfg.Options())
	assert.Equal(t, 64000, vm.Memory().Cap())
	assert.Empty(t, vm.Words())
}

func Test_LoadConfig_errors(t *testing.T) {
	dir := t.TempDir()
	for _, tc := range []struct {
		name    string
		content string
	}{
		{"syntax", `prompt = `},
		{"unknown key", lines(`prompt = "> "`, `colour = "red"`)},
		{"unknown section key", lines(`[log]`, `level = 3`)},
		{"wrong type", `memory = "lots"`},
		{"negative memory", `memory = -1`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".toml")
			writeFile(t, path, tc.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.True(t, errorx.IsOfType(err, ConfigError), "expected config error, got %v", err)
			where, _ := errorx.ExtractProperty(err, PathProperty)
			assert.Equal(t, path, where)
		})
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.True(t, errorx.IsOfType(err, ConfigError), "expected config error, got %v", err)
}

func Test_FindConfig(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := FindConfig(nested)
	require.NoError(t, err)
	assert.NotEqual(t, filepath.Join(dir, ConfigName), path)

	writeFile(t, filepath.Join(dir, ConfigName), `prompt = "> "`)
	path, err = FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigName), path)

	writeFile(t, filepath.Join(dir, "a", ConfigName), `prompt = "a> "`)
	path, err = FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", ConfigName), path)
}
