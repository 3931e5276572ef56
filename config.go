package pirogue

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigName is the file name searched for by FindConfig.
const ConfigName = "pirogue.toml"

// Config holds settings loaded from a pirogue.toml file:
//
//	prompt = ">> "
//	memory = 64000
//	prelude = true
//	image = "session.img"
//	trace = false
//
//	[log]
//	verbosity = 1
//	file = "pirogue.log"
type Config struct {
	Prompt  string    `toml:"prompt"`
	Memory  int       `toml:"memory"`
	Prelude bool      `toml:"prelude"`
	Image   string    `toml:"image"`
	Trace   bool      `toml:"trace"`
	Log     LogConfig `toml:"log"`

	// Path is the file the config was loaded from, if any.
	Path string `toml:"-"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// DefaultConfig returns the settings used when no file is found.
func DefaultConfig() Config {
	return Config{
		Prompt: DefaultPrompt,
	}
}

// LoadConfig reads a config file over DefaultConfig. Unknown keys are an
// error. Relative image and log paths are resolved against the file's
// directory.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, ConfigError.Wrap(err, "cannot load config").WithProperty(PathProperty, path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return cfg, ConfigError.New("unknown keys: %v", strings.Join(keys, ", ")).
			WithProperty(PathProperty, path)
	}
	if cfg.Memory < 0 {
		return cfg, ConfigError.New("invalid memory capacity %v", cfg.Memory).
			WithProperty(PathProperty, path)
	}
	cfg.Path = path
	dir := filepath.Dir(path)
	cfg.Image = resolvePath(dir, cfg.Image)
	cfg.Log.File = resolvePath(dir, cfg.Log.File)
	return cfg, nil
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// FindConfig walks up from dir looking for a ConfigName file, returning its
// path, or "" if there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, ConfigName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Options returns the VM options described by the config.
func (cfg Config) Options() VMOption {
	return VMOptions(
		WithMemCapacity(cfg.Memory),
		WithPrelude(cfg.Prelude),
	)
}
