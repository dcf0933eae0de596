package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Fepozopo/fusion/pkg/fusion"
	"github.com/Fepozopo/fusion/pkg/graph"
	"github.com/Fepozopo/fusion/pkg/magick"
	"github.com/Fepozopo/fusion/pkg/stdimg"
)

const (
	defaultUpdateRepo = "Fepozopo/fusion"
	backendStd        = "stdimg"
	backendMagick     = "magick"
)

// Config holds the runtime settings. Values come from the environment,
// optionally seeded from a .env file, and flags override them.
type Config struct {
	Variant      string
	LogLevel     string
	Backend      string
	UpdateRepo   string
	PreviewDebug bool
}

// LoadConfig reads .env (or the given files) into the environment without
// overriding variables that are already set, then collects the settings.
func LoadConfig(files ...string) Config {
	// a missing .env is fine
	_ = godotenv.Load(files...)

	cfg := Config{
		Variant:    os.Getenv("FUSION_VARIANT"),
		LogLevel:   os.Getenv("FUSION_LOG_LEVEL"),
		Backend:    os.Getenv("FUSION_BACKEND"),
		UpdateRepo: os.Getenv("FUSION_UPDATE_REPO"),
	}
	switch strings.ToLower(os.Getenv("PREVIEW_DEBUG")) {
	case "1", "true", "yes":
		cfg.PreviewDebug = true
	}
	if cfg.Variant == "" {
		cfg.Variant = fusion.ColorLightingFusion.Name
	}
	if cfg.Backend == "" {
		cfg.Backend = backendStd
	}
	if cfg.UpdateRepo == "" {
		cfg.UpdateRepo = defaultUpdateRepo
	}
	return cfg
}

// NewLogger returns a text logger at the named level, or nil when level is
// empty so the library default stays silent.
func NewLogger(level string, w io.Writer) (*slog.Logger, error) {
	if strings.TrimSpace(level) == "" {
		return nil, nil
	}
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})), nil
}

// Catalog returns the operator catalog for the named backend.
func Catalog(backend string) (graph.Catalog, error) {
	switch strings.ToLower(backend) {
	case "", backendStd:
		return stdimg.Operators(), nil
	case backendMagick:
		if !magick.Available() {
			return nil, fmt.Errorf("backend %q requires a build with -tags imagick", backend)
		}
		return stdimg.Operators().Override(magick.Operators()), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
