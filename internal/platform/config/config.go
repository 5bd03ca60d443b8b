package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Viewer holds the tunables consumed by the render and text pipelines.
// Everything here is externally supplied; the core never computes these.
type Viewer struct {
	// MaxTransmitPixels bounds the pixel count of a single transmitted
	// frame. Crops above it are downscaled before emission.
	MaxTransmitPixels int `yaml:"max_transmit_pixels" validate:"min=10000"`

	// MaxRenderPixels bounds the full-page rasterization area.
	MaxRenderPixels int `yaml:"max_render_pixels" validate:"min=10000"`

	// MaxRenderWidthPx caps the rasterized page width in pixels.
	MaxRenderWidthPx int `yaml:"max_render_width_px" validate:"min=512"`

	// CacheCapacity is the page bitmap cache entry bound, sized for
	// previous/current/next page locality.
	CacheCapacity int `yaml:"cache_capacity" validate:"min=1,max=16"`

	ZoomMinPercent  int `yaml:"zoom_min_percent" validate:"min=10"`
	ZoomMaxPercent  int `yaml:"zoom_max_percent" validate:"min=100,max=1600"`
	ZoomStepPercent int `yaml:"zoom_step_percent" validate:"min=1"`

	// FurnitureSampleDepth is how many leading pages are sampled when
	// detecting repeated headers and footers.
	FurnitureSampleDepth int `yaml:"furniture_sample_depth" validate:"min=2,max=50"`

	// FurnitureMajority is the fraction of sampled pages a line must
	// recur on to be classified as page furniture.
	FurnitureMajority float64 `yaml:"furniture_majority" validate:"gt=0,lte=1"`

	// WordGapEm is the inter-fragment horizontal gap, in em units of the
	// active font size, above which a space is inserted.
	WordGapEm float64 `yaml:"word_gap_em" validate:"gt=0"`

	// LineToleranceEm is the downward vertical movement, in em units,
	// above which a line break is emitted.
	LineToleranceEm float64 `yaml:"line_tolerance_em" validate:"gt=0"`
}

type Config struct {
	DataDir string   `yaml:"data_dir" validate:"required"`
	DBPath  string   `yaml:"-"`
	Roots   []string `yaml:"roots"`
	Viewer  Viewer   `yaml:"viewer"`
}

func Default(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		DBPath:  filepath.Join(dataDir, "bookshelf.db"),
		Viewer: Viewer{
			MaxTransmitPixels:    1_000_000,
			MaxRenderPixels:      16_000_000,
			MaxRenderWidthPx:     8192,
			CacheCapacity:        3,
			ZoomMinPercent:       50,
			ZoomMaxPercent:       400,
			ZoomStepPercent:      25,
			FurnitureSampleDepth: 5,
			FurnitureMajority:    0.5,
			WordGapEm:            0.2,
			LineToleranceEm:      0.5,
		},
	}
}

// New builds a Config rooted at dataDir, overlaying bookshelf.yaml from that
// directory when present.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Default(dataDir)

	path := filepath.Join(dataDir, "bookshelf.yaml")
	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.DataDir = dataDir
		cfg.DBPath = filepath.Join(dataDir, "bookshelf.db")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if c.Viewer.ZoomMinPercent > 100 || c.Viewer.ZoomMaxPercent < 100 {
		return fmt.Errorf("zoom bounds must bracket 100%%")
	}
	return nil
}
