// internal/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/camstream/camstreamd/internal/bmff"
	"github.com/camstream/camstreamd/internal/util"
)

// Rational is a frame period expressed as num/den seconds; framerate is
// den/num frames per second.
type Rational struct {
	Num uint32 `json:"num"`
	Den uint32 `json:"den"`
}

// Resolution is a pixel width/height pair.
type Resolution struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Config is an immutable snapshot of everything the capture/encode
// pipeline needs for one stream generation. A new Config mints a new
// generation; it is never mutated in place once validated.
type Config struct {
	Device      string            `json:"device"`
	FormatName  string            `json:"format"`
	Resolution  Resolution        `json:"resolution"`
	Interval    Rational          `json:"interval"`
	RotationDeg int               `json:"rotation_deg"`
	Controls    map[string]string `json:"controls"`

	Format   bmff.Format   `json:"-"`
	Rotation bmff.Rotation `json:"-"`
}

func Default() Config {
	return Config{
		Device:      "/dev/video0",
		FormatName:  "H264",
		Resolution:  Resolution{Width: 1280, Height: 720},
		Interval:    Rational{Num: 1, Den: 30},
		RotationDeg: 0,
		Controls:    map[string]string{},
	}
}

var formatByName = map[string]bmff.Format{
	"H264": bmff.FormatH264,
	"YUYV": bmff.FormatYUYV,
	"YV12": bmff.FormatYV12,
	"RGB3": bmff.FormatRGB3,
	"BGR3": bmff.FormatBGR3,
}

var rotationByDegrees = map[int]bmff.Rotation{
	0:   bmff.Rotate0,
	90:  bmff.Rotate90,
	180: bmff.Rotate180,
	270: bmff.Rotate270,
}

// Validate checks internal consistency and resolves FormatName/
// RotationDeg into their typed bmff equivalents. It does not check
// device serviceability; that is the capability package's job, applied
// against a separately-enumerated capability set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Device) == "" {
		return errors.New("device is required")
	}
	f, ok := formatByName[strings.ToUpper(c.FormatName)]
	if !ok {
		return fmt.Errorf("format %q is not one of H264, YUYV, YV12, RGB3, BGR3", c.FormatName)
	}
	c.Format = f
	if c.Resolution.Width == 0 || c.Resolution.Height == 0 {
		return errors.New("resolution width and height must both be positive")
	}
	if c.Interval.Num == 0 || c.Interval.Den == 0 {
		return errors.New("interval numerator and denominator must both be positive")
	}
	r, ok := rotationByDegrees[c.RotationDeg]
	if !ok {
		return fmt.Errorf("rotation_deg %d is not one of 0, 90, 180, 270", c.RotationDeg)
	}
	c.Rotation = r
	for name := range c.Controls {
		if strings.TrimSpace(name) == "" {
			return errors.New("controls keys must not be blank")
		}
	}
	return nil
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	// Start from defaults so missing JSON fields remain initialized.
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	return util.WriteJSONFile(path, cfg)
}

// Ensure loads config if it exists; otherwise creates a default config file.
// Returns (cfg, createdNew, err).
func Ensure(path string) (Config, bool, error) {
	if _, err := os.Stat(path); err == nil {
		cfg, err := Load(path)
		return cfg, false, err
	} else if !os.IsNotExist(err) {
		return Config{}, false, err
	}

	cfg := Default()
	if err := Save(path, cfg); err != nil {
		return Config{}, false, fmt.Errorf("create default config: %w", err)
	}
	return cfg, true, nil
}
