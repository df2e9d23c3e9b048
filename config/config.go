// Package config defines the settings file shared by the imgconv commands.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/legacyimage/logging"
	"go.viam.com/legacyimage/rimage"
	"go.viam.com/legacyimage/utils"
)

// DefaultOutputFormat is used when a config does not name one.
const DefaultOutputFormat = "png"

// DefaultDebounce is how long watch waits for a file to settle.
const DefaultDebounce = 250 * time.Millisecond

var outputFormats = map[string]string{
	"tga": utils.MimeTypeTGA,
	"png": utils.MimeTypePNG,
	"qoi": utils.MimeTypeQOI,
	"ppm": utils.MimeTypePPM,
	"bmp": utils.MimeTypeBMP,
}

// Interpolation names accepted by ResizeConfig.
const (
	InterpolationNearest  = "nearest"
	InterpolationBilinear = "bilinear"
	InterpolationLanczos3 = "lanczos3"
)

// Config describes how images are converted.
type Config struct {
	ConfigFilePath string `json:"-"`

	OutputFormat string        `json:"output_format,omitempty"`
	Resize       *ResizeConfig `json:"resize,omitempty"`
	Blur         *BlurConfig   `json:"blur,omitempty"`
	FlipH        bool          `json:"flip_h,omitempty"`
	FlipV        bool          `json:"flip_v,omitempty"`
	Parallelism  int           `json:"parallelism,omitempty"`
	Debug        bool          `json:"debug,omitempty"`
	Watch        *WatchConfig  `json:"watch,omitempty"`

	LogConfig []logging.LoggerPatternConfig `json:"log,omitempty"`
	LogFile   *LogFileConfig                `json:"log_file,omitempty"`
}

// Ensure applies defaults and validates every section.
func (c *Config) Ensure() error {
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultOutputFormat
	}
	c.OutputFormat = strings.ToLower(c.OutputFormat)
	if _, ok := outputFormats[c.OutputFormat]; !ok {
		return goutils.NewConfigValidationError("output_format",
			errors.Errorf("unknown format %q, expected one of %s", c.OutputFormat, strings.Join(OutputFormats(), ", ")))
	}
	if c.Parallelism < 0 {
		return goutils.NewConfigValidationError("parallelism", errors.New("must not be negative"))
	}
	if c.Parallelism == 0 {
		c.Parallelism = utils.ParallelFactor
	}
	if c.Resize != nil {
		if err := c.Resize.Validate("resize"); err != nil {
			return err
		}
	}
	if c.Blur != nil {
		if err := c.Blur.Validate("blur"); err != nil {
			return err
		}
	}
	if c.Watch != nil {
		if err := c.Watch.Validate("watch"); err != nil {
			return err
		}
	}
	if c.LogFile != nil {
		if err := c.LogFile.Validate("log_file"); err != nil {
			return err
		}
	}
	return validateLogConfig("log", c.LogConfig)
}

// MimeType returns the mime type of OutputFormat.
func (c *Config) MimeType() string {
	return outputFormats[strings.ToLower(c.OutputFormat)]
}

// OutputFormats lists the accepted output format names.
func OutputFormats() []string {
	return []string{"tga", "png", "qoi", "ppm", "bmp"}
}

// MimeTypeForFormat returns the mime type of an output format name.
func MimeTypeForFormat(format string) (string, bool) {
	mimeType, ok := outputFormats[strings.ToLower(format)]
	return mimeType, ok
}

// ResizeConfig scales images after decoding.
type ResizeConfig struct {
	Width         uint   `json:"width"`
	Height        uint   `json:"height"`
	Interpolation string `json:"interpolation,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (rc *ResizeConfig) Validate(path string) error {
	if rc.Width == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "width")
	}
	if rc.Height == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "height")
	}
	if rc.Width > rimage.MaxKernelDimension || rc.Height > rimage.MaxKernelDimension {
		return goutils.NewConfigValidationError(path, errors.Errorf("%dx%d is too large", rc.Width, rc.Height))
	}
	switch rc.Interpolation {
	case "":
		rc.Interpolation = InterpolationNearest
	case InterpolationNearest, InterpolationBilinear, InterpolationLanczos3:
	default:
		return goutils.NewConfigValidationError(path, errors.Errorf("unknown interpolation %q", rc.Interpolation))
	}
	return nil
}

// BlurConfig applies a box blur after resizing.
type BlurConfig struct {
	Size uint `json:"size"`
}

// Validate ensures all parts of the config are valid.
func (bc *BlurConfig) Validate(path string) error {
	if bc.Size == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "size")
	}
	if bc.Size >= rimage.MaxKernelDimension {
		return goutils.NewConfigValidationError(path, errors.Errorf("size %d is too large", bc.Size))
	}
	return nil
}

// WatchConfig drives the watch command.
type WatchConfig struct {
	Dirs       []string `json:"dirs"`
	OutDir     string   `json:"out_dir"`
	DebounceMs int      `json:"debounce_ms,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (wc *WatchConfig) Validate(path string) error {
	if len(wc.Dirs) == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "dirs")
	}
	for idx, dir := range wc.Dirs {
		if dir == "" {
			return goutils.NewConfigValidationFieldRequiredError(fmt.Sprintf("%s.%s.%d", path, "dirs", idx), "path")
		}
	}
	if wc.OutDir == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "out_dir")
	}
	if wc.DebounceMs < 0 {
		return goutils.NewConfigValidationError(path, errors.New("debounce_ms must not be negative"))
	}
	return nil
}

// Debounce returns the debounce interval, defaulting when unset.
func (wc *WatchConfig) Debounce() time.Duration {
	if wc.DebounceMs == 0 {
		return DefaultDebounce
	}
	return time.Duration(wc.DebounceMs) * time.Millisecond
}

// ParseDimensions parses "WIDTHxHEIGHT", for example "640x480".
func ParseDimensions(s string) (uint, uint, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, errors.Errorf("dimensions %q should look like 640x480", s)
	}
	width, err := strconv.ParseUint(w, 10, 32)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "bad width in %q", s)
	}
	height, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "bad height in %q", s)
	}
	if width == 0 || height == 0 {
		return 0, 0, errors.Errorf("dimensions %q must be positive", s)
	}
	return uint(width), uint(height), nil
}
