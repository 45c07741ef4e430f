// Package config loads scantables settings.
//
// Values are resolved in this order, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a YAML file (see [Load])
//  3. environment variables
//
// Command line flags are applied on top by the caller.
//
// Example file:
//
//	inputs:
//	  - statements/balance_2023.pdf
//	max_pages: 1
//	raster:
//	  dpi: 200
//	  pdftoppm: /usr/bin/pdftoppm
//	ocr:
//	  languages: [spa, eng]
//	  tessdata_prefix: /usr/share/tesseract-ocr/5/tessdata
//	tables:
//	  min_confidence: 60
//	  row_tolerance: 10
//	output:
//	  format: csv
//	  encoding: utf-8-sig
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/JennaRuan/scantables/imaging"
	"github.com/JennaRuan/scantables/ocr"
	"github.com/JennaRuan/scantables/output"
	"github.com/JennaRuan/scantables/raster"
	"github.com/JennaRuan/scantables/tables"
)

// Config is the complete run configuration
type Config struct {
	Inputs   []string `yaml:"inputs"`
	Workers  int      `yaml:"workers"`
	MaxPages int      `yaml:"max_pages"` // 0 processes every page

	Raster  Raster  `yaml:"raster"`
	Imaging Imaging `yaml:"imaging"`
	OCR     OCR     `yaml:"ocr"`
	Tables  Tables  `yaml:"tables"`
	Output  Output  `yaml:"output"`
	Log     Log     `yaml:"log"`
}

// Raster configures page rendering
type Raster struct {
	Backend  string `yaml:"backend"`
	DPI      int    `yaml:"dpi"`
	Pdftoppm string `yaml:"pdftoppm"`
	TempDir  string `yaml:"temp_dir"`
}

// Imaging configures image enhancement
type Imaging struct {
	Scale             float64 `yaml:"scale"`
	ClipLimit         float64 `yaml:"clip_limit"`
	TileGridX         int     `yaml:"tile_grid_x"`
	TileGridY         int     `yaml:"tile_grid_y"`
	BilateralDiameter int     `yaml:"bilateral_diameter"`
	SigmaColor        float64 `yaml:"sigma_color"`
	SigmaSpace        float64 `yaml:"sigma_space"`
	ThresholdMethod   string  `yaml:"threshold_method"`
	BlockSize         int     `yaml:"block_size"`
	ThresholdC        float64 `yaml:"threshold_c"`
	CloseSize         int     `yaml:"close_size"`
	DebugDir          string  `yaml:"debug_dir"` // Writes intermediate images when set
}

// OCR configures text recognition
type OCR struct {
	Engine         string            `yaml:"engine"`
	Binary         string            `yaml:"binary"`
	Languages      []string          `yaml:"languages"`
	PageSegMode    int               `yaml:"psm"`
	EngineMode     int               `yaml:"oem"`
	TessdataPrefix string            `yaml:"tessdata_prefix"`
	Variables      map[string]string `yaml:"variables"`
}

// Tables configures table reconstruction
type Tables struct {
	MinConfidence   int    `yaml:"min_confidence"`
	RowTolerance    int    `yaml:"row_tolerance"`
	Alignment       string `yaml:"alignment"`
	ColumnTolerance int    `yaml:"column_tolerance"`
}

// Output configures result files
type Output struct {
	Format   string `yaml:"format"`
	Encoding string `yaml:"encoding"`
	Dir      string `yaml:"dir"`
}

// Log configures console logging
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration
func Default() Config {
	img := imaging.DefaultConfig()
	oc := ocr.DefaultConfig()
	tc := tables.DefaultConfig()
	ro := raster.DefaultOptions()
	oo := output.DefaultOptions()

	return Config{
		Workers:  1,
		MaxPages: ro.MaxPages,
		Raster: Raster{
			Backend:  raster.BackendPoppler,
			DPI:      ro.DPI,
			Pdftoppm: "pdftoppm",
		},
		Imaging: Imaging{
			Scale:             img.Scale,
			ClipLimit:         img.ClipLimit,
			TileGridX:         img.TileGridX,
			TileGridY:         img.TileGridY,
			BilateralDiameter: img.BilateralDiameter,
			SigmaColor:        img.SigmaColor,
			SigmaSpace:        img.SigmaSpace,
			ThresholdMethod:   img.ThresholdMethod.String(),
			BlockSize:         img.BlockSize,
			ThresholdC:        img.ThresholdC,
			CloseSize:         img.CloseSize,
		},
		OCR: OCR{
			Engine:      ocr.EngineTesseract,
			Binary:      oc.Binary,
			Languages:   oc.Languages,
			PageSegMode: int(oc.PageSegMode),
			EngineMode:  int(oc.EngineMode),
		},
		Tables: Tables{
			MinConfidence:   tc.MinConfidence,
			RowTolerance:    tc.RowTolerance,
			Alignment:       tc.Alignment.String(),
			ColumnTolerance: tc.ColumnTolerance,
		},
		Output: Output{
			Format:   string(oo.Format),
			Encoding: string(oo.Encoding),
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode unmarshals YAML on top of cfg. Unknown keys are rejected.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks every section
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.MaxPages < 0 {
		errs = append(errs, fmt.Errorf("max_pages must not be negative, got %d", c.MaxPages))
	}
	if _, err := raster.New(c.Raster.Backend, c.RasterConfig(), nil); err != nil {
		errs = append(errs, err)
	}
	if err := c.RasterOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ImagingConfig(); err != nil {
		errs = append(errs, err)
	}
	if err := c.OCRConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.OCR.Engine != "" && c.OCR.Engine != ocr.EngineTesseract && c.OCR.Engine != ocr.EngineGosseract {
		errs = append(errs, fmt.Errorf("%w: %q", ocr.ErrUnknownEngine, c.OCR.Engine))
	}
	if _, err := c.TablesConfig(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.OutputOptions(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// RasterConfig returns the backend settings
func (c Config) RasterConfig() raster.Config {
	return raster.Config{Pdftoppm: c.Raster.Pdftoppm, TempDir: c.Raster.TempDir}
}

// RasterOptions returns the page selection, starting at page 1
func (c Config) RasterOptions() raster.Options {
	return raster.Options{DPI: c.Raster.DPI, FirstPage: 1, MaxPages: c.MaxPages}
}

// ImagingConfig converts and validates the enhancement settings
func (c Config) ImagingConfig() (imaging.Config, error) {
	method, err := imaging.ParseAdaptiveMethod(c.Imaging.ThresholdMethod)
	if err != nil {
		return imaging.Config{}, err
	}
	ic := imaging.Config{
		Scale:             c.Imaging.Scale,
		ClipLimit:         c.Imaging.ClipLimit,
		TileGridX:         c.Imaging.TileGridX,
		TileGridY:         c.Imaging.TileGridY,
		BilateralDiameter: c.Imaging.BilateralDiameter,
		SigmaColor:        c.Imaging.SigmaColor,
		SigmaSpace:        c.Imaging.SigmaSpace,
		ThresholdMethod:   method,
		BlockSize:         c.Imaging.BlockSize,
		ThresholdC:        c.Imaging.ThresholdC,
		CloseSize:         c.Imaging.CloseSize,
	}
	return ic, ic.Validate()
}

// OCRConfig converts the recognition settings. The DPI hint follows the
// rendering resolution scaled by the enhancement factor.
func (c Config) OCRConfig() ocr.Config {
	dpi := c.Raster.DPI
	if c.Imaging.Scale > 0 && c.Imaging.Scale != 1 {
		dpi = int(float64(dpi) * c.Imaging.Scale)
	}
	return ocr.Config{
		Languages:      c.OCR.Languages,
		PageSegMode:    ocr.PageSegMode(c.OCR.PageSegMode),
		EngineMode:     ocr.EngineMode(c.OCR.EngineMode),
		TessdataPrefix: c.OCR.TessdataPrefix,
		Binary:         c.OCR.Binary,
		DPI:            dpi,
		Variables:      c.OCR.Variables,
	}
}

// TablesConfig converts and validates the reconstruction settings
func (c Config) TablesConfig() (tables.Config, error) {
	align, err := tables.ParseAlignment(c.Tables.Alignment)
	if err != nil {
		return tables.Config{}, err
	}
	tc := tables.Config{
		MinConfidence:   c.Tables.MinConfidence,
		RowTolerance:    c.Tables.RowTolerance,
		Alignment:       align,
		ColumnTolerance: c.Tables.ColumnTolerance,
	}
	return tc, tc.Validate()
}

// OutputOptions converts and validates the output settings
func (c Config) OutputOptions() (output.Options, error) {
	format, err := output.ParseFormat(c.Output.Format)
	if err != nil {
		return output.Options{}, err
	}
	enc, err := output.ParseEncoding(c.Output.Encoding)
	if err != nil {
		return output.Options{}, err
	}
	opts := output.DefaultOptions()
	opts.Format = format
	opts.Encoding = enc
	opts.OutputDir = c.Output.Dir
	return opts, nil
}
