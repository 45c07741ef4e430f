package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by Load
const (
	EnvPdftoppm       = "SCANTABLES_PDFTOPPM"
	EnvTesseract      = "SCANTABLES_TESSERACT"
	EnvTessdataPrefix = "TESSDATA_PREFIX"
	EnvLanguages      = "SCANTABLES_LANGUAGES"
	EnvOutputDir      = "SCANTABLES_OUTPUT_DIR"
	EnvWorkers        = "SCANTABLES_WORKERS"
	EnvLogLevel       = "SCANTABLES_LOG_LEVEL"
)

// GetEnv reads an environment variable or returns fallback when it is unset
// or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func applyEnv(c *Config) error {
	c.Raster.Pdftoppm = GetEnv(EnvPdftoppm, c.Raster.Pdftoppm)
	c.OCR.Binary = GetEnv(EnvTesseract, c.OCR.Binary)
	c.OCR.TessdataPrefix = GetEnv(EnvTessdataPrefix, c.OCR.TessdataPrefix)
	c.Output.Dir = GetEnv(EnvOutputDir, c.Output.Dir)
	c.Log.Level = GetEnv(EnvLogLevel, c.Log.Level)

	if v := os.Getenv(EnvLanguages); v != "" {
		c.OCR.Languages = SplitLanguages(v)
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return nil
}

// SplitLanguages accepts "spa+eng", "spa,eng" or "spa eng"
func SplitLanguages(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '+' || r == ',' || r == ' ' || r == '\t'
	})
}
