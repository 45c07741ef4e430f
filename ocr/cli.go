package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sort"
	"strconv"

	"github.com/JennaRuan/scantables/internal/runner"
	"github.com/JennaRuan/scantables/model"
)

// CLI runs the tesseract executable once per image. The image is passed as
// PNG on stdin and TSV is read from stdout, so no temporary files are used.
type CLI struct {
	config Config
	runner runner.Runner
}

// NewCLI creates a tesseract CLI engine. A nil runner uses os/exec.
func NewCLI(config Config, r runner.Runner) (*CLI, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Binary == "" {
		config.Binary = "tesseract"
	}
	if r == nil {
		r = runner.New()
	}
	return &CLI{config: config, runner: r}, nil
}

// Name returns the engine name
func (e *CLI) Name() string { return EngineTesseract }

// Command returns the command Recognize runs, without stdin
func (e *CLI) Command() runner.Command {
	c := e.config
	args := []string{
		"stdin", "stdout",
		"--oem", strconv.Itoa(int(c.EngineMode)),
		"--psm", strconv.Itoa(int(c.PageSegMode)),
		"-l", c.Language(),
	}
	if c.DPI > 0 {
		args = append(args, "--dpi", strconv.Itoa(c.DPI))
	}

	keys := make([]string, 0, len(c.Variables))
	for k := range c.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-c", k+"="+c.Variables[k])
	}
	args = append(args, "tsv")

	cmd := runner.Command{Name: c.Binary, Args: args}
	if c.TessdataPrefix != "" {
		cmd.Env = []string{"TESSDATA_PREFIX=" + c.TessdataPrefix}
	}
	return cmd
}

// Recognize runs tesseract on img
func (e *CLI) Recognize(ctx context.Context, img image.Image) ([]model.Token, error) {
	if img == nil {
		return nil, ErrNoImage
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image for tesseract: %w", err)
	}

	cmd := e.Command()
	cmd.Stdin = &buf

	out, _, err := e.runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w", err)
	}

	tokens, err := ParseTSV(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w", err)
	}
	return tokens, nil
}
