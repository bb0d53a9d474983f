// Package ocr wraps the external OCR binary behind a narrow interface.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/hollis-dev/invoice-sentinel/internal/common"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		slog.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"error", err)
	} else {
		slog.Debug("exec ok",
			"cmd", name,
			"duration_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len())
	}

	return out.Bytes(), errb.Bytes(), err
}

// Reader extracts text from invoice images via tesseract.
type Reader struct {
	runner    Runner
	logger    *slog.Logger
	binary    string
	languages string
}

// New creates a reader that shells out to the given OCR binary.
func New(binary, languages string, logger *slog.Logger) *Reader {
	if binary == "" {
		binary = "tesseract"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		binary:    binary,
		languages: languages,
		runner:    execRunner{},
		logger:    logger,
	}
}

// Text runs OCR over the image at path and returns the recognized text.
func (r *Reader) Text(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout"}
	if r.languages != "" {
		args = append(args, "-l", r.languages)
	}

	stdout, stderr, err := r.runner.Run(ctx, r.binary, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", common.ErrOCRFailed, strings.TrimSpace(string(stderr)), err)
	}

	text := strings.TrimSpace(string(stdout))
	if text == "" {
		return "", common.ErrNoInvoiceText
	}

	r.logger.Debug("ocr completed", "path", path, "chars", len(text))
	return text, nil
}
