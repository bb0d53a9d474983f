package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	err    error
	stdout string
	stderr string
	name   string
	args   []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.name = name
	s.args = args
	return []byte(s.stdout), []byte(s.stderr), s.err
}

func TestReader_Text(t *testing.T) {
	runner := &stubRunner{stdout: "INVOICE #42\noffice chairs  4  120.50\n"}
	r := New("tesseract", "eng", nil)
	r.runner = runner

	text, err := r.Text(context.Background(), "invoice.png")

	require.NoError(t, err)
	assert.Equal(t, "INVOICE #42\noffice chairs  4  120.50", text)
	assert.Equal(t, "tesseract", runner.name)
	assert.Equal(t, []string{"invoice.png", "stdout", "-l", "eng"}, runner.args)
}

func TestReader_TextOmitsLanguageFlagWhenUnset(t *testing.T) {
	runner := &stubRunner{stdout: "text"}
	r := New("", "", nil)
	r.runner = runner

	_, err := r.Text(context.Background(), "invoice.png")

	require.NoError(t, err)
	assert.Equal(t, []string{"invoice.png", "stdout"}, runner.args)
}

func TestReader_TextCommandFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("exit status 1"), stderr: "cannot open input file"}
	r := New("tesseract", "", nil)
	r.runner = runner

	_, err := r.Text(context.Background(), "missing.png")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrOCRFailed)
	assert.Contains(t, err.Error(), "cannot open input file")
}

func TestReader_TextEmptyOutput(t *testing.T) {
	runner := &stubRunner{stdout: "   \n"}
	r := New("tesseract", "", nil)
	r.runner = runner

	_, err := r.Text(context.Background(), "blank.png")

	assert.ErrorIs(t, err, common.ErrNoInvoiceText)
}
