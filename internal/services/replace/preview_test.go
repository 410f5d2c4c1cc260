package replace

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/Shimizu-Technology/pdf-replace/internal/testpdf"
)

func TestRenderPreviewPNG(t *testing.T) {
	data := testpdf.Build("BT /F1 12 Tf 72 720 Td (Premium) Tj ET")

	out, err := New().RenderPreview(data, 1)
	if err != nil {
		t.Fatalf("RenderPreview() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding preview: %v", err)
	}
	// US Letter at the fixed 2x preview scale.
	b := img.Bounds()
	if b.Dx() != 1224 || b.Dy() != 1584 {
		t.Errorf("preview size = %dx%d, want 1224x1584", b.Dx(), b.Dy())
	}
}

func TestRenderPreviewPageOutOfRange(t *testing.T) {
	data := testpdf.Build("BT /F1 12 Tf 72 720 Td (Premium) Tj ET")

	if _, err := New().RenderPreview(data, 2); err == nil {
		t.Error("RenderPreview(page 2 of 1) returned nil error")
	}
}

func TestRenderPreviewNotPDF(t *testing.T) {
	_, err := New().RenderPreview([]byte("plain text"), 1)
	if !errors.Is(err, ErrNotPDF) {
		t.Errorf("error = %v, want ErrNotPDF", err)
	}
}
