package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

// pngDataURL encodes a solid-color image of the given width as a data URL
func pngDataURL(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestCompressEvidenceImageResizesWideImage(t *testing.T) {
	input := pngDataURL(t, 200, 100)

	out := CompressEvidenceImage(input, 50, 70)

	if !strings.HasPrefix(out, "data:image/jpeg;base64,") {
		t.Fatalf("Expected jpeg data URL, got prefix %q", out[:min(40, len(out))])
	}

	payload, ok := splitDataURL(out)
	if !ok {
		t.Fatal("Expected a parseable data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("Failed to decode output payload: %v", err)
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Failed to decode output image: %v", err)
	}
	if got := img.Bounds().Dx(); got != 50 {
		t.Errorf("Expected width 50 after resize, got %d", got)
	}
	// Aspect ratio preserved: 200x100 at width 50 gives height 25
	if got := img.Bounds().Dy(); got != 25 {
		t.Errorf("Expected height 25 after resize, got %d", got)
	}
}

func TestCompressEvidenceImagePassesThroughSmallImage(t *testing.T) {
	input := pngDataURL(t, 40, 40)

	if out := CompressEvidenceImage(input, 50, 70); out != input {
		t.Error("Expected image within maxWidth returned unchanged")
	}
}

func TestCompressEvidenceImagePassesThroughBadInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not a data url", "hello world"},
		{"wrong scheme", "data:text/plain;base64,aGVsbG8="},
		{"missing base64 marker", "data:image/png,rawbytes"},
		{"invalid base64", "data:image/png;base64,!!!not-base64!!!"},
		{"undecodable image", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if out := CompressEvidenceImage(tc.input, 50, 70); out != tc.input {
				t.Errorf("Expected input returned unchanged, got %q", out)
			}
		})
	}
}

func TestSplitDataURL(t *testing.T) {
	payload, ok := splitDataURL("data:image/jpeg;base64,AAAA")
	if !ok || payload != "AAAA" {
		t.Errorf("Expected payload AAAA, got %q ok=%v", payload, ok)
	}

	if _, ok := splitDataURL("data:application/pdf;base64,AAAA"); ok {
		t.Error("Expected non-image data URL rejected")
	}
	if _, ok := splitDataURL("data:image/jpeg,AAAA"); ok {
		t.Error("Expected data URL without base64 marker rejected")
	}
}
