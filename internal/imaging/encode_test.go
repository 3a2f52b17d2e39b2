package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func decodeResult(t *testing.T, r *ImageResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(r.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	return img
}

func TestEncodePNG(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 12, 7))
	img.SetGray(3, 4, color.Gray{Y: 200})

	res, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if res.Width != 12 || res.Height != 7 || res.MimeType != "image/png" {
		t.Errorf("unexpected result header: %+v", res)
	}

	out := decodeResult(t, res)
	if r, _, _, _ := out.At(3, 4).RGBA(); r>>8 != 200 {
		t.Errorf("pixel (3,4): got %d, want 200", r>>8)
	}
}

func TestCrop(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 30))

	tests := []struct {
		name    string
		rect    image.Rectangle
		scale   float64
		wantW   int
		wantH   int
		wantErr bool
	}{
		{"inside", image.Rect(5, 5, 25, 15), 1, 20, 10, false},
		{"scaled up", image.Rect(0, 0, 10, 10), 2, 20, 20, false},
		{"zero scale keeps size", image.Rect(0, 0, 10, 6), 0, 10, 6, false},
		{"outside", image.Rect(30, 20, 50, 40), 1, 0, 0, true},
		{"empty", image.Rect(5, 5, 5, 10), 1, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Crop(img, tt.rect, tt.scale)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			if res.Width != tt.wantW || res.Height != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d", res.Width, res.Height, tt.wantW, tt.wantH)
			}
		})
	}
}
