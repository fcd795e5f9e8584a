package fsutil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// jpegQuality is the encoder setting for all artwork output.
const jpegQuality = 90

// ArtworkService prepares channel artwork for tag embedding.
//
// Feed images arrive in whatever size and format the publisher uploaded,
// often PNG and far larger than players display. The service scales them
// down to a configured bound and re-encodes them as JPEG so the embedded
// front cover stays small and widely readable.
//
//	svc := NewArtworkService()
//	scaled, _ := svc.Fit(ctx, artworkData, 1000)
//	jpg, _ := svc.ToJPEG(ctx, artworkData)
type ArtworkService struct{}

// NewArtworkService creates a new ArtworkService.
func NewArtworkService() *ArtworkService {
	return &ArtworkService{}
}

// Fit scales an image down so neither side exceeds maxEdge pixels,
// preserving aspect ratio, and returns it JPEG-encoded. Images already
// within the bound are not enlarged, only re-encoded.
//
// Catmull-Rom interpolation keeps detail through the downscale.
func (s *ArtworkService) Fit(ctx context.Context, data []byte, maxEdge int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode artwork: %w", err)
	}

	w, h := fitWithin(src.Bounds().Dx(), src.Bounds().Dy(), maxEdge)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	return encodeJPEG(dst)
}

// ToJPEG re-encodes an image as JPEG without changing its dimensions.
//
// ID3 front covers in JPEG play back reliably on far more devices than
// PNG, which is why conversion is on by default in the settings.
func (s *ArtworkService) ToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode artwork: %w", err)
	}

	return encodeJPEG(src)
}

// fitWithin computes scaled dimensions for a width x height image whose
// longer side must not exceed maxEdge. Dimensions already within the
// bound are returned unchanged.
func fitWithin(width, height, maxEdge int) (int, int) {
	long := width
	if height > long {
		long = height
	}
	if long <= maxEdge {
		return width, height
	}

	scale := float64(maxEdge) / float64(long)
	w := int(float64(width) * scale)
	h := int(float64(height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode artwork: %w", err)
	}
	return buf.Bytes(), nil
}
