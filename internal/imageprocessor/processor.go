package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

// ImageSize represents a fixed output size
type ImageSize struct {
	Width  int
	Height int
}

var (
	// SizeUserPhoto - квадратная аватарка пользователя
	SizeUserPhoto = ImageSize{Width: 500, Height: 500}
	// SizeTourCover - обложка тура 3:2
	SizeTourCover = ImageSize{Width: 2000, Height: 1333}
)

// Processor handles image processing operations
type Processor struct {
	quality int // JPEG quality (1-100)
}

// NewProcessor creates a new image processor
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	return &Processor{
		quality: quality,
	}
}

// Process decodes an image, resizes it to the exact target size
// (center-crop to the target aspect ratio, then scale) and encodes
// the result as JPEG. Все загруженные изображения нормализуются
// к одному формату и качеству.
func (p *Processor) Process(reader io.Reader, size ImageSize) (io.Reader, error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img, size.Width, size.Height)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	return &buf, nil
}

// resize crops the source to the target aspect ratio (centered) and
// scales it to exactly maxWidth x maxHeight
func (p *Processor) resize(img image.Image, width, height int) image.Image {
	src := cropToRatio(img, width, height)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)

	return dst
}

// cropToRatio возвращает центрированный прямоугольник исходного
// изображения с нужным соотношением сторон
func cropToRatio(img image.Image, width, height int) image.Rectangle {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	targetRatio := float64(width) / float64(height)
	srcRatio := float64(srcW) / float64(srcH)

	cropW := srcW
	cropH := srcH
	if srcRatio > targetRatio {
		cropW = int(float64(srcH) * targetRatio)
	} else {
		cropH = int(float64(srcW) / targetRatio)
	}

	x0 := bounds.Min.X + (srcW-cropW)/2
	y0 := bounds.Min.Y + (srcH-cropH)/2

	return image.Rect(x0, y0, x0+cropW, y0+cropH)
}

// IsValidImage checks if the reader contains a valid image
func IsValidImage(reader io.Reader) bool {
	_, _, err := image.Decode(reader)
	return err == nil
}
