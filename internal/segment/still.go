package segment

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/gift"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ayusman/fingercount/internal/geometry"
)

// StillConfig holds the mask parameters for a single photo, where no
// background model is available.
type StillConfig struct {
	// BlurSigma is the Gaussian blur sigma; 0 disables blurring.
	BlurSigma float32
	// ThresholdPercent is the brightness (0-100) above which a pixel is hand.
	ThresholdPercent float32
	// Invert treats dark pixels as hand.
	Invert bool
}

// DefaultStillConfig returns a StillConfig for a bright hand on a dark background.
func DefaultStillConfig() StillConfig {
	return StillConfig{
		BlurSigma:        1.5,
		ThresholdPercent: 50,
	}
}

// LoadImage decodes a PNG, JPEG, BMP, TIFF or WebP file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// MaskImage converts img to a black and white silhouette.
func MaskImage(img image.Image, cfg StillConfig) *image.Gray {
	filters := []gift.Filter{gift.Grayscale()}
	if cfg.BlurSigma > 0 {
		filters = append(filters, gift.GaussianBlur(cfg.BlurSigma))
	}
	filters = append(filters, gift.Threshold(cfg.ThresholdPercent))
	if cfg.Invert {
		filters = append(filters, gift.Invert())
	}

	g := gift.New(filters...)
	mask := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(mask, img)
	return mask
}

// SegmentStill masks img and extracts its largest contour.
func SegmentStill(img image.Image, cfg StillConfig) (*Result, error) {
	if img.Bounds().Empty() {
		return nil, ErrEmptyFrame
	}

	mask, err := gocv.ImageGrayToMatGray(MaskImage(img, cfg))
	if err != nil {
		return nil, err
	}

	result := &Result{Mask: mask}

	contours := gocv.FindContours(mask, gocv.RetrievalTree, gocv.ChainApproxTC89L1)
	defer contours.Close()

	all := make([][]image.Point, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		all[i] = contours.At(i).ToPoints()
	}

	largest, ok := LargestContour(all)
	if !ok {
		return result, ErrNoContour
	}

	result.Contour = geometry.FromImagePoints(largest)
	return result, nil
}
