package icons

import (
	"math"

	"github.com/matzehuels/pngicons/pkg/errors"
)

// DefaultSize is the default pixel length of an icon's longer side.
const DefaultSize = 80

// Fit scales a width x height box so its longer side equals size, keeping the
// aspect ratio. Only a strictly wider box is width-bound; a square is
// height-bound.
func Fit(width, height, size float64) (float64, float64, error) {
	if !(width > 0 && height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return 0, 0, errors.New(errors.ErrCodeInvalidOutput, "invalid natural size %vx%v", width, height)
	}
	if width > height {
		return size, size * height / width, nil
	}
	return size * width / height, size, nil
}
