package icons

import (
	"math"
	"testing"

	"github.com/matzehuels/pngicons/pkg/errors"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		size          float64
		wantW, wantH  float64
	}{
		{"wide", 100, 50, 80, 80, 40},
		{"tall", 50, 100, 80, 40, 80},
		{"square takes height branch", 40, 40, 80, 80, 80},
		{"fractional", 30, 90, 80, 80.0 / 3.0, 80},
		{"upscale", 8, 4, 64, 64, 32},
		{"custom size", 120, 60, 48, 48, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := Fit(tt.width, tt.height, tt.size)
			if err != nil {
				t.Fatalf("Fit() error = %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Fit(%v, %v, %v) = %v, %v, want %v, %v", tt.width, tt.height, tt.size, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFitProperties(t *testing.T) {
	const size = 80.0
	for _, wh := range [][2]float64{{1, 2}, {2, 1}, {3, 3}, {17.5, 4.25}, {0.01, 900}, {640, 480}} {
		w, h, err := Fit(wh[0], wh[1], size)
		if err != nil {
			t.Fatalf("Fit(%v) error = %v", wh, err)
		}
		if wh[0] > wh[1] {
			if w != size || h != size*wh[1]/wh[0] {
				t.Errorf("Fit(%v) = %v, %v, want width-bound", wh, w, h)
			}
		} else {
			if h != size || w != size*wh[0]/wh[1] {
				t.Errorf("Fit(%v) = %v, %v, want height-bound", wh, w, h)
			}
		}
		if math.Max(w, h) != size {
			t.Errorf("Fit(%v) longer side = %v, want %v", wh, math.Max(w, h), size)
		}
	}
}

func TestFitInvalid(t *testing.T) {
	for _, wh := range [][2]float64{{0, 10}, {10, 0}, {-1, 5}, {math.NaN(), 1}, {math.Inf(1), 1}} {
		if _, _, err := Fit(wh[0], wh[1], 80); !errors.Is(err, errors.ErrCodeInvalidOutput) {
			t.Errorf("Fit(%v) error = %v, want INVALID_OUTPUT", wh, err)
		}
	}
}
