package images

import (
	"fmt"
	"image"
)

// Intensity is the raw output of a WSQ decoder: one 8-bit sample per
// pixel, row-major.
type Intensity struct {
	Width  int
	Height int
	Pix    []byte
}

// Validate checks the buffer holds exactly Width*Height samples.
func (in *Intensity) Validate() error {
	if in.Width <= 0 || in.Height <= 0 {
		return fmt.Errorf("invalid intensity dimensions %dx%d", in.Width, in.Height)
	}
	if len(in.Pix) != in.Width*in.Height {
		return fmt.Errorf("intensity buffer holds %d samples, want %d", len(in.Pix), in.Width*in.Height)
	}
	return nil
}

// Luma is the grayscale value of an RGB triple with the 0.299/0.587/0.114
// weights, truncated.
func Luma(r, g, b uint8) uint8 {
	return uint8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
}

// SampleChannels reads an 8-bit intensity sample as a sign-extended 32-bit
// ARGB pixel and returns its R, G and B channels. Samples below 0x80 carry
// only blue; samples from 0x80 up have R and G saturated at 0xFF.
func SampleChannels(v uint8) (r, g, b uint8) {
	p := int32(int8(v))
	return uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// GrayFromIntensity derives a single-channel raster from WSQ intensity
// data by running the channels of every sample, as read by SampleChannels,
// through Luma. Dark samples come out darker, e.g. 60 maps to 6, and
// bright samples are lifted, e.g. 200 maps to 248.
func GrayFromIntensity(in *Intensity) (*image.Gray, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	gray := image.NewGray(image.Rect(0, 0, in.Width, in.Height))
	for i, v := range in.Pix {
		gray.Pix[i] = Luma(SampleChannels(v))
	}
	return gray, nil
}
