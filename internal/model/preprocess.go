package model

import (
	"image"

	"github.com/nfnt/resize"
)

// Preprocess converts an image to the flat float32 tensor the model expects:
// resized to ImageSize x ImageSize with every channel scaled to [0,1], laid
// out NHWC or NCHW according to the input shape. Alpha is dropped.
func Preprocess(img image.Image, meta Metadata) []float32 {
	targetSize := uint(meta.ImageSize)
	resized := resize.Resize(targetSize, targetSize, img, resize.NearestNeighbor)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	plane := width * height

	channels := 3
	inputData := make([]float32, channels*plane)
	channelsFirst := meta.ChannelsFirst()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			rNorm := float32(r) / 65535.0
			gNorm := float32(g) / 65535.0
			bNorm := float32(b) / 65535.0

			pixelIndex := y*width + x
			if channelsFirst {
				inputData[pixelIndex] = rNorm
				inputData[plane+pixelIndex] = gNorm
				inputData[2*plane+pixelIndex] = bNorm
				continue
			}
			inputData[pixelIndex*channels] = rNorm
			inputData[pixelIndex*channels+1] = gNorm
			inputData[pixelIndex*channels+2] = bNorm
		}
	}

	return inputData
}
