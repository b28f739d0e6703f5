package display

import "github.com/Faultbox/midgard-relief/internal/engine/renderer"

// Letterbox returns clip-space scale factors that fit a frameW×frameH image
// inside a viewW×viewH viewport without distortion.
func Letterbox(frameW, frameH, viewW, viewH int) (sx, sy float32) {
	if frameW <= 0 || frameH <= 0 || viewW <= 0 || viewH <= 0 {
		return 1, 1
	}
	frameAspect := float32(frameW) / float32(frameH)
	viewAspect := float32(viewW) / float32(viewH)
	if viewAspect > frameAspect {
		return frameAspect / viewAspect, 1
	}
	return 1, viewAspect / frameAspect
}

// Fit places a frameW×frameH image inside a viewW×viewH area in pixels,
// letterboxed and centered. It returns the image's offset and size.
func Fit(frameW, frameH int, viewW, viewH float32) (x, y, w, h float32) {
	sx, sy := Letterbox(frameW, frameH, int(viewW), int(viewH))
	w, h = viewW*sx, viewH*sy
	return (viewW - w) / 2, (viewH - h) / 2, w, h
}

// Quantize converts img intensities into 8-bit texels in dst.
func Quantize(dst []uint8, img *renderer.Image) {
	gray := img.Gray()
	for y := range img.Height {
		copy(dst[y*img.Width:(y+1)*img.Width], gray.Pix[y*gray.Stride:])
	}
}
