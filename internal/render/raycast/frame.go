package raycast

import (
	"fmt"
	"image"
	"image/color"
)

// Strip is a vertical run of floor or ceiling in one column
type Strip struct {
	Top     int
	Bottom  int // Exclusive
	Color   color.RGBA
	Visible bool
}

// Column is the rendered description of one screen column. WallTop and
// WallBottom may lie outside the screen for walls closer than one unit.
type Column struct {
	X          int
	WallTop    int
	WallBottom int // Exclusive
	Wall       color.RGBA
	Distance   float64 // Fisheye-corrected distance to the wall
	Vertical   bool
	Ceiling    Strip
	Floor      Strip
}

// Frame is one rendered view, one Column per screen column
type Frame struct {
	Width   int
	Height  int
	Columns []Column
}

func gray(v int) color.RGBA {
	u := uint8(v)
	return color.RGBA{u, u, u, 255}
}

// Rasterize writes the frame as RGBA pixels with a stride of Width*4.
// Rows not covered by any strip are black.
func (f *Frame) Rasterize(pix []byte) error {
	stride := f.Width * 4
	if len(pix) < stride*f.Height {
		return fmt.Errorf("pixel buffer too small: have %d bytes, need %d", len(pix), stride*f.Height)
	}

	black := color.RGBA{0, 0, 0, 255}
	for _, c := range f.Columns {
		off := c.X * 4
		top := clampRow(c.WallTop, f.Height)
		bottom := clampRow(c.WallBottom, f.Height)

		for y := 0; y < f.Height; y++ {
			px := black
			switch {
			case y < top:
				if c.Ceiling.Visible {
					px = c.Ceiling.Color
				}
			case y < bottom:
				px = c.Wall
			default:
				if c.Floor.Visible {
					px = c.Floor.Color
				}
			}

			i := y*stride + off
			pix[i] = px.R
			pix[i+1] = px.G
			pix[i+2] = px.B
			pix[i+3] = px.A
		}
	}
	return nil
}

// Image rasterizes the frame into a new RGBA image.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	_ = f.Rasterize(img.Pix) // sized to fit
	return img
}

func clampRow(y, height int) int {
	if y < 0 {
		return 0
	}
	if y > height {
		return height
	}
	return y
}
