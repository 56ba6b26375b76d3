// Package soft is a software display backend drawing into image.RGBA. It
// backs the terminal display, headless frame dumps and tests.
package soft

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"chosenoffset.com/lumenexit/internal/render"
)

// Renderer implements render.Renderer on top of image.RGBA.
type Renderer struct {
	face font.Face
}

// NewRenderer creates a software renderer using the 7x13 bitmap font.
func NewRenderer() *Renderer {
	return &Renderer{face: basicfont.Face7x13}
}

// Image is an image.RGBA that satisfies render.Image.
type Image struct {
	img *image.RGBA
}

// NewImage creates a new transparent image.
func (r *Renderer) NewImage(width, height int) render.Image {
	return NewImage(width, height)
}

// NewImage creates a new transparent image without a renderer.
func NewImage(width, height int) *Image {
	return &Image{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Wrap exposes an existing RGBA image as a render.Image.
func Wrap(img *image.RGBA) *Image {
	return &Image{img: img}
}

// RGBA returns the backing image.
func (i *Image) RGBA() *image.RGBA {
	return i.img
}

func unwrap(i render.Image) *image.RGBA {
	return i.(*Image).img
}

// Bounds returns the bounds of the image.
func (i *Image) Bounds() image.Rectangle {
	return i.img.Bounds()
}

// Size returns the width and height of the image.
func (i *Image) Size() (width, height int) {
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

// Fill replaces every pixel with clr.
func (i *Image) Fill(clr color.Color) {
	draw.Draw(i.img, i.img.Bounds(), image.NewUniform(clr), image.Point{}, draw.Src)
}

// Clear clears the image to transparent.
func (i *Image) Clear() {
	clear(i.img.Pix)
}

// WritePixels copies RGBA pixels over the whole image.
func (i *Image) WritePixels(pix []byte) {
	copy(i.img.Pix, pix)
}

// Dispose is a no-op; the garbage collector owns the pixels.
func (i *Image) Dispose() {}

// DrawImage composites src over this image. Scaling uses nearest neighbour
// to keep the raycaster's hard column edges.
func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	s := unwrap(src)
	var geo render.GeoM
	if opts != nil {
		geo = opts.GeoM
	}

	sx, sy, _, _ := geo.Element()
	b := s.Bounds()
	x0, y0 := geo.Apply(float64(b.Min.X), float64(b.Min.Y))
	dstRect := image.Rect(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x0+float64(b.Dx())*sx)), int(math.Round(y0+float64(b.Dy())*sy)),
	)

	if sx == 1 && sy == 1 {
		draw.Draw(i.img, dstRect, s, b.Min, draw.Over)
		return
	}
	xdraw.NearestNeighbor.Scale(i.img, dstRect, s, b, xdraw.Over, nil)
}

// FillRect draws a filled rectangle, blending translucent colours.
func (r *Renderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	img := unwrap(dst)
	rect := image.Rect(int(x), int(y), int(x+width), int(y+height)).Intersect(img.Bounds())
	draw.Draw(img, rect, image.NewUniform(clr), image.Point{}, draw.Over)
}

// StrokeRect draws a rectangle outline.
func (r *Renderer) StrokeRect(dst render.Image, x, y, width, height, strokeWidth float32, clr color.Color) {
	sw := max(strokeWidth, 1)
	r.FillRect(dst, x, y, width, sw, clr)
	r.FillRect(dst, x, y+height-sw, width, sw, clr)
	r.FillRect(dst, x, y+sw, sw, height-2*sw, clr)
	r.FillRect(dst, x+width-sw, y+sw, sw, height-2*sw, clr)
}

// StrokeLine draws a line by stamping squares along it.
func (r *Renderer) StrokeLine(dst render.Image, x0, y0, x1, y1, strokeWidth float32, clr color.Color) {
	sw := max(strokeWidth, 1)
	dx, dy := float64(x1-x0), float64(y1-y0)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	half := sw / 2

	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		px := float32(float64(x0) + dx*t)
		py := float32(float64(y0) + dy*t)
		r.FillRect(dst, px-half, py-half, sw, sw, clr)
	}
}

// FillCircle draws a filled circle.
func (r *Renderer) FillCircle(dst render.Image, cx, cy, radius float32, clr color.Color) {
	img := unwrap(dst)
	src := image.NewUniform(clr)
	rr := radius * radius

	for y := int(cy - radius); y <= int(cy+radius); y++ {
		dy := float32(y) + 0.5 - cy
		if dy*dy > rr {
			continue
		}
		span := float32(math.Sqrt(float64(rr - dy*dy)))
		row := image.Rect(int(cx-span), y, int(cx+span)+1, y+1).Intersect(img.Bounds())
		draw.Draw(img, row, src, image.Point{}, draw.Over)
	}
}

// DrawText draws text with its top-left corner at (x, y). Scales above one
// are drawn at native size and enlarged.
func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	img := unwrap(dst)
	if scale <= 1 {
		r.drawText(img, text, x, y, clr)
		return
	}

	w, h := r.MeasureText(text, 1)
	tmp := image.NewRGBA(image.Rect(0, 0, w, h))
	r.drawText(tmp, text, 0, 0, clr)

	dstRect := image.Rect(x, y, x+int(float64(w)*scale), y+int(float64(h)*scale))
	xdraw.NearestNeighbor.Scale(img, dstRect, tmp, tmp.Bounds(), xdraw.Over, nil)
}

func (r *Renderer) drawText(img draw.Image, text string, x, y int, clr color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: r.face,
		Dot:  fixed.P(x, y+r.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// MeasureText measures the width and height of text with the given scale.
func (r *Renderer) MeasureText(text string, scale float64) (width, height int) {
	if scale <= 0 {
		scale = 1
	}
	m := r.face.Metrics()
	w := font.MeasureString(r.face, text).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	return int(float64(w) * scale), int(float64(h) * scale)
}
