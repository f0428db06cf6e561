// Package preview draws the fence layout as an image, the way the fences
// would sit on the desktop.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mj1618/desktop-fences/internal/model"
)

const (
	margin     = 20
	lineHeight = 16
	padding    = 6
)

var (
	background   = color.RGBA{R: 32, G: 48, B: 72, A: 255}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// Options controls rendering.
type Options struct {
	// MaxWidth downscales the image to at most this many pixels wide.
	// Zero keeps desktop scale.
	MaxWidth int
}

// Render draws every fence at its screen position. The canvas covers the
// union of all fence bounds plus a margin.
func Render(fences []*model.Fence, opts Options) *image.RGBA {
	area := extent(fences)
	img := image.NewRGBA(image.Rect(0, 0, area.Width+2*margin, area.Height+2*margin))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, f := range fences {
		drawFence(img, f, area.X-margin, area.Y-margin)
	}

	if opts.MaxWidth > 0 && img.Bounds().Dx() > opts.MaxWidth {
		return scale(img, opts.MaxWidth)
	}
	return img
}

// Encode writes img as png or jpg.
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "jpg", "jpeg":
		if quality <= 0 || quality > 100 {
			quality = 80
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "png", "":
		return png.Encode(w, img)
	}
	return fmt.Errorf("unsupported image format: %s (use png or jpg)", format)
}

func extent(fences []*model.Fence) model.Rect {
	if len(fences) == 0 {
		return model.Rect{Width: 320, Height: 200}
	}
	b := fences[0].Bounds()
	x1, y1, x2, y2 := b.X, b.Y, b.Right(), b.Bottom()
	for _, f := range fences[1:] {
		b := f.Bounds()
		x1, y1 = min(x1, b.X), min(y1, b.Y)
		x2, y2 = max(x2, b.Right()), max(y2, b.Bottom())
	}
	return model.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func drawFence(img *image.RGBA, f *model.Fence, originX, originY int) {
	b := f.Bounds()
	r := image.Rect(b.X-originX, b.Y-originY, b.Right()-originX, b.Bottom()-originY)

	box := argb(f.BoxColor, color.RGBA{A: 255})
	box.A = opacity(f.Opacity)
	draw.Draw(img, r, image.NewUniform(box), image.Point{}, draw.Over)

	title := r
	title.Max.Y = min(r.Min.Y+f.TitleHeight, r.Max.Y)
	accent := argb(f.AccentColor, color.RGBA{R: 100, G: 160, B: 230, A: 255})
	draw.Draw(img, title, image.NewUniform(accent), image.Point{}, draw.Over)
	drawRectangle(img, r, accent)

	label := argb(f.LabelColor, textColor)
	drawText(img, f.Name, r.Min.X+padding, title.Min.Y+(title.Dy()+lineHeight)/2-3, label)

	y := title.Max.Y + lineHeight
	for _, tab := range f.Tabs {
		if len(f.Tabs) > 1 {
			if y > r.Max.Y-padding {
				return
			}
			drawText(img, "["+tab.Name+"]", r.Min.X+padding, y, label)
			y += lineHeight
		}
		for _, p := range tab.Files {
			if y > r.Max.Y-padding {
				return
			}
			drawText(img, filepath.Base(p), r.Min.X+2*padding, y, label)
			y += lineHeight
		}
	}
}

// argb converts a stored signed ARGB value, falling back to def for 0.
func argb(v int, def color.RGBA) color.RGBA {
	if v == 0 {
		return def
	}
	u := uint32(int32(v))
	return color.RGBA{R: uint8(u >> 16), G: uint8(u >> 8), B: uint8(u), A: 255}
}

func opacity(percent int) uint8 {
	percent = max(0, min(percent, 100))
	return uint8(percent * 255 / 100)
}

func scale(src *image.RGBA, width int) *image.RGBA {
	b := src.Bounds()
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

func drawRectangle(img *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawText draws text with its baseline at y and a one pixel outline.
func drawText(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	d.Src = image.NewUniform(outlineColor)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.P(x+dx, y+dy)
			d.DrawString(text)
		}
	}
	d.Src = image.NewUniform(c)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}
