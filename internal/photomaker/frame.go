package photomaker

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ChannelOrder names the byte order of a packed pixel.
type ChannelOrder string

const (
	OrderBGR ChannelOrder = "BGR"
	OrderRGB ChannelOrder = "RGB"
)

// Frame is a packed 3-channel 8-bit image, row major, no padding.
type Frame struct {
	Width  int
	Height int
	Order  ChannelOrder
	Pix    []byte
}

// ToFrame packs img into the given channel order. Images whose longest side
// exceeds maxSide are scaled down first; maxSide <= 0 keeps the original size.
func ToFrame(img image.Image, order ChannelOrder, maxSide int) Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide > 0 && (w > maxSide || h > maxSide) {
		if w >= h {
			h = h * maxSide / w
			w = maxSide
		} else {
			w = w * maxSide / h
			h = maxSide
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
	}

	pix := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			r, g, bl := row[x], row[x+1], row[x+2]
			if order == OrderRGB {
				pix = append(pix, r, g, bl)
			} else {
				pix = append(pix, bl, g, r)
			}
		}
	}
	if order != OrderRGB {
		order = OrderBGR
	}
	return Frame{Width: w, Height: h, Order: order, Pix: pix}
}

// PrepareSketch turns a doodle's alpha channel into a black and white
// control image: pixels more than half opaque become white.
func PrepareSketch(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a > 0x7fff {
				out.SetRGBA(x-b.Min.X, y-b.Min.Y, white)
			} else {
				out.SetRGBA(x-b.Min.X, y-b.Min.Y, black)
			}
		}
	}
	return out
}
