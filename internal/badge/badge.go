// Package badge renders the downloadable provider share card as a PNG.
// The card shows the business initials, name, location line and hourly
// rate, the same layout the profile preview shows on screen.
package badge

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Card is the content of a rendered share card.
type Card struct {
	Initials string
	Title    string
	Subtitle string
	Rate     string
	Footer   string
}

const (
	baseWidth  = 320
	baseHeight = 180
	// the base card is drawn small with a bitmap font and scaled up for
	// a crisp-enough downloadable image
	scale = 3
)

var (
	cardBg    = color.RGBA{R: 0x10, G: 0x14, B: 0x1c, A: 0xff}
	avatarBg  = color.RGBA{R: 0x1a, G: 0x73, B: 0xe8, A: 0xff}
	textMain  = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	textMuted = color.RGBA{R: 0x9a, G: 0xa4, B: 0xb2, A: 0xff}
	accent    = color.RGBA{R: 0x34, G: 0xd3, B: 0x99, A: 0xff}
)

// Render draws the card and returns the scaled-up image.
func Render(c Card) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, baseWidth, baseHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBg), image.Point{}, draw.Src)

	// avatar block with the initials
	avatar := image.Rect(20, 20, 68, 68)
	draw.Draw(img, avatar, image.NewUniform(avatarBg), image.Point{}, draw.Src)
	drawText(img, c.Initials, avatar.Min.X+17, avatar.Min.Y+28, textMain)

	drawText(img, c.Title, 80, 38, textMain)
	drawText(img, c.Subtitle, 80, 56, textMuted)

	if c.Rate != "" {
		drawText(img, c.Rate, 20, 110, accent)
	}
	if c.Footer != "" {
		drawText(img, c.Footer, 20, 160, textMuted)
	}

	dst := image.NewRGBA(image.Rect(0, 0, baseWidth*scale, baseHeight*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// EncodePNG renders the card and writes it PNG-encoded.
func EncodePNG(w io.Writer, c Card) error {
	return png.Encode(w, Render(c))
}

func drawText(dst draw.Image, s string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
