package pic

import (
	"image"
	"image/draw"
)

// RenderPicture assembles a picture's sprites into a single pixel buffer,
// pasting each decoded sprite at (col*32, row*32). The result is cached on
// the picture and reused until InvalidateCache is called; callers must not
// mutate the returned buffer. Grid cells beyond the available sprites stay
// transparent.
func RenderPicture(p *Picture) *image.RGBA {
	if p.cached != nil {
		return p.cached
	}

	out := image.NewRGBA(image.Rect(0, 0, p.PixelWidth(), p.PixelHeight()))
	count := p.SpriteCount()
	for i, sp := range p.Sprites {
		if i >= count {
			break
		}
		col := i % p.Width
		row := i / p.Width
		r := image.Rect(col*SpriteSize, row*SpriteSize, (col+1)*SpriteSize, (row+1)*SpriteSize)
		draw.Draw(out, r, DecodeSprite(sp, p.BgColor), image.Point{}, draw.Src)
	}
	p.cached = out
	return out
}

// UpdatePictureFromImage replaces the picture's sprite sequence by
// re-encoding every 32x32 cell of src, which must match the picture's pixel
// dimensions exactly; a *SizeMismatchError is returned otherwise. The cached
// render is invalidated.
func UpdatePictureFromImage(p *Picture, src image.Image) error {
	b := src.Bounds()
	if b.Dx() != p.PixelWidth() || b.Dy() != p.PixelHeight() {
		return &SizeMismatchError{
			WantWidth:  p.PixelWidth(),
			WantHeight: p.PixelHeight(),
			GotWidth:   b.Dx(),
			GotHeight:  b.Dy(),
		}
	}

	rgba, ok := src.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}

	sprites := make([]*Sprite, 0, p.SpriteCount())
	for row := 0; row < p.Height; row++ {
		for col := 0; col < p.Width; col++ {
			r := image.Rect(col*SpriteSize, row*SpriteSize, (col+1)*SpriteSize, (row+1)*SpriteSize)
			cell := rgba.SubImage(r).(*image.RGBA)
			sprites = append(sprites, EncodeSprite(cell, p.BgColor))
		}
	}
	p.Sprites = sprites
	p.InvalidateCache()
	return nil
}
