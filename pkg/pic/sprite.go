package pic

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
)

// DecodeSprite expands a sprite's run-length payload into a 32x32 RGBA
// buffer.
//
// The payload is a sequence of chunks. Each chunk starts with two
// little-endian uint16 counts, background then colored. Background pixels
// are rendered opaque in bg; colored pixels consume three raw bytes each.
// Pixels advance in raster order across the 32x32 grid.
//
// The decode is best-effort: a truncated or otherwise malformed payload
// stops the decode early, leaving every unwritten pixel fully transparent.
// An empty payload yields an all-transparent sprite. No error is ever
// returned.
func DecodeSprite(s *Sprite, bg RGB) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))

	data := s.Data
	pos := 0
	px := 0
	for px < spritePixels && pos+4 <= len(data) {
		bgCount := int(binary.LittleEndian.Uint16(data[pos:]))
		colored := int(binary.LittleEndian.Uint16(data[pos+2:]))
		pos += 4

		for i := 0; i < bgCount && px < spritePixels; i++ {
			setRaster(m, px, color.RGBA{R: bg.R, G: bg.G, B: bg.B, A: 0xff})
			px++
		}
		for i := 0; i < colored && px < spritePixels; i++ {
			if pos+3 > len(data) {
				return m
			}
			setRaster(m, px, color.RGBA{R: data[pos], G: data[pos+1], B: data[pos+2], A: 0xff})
			pos += 3
			px++
		}
	}
	return m
}

// EncodeSprite compresses a 32x32 pixel block into a sprite payload.
//
// A pixel joins the background run when it is fully transparent or its RGB
// exactly equals bg; everything else is stored as a raw RGB triplet with the
// alpha channel dropped. The transform is lossy on purpose: the next decode
// renders background pixels as opaque bg and every colored pixel at full
// alpha.
//
// Only the source's top-left 32x32 region is used; anything a smaller source
// leaves uncovered encodes as background.
func EncodeSprite(m image.Image, bg RGB) *Sprite {
	src := toSpriteRGBA(m)

	var out []byte
	px := 0
	for px < spritePixels {
		bgCount := 0
		for px < spritePixels && isBackground(src, px, bg) {
			bgCount++
			px++
		}
		var colored []byte
		for px < spritePixels && !isBackground(src, px, bg) {
			c := rasterAt(src, px)
			colored = append(colored, c.R, c.G, c.B)
			px++
		}

		var hdr [4]byte
		binary.LittleEndian.PutUint16(hdr[0:], uint16(bgCount))
		binary.LittleEndian.PutUint16(hdr[2:], uint16(len(colored)/3))
		out = append(out, hdr[:]...)
		out = append(out, colored...)
	}
	return &Sprite{Data: out}
}

func rasterAt(m *image.RGBA, px int) color.RGBA {
	return m.RGBAAt(px%SpriteSize, px/SpriteSize)
}

func setRaster(m *image.RGBA, px int, c color.RGBA) {
	m.SetRGBA(px%SpriteSize, px/SpriteSize, c)
}

func isBackground(m *image.RGBA, px int, bg RGB) bool {
	c := rasterAt(m, px)
	return c.A == 0 || (c.R == bg.R && c.G == bg.G && c.B == bg.B)
}

// toSpriteRGBA normalizes any image into a 32x32 RGBA buffer anchored at the
// origin.
func toSpriteRGBA(m image.Image) *image.RGBA {
	if rgba, ok := m.(*image.RGBA); ok && rgba.Bounds() == image.Rect(0, 0, SpriteSize, SpriteSize) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))
	draw.Draw(dst, dst.Bounds(), m, m.Bounds().Min, draw.Src)
	return dst
}
