/*
Package pic implements a reader and writer for Tibia .pic image archives.

A .pic file is a container of pictures. Each picture is a grid of 32 by 32
pixel sprites, individually compressed with a run-length scheme that encodes
runs of background-colored pixels as bare counts and everything else as raw
RGB triplets. The file header carries a version signature and, per picture,
the grid dimensions, a background color and an absolute offset table locating
each sprite's compressed payload within the file.
*/
package pic

import "image"

// SpriteSize is the fixed side length of a sprite in pixels.
const SpriteSize = 32

// spritePixels is the number of pixels in one sprite.
const spritePixels = SpriteSize * SpriteSize

// DefaultBackground is the background color used for pictures built from
// scratch. Magenta, the transparency key the original client editors used.
var DefaultBackground = RGB{R: 255, G: 0, B: 255}

// RGB is a picture background color.
type RGB struct {
	R, G, B uint8
}

// Sprite is one compressed 32x32 pixel block. Data holds the run-length
// payload exactly as stored on disk, without the length prefix.
type Sprite struct {
	Data []byte
}

// Size returns the compressed payload length in bytes.
func (s *Sprite) Size() int {
	return len(s.Data)
}

// Picture is one image in the archive: a Width x Height grid of sprites in
// raster order, so sprite i sits at row i/Width, column i%Width.
type Picture struct {
	Width   int // grid width in sprites, 1..255
	Height  int // grid height in sprites, 1..255
	BgColor RGB
	Sprites []*Sprite

	// Modified is set whenever the sprite sequence is replaced.
	Modified bool

	cached *image.RGBA
}

// PixelWidth returns the picture width in pixels.
func (p *Picture) PixelWidth() int {
	return p.Width * SpriteSize
}

// PixelHeight returns the picture height in pixels.
func (p *Picture) PixelHeight() int {
	return p.Height * SpriteSize
}

// SpriteCount returns the number of sprites a full grid holds.
func (p *Picture) SpriteCount() int {
	return p.Width * p.Height
}

// InvalidateCache drops the cached render and marks the picture dirty. Must
// be called after any mutation of the sprite sequence.
func (p *Picture) InvalidateCache() {
	p.cached = nil
	p.Modified = true
}

// Archive is a complete .pic file: a version signature and its pictures in
// on-disk order.
type Archive struct {
	Signature uint32
	Images    []*Picture

	// Path is the file the archive was loaded from, if any.
	Path string
}

// NumImages returns the number of pictures in the archive.
func (a *Archive) NumImages() int {
	return len(a.Images)
}

// Image returns the picture at index i, or nil when out of range.
func (a *Archive) Image(i int) *Picture {
	if i < 0 || i >= len(a.Images) {
		return nil
	}
	return a.Images[i]
}

// Modified reports whether any picture changed since the archive was built.
func (a *Archive) Modified() bool {
	for _, img := range a.Images {
		if img.Modified {
			return true
		}
	}
	return false
}
