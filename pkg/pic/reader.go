package pic

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Load reads and parses the archive at path. A missing file surfaces as the
// underlying open error, so errors.Is(err, fs.ErrNotExist) holds.
func Load(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := Parse(data)
	if err != nil {
		return nil, err
	}
	a.Path = path
	return a, nil
}

// Parse decodes a complete .pic archive from buf.
//
// Sprite payloads are located through the per-picture offset tables and may
// live anywhere in the buffer, in any order; no contiguous data region is
// assumed. Payload bytes are kept compressed — decoding into pixels happens
// on demand in DecodeSprite.
func Parse(buf []byte) (*Archive, error) {
	if len(buf) < 6 {
		return nil, formatErr(-1, "buffer of %d bytes is too small for a .pic archive", len(buf))
	}

	signature := binary.LittleEndian.Uint32(buf[0:4])
	if signature == oldSignature {
		return nil, ErrUnsupportedVersion
	}
	numImages := int(binary.LittleEndian.Uint16(buf[4:6]))

	a := &Archive{Signature: signature}
	pos := 6
	for i := 0; i < numImages; i++ {
		img, next, err := parsePicture(buf, pos, i)
		if err != nil {
			return nil, err
		}
		a.Images = append(a.Images, img)
		pos = next
	}
	return a, nil
}

// parsePicture reads the picture header and offset table at pos, then
// follows each offset to collect the compressed sprite payloads. It returns
// the position just past the offset table; sprite data does not advance the
// header cursor.
func parsePicture(buf []byte, pos, idx int) (*Picture, int, error) {
	if pos+5 > len(buf) {
		return nil, 0, formatErr(pos, "truncated header for image %d", idx)
	}
	img := &Picture{
		Width:   int(buf[pos]),
		Height:  int(buf[pos+1]),
		BgColor: RGB{R: buf[pos+2], G: buf[pos+3], B: buf[pos+4]},
	}
	pos += 5

	if img.Width == 0 || img.Height == 0 {
		return nil, 0, formatErr(pos-5, "image %d has empty grid %dx%d", idx, img.Width, img.Height)
	}

	count := img.SpriteCount()
	if pos+4*count > len(buf) {
		return nil, 0, formatErr(pos, "truncated sprite offset table for image %d", idx)
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(buf[pos:])
		pos += 4
	}

	img.Sprites = make([]*Sprite, 0, count)
	for i, off := range offsets {
		sp, err := parseSprite(buf, off)
		if err != nil {
			return nil, 0, fmt.Errorf("image %d sprite %d: %w", idx, i, err)
		}
		img.Sprites = append(img.Sprites, sp)
	}
	return img, pos, nil
}

// parseSprite reads the length-prefixed payload at the absolute offset off.
// The payload is copied so the archive never aliases the caller's buffer.
func parseSprite(buf []byte, off uint32) (*Sprite, error) {
	pos := int(off)
	if pos < 0 || pos+2 > len(buf) {
		return nil, formatErr(pos, "sprite offset outside buffer")
	}
	size := int(binary.LittleEndian.Uint16(buf[pos:]))
	pos += 2
	if pos+size > len(buf) {
		return nil, formatErr(pos, "sprite payload of %d bytes overruns buffer", size)
	}
	data := make([]byte, size)
	copy(data, buf[pos:pos+size])
	return &Sprite{Data: data}, nil
}
