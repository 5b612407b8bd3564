package pic

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Serialize compiles the archive into the on-disk byte layout.
//
// The writer always emits the canonical layout: the signature and image
// count, then every picture's header and offset table, then every sprite
// payload contiguously in picture order and raster order. Offsets found in a
// parsed file are never preserved; parse followed by serialize keeps the
// logical content, not the original byte placement.
func Serialize(a *Archive) ([]byte, error) {
	if err := validate(a); err != nil {
		return nil, err
	}

	buf := make([]byte, serializedSize(a))

	binary.LittleEndian.PutUint32(buf[0:4], a.Signature)
	binary.LittleEndian.PutUint16(buf[4:6], uint16(len(a.Images)))

	// Sprite payloads start right after the last picture's offset table.
	pos := 6
	dataPos := pos
	for _, img := range a.Images {
		dataPos += 5 + 4*img.SpriteCount()
	}

	for _, img := range a.Images {
		buf[pos] = byte(img.Width)
		buf[pos+1] = byte(img.Height)
		buf[pos+2] = img.BgColor.R
		buf[pos+3] = img.BgColor.G
		buf[pos+4] = img.BgColor.B
		pos += 5

		for _, sp := range img.Sprites {
			binary.LittleEndian.PutUint32(buf[pos:], uint32(dataPos))
			pos += 4

			binary.LittleEndian.PutUint16(buf[dataPos:], uint16(len(sp.Data)))
			dataPos += 2
			copy(buf[dataPos:], sp.Data)
			dataPos += len(sp.Data)
		}
	}
	return buf, nil
}

// serializedSize is the exact output length: 6 header bytes, 5 header bytes
// plus 4 per offset for each picture, and 2 length bytes plus the payload
// for each sprite.
func serializedSize(a *Archive) int {
	size := 6
	for _, img := range a.Images {
		size += 5 + 4*img.SpriteCount()
		for _, sp := range img.Sprites {
			size += 2 + len(sp.Data)
		}
	}
	return size
}

func validate(a *Archive) error {
	if len(a.Images) > math.MaxUint16 {
		return formatErr(-1, "%d images exceed the uint16 image count", len(a.Images))
	}
	for i, img := range a.Images {
		if img.Width < 1 || img.Width > 255 || img.Height < 1 || img.Height > 255 {
			return formatErr(-1, "image %d grid %dx%d outside the 1..255 range", i, img.Width, img.Height)
		}
		if len(img.Sprites) != img.SpriteCount() {
			return formatErr(-1, "image %d has %d sprites, grid %dx%d needs %d",
				i, len(img.Sprites), img.Width, img.Height, img.SpriteCount())
		}
		for j, sp := range img.Sprites {
			if len(sp.Data) > math.MaxUint16 {
				return formatErr(-1, "image %d sprite %d payload of %d bytes exceeds the uint16 length prefix",
					i, j, len(sp.Data))
			}
		}
	}
	if uint64(serializedSize(a)) > math.MaxUint32 {
		return formatErr(-1, "archive too large for 32-bit sprite offsets")
	}
	return nil
}

// Save serializes the archive and atomically replaces the file at path. The
// bytes are staged in a uniquely named temp file next to the target and then
// renamed into place, so a failed write never truncates an existing archive.
// I/O errors are returned unwrapped.
func Save(a *Archive, path string) error {
	buf, err := Serialize(a)
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
