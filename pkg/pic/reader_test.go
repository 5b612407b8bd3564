package pic

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// archiveBuilder hand-assembles archive bytes so tests control the exact
// layout, including offsets the writer would never produce.
type archiveBuilder struct {
	buf []byte
}

func newArchiveBuilder(signature uint32, numImages int) *archiveBuilder {
	b := &archiveBuilder{buf: make([]byte, 6)}
	binary.LittleEndian.PutUint32(b.buf[0:], signature)
	binary.LittleEndian.PutUint16(b.buf[4:], uint16(numImages))
	return b
}

func (b *archiveBuilder) pictureHeader(width, height int, bg RGB, offsets ...uint32) *archiveBuilder {
	b.buf = append(b.buf, byte(width), byte(height), bg.R, bg.G, bg.B)
	for _, off := range offsets {
		b.buf = binary.LittleEndian.AppendUint32(b.buf, off)
	}
	return b
}

// spriteBlock appends a length-prefixed payload and returns its offset.
func (b *archiveBuilder) spriteBlock(payload []byte) uint32 {
	off := uint32(len(b.buf))
	b.buf = binary.LittleEndian.AppendUint16(b.buf, uint16(len(payload)))
	b.buf = append(b.buf, payload...)
	return off
}

func TestParse_TooSmall(t *testing.T) {
	_, err := Parse(make([]byte, 5))
	require.Error(t, err)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestParse_LegacySignature(t *testing.T) {
	// The legacy check fires before anything past the signature is read, so
	// the rest of the buffer can be garbage.
	buf := []byte{0x02, 0x03, 0xFD, 0x01, 0xAA, 0xBB, 0xCC, 0xDD}
	_, err := Parse(buf)
	require.ErrorIs(t, err, ErrUnsupportedVersion)

	var fe *FormatError
	assert.False(t, errors.As(err, &fe), "legacy rejection is not a FormatError")
}

func TestParse_EmptyArchive(t *testing.T) {
	a, err := Parse(newArchiveBuilder(0x12345678, 0).buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), a.Signature)
	assert.Equal(t, 0, a.NumImages())
}

func TestParse_OutOfOrderOffsets(t *testing.T) {
	// Sprite 1's payload is stored before sprite 0's; the reader must follow
	// the offset table, not the physical order.
	bg := RGB{R: 255, G: 0, B: 255}
	b := newArchiveBuilder(0x0badcafe, 1)
	b.pictureHeader(2, 1, bg, 0, 0) // offsets patched below

	second := b.spriteBlock([]byte{0x01, 0x00, 0x00, 0x00})
	first := b.spriteBlock([]byte{0x00, 0x00, 0x01, 0x00, 7, 8, 9})

	headerOffsets := 6 + 5
	binary.LittleEndian.PutUint32(b.buf[headerOffsets:], first)
	binary.LittleEndian.PutUint32(b.buf[headerOffsets+4:], second)

	a, err := Parse(b.buf)
	require.NoError(t, err)
	require.Equal(t, 1, a.NumImages())

	img := a.Image(0)
	require.NotNil(t, img)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 1, img.Height)
	assert.Equal(t, bg, img.BgColor)
	require.Len(t, img.Sprites, 2)
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x00, 7, 8, 9}, img.Sprites[0].Data)
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, img.Sprites[1].Data)
}

func TestParse_SharedOffsets(t *testing.T) {
	// Two table entries pointing at the same payload are legal.
	b := newArchiveBuilder(0x0badcafe, 1)
	b.pictureHeader(2, 1, RGB{}, 0, 0)
	off := b.spriteBlock([]byte{0x04, 0x00, 0x00, 0x00})
	binary.LittleEndian.PutUint32(b.buf[11:], off)
	binary.LittleEndian.PutUint32(b.buf[15:], off)

	a, err := Parse(b.buf)
	require.NoError(t, err)
	img := a.Image(0)
	require.Len(t, img.Sprites, 2)
	assert.Equal(t, img.Sprites[0].Data, img.Sprites[1].Data)
}

func TestParse_Malformed(t *testing.T) {
	valid := func() *archiveBuilder {
		b := newArchiveBuilder(0x0badcafe, 1)
		b.pictureHeader(1, 1, RGB{}, 0)
		off := b.spriteBlock([]byte{0x01, 0x00, 0x00, 0x00})
		binary.LittleEndian.PutUint32(b.buf[11:], off)
		return b
	}

	tests := []struct {
		name string
		buf  []byte
	}{
		{
			name: "TruncatedPictureHeader",
			buf:  valid().buf[:8],
		},
		{
			name: "TruncatedOffsetTable",
			buf:  valid().buf[:13],
		},
		{
			name: "OffsetOutsideBuffer",
			buf: func() []byte {
				b := valid()
				binary.LittleEndian.PutUint32(b.buf[11:], uint32(len(b.buf)))
				return b.buf
			}(),
		},
		{
			name: "PayloadOverrunsBuffer",
			buf: func() []byte {
				b := valid()
				// Inflate the length prefix past the end of the file.
				binary.LittleEndian.PutUint16(b.buf[15:], 0xFFFF)
				return b.buf
			}(),
		},
		{
			name: "ZeroGrid",
			buf: func() []byte {
				b := valid()
				b.buf[6] = 0 // width
				return b.buf
			}(),
		},
		{
			name: "MissingSecondImage",
			buf: func() []byte {
				b := valid()
				binary.LittleEndian.PutUint16(b.buf[4:], 2)
				return b.buf
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.buf)
			require.Error(t, err)
			var fe *FormatError
			assert.ErrorAs(t, err, &fe)
		})
	}
}

func TestParse_DoesNotAliasInput(t *testing.T) {
	b := newArchiveBuilder(0x0badcafe, 1)
	b.pictureHeader(1, 1, RGB{}, 0)
	off := b.spriteBlock([]byte{0x01, 0x00, 0x00, 0x00})
	binary.LittleEndian.PutUint32(b.buf[11:], off)

	a, err := Parse(b.buf)
	require.NoError(t, err)

	for i := range b.buf {
		b.buf[i] = 0xEE
	}
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, a.Image(0).Sprites[0].Data)
}
