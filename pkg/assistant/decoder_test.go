package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecoderPassesThroughAscii(t *testing.T) {
	var d utf8Decoder
	assert.Equal(t, "hello", d.Push([]byte("hello")))
	assert.Equal(t, "", d.Flush())
}

func TestDecoderHoldsBackSplitTwoByteRune(t *testing.T) {
	var d utf8Decoder
	raw := []byte("ajánlott") // 'á' is 0xC3 0xA1

	out := d.Push(raw[:3]) // "aj" + first byte of 'á'
	assert.Equal(t, "aj", out)

	out = d.Push(raw[3:])
	assert.Equal(t, "ánlott", out)
	assert.Equal(t, "", d.Flush())
}

func TestDecoderReassemblesRuneSplitThreeWays(t *testing.T) {
	var d utf8Decoder
	raw := []byte("€") // 0xE2 0x82 0xAC

	assert.Equal(t, "", d.Push(raw[:1]))
	assert.Equal(t, "", d.Push(raw[1:2]))
	assert.Equal(t, "€", d.Push(raw[2:]))
}

func TestDecoderConcatenationMatchesInput(t *testing.T) {
	// any chunking of the same bytes must reproduce the input exactly
	input := "Az iPhone 15 ajánlott. Ára 389 990 Ft — jó választás!"
	raw := []byte(input)

	for chunkSize := 1; chunkSize <= 5; chunkSize++ {
		var d utf8Decoder
		var got string
		for i := 0; i < len(raw); i += chunkSize {
			end := i + chunkSize
			if end > len(raw) {
				end = len(raw)
			}
			got += d.Push(raw[i:end])
		}
		got += d.Flush()
		assert.Equal(t, input, got, "chunk size %d", chunkSize)
	}
}

func TestDecoderFlushEmitsTrailingPartialRune(t *testing.T) {
	var d utf8Decoder
	assert.Equal(t, "ok", d.Push([]byte{'o', 'k', 0xC3}))
	assert.Equal(t, "\xc3", d.Flush())
}
