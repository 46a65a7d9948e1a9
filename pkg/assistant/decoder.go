package assistant

import "unicode/utf8"

// utf8Decoder turns an arbitrary byte chunking into valid UTF-8 strings.
// Push returns the longest decodable prefix and keeps the trailing bytes of
// an incomplete rune for the next call, so fragment seams never split a rune.
type utf8Decoder struct {
	pending []byte
}

func (d *utf8Decoder) Push(chunk []byte) string {
	d.pending = append(d.pending, chunk...)

	cut := len(d.pending)
	// Walk back at most three bytes looking for the start of a trailing
	// rune that is still incomplete. Continuation bytes further back than
	// that cannot belong to a partial rune.
	for back := 1; back < utf8.UTFMax && back <= len(d.pending); back++ {
		b := d.pending[len(d.pending)-back]
		if !utf8.RuneStart(b) {
			continue
		}
		if !utf8.FullRune(d.pending[len(d.pending)-back:]) {
			cut = len(d.pending) - back
		}
		break
	}

	out := string(d.pending[:cut])
	d.pending = append(d.pending[:0], d.pending[cut:]...)
	return out
}

// Flush drains whatever is held back. At end of stream a partial rune is
// emitted as-is rather than dropped.
func (d *utf8Decoder) Flush() string {
	out := string(d.pending)
	d.pending = d.pending[:0]
	return out
}
