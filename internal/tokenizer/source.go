package tokenizer

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// The buffered shape-core stream holds at most streamWindow runes. A read that
// overfills the window loses its tail, and the next refill shrinks the window to
// the streamKeep runes before the reading position.
const (
	streamWindow = 64 * 1024
	streamKeep   = 8 * 1024
)

// normalizer feeds a reader to the buffered stream. Every read ends on a rune
// boundary, line breaks come out as "\n" and a leading byte order mark is dropped.
// window tracks how full the stream buffer is so no read overfills it.
type normalizer struct {
	src     *bufio.Reader
	started bool
	window  int
	err     error
}

func newNormalizer(reader io.Reader) *normalizer {
	return &normalizer{src: bufio.NewReader(reader)}
}

// Read fills p with whole runes. It returns what is buffered instead of waiting
// for a full p.
func (n *normalizer) Read(p []byte) (int, error) {
	if n.err != nil {
		return 0, n.err
	}

	if n.window >= streamWindow {
		n.window = streamKeep
	}

	i := 0
	for i+utf8.UTFMax <= len(p) && n.window < streamWindow {
		r, _, err := n.src.ReadRune()
		if err != nil {
			n.err = err
			break
		}
		if r == '\r' {
			r = '\n'
			if next, _, err := n.src.ReadRune(); err != nil {
				n.err = err
			} else if next != '\n' {
				_ = n.src.UnreadRune()
			}
		}
		if !n.started {
			n.started = true
			if r == '\uFEFF' {
				continue
			}
		}
		i += utf8.EncodeRune(p[i:], r)
		n.window++
		if n.err != nil || n.src.Buffered() == 0 {
			break
		}
	}

	if i > 0 {
		return i, nil
	}
	return 0, n.err
}

// Err returns the error that ended the input, or nil at a clean end of input.
func (n *normalizer) Err() error {
	if n.err == io.EOF {
		return nil
	}
	return n.err
}
