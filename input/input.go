// Package input implements the line editor backing the input prompt: a
// fixed-capacity gap buffer for O(1) insertion/deletion and O(n) cursor
// movement, a ring buffer of sent lines for history scrolling, and
// word-wise tab completion driven by a caller-supplied lookup function.
package input

// Cap bounds the length of a single input line: RFC 2812 allows channel
// names up to 50 characters, plus headroom for additional formatting.
const Cap = 410

// HistMax is the number of sent lines retained for history scrolling.
// Must be a power of two for ring-buffer masking.
const HistMax = 16

const histMask = HistMax - 1

// CompletionFunc proposes a replacement for the word immediately behind
// the cursor. word is the text found; first reports whether word begins
// the input line (the caller uses this to choose between completing a
// command name or a nick). It returns the replacement text and whether a
// match was found; a false ok leaves the input unchanged.
type CompletionFunc func(word string, first bool) (replacement string, ok bool)

type history struct {
	entries              [HistMax]string
	save                 string
	current, head, tail  uint16
}

// Input is a single editable input line with attached send history. The
// zero value is an empty, ready-to-use input.
type Input struct {
	text       [Cap]byte
	head, tail uint16
	hist       history
}

// New returns an empty Input.
func New() *Input {
	in := &Input{}
	in.clear()
	return in
}

func (in *Input) clear() {
	in.head = 0
	in.tail = Cap
}

// Size returns the number of characters currently held.
func (in *Input) Size() int {
	return int(in.head) + (Cap - int(in.tail))
}

func (in *Input) full() bool {
	return in.head == in.tail
}

// Reset clears the input line, reporting whether there was anything to
// clear.
func (in *Input) Reset() bool {
	if in.Size() == 0 {
		return false
	}
	in.clear()
	return true
}

// Insert writes s at the cursor, stopping early if the line fills up.
// It reports whether any character was written.
func (in *Input) Insert(s string) bool {
	wrote := false
	for i := 0; i < len(s) && !in.full(); i++ {
		in.text[in.head] = s[i]
		in.head++
		wrote = true
	}
	return wrote
}

// CursorBack moves the cursor one character left, reporting whether it
// moved.
func (in *Input) CursorBack() bool {
	if in.head == 0 {
		return false
	}
	in.head--
	in.tail--
	in.text[in.tail] = in.text[in.head]
	return true
}

// CursorForw moves the cursor one character right, reporting whether it
// moved.
func (in *Input) CursorForw() bool {
	if in.tail == Cap {
		return false
	}
	in.text[in.head] = in.text[in.tail]
	in.head++
	in.tail++
	return true
}

// DeleteBack deletes the character left of the cursor, reporting whether
// one was deleted.
func (in *Input) DeleteBack() bool {
	if in.head == 0 {
		return false
	}
	in.head--
	return true
}

// DeleteForw deletes the character right of the cursor, reporting
// whether one was deleted.
func (in *Input) DeleteForw() bool {
	if in.tail == Cap {
		return false
	}
	in.tail++
	return true
}

// Write returns the full input line as a string, independent of cursor
// position.
func (in *Input) Write() string {
	buf := make([]byte, 0, Cap)
	buf = append(buf, in.text[:in.head]...)
	buf = append(buf, in.text[in.tail:]...)
	return string(buf)
}

// Complete tab-completes the word ending at the cursor using lookup,
// replacing it in place. It declines (returning false, leaving the
// input unchanged) at the start of the line, immediately after a space,
// or when the cursor isn't positioned at a word boundary, or when
// lookup finds no match.
func (in *Input) Complete(lookup CompletionFunc) bool {
	if in.head == 0 || in.text[in.head-1] == ' ' {
		return false
	}
	if in.tail < Cap && in.text[in.tail] != ' ' {
		return false
	}

	start := in.head
	for start > 0 && in.text[start-1] != ' ' {
		start--
	}

	word := string(in.text[start:in.head])
	first := start == 0

	replacement, ok := lookup(word, first)
	if !ok {
		return false
	}

	in.head = start
	in.Insert(replacement)
	return true
}

func (in *Input) load(s string) {
	in.clear()
	in.Insert(s)
}

// HistPush sends the current line to history and clears the input. A
// line replayed from history (via HistBack/HistForw, unmodified or
// edited) is moved to the most recent position rather than appended as
// a duplicate entry; a genuinely new line is appended, evicting the
// oldest entry once history is full. Reports whether there was
// anything to push.
func (in *Input) HistPush() bool {
	if in.Size() == 0 {
		return false
	}

	text := in.Write()
	h := &in.hist

	if h.current == h.head {
		if h.head-h.tail == HistMax {
			if h.current == h.tail {
				h.current++
			}
			h.tail++
		}
		h.entries[h.head&histMask] = text
		h.head++
	} else {
		for i := h.current; i+1 < h.head; i++ {
			h.entries[i&histMask] = h.entries[(i+1)&histMask]
		}
		h.entries[(h.head-1)&histMask] = text
	}

	h.current = h.head
	in.clear()
	return true
}

// HistBack replaces the input with the previous history entry, saving
// the current (unsent) line the first time history is entered so
// HistForw can restore it. Reports whether it moved back.
func (in *Input) HistBack() bool {
	h := &in.hist
	if h.current == h.tail {
		return false
	}
	if h.current == h.head {
		h.save = in.Write()
	}
	h.current--
	in.load(h.entries[h.current&histMask])
	return true
}

// HistForw replaces the input with the next history entry, restoring
// the saved unsent line once scrolled back to the live edge. Reports
// whether it moved forward.
func (in *Input) HistForw() bool {
	h := &in.hist
	if h.current == h.head {
		return false
	}
	h.current++
	if h.current == h.head {
		in.load(h.save)
	} else {
		in.load(h.entries[h.current&histMask])
	}
	return true
}
