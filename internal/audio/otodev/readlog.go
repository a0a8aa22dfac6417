package otodev

// span is one Read as handed to the player: queued audio first, then
// underrun padding.
type span struct {
	data, pad int
}

func (s span) size() int {
	return s.data + s.pad
}

// readLog remembers how each Read split between queued audio and padding,
// oldest first, so the player's buffered bytes can be counted without the
// silence it was fed on underrun.
type readLog struct {
	spans []span
	total int
}

func (l *readLog) add(data, pad int) {
	if data+pad == 0 {
		return
	}
	l.spans = append(l.spans, span{data: data, pad: pad})
	l.total += data + pad
}

// pending returns how many of the last buffered bytes handed out are
// queued audio. Spans the player has fully consumed are dropped.
func (l *readLog) pending(buffered int) int {
	consumed := max(l.total-buffered, 0)
	for len(l.spans) > 0 && consumed >= l.spans[0].size() {
		consumed -= l.spans[0].size()
		l.total -= l.spans[0].size()
		l.spans = l.spans[1:]
	}

	data := 0
	for i, s := range l.spans {
		if i == 0 {
			data += max(s.data-consumed, 0)
			continue
		}
		data += s.data
	}
	return data
}

func (l *readLog) reset() {
	l.spans = nil
	l.total = 0
}
