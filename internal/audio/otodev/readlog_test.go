package otodev

import "testing"

func TestReadLogPending(t *testing.T) {
	tests := []struct {
		name     string
		reads    []span
		buffered int
		want     int
	}{
		{"nothing read", nil, 0, 0},
		{"all audio buffered", []span{{data: 64}, {data: 64}}, 128, 128},
		{"oldest read played", []span{{data: 64}, {data: 64}}, 64, 64},
		{"partly played", []span{{data: 64}, {data: 64}}, 100, 100},
		{"underrun padding", []span{{data: 64}, {data: 16, pad: 48}}, 128, 80},
		{"only padding left", []span{{data: 16, pad: 48}}, 40, 0},
		{"padding of a later read", []span{{data: 16, pad: 48}, {pad: 64}}, 100, 0},
		{"audio after padding", []span{{pad: 64}, {data: 64}}, 96, 64},
		{"player reports more than read", []span{{data: 32}}, 64, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l readLog
			for _, s := range tt.reads {
				l.add(s.data, s.pad)
			}
			if got := l.pending(tt.buffered); got != tt.want {
				t.Errorf("pending(%d) = %d, want %d", tt.buffered, got, tt.want)
			}
		})
	}
}

func TestReadLogDropsPlayedSpans(t *testing.T) {
	var l readLog
	l.add(64, 0)
	l.add(32, 32)
	l.add(0, 0)

	if got := l.pending(64); got != 32 {
		t.Fatalf("pending(64) = %d, want 32", got)
	}
	if len(l.spans) != 1 || l.total != 64 {
		t.Errorf("spans = %v total = %d, want the last read only", l.spans, l.total)
	}
	if got := l.pending(0); got != 0 || len(l.spans) != 0 {
		t.Errorf("pending(0) = %d with %d spans left", got, len(l.spans))
	}

	l.add(16, 0)
	l.reset()
	if l.pending(0) != 0 || l.total != 0 {
		t.Error("reset should forget every read")
	}
}
