package audio

// Channel groups sounds that share a volume. Each frame the mixer clears
// the channel's scratch buffer, mixes every active sound into it and
// removes the ones that completed.
type Channel struct {
	name   string
	sounds []Sound
	buf    []Level
	volume float64
	nextID SoundID
}

// NewChannel creates an empty channel at full volume.
func NewChannel(name string) *Channel {
	return &Channel{name: name, volume: 1}
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return c.name
}

// Volume returns the channel volume in [0, 1].
func (c *Channel) Volume() float64 {
	return c.volume
}

// SetVolume sets the channel volume, clamped to [0, 1].
func (c *Channel) SetVolume(v float64) {
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	c.volume = v
}

// Play starts clip from its first sample. Modes other than Loop play once.
// A nil clip returns 0 and starts nothing.
func (c *Channel) Play(clip *Clip, mode Mode) SoundID {
	if clip == nil {
		return 0
	}
	if mode != Loop {
		mode = PlayOnce
	}
	c.nextID++
	c.sounds = append(c.sounds, Sound{ID: c.nextID, Clip: clip, Mode: mode})
	return c.nextID
}

// Stop removes the sound with the given id and reports whether it was found.
func (c *Channel) Stop(id SoundID) bool {
	for i := range c.sounds {
		if c.sounds[i].ID == id {
			c.remove(i)
			return true
		}
	}
	return false
}

// StopAll removes every sound.
func (c *Channel) StopAll() {
	clear(c.sounds)
	c.sounds = c.sounds[:0]
}

// Len returns the number of active sounds.
func (c *Channel) Len() int {
	return len(c.sounds)
}

// Sounds returns a copy of the active sounds in mix order.
func (c *Channel) Sounds() []Sound {
	return append([]Sound(nil), c.sounds...)
}

// Buffer returns the scratch buffer filled by the last Mix.
func (c *Channel) Buffer() []Level {
	return c.buf
}

// Clear resizes the scratch buffer to n samples of Silence.
func (c *Channel) Clear(n int) {
	if n < 0 {
		n = 0
	}
	if cap(c.buf) < n {
		c.buf = make([]Level, n)
		return
	}
	c.buf = c.buf[:n]
	for i := range c.buf {
		c.buf[i] = Silence
	}
}

// MixSound mixes sound i into the scratch buffer, advancing its cursor one
// sample per slot. A PlayOnce sound that reaches the end of its clip is
// marked Complete and the remaining slots are left untouched; a Loop sound
// wraps to the start. It reports whether the sound is now Complete.
func (c *Channel) MixSound(i int) bool {
	s := &c.sounds[i]
	if s.Mode == Complete {
		return true
	}
	n := s.Clip.Len()
	if n == 0 {
		s.Mode = Complete
		return true
	}
	for j := range c.buf {
		c.buf[j] = MixDB(c.buf[j], s.Clip.At(s.Cursor))
		s.Cursor++
		if s.Cursor >= n {
			if s.Mode == PlayOnce {
				s.Mode = Complete
				return true
			}
			s.Cursor = 0
		}
	}
	return false
}

// Mix mixes every sound in order and drops the ones that completed. After
// a removal the same index is examined again so the sound that shifted
// into it is not skipped.
func (c *Channel) Mix() {
	for i := 0; i < len(c.sounds); {
		if c.MixSound(i) {
			c.remove(i)
			continue
		}
		i++
	}
}

func (c *Channel) remove(i int) {
	copy(c.sounds[i:], c.sounds[i+1:])
	c.sounds[len(c.sounds)-1] = Sound{}
	c.sounds = c.sounds[:len(c.sounds)-1]
}
