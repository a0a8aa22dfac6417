package audio

// Mode is the playback state of a sound.
type Mode int

const (
	// PlayOnce plays the clip to its end, then completes.
	PlayOnce Mode = iota
	// Loop wraps the cursor to the start at the end of the clip.
	Loop
	// Complete marks a finished sound awaiting removal.
	Complete
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case PlayOnce:
		return "once"
	case Loop:
		return "loop"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// SoundID identifies a playing sound within its channel.
type SoundID uint64

// Sound is a playback cursor over a shared clip.
type Sound struct {
	ID     SoundID
	Clip   *Clip
	Cursor int // Next interleaved sample to mix, always < Clip.Len() while active
	Mode   Mode
}
