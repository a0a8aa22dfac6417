// Package otodev is the playback device backed by github.com/ebitengine/oto/v3.
//
// oto pulls audio from an io.Reader on its own goroutine. The device turns
// that into a push queue: Queue appends to a FIFO and the player drains it,
// reading silence whenever the FIFO runs dry.
package otodev

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/vovakirdan/firedays/internal/audio"
)

// Device queues interleaved PCM to an oto player.
type Device struct {
	ctx    *oto.Context
	player *oto.Player
	spec   audio.Spec

	mu     sync.Mutex
	fifo   bytes.Buffer
	reads  readLog
	closed bool
}

// oto only allows one context per process, so every Device shares it and
// owns just a player.
var (
	ctxMu     sync.Mutex
	sharedCtx *oto.Context
	ctxSpec   audio.Spec
)

// Open returns a device playing req. The first call creates the oto context
// and waits until it is ready; later calls must request the same spec.
func Open(req audio.Spec) (*Device, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrDeviceOpen, err)
	}

	ctx, err := sharedContext(req)
	if err != nil {
		return nil, err
	}

	d := &Device{ctx: ctx, spec: req}
	d.player = ctx.NewPlayer(d)
	d.player.SetBufferSize(req.Samples * req.Channels * req.BytesPerSample())
	return d, nil
}

func sharedContext(req audio.Spec) (*oto.Context, error) {
	ctxMu.Lock()
	defer ctxMu.Unlock()

	if sharedCtx != nil {
		if req != ctxSpec {
			return nil, fmt.Errorf("%w: context already open as %d Hz x %d %s", audio.ErrDeviceOpen,
				ctxSpec.SampleRate, ctxSpec.Channels, ctxSpec.Format)
		}
		return sharedCtx, nil
	}

	format := oto.FormatSignedInt16LE
	if req.Format == audio.FormatF32 {
		format = oto.FormatFloat32LE
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   req.SampleRate,
		ChannelCount: req.Channels,
		Format:       format,
		BufferSize:   time.Duration(req.Samples) * time.Second / time.Duration(req.SampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrDeviceOpen, err)
	}
	<-ready

	sharedCtx, ctxSpec = ctx, req
	return ctx, nil
}

// Read is called by the oto player goroutine. It never blocks and pads
// with silence on underrun.
func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	n, _ := d.fifo.Read(p)
	d.reads.add(n, len(p)-n)
	d.mu.Unlock()
	clear(p[n:])
	return len(p), nil
}

// Spec returns the negotiated format. oto plays exactly what was requested.
func (d *Device) Spec() audio.Spec {
	return d.spec
}

// QueuedFrames returns the frames waiting in the FIFO and the queued audio
// still in the player's own buffer. Underrun padding is not counted.
func (d *Device) QueuedFrames() int {
	// The player lock is taken inside BufferedSize and is held while the
	// player calls Read, so it must not be nested inside d.mu.
	buffered := d.player.BufferedSize()
	d.mu.Lock()
	pending := d.fifo.Len() + d.reads.pending(buffered)
	d.mu.Unlock()
	return pending / d.spec.FrameBytes()
}

// Queue appends p to the FIFO.
func (d *Device) Queue(p []byte) error {
	if err := d.ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return audio.ErrDeviceClosed
	}
	d.fifo.Write(p)
	return nil
}

// Pause stops or resumes the player.
func (d *Device) Pause(paused bool) {
	if paused {
		d.player.Pause()
		return
	}
	d.player.Play()
}

// Close stops playback and drops anything still queued. The shared
// context stays open for the next device.
func (d *Device) Close() error {
	d.mu.Lock()
	d.closed = true
	d.fifo.Reset()
	d.reads.reset()
	d.mu.Unlock()
	return d.player.Close()
}
