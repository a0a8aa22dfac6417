package engine

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/vovakirdan/firedays/internal/audio"
	"github.com/vovakirdan/firedays/internal/canvas"
	"github.com/vovakirdan/firedays/internal/config"
	"github.com/vovakirdan/firedays/internal/geom"
)

type fakeGraphics struct {
	clears     int
	fills      []geom.Rect
	presents   int
	presentErr error
}

func (g *fakeGraphics) Size() (int, int)                             { return 640, 480 }
func (g *fakeGraphics) Clear(color.RGBA)                             { g.clears++ }
func (g *fakeGraphics) FillRect(r geom.Rect, _ color.RGBA)           { g.fills = append(g.fills, r) }
func (g *fakeGraphics) StrokeRect(geom.Rect, color.RGBA)             {}
func (g *fakeGraphics) Line(geom.Point, geom.Point, color.RGBA)      {}
func (g *fakeGraphics) Point(geom.Point, color.RGBA)                 {}
func (g *fakeGraphics) Text(string, geom.Point, float64, color.RGBA) {}
func (g *fakeGraphics) Image(canvas.Image, geom.Rect, geom.Rect, float64, canvas.Flip) {
}

func (g *fakeGraphics) Present() error {
	if g.presentErr != nil {
		return g.presentErr
	}
	g.presents++
	return nil
}

type fakeScene struct {
	core    *Core
	setup   int
	events  []Event
	updates int
	draws   int
	quitKey string
	clip    *audio.Clip
}

func (s *fakeScene) ID() string    { return "fake" }
func (s *fakeScene) Title() string { return "Fake" }

func (s *fakeScene) Setup(core *Core) error {
	s.core = core
	s.setup++
	if s.clip != nil {
		core.Channel("sfx").Play(s.clip, audio.Loop)
	}
	return nil
}

func (s *fakeScene) HandleEvent(e Event) bool {
	s.events = append(s.events, e)
	return !(e.Kind == KindKeyDown && e.Key == s.quitKey)
}

func (s *fakeScene) Update(time.Duration) { s.updates++ }

func (s *fakeScene) Draw() {
	s.draws++
	s.core.Root().DrawRect(geom.NewRect(0, 0, 20, 15), color.RGBA{A: 255}, true)
}

type failingDevice struct {
	*audio.NullDevice
}

func (d failingDevice) Queue([]byte) error { return errors.New("device unplugged") }

func newTestEngine(t *testing.T, gfx *fakeGraphics, mixer *audio.Mixer, scene *fakeScene) (*Engine, *ManualClock) {
	t.Helper()
	cfg := config.Default()
	core, err := NewCore(gfx, mixer, cfg, nil)
	if err != nil {
		t.Fatalf("NewCore() failed: %v", err)
	}
	clock := &ManualClock{}
	eng, err := New(core, scene, clock, Options{TickRate: 60, FrameRate: 60, MaxCatchUp: 5, LatencyMS: 50})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return eng, clock
}

func testSpec() audio.Spec {
	spec, _ := config.Default().Audio.Spec()
	return spec
}

func toneClip(spec audio.Spec) *audio.Clip {
	samples := make([]audio.Level, 64)
	for i := range samples {
		samples[i] = audio.ToDB(0.25)
	}
	return audio.NewClip("tone", spec, samples)
}

func TestFixedTimestep(t *testing.T) {
	scene := &fakeScene{}
	eng, clock := newTestEngine(t, &fakeGraphics{}, nil, scene)

	if ok, err := eng.Frame(nil); !ok || err != nil {
		t.Fatalf("Frame() = %v, %v", ok, err)
	}
	if scene.updates != 0 {
		t.Errorf("first frame ran %d updates", scene.updates)
	}

	clock.Advance(50 * time.Millisecond)
	eng.Frame(nil)
	if scene.updates != 3 {
		t.Errorf("updates after 50ms = %d, want 3", scene.updates)
	}

	clock.Advance(time.Second)
	eng.Frame(nil)
	if scene.updates != 8 {
		t.Errorf("updates after 1s stall = %d, want 8 (capped)", scene.updates)
	}

	clock.Advance(17 * time.Millisecond)
	eng.Frame(nil)
	if scene.updates != 9 {
		t.Errorf("backlog was not dropped: %d updates", scene.updates)
	}

	st := eng.Stats()
	if st.Frames != 4 || st.Updates != 9 {
		t.Errorf("Stats() = %+v", st)
	}
	if st.Elapsed != 1067*time.Millisecond {
		t.Errorf("Elapsed = %v", st.Elapsed)
	}
}

func TestFrameDrawsAndPresents(t *testing.T) {
	gfx := &fakeGraphics{}
	scene := &fakeScene{}
	eng, _ := newTestEngine(t, gfx, nil, scene)

	eng.Frame(nil)
	if gfx.clears != 1 || scene.draws != 1 || gfx.presents != 1 {
		t.Errorf("clears=%d draws=%d presents=%d", gfx.clears, scene.draws, gfx.presents)
	}
	// Root is 40x30 virtual units over 640x480.
	if len(gfx.fills) != 1 || gfx.fills[0] != geom.NewRect(0, 0, 320, 240) {
		t.Errorf("fills = %v", gfx.fills)
	}
}

func TestQuitEvents(t *testing.T) {
	tests := []struct {
		name    string
		events  []Event
		handled int
	}{
		{"quit kind", []Event{{Kind: KindMouseMove}, {Kind: KindQuit}, {Kind: KindKeyDown, Key: "a"}}, 1},
		{"quit first", []Event{{Kind: KindQuit}, {Kind: KindMouseMove}}, 0},
		{"scene declines", []Event{{Kind: KindKeyDown, Key: "q"}, {Kind: KindKeyDown, Key: "a"}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gfx := &fakeGraphics{}
			scene := &fakeScene{quitKey: "q"}
			eng, _ := newTestEngine(t, gfx, nil, scene)

			ok, err := eng.Frame(tt.events)
			if ok || err != nil {
				t.Errorf("Frame() = %v, %v; want false, nil", ok, err)
			}
			if !eng.Done() {
				t.Error("Done() = false")
			}
			if gfx.presents != 0 {
				t.Error("presented after quit")
			}
			if len(scene.events) != tt.handled {
				t.Errorf("scene handled %d events, want %d", len(scene.events), tt.handled)
			}
		})
	}
}

func TestRenderFailureEndsRun(t *testing.T) {
	cause := errors.New("context lost")
	gfx := &fakeGraphics{presentErr: cause}
	eng, _ := newTestEngine(t, gfx, nil, &fakeScene{})

	err := eng.Run(context.Background(), &Queue{})
	if !errors.Is(err, ErrRender) || !errors.Is(err, cause) {
		t.Fatalf("Run() = %v, want ErrRender wrapping cause", err)
	}
}

func TestAudioFailureSkipsFrame(t *testing.T) {
	spec := testSpec()
	mixer, err := audio.NewMixer(failingDevice{audio.NewNullDevice(spec)}, 1)
	if err != nil {
		t.Fatalf("NewMixer() failed: %v", err)
	}
	gfx := &fakeGraphics{}
	eng, _ := newTestEngine(t, gfx, mixer, &fakeScene{clip: toneClip(spec)})

	for i := 0; i < 3; i++ {
		ok, err := eng.Frame(nil)
		if !ok || err != nil {
			t.Fatalf("Frame() = %v, %v; audio failures must not end the loop", ok, err)
		}
	}
	if got := eng.Stats().AudioSkips; got != 3 {
		t.Errorf("AudioSkips = %d, want 3", got)
	}
	if gfx.presents != 3 {
		t.Errorf("presents = %d, want 3", gfx.presents)
	}
}

func TestMixAudioFeedsDevice(t *testing.T) {
	spec := testSpec()
	dev := audio.NewNullDevice(spec)
	mixer, err := audio.NewMixer(dev, 1)
	if err != nil {
		t.Fatalf("NewMixer() failed: %v", err)
	}
	scene := &fakeScene{clip: toneClip(spec)}
	eng, _ := newTestEngine(t, &fakeGraphics{}, mixer, scene)

	eng.Frame(nil)
	bytes, calls := dev.Submitted()
	// 50 ms at 44.1 kHz stereo is 4410 samples: three 2048-sample chunks.
	wantSamples := 3 * spec.ChunkSamples()
	if bytes != wantSamples*spec.BytesPerSample() || calls != 3 {
		t.Errorf("submitted %d bytes in %d calls", bytes, calls)
	}
	if !mixer.Playing() {
		t.Error("mixer not playing")
	}
	if eng.Stats().AudioSkips != 0 {
		t.Error("unexpected audio skip")
	}
}

func TestRunUntilSceneQuits(t *testing.T) {
	scene := &fakeScene{quitKey: "escape"}
	eng, clock := newTestEngine(t, &fakeGraphics{}, nil, scene)

	src := &scriptedSource{frames: [][]Event{
		nil,
		{{Kind: KindKeyDown, Key: "a"}},
		nil,
		{{Kind: KindKeyDown, Key: "escape"}},
	}}
	if err := eng.Run(context.Background(), src); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if eng.Stats().Frames != 3 {
		t.Errorf("frames = %d, want 3", eng.Stats().Frames)
	}
	if len(scene.events) != 2 {
		t.Errorf("events = %v", scene.events)
	}
	// Three frame periods were slept through.
	if clock.Now() < 3*(time.Second/60) {
		t.Errorf("clock = %v, loop did not pace frames", clock.Now())
	}
}

func TestRunCancelled(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeGraphics{}, nil, &fakeScene{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := eng.Run(ctx, &Queue{}); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if eng.Stats().Frames != 0 {
		t.Error("ran a frame after cancellation")
	}
}

type scriptedSource struct {
	frames [][]Event
	i      int
}

func (s *scriptedSource) Poll() []Event {
	if s.i >= len(s.frames) {
		return nil
	}
	ev := s.frames[s.i]
	s.i++
	return ev
}

type memStore map[string]float64

func (m memStore) ChannelVolume(name string) (float64, bool, error) {
	v, ok := m[name]
	return v, ok, nil
}

func (m memStore) SetChannelVolume(name string, v float64) error {
	m[name] = v
	return nil
}

func TestCoreChannelsAndVolumes(t *testing.T) {
	core, err := NewCore(&fakeGraphics{}, nil, config.Default(), nil)
	if err != nil {
		t.Fatalf("NewCore() failed: %v", err)
	}
	store := memStore{"music": 0.4}
	core.Store = store

	music := core.Channel("music")
	if music.Volume() != 0.4 {
		t.Errorf("music volume = %v, want stored 0.4", music.Volume())
	}
	sfx := core.Channel("sfx")
	if core.Channel("music") != music {
		t.Error("Channel() created a duplicate")
	}
	if got := core.Channels(); len(got) != 2 || got[0] != music || got[1] != sfx {
		t.Errorf("Channels() order wrong")
	}

	sfx.SetVolume(0.7)
	if err := core.SaveVolumes(); err != nil {
		t.Fatalf("SaveVolumes() failed: %v", err)
	}
	if store["sfx"] != 0.7 || store["music"] != 0.4 {
		t.Errorf("store = %v", store)
	}

	clip := toneClip(core.AudioSpec())
	core.AddClip("tone", clip)
	if got, ok := core.Clip("tone"); !ok || got != clip {
		t.Error("Clip() did not return cached clip")
	}
	if _, err := core.LoadClip("missing", "/nonexistent/file.wav"); !errors.Is(err, audio.ErrClipOpen) {
		t.Errorf("LoadClip() = %v, want ErrClipOpen", err)
	}
}

func TestNewCoreRejectsBadVirtualSpace(t *testing.T) {
	cfg := config.Default()
	cfg.Window.VirtualWidth = 0
	if _, err := NewCore(&fakeGraphics{}, nil, cfg, nil); !errors.Is(err, geom.ErrInvalidArgument) {
		t.Errorf("NewCore() = %v, want ErrInvalidArgument", err)
	}
}
