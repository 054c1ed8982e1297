package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned for files that are not WAV, OGG or MP3.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// speakerLatency is the speaker buffer length.
const speakerLatency = 100 * time.Millisecond

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

func decoderFor(path string) (decodeFunc, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }, nil
	case ".ogg", ".oga":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) }, nil
	case ".mp3":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Player decodes sound files into memory and plays them on the speaker.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	volume int // 0-100

	speakerReady bool
	sampleRate   beep.SampleRate

	cache map[string]*beep.Buffer
}

// NewPlayer creates a player at full volume. The speaker is opened on the
// first Play.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		logger: logger,
		volume: 100,
		cache:  make(map[string]*beep.Buffer),
	}
}

// SetVolume sets the volume in percent, clamped to 0-100.
func (p *Player) SetVolume(percent int) {
	percent = max(0, min(100, percent))

	p.mu.Lock()
	p.volume = percent
	p.mu.Unlock()
	p.logger.Debug("volume set", "volume", percent)
}

// Volume returns the volume in percent.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Load decodes path into the cache unless it is already there.
func (p *Player) Load(path string) error {
	_, err := p.buffer(path)
	return err
}

// Cached reports whether path is decoded in memory.
func (p *Player) Cached(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.cache[path]
	return ok
}

// Invalidate drops path from the cache so the next use decodes it again.
func (p *Player) Invalidate(path string) {
	p.mu.Lock()
	delete(p.cache, path)
	p.mu.Unlock()
}

// Play starts playing path without waiting for it to finish.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}

	buf, err := p.buffer(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	volume := p.volume
	p.mu.Unlock()
	if volume == 0 {
		return nil
	}

	if err := p.ensureSpeaker(buf.Format().SampleRate); err != nil {
		return err
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if rate := buf.Format().SampleRate; rate != p.sampleRate {
		s = beep.Resample(4, rate, p.sampleRate, s)
	}
	if volume < 100 {
		level, silent := volumeLevel(volume)
		s = &effects.Volume{Streamer: s, Base: 2, Volume: level, Silent: silent}
	}

	speaker.Play(s)
	return nil
}

// Close stops playback, closes the speaker and empties the cache.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.speakerReady {
		speaker.Close()
		p.speakerReady = false
	}
	p.cache = make(map[string]*beep.Buffer)
	p.logger.Debug("audio player closed")
}

func (p *Player) buffer(path string) (*beep.Buffer, error) {
	p.mu.Lock()
	buf, ok := p.cache[path]
	p.mu.Unlock()
	if ok {
		return buf, nil
	}

	buf, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[path] = buf
	p.mu.Unlock()

	p.logger.Debug("decoded sound", "path", path, "samples", buf.Len())
	return buf, nil
}

func (p *Player) ensureSpeaker(rate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.speakerReady {
		return nil
	}
	if err := speaker.Init(rate, rate.N(speakerLatency)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	p.sampleRate = rate
	p.speakerReady = true
	p.logger.Debug("speaker initialized", "sample_rate", rate)
	return nil
}

func decodeFile(path string) (*beep.Buffer, error) {
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	stream, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer func() { _ = stream.Close() }()

	buf := beep.NewBuffer(format)
	buf.Append(stream)
	return buf, nil
}

// volumeLevel converts a percentage to an effects.Volume level in base 2.
// 50% halves the amplitude.
func volumeLevel(percent int) (level float64, silent bool) {
	if percent <= 0 {
		return 0, true
	}
	if percent >= 100 {
		return 0, false
	}
	return math.Log2(float64(percent) / 100), false
}
