// Package audio plays the fireworks sound cues through beep.
package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/pthm-cable/fireworks/config"
)

// resampleQuality is the beep interpolation quality used for both format
// conversion and playback-rate changes.
const resampleQuality = 4

// SoundManager holds decoded buffers per cue key and mixes one-shot
// playbacks into the speaker. Every method is safe to call before
// Initialize or after Cleanup: playback then degrades to silence.
type SoundManager struct {
	mu          sync.Mutex
	cfg         config.AudioConfig
	sampleRate  beep.SampleRate
	rng         *rand.Rand
	buffers     map[string][]*beep.Buffer
	mixer       *beep.Mixer
	initialized bool
}

// NewSoundManager creates a sound manager for the configured sources.
func NewSoundManager(cfg config.AudioConfig, rng *rand.Rand) *SoundManager {
	sr := cfg.SampleRate
	if sr <= 0 {
		sr = 44100
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SoundManager{
		cfg:        cfg,
		sampleRate: beep.SampleRate(sr),
		rng:        rng,
		buffers:    make(map[string][]*beep.Buffer),
		mixer:      &beep.Mixer{},
	}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sm.sampleRate, sm.sampleRate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Load decodes every configured file from the audio directory. Files that
// cannot be read are skipped; their errors are joined into the result so the
// caller can log them, and the cue falls back to the remaining variants.
func (sm *SoundManager) Load() error {
	var errs []error
	for key, src := range sm.cfg.Sources {
		for _, name := range src.FileNames {
			buf, err := sm.decodeFile(filepath.Join(sm.cfg.Dir, name))
			if err != nil {
				errs = append(errs, fmt.Errorf("loading %s for %q: %w", name, key, err))
				continue
			}
			sm.AddBuffer(key, buf)
		}
	}
	return errors.Join(errs...)
}

// AddBuffer registers one more variant for a cue key.
func (sm *SoundManager) AddBuffer(key string, buf *beep.Buffer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.buffers[key] = append(sm.buffers[key], buf)
}

// Variants returns how many buffers are loaded for a key.
func (sm *SoundManager) Variants(key string) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.buffers[key])
}

func (sm *SoundManager) decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding: %w", err)
	}
	defer stream.Close()

	return sm.bufferStream(stream, format), nil
}

// bufferStream reads a stream fully into a buffer at the manager's sample rate.
func (sm *SoundManager) bufferStream(s beep.Streamer, format beep.Format) *beep.Buffer {
	target := beep.Format{SampleRate: sm.sampleRate, NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(target)
	if format.SampleRate != sm.sampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, sm.sampleRate, s)
	}
	buf.Append(s)
	return buf
}

// PlaySound plays a random variant of key with a random playback rate from
// the source's range and gain volume*scale. Unknown keys, missing buffers
// and an uninitialised speaker are silent.
func (sm *SoundManager) PlaySound(key string, scale float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s := sm.streamLocked(key, scale)
	if s == nil {
		return
	}

	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// streamLocked builds the one-shot streamer for a cue, or nil when there is
// nothing to play. Caller holds mu.
func (sm *SoundManager) streamLocked(key string, scale float64) beep.Streamer {
	bufs := sm.buffers[key]
	if len(bufs) == 0 {
		slog.Debug("no sound buffer", "key", key)
		return nil
	}
	src := sm.cfg.Sources[key]

	gain := Gain(src.Volume, scale)
	if gain <= 0 {
		return nil
	}

	buf := bufs[sm.rng.Intn(len(bufs))]
	var s beep.Streamer = buf.Streamer(0, buf.Len())

	if rate := PlaybackRate(sm.rng, src.PlaybackRateMin, src.PlaybackRateMax); rate != 1 {
		s = beep.ResampleRatio(resampleQuality, rate, s)
	}
	if gain < 1 {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
	}
	return s
}

// Cleanup stops all sounds. The speaker stays open; a later Initialize
// resumes playback.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	sm.initialized = false
}

// Gain combines a source volume and a per-call scale into [0, 1].
func Gain(volume, scale float64) float64 {
	g := volume * scale
	if math.IsNaN(g) || g < 0 {
		return 0
	}
	if g > 1 {
		return 1
	}
	return g
}

// PlaybackRate draws a rate uniformly from [min, max]. A degenerate range
// returns min, and non-positive rates become 1.
func PlaybackRate(rng *rand.Rand, min, max float64) float64 {
	rate := min
	if max > min {
		rate = min + rng.Float64()*(max-min)
	}
	if !(rate > 0) {
		return 1
	}
	return rate
}

// Silent is a SoundPlayer that plays nothing.
type Silent struct{}

// PlaySound does nothing.
func (Silent) PlaySound(string, float64) {}

// Close implements io.Closer for shutdown hooks.
func (sm *SoundManager) Close() error {
	sm.Cleanup()
	return nil
}

var _ io.Closer = (*SoundManager)(nil)
