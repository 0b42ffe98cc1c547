package game

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/oto/v2"
)

const (
	SampleRate   = 44100
	ChannelCount = 2

	rainVolume  = 0.35
	rainCutoff  = 0.08 // one-pole lowpass coefficient
	dripChance  = 0.0004
	dripDecay   = 0.995
	levelSmooth = 0.0005 // per-sample glide toward the target level
)

// AudioSystem plays a procedural rain bed whose loudness follows splash
// activity.
type AudioSystem struct {
	ctx   *oto.Context
	ready chan struct{}
	rain  *rainReader

	mu     sync.Mutex
	player oto.Player
	closed bool
}

// InitAudio opens the output device. The rain bed starts once the device
// is ready.
func InitAudio(seed uint64) (*AudioSystem, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("audio context: %w", err)
	}
	a := &AudioSystem{ctx: ctx, ready: ready, rain: newRainReader(seed)}
	go func() {
		<-ready
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.closed {
			return
		}
		a.player = ctx.NewPlayer(a.rain)
		a.player.SetVolume(rainVolume)
		a.player.Play()
	}()
	return a, nil
}

// SetRainLevel sets the target loudness in [0,1]. Safe to call from the
// render goroutine while the device pulls samples.
func (a *AudioSystem) SetRainLevel(level float64) {
	if a == nil {
		return
	}
	a.rain.target.Store(math.Float64bits(clamp01(level)))
}

func (a *AudioSystem) Close() {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.player != nil {
		a.player.Close()
		a.player = nil
	}
}

// rainReader is an endless stereo float32 stream of filtered noise with
// sparse drip transients.
type rainReader struct {
	target atomic.Uint64 // float64 bits

	seedL, seedR uint64
	lpL, lpR     float64
	level        float64
	drip         float64
	dripPan      float64
}

func newRainReader(seed uint64) *rainReader {
	return &rainReader{seedL: seed | 1, seedR: seed*0x9e3779b97f4a7c15 | 1}
}

func (r *rainReader) Read(p []byte) (int, error) {
	samples := len(p) / 8
	target := math.Float64frombits(r.target.Load())
	for i := 0; i < samples; i++ {
		r.level += (target - r.level) * levelSmooth
		r.lpL += (lcg(&r.seedL) - r.lpL) * rainCutoff
		r.lpR += (lcg(&r.seedR) - r.lpR) * rainCutoff

		if r.drip < 0.01 && (lcg(&r.seedL)+1)*0.5 < dripChance*r.level {
			r.drip = 1
			r.dripPan = (lcg(&r.seedR) + 1) * 0.5
		}
		d := r.drip * lcg(&r.seedR) * 0.3
		r.drip *= dripDecay

		left := r.level * (r.lpL*2 + d*(1-r.dripPan))
		right := r.level * (r.lpR*2 + d*r.dripPan)
		putStereoF32LR(p, i, softSat(left), softSat(right))
	}
	return samples * 8, nil
}

// putStereoF32LR writes independent left/right samples in [-1,1].
func putStereoF32LR(buf []byte, i int, left, right float64) {
	lv := math.Float32bits(float32(left))
	rv := math.Float32bits(float32(right))
	buf[i*8] = byte(lv)
	buf[i*8+1] = byte(lv >> 8)
	buf[i*8+2] = byte(lv >> 16)
	buf[i*8+3] = byte(lv >> 24)
	buf[i*8+4] = byte(rv)
	buf[i*8+5] = byte(rv >> 8)
	buf[i*8+6] = byte(rv >> 16)
	buf[i*8+7] = byte(rv >> 24)
}

// softSat applies gentle tanh-like saturation.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
