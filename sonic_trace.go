//go:build !headless

// sonic_trace.go - Audible trace sink (oto v3)
//
// Renders each Issue event as a short tone burst pitched by functional
// unit, so a long schedule can be "listened to" for stall-free stretches
// versus unit contention. Modeled on the teacher's OtoPlayer
// (audio_backend_oto.go): same Context/Player-over-io.Reader shape, with
// an internal oscillator standing in for SoundChip.

package main

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/intuitionamiga/ppc2sim/internal/ppc2"
)

const sonicSampleRate = 44100

// unitPitch gives each functional unit a distinct, easily-told-apart tone.
var unitPitch = map[ppc2.Unit]float64{
	ppc2.UnitFP:  880,
	ppc2.UnitINT: 440,
	ppc2.UnitLS:  220,
}

// SonicTrace is a TraceSink that plays one voice at a time; a new Issue
// event cuts off whatever burst is still ringing.
type SonicTrace struct {
	ctx    *oto.Context
	player *oto.Player
	mu     sync.Mutex
	phase  float64
	freq   atomic.Uint64 // math.Float64bits of current frequency, 0 = silent
	remain atomic.Int64  // samples left in the current burst
}

func NewSonicTrace() (*SonicTrace, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sonicSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	s := &SonicTrace{ctx: ctx}
	s.player = ctx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// Read implements io.Reader for the oto player, streaming the
// oscillator's current burst (silence when none is active).
func (s *SonicTrace) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(p) / 4
	for i := 0; i < n; i++ {
		var sample float32
		if bits := s.freq.Load(); bits != 0 && s.remain.Load() > 0 {
			f := math.Float64frombits(bits)
			sample = float32(0.2 * math.Sin(s.phase))
			s.phase += 2 * math.Pi * f / sonicSampleRate
			s.remain.Add(-1)
		}
		putFloat32LE(p[i*4:], sample)
	}
	return n * 4, nil
}

func putFloat32LE(b []byte, v float32) {
	bits := math.Float32bits(v)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
}

// Issue starts a 50ms tone burst pitched by instr's functional unit.
func (s *SonicTrace) Issue(cycle int, instr *ppc2.Instruction) {
	f, ok := unitPitch[instr.Unit]
	if !ok {
		f = 110
	}
	s.freq.Store(math.Float64bits(f))
	s.remain.Store(sonicSampleRate / 20)
}

func (s *SonicTrace) Stall(cycle int, reason string) {}

func (s *SonicTrace) Close() {
	if s.player != nil {
		s.player.Close()
	}
}
