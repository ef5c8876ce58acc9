package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/hailam/simplechess/internal/game"
)

// SoundType represents different sound effects.
type SoundType int

const (
	SoundSelect SoundType = iota
	SoundMove
	SoundMenu
	SoundGameEnd
	SoundError
	numSounds
)

const sampleRate = 44100

// voice describes a synthesized effect: a sum of sine partials shaped by a
// linear attack and an exponential or linear release.
type voice struct {
	freqs   []float64
	seconds float64
	gain    float64
	attack  float64 // fraction of the duration
	decay   float64 // exponential decay rate, 0 for a linear fade
	rattle  bool    // adds a short noise burst, like a piece set down on wood
	vibrato float64
}

var voices = [numSounds]voice{
	SoundSelect:  {freqs: []float64{660}, seconds: 0.06, gain: 0.25, attack: 0.1},
	SoundMove:    {freqs: []float64{440}, seconds: 0.08, gain: 0.3, decay: 30, rattle: true},
	SoundMenu:    {freqs: []float64{300}, seconds: 0.05, gain: 0.2, decay: 30, rattle: true},
	SoundGameEnd: {freqs: []float64{261.63, 329.63, 392.00}, seconds: 0.4, gain: 0.5, attack: 0.1},
	SoundError:   {freqs: []float64{180, 190}, seconds: 0.25, gain: 0.25, attack: 0.05, vibrato: 6},
}

// envelope returns the amplitude at progress p (0..1) through the voice.
func (v voice) envelope(p float64) float64 {
	if v.attack > 0 && p < v.attack {
		return p / v.attack
	}
	if v.decay > 0 {
		return math.Exp(-p * v.seconds * v.decay)
	}
	return 1 - (p-v.attack)/(1-v.attack)
}

// render synthesizes the voice as 16-bit little-endian stereo PCM.
func (v voice) render() []byte {
	n := int(sampleRate * v.seconds)
	pcm := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		s := 0.0
		for _, f := range v.freqs {
			if v.vibrato > 0 {
				f += 4 * math.Sin(2*math.Pi*v.vibrato*t)
			}
			s += math.Sin(2 * math.Pi * f * t)
		}
		s /= float64(len(v.freqs))
		if v.rattle {
			s += (math.Sin(float64(i)*0.3) + math.Sin(float64(i)*0.7)) * 0.3
		}
		s *= v.envelope(float64(i)/float64(n)) * v.gain

		frame := uint16(int16(math.Max(-1, math.Min(1, s)) * 32767))
		for ch := 0; ch < 2; ch++ {
			pcm[i*4+ch*2] = byte(frame)
			pcm[i*4+ch*2+1] = byte(frame >> 8)
		}
	}
	return pcm
}

// AudioManager plays the synthesized effects.
type AudioManager struct {
	context *audio.Context
	pcm     [numSounds][]byte
	enabled bool
	volume  float64
}

// NewAudioManager renders every effect up front.
func NewAudioManager(enabled bool, volume float64) *AudioManager {
	am := &AudioManager{
		context: audio.NewContext(sampleRate),
		enabled: enabled,
	}
	am.SetVolume(volume)
	for i, v := range voices {
		am.pcm[i] = v.render()
	}
	return am
}

// PlaySound plays a sound effect. Effects may overlap.
func (am *AudioManager) PlaySound(sound SoundType) {
	if !am.enabled || sound < 0 || sound >= numSounds {
		return
	}
	p := am.context.NewPlayerFromBytes(am.pcm[sound])
	p.SetVolume(am.volume)
	p.Play()
}

// Play implements game.Effects.
func (am *AudioManager) Play(s game.Sound) {
	switch s {
	case game.SoundSelect:
		am.PlaySound(SoundSelect)
	case game.SoundMove:
		am.PlaySound(SoundMove)
	case game.SoundGameEnd:
		am.PlaySound(SoundGameEnd)
	}
}

func (am *AudioManager) SetEnabled(enabled bool) { am.enabled = enabled }

func (am *AudioManager) IsEnabled() bool { return am.enabled }

// SetVolume sets the volume, clamped to 0..1.
func (am *AudioManager) SetVolume(volume float64) {
	am.volume = math.Max(0, math.Min(1, volume))
}
