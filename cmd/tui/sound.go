package main

import (
	"log"
	"time"

	"air-hockey/internal/game"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// soundPlayer plays short sine cues. Without an audio device it stays silent.
type soundPlayer struct {
	rate    beep.SampleRate
	enabled bool
}

func newSoundPlayer() *soundPlayer {
	s := &soundPlayer{rate: sampleRate}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		// Non-fatal, game can run without sound
		log.Printf("Audio initialization failed: %v", err)
		return s
	}
	s.enabled = true
	return s
}

// tone returns a quiet sine of the given length.
func (s *soundPlayer) tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(s.rate, freq)
	if err != nil {
		return nil
	}
	return beep.Take(s.rate.N(d), &effects.Volume{
		Streamer: sine,
		Base:     2,
		Volume:   -2,
	})
}

// goalFrequency gives each scorer their own pitch.
func goalFrequency(scorer game.Player) float64 {
	if scorer == game.Player2 {
		return 660
	}
	return 880
}

func (s *soundPlayer) playGoal(scorer game.Player) {
	if !s.enabled {
		return
	}
	if t := s.tone(goalFrequency(scorer), 120*time.Millisecond); t != nil {
		speaker.Play(t)
	}
}

// finishJingle is a rising C major arpeggio.
func (s *soundPlayer) finishJingle() beep.Streamer {
	notes := []beep.Streamer{
		s.tone(523.25, 120*time.Millisecond),
		s.tone(659.25, 120*time.Millisecond),
		s.tone(783.99, 250*time.Millisecond),
	}
	for _, n := range notes {
		if n == nil {
			return nil
		}
	}
	return beep.Seq(notes...)
}

func (s *soundPlayer) playFinish() {
	if !s.enabled {
		return
	}
	if j := s.finishJingle(); j != nil {
		speaker.Play(j)
	}
}

func (s *soundPlayer) close() {
	if s.enabled {
		speaker.Close()
	}
}
