package indicator

import (
	"fmt"
	"math"
	"time"

	"github.com/jfreymuth/pulse"
)

type cueKind int

const (
	cueListen cueKind = iota + 1
	cueStop
	cueComplete
	cueError
)

const cueSampleRate = 24000

// A cue is a short two-note melody at most; note frequency zero is a
// rest.
type note struct {
	hz  float64
	dur time.Duration
}

var cueMelodies = map[cueKind][]note{
	cueListen:   {{hz: 784, dur: 60 * time.Millisecond}, {hz: 0, dur: 25 * time.Millisecond}, {hz: 1047, dur: 80 * time.Millisecond}},
	cueStop:     {{hz: 659, dur: 110 * time.Millisecond}},
	cueComplete: {{hz: 880, dur: 60 * time.Millisecond}, {hz: 0, dur: 20 * time.Millisecond}, {hz: 1319, dur: 100 * time.Millisecond}},
	cueError:    {{hz: 440, dur: 80 * time.Millisecond}, {hz: 0, dur: 25 * time.Millisecond}, {hz: 330, dur: 110 * time.Millisecond}},
}

const cueVolume = 0.16

var cuePCM = func() map[cueKind][]int16 {
	out := make(map[cueKind][]int16, len(cueMelodies))
	for kind, melody := range cueMelodies {
		out[kind] = renderMelody(melody)
	}
	return out
}()

func emitCue(kind cueKind) error {
	samples := cuePCM[kind]
	if len(samples) == 0 {
		return nil
	}

	client, err := pulse.NewClient(
		pulse.ClientApplicationName("practice2panel"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if cursor >= len(samples) {
			return 0, pulse.EndOfData
		}

		n := copy(buf, samples[cursor:])
		cursor += n
		if cursor >= len(samples) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(cueSampleRate),
		pulse.PlaybackLatency(0.02),
		pulse.PlaybackMediaName("interview cue"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play cue stream: %w", err)
	}

	return nil
}

func renderMelody(melody []note) []int16 {
	var pcm []int16
	for _, n := range melody {
		pcm = append(pcm, renderNote(n)...)
	}
	return pcm
}

// renderNote synthesizes one sine tone with a short linear fade at
// each end so the cue never clicks.
func renderNote(n note) []int16 {
	count := int(math.Round(n.dur.Seconds() * cueSampleRate))
	if count <= 0 {
		return nil
	}
	pcm := make([]int16, count)
	if n.hz <= 0 {
		return pcm // rest
	}

	fade := cueSampleRate * 4 / 1000 // 4ms
	if fade > count/2 {
		fade = count / 2
	}

	step := 2 * math.Pi * n.hz / cueSampleRate
	for i := range pcm {
		gain := cueVolume
		if i < fade {
			gain *= float64(i) / float64(fade)
		}
		if tail := count - 1 - i; tail < fade {
			gain *= float64(tail) / float64(fade)
		}
		pcm[i] = int16(math.Round(math.Sin(step*float64(i)) * gain * math.MaxInt16))
	}
	return pcm
}
