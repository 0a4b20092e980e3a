package player

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// ErrUnsupportedFormat is returned by Open for indexed-but-unplayable file
// types (the scanner accepts more extensions than beep can decode).
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Engine is the native playback capability the session drives. A load
// failure from Open is terminal for that attempt; there is no retry inside
// the engine.
type Engine interface {
	Open(path string) error
	Play(onComplete func(success bool))
	Pause()
	Resume()
	Stop()
	SetPosition(seconds float64) error
	Position() float64
	Duration() float64
	Release()
}

// EngineFactory builds a fresh engine per track. The session owns at most
// one live engine at a time.
type EngineFactory func() Engine

// BeepEngine plays local files through the speaker package.
type BeepEngine struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
}

func NewBeepEngine() Engine {
	return &BeepEngine{}
}

func (e *BeepEngine) Open(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		f.Close()
		return fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
	if err != nil {
		f.Close()
		return err
	}

	e.streamer = streamer
	e.format = format

	// Re-initializing the speaker per track keeps the output sample rate
	// matched to the file.
	return speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
}

func (e *BeepEngine) Play(onComplete func(success bool)) {
	if e.streamer == nil {
		return
	}

	e.ctrl = &beep.Ctrl{
		Streamer: beep.Seq(e.streamer, beep.Callback(func() {
			if onComplete != nil {
				// A streamer that drained early due to a decode error
				// reports it here instead of a natural completion.
				onComplete(e.streamer.Err() == nil)
			}
		})),
	}
	speaker.Play(e.ctrl)
}

func (e *BeepEngine) Pause() {
	if e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
}

func (e *BeepEngine) Resume() {
	if e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
}

func (e *BeepEngine) Stop() {
	speaker.Clear()
}

func (e *BeepEngine) SetPosition(seconds float64) error {
	if e.streamer == nil {
		return errors.New("no song loaded")
	}
	speaker.Lock()
	defer speaker.Unlock()
	return e.streamer.Seek(e.format.SampleRate.N(time.Duration(seconds * float64(time.Second))))
}

func (e *BeepEngine) Position() float64 {
	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	n := e.streamer.Position()
	speaker.Unlock()
	return e.format.SampleRate.D(n).Seconds()
}

func (e *BeepEngine) Duration() float64 {
	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Len()).Seconds()
}

func (e *BeepEngine) Release() {
	if e.streamer == nil {
		return
	}
	speaker.Clear()
	e.streamer.Close()
	e.streamer = nil
	e.ctrl = nil
}
