package player

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"slices"
	"sync"
	"time"

	"tunebox/backend/store"
)

// ErrNoTrack is returned by operations that need a loaded track.
var ErrNoTrack = errors.New("no track loaded")

// State is the playback state machine.
type State int

const (
	// StateIdle covers both "nothing ever played" and "queue ran out":
	// the current track and queue survive the latter so the UI keeps
	// showing them.
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

type RepeatMode string

const (
	RepeatOff RepeatMode = "off"
	RepeatAll RepeatMode = "all"
	RepeatOne RepeatMode = "one"
)

func ParseRepeatMode(s string) (RepeatMode, error) {
	switch RepeatMode(s) {
	case RepeatOff, RepeatAll, RepeatOne:
		return RepeatMode(s), nil
	}
	return RepeatOff, fmt.Errorf("unknown repeat mode %q", s)
}

const pollInterval = 500 * time.Millisecond

// Session owns the playback state machine, the active queue and the single
// live engine instance. All mutating operations serialize on one mutex; two
// playback commands never interleave.
type Session struct {
	mu        sync.Mutex
	store     *store.Store
	newEngine EngineFactory

	engine   Engine
	gen      uint64 // bumped per play request; stale engine callbacks check it
	state    State
	queue    []store.Song
	index    int
	shuffle  bool
	repeat   RepeatMode
	position float64
	duration float64
	pollStop chan struct{}
}

// NewSession wires the controller to the store. A nil factory gets the beep
// engine; tests pass a fake.
func NewSession(st *store.Store, factory EngineFactory) *Session {
	if factory == nil {
		factory = NewBeepEngine
	}
	return &Session{
		store:     st,
		newEngine: factory,
		repeat:    RepeatOff,
	}
}

// PlaySong loads and starts a song, replacing whatever was playing. The list
// becomes the active queue; an empty list queues just the one song. A load
// failure leaves the session idle and is returned, never swallowed.
func (s *Session) PlaySong(song store.Song, list []store.Song) error {
	s.mu.Lock()
	s.stopPollingLocked()
	if s.engine != nil {
		// only one engine instance may be live at a time
		s.engine.Stop()
		s.engine.Release()
		s.engine = nil
	}
	s.gen++
	gen := s.gen

	queue := list
	if len(queue) == 0 {
		queue = []store.Song{song}
	}
	idx := 0
	for i, t := range queue {
		if t.ID == song.ID {
			idx = i
			break
		}
	}
	s.queue = queue
	s.index = idx
	s.state = StateLoading
	s.position = 0
	s.duration = 0

	eng := s.newEngine()
	s.mu.Unlock()

	err := eng.Open(song.Path)

	s.mu.Lock()
	if gen != s.gen {
		// superseded by a newer play request while loading; a late
		// result must not resurrect stale state
		s.mu.Unlock()
		eng.Release()
		return nil
	}
	if err != nil {
		s.state = StateIdle
		s.mu.Unlock()
		return fmt.Errorf("load %s: %w", song.Path, err)
	}

	s.engine = eng
	s.duration = eng.Duration()
	s.state = StatePlaying
	eng.Play(func(ok bool) {
		// the engine invokes this from its own goroutine; hop off it
		// before taking the session lock
		go s.handleTrackEnd(gen, ok)
	})
	s.startPollingLocked(gen)
	duration := s.duration
	s.mu.Unlock()

	// History append and last-played persistence happen only after the
	// engine confirmed the load, and never block or fail the transition.
	go s.recordPlay(song, duration)
	return nil
}

// handleTrackEnd is the end-of-track transition, branching on repeat mode.
func (s *Session) handleTrackEnd(gen uint64, success bool) {
	s.mu.Lock()
	if gen != s.gen || s.engine == nil {
		s.mu.Unlock()
		return
	}

	if !success {
		// Runtime playback failure is terminal for this track: no
		// retry, no auto-skip, so a bad file cannot loop forever.
		log.Printf("ERROR: playback failed for %q", s.queue[s.index].Title)
		s.stopPollingLocked()
		s.state = StateIdle
		s.mu.Unlock()
		return
	}

	if s.repeat == RepeatOne {
		if err := s.engine.SetPosition(0); err != nil {
			log.Printf("ERROR: restarting track: %v", err)
		}
		s.position = 0
		s.state = StatePlaying
		s.engine.Play(func(ok bool) {
			go s.handleTrackEnd(gen, ok)
		})
		s.mu.Unlock()
		return
	}

	next := s.index + 1
	if next >= len(s.queue) {
		if s.repeat != RepeatAll {
			// end of queue: stop, keep the track and queue visible
			s.stopPollingLocked()
			s.state = StateIdle
			s.position = 0
			s.mu.Unlock()
			return
		}
		next = 0
	}

	song := s.queue[next]
	queue := s.queue
	s.mu.Unlock()

	if err := s.PlaySong(song, queue); err != nil {
		log.Printf("ERROR: advancing to next track: %v", err)
	}
}

func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying || s.engine == nil {
		return
	}
	s.engine.Pause()
	s.stopPollingLocked()
	s.state = StatePaused
}

func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused || s.engine == nil {
		return
	}
	s.engine.Resume()
	s.startPollingLocked(s.gen)
	s.state = StatePlaying
}

func (s *Session) TogglePlayPause() {
	s.mu.Lock()
	playing := s.state == StatePlaying
	s.mu.Unlock()

	if playing {
		s.Pause()
	} else {
		s.Resume()
	}
}

// SkipToNext advances to the neighboring track. At the queue boundary it
// wraps only under repeat-all; otherwise it stays put. That is a boundary
// policy, not an error.
func (s *Session) SkipToNext() error {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return nil
	}
	next := s.index + 1
	if next >= len(s.queue) {
		if s.repeat != RepeatAll {
			s.mu.Unlock()
			return nil
		}
		next = 0
	}
	song, queue := s.queue[next], s.queue
	s.mu.Unlock()

	return s.PlaySong(song, queue)
}

func (s *Session) SkipToPrevious() error {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return nil
	}
	prev := s.index - 1
	if prev < 0 {
		if s.repeat != RepeatAll {
			s.mu.Unlock()
			return nil
		}
		prev = len(s.queue) - 1
	}
	song, queue := s.queue[prev], s.queue
	s.mu.Unlock()

	return s.PlaySong(song, queue)
}

// SeekTo sets the engine position and reflects it immediately instead of
// waiting for the next poll tick.
func (s *Session) SeekTo(position float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return ErrNoTrack
	}
	if err := s.engine.SetPosition(position); err != nil {
		return err
	}
	s.position = position
	return nil
}

// PlayShuffled starts playback from the head of a uniformly random
// permutation of the list. rand.Shuffle is an unbiased Fisher-Yates shuffle.
func (s *Session) PlayShuffled(list []store.Song) error {
	if len(list) == 0 {
		return nil
	}
	shuffled := slices.Clone(list)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return s.PlaySong(shuffled[0], shuffled)
}

func (s *Session) SetShuffle(enabled bool) {
	s.mu.Lock()
	s.shuffle = enabled
	s.mu.Unlock()
	s.persistSetting(func(ctx context.Context) error {
		return s.store.SaveShuffle(ctx, enabled)
	})
}

func (s *Session) SetRepeatMode(mode RepeatMode) {
	s.mu.Lock()
	s.repeat = mode
	s.mu.Unlock()
	s.persistSetting(func(ctx context.Context) error {
		return s.store.SaveRepeatMode(ctx, string(mode))
	})
}

// CycleRepeatMode steps off -> all -> one -> off and returns the new mode.
func (s *Session) CycleRepeatMode() RepeatMode {
	s.mu.Lock()
	var next RepeatMode
	switch s.repeat {
	case RepeatOff:
		next = RepeatAll
	case RepeatAll:
		next = RepeatOne
	default:
		next = RepeatOff
	}
	s.repeat = next
	s.mu.Unlock()

	s.persistSetting(func(ctx context.Context) error {
		return s.store.SaveRepeatMode(ctx, string(next))
	})
	return next
}

// Status is a snapshot of the session for API and IPC consumers.
type Status struct {
	State       string      `json:"state"`
	Track       *store.Song `json:"track,omitempty"`
	QueueLength int         `json:"queue_length"`
	Index       int         `json:"index"`
	Shuffle     bool        `json:"shuffle"`
	Repeat      RepeatMode  `json:"repeat"`
	Position    float64     `json:"position"`
	Duration    float64     `json:"duration"`
}

// Queue returns a snapshot of the active queue in playback order.
func (s *Session) Queue() []store.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queue)
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		State:       s.state.String(),
		QueueLength: len(s.queue),
		Index:       s.index,
		Shuffle:     s.shuffle,
		Repeat:      s.repeat,
		Position:    s.position,
		Duration:    s.duration,
	}
	if len(s.queue) > 0 && s.index < len(s.queue) {
		track := s.queue[s.index]
		st.Track = &track
	}
	return st
}

// Close stops polling, releases the engine and resets the session. Safe to
// call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopPollingLocked()
	s.gen++ // invalidate any in-flight load or callback
	if s.engine != nil {
		s.engine.Stop()
		s.engine.Release()
		s.engine = nil
	}
	s.state = StateIdle
	s.queue = nil
	s.index = 0
	s.position = 0
	s.duration = 0
}

// startPollingLocked begins the position poll for the given generation. The
// previous poller is always stopped first so two never run at once.
func (s *Session) startPollingLocked(gen uint64) {
	s.stopPollingLocked()
	stop := make(chan struct{})
	s.pollStop = stop

	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				if gen != s.gen || s.engine == nil {
					s.mu.Unlock()
					return
				}
				s.position = s.engine.Position()
				s.mu.Unlock()
			}
		}
	}()
}

// stopPollingLocked must run before the engine is released so no poll tick
// touches a released streamer.
func (s *Session) stopPollingLocked() {
	if s.pollStop != nil {
		close(s.pollStop)
		s.pollStop = nil
	}
}

// recordPlay is fire and forget: failures are logged, never surfaced into
// the playback transition.
func (s *Session) recordPlay(song store.Song, duration float64) {
	if s.store == nil {
		return
	}
	ctx := context.Background()

	if err := s.store.AddSongToHistory(ctx, song.ID); err != nil {
		log.Printf("WARN: recording play history: %v", err)
	}
	if err := s.store.SaveLastPlayed(ctx, song.ID); err != nil {
		log.Printf("WARN: saving last played song: %v", err)
	}
	if song.Duration == 0 && duration > 0 {
		if err := s.store.UpdateSongDuration(ctx, song.ID, int64(duration+0.5)); err != nil {
			log.Printf("WARN: backfilling song duration: %v", err)
		}
	}
}

func (s *Session) persistSetting(save func(context.Context) error) {
	if s.store == nil {
		return
	}
	if err := save(context.Background()); err != nil {
		log.Printf("WARN: persisting setting: %v", err)
	}
}
