// Package frames stores animation frames captured from a layer stack and
// plays them back on a cooperative timer.
package frames

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/loop"
	"github.com/example/cartoonlab/internal/raster"
)

var (
	// ErrOutOfRange reports a frame index that does not exist.
	ErrOutOfRange = errors.New("frames: index out of range")
	// ErrEmptyFrameSet reports playback with no playable frame.
	ErrEmptyFrameSet = errors.New("frames: no frames to play")
	// ErrStaleFrame reports a frame that references a layer which no
	// longer exists.
	ErrStaleFrame = errors.New("frames: frame references missing layers")
)

// Default frame settings.
const (
	DefaultDuration = 100 * time.Millisecond
	ThumbWidth      = 80
	ThumbHeight     = 60
)

// LayerData is one layer's pixels as captured in a frame.
type LayerData struct {
	LayerID  string
	Snapshot raster.Snapshot
}

// Frame is a captured state of the whole layer stack.
type Frame struct {
	ID        int
	Name      string
	Duration  time.Duration
	Layers    []LayerData
	Thumbnail *image.NRGBA
	// Stale is set when a layer the frame references has been removed.
	Stale bool
}

func (f *Frame) references(id string) bool {
	for _, l := range f.Layers {
		if l.LayerID == id {
			return true
		}
	}
	return false
}

// Policy tunes playback. A positive Interval overrides every frame's own
// duration.
type Policy struct {
	Interval time.Duration
}

// Store is an ordered list of frames plus playback state. It must only be
// used from the executor goroutine.
type Store struct {
	exec       loop.Executor
	defaultDur time.Duration
	frames     []*Frame
	current    int

	timer  loop.Timer
	policy Policy
	show   func(int)
}

// NewStore creates an empty store. Playback timers run on exec.
func NewStore(exec loop.Executor, defaultDur time.Duration) *Store {
	if defaultDur <= 0 {
		defaultDur = DefaultDuration
	}
	return &Store{exec: exec, defaultDur: defaultDur}
}

// Len returns the number of frames.
func (s *Store) Len() int { return len(s.frames) }

// Current returns the index of the frame last selected or shown.
func (s *Store) Current() int { return s.current }

// Frames returns all frames in order. The slice must not be modified.
func (s *Store) Frames() []*Frame { return s.frames }

// Add appends a frame named "Frame N" and returns its index.
func (s *Store) Add(layers []LayerData, thumb *image.NRGBA) int {
	id := len(s.frames)
	s.frames = append(s.frames, &Frame{
		ID:        id,
		Name:      fmt.Sprintf("Frame %d", id+1),
		Duration:  s.defaultDur,
		Layers:    layers,
		Thumbnail: thumb,
	})
	return id
}

// Get returns frame i.
func (s *Store) Get(i int) (*Frame, error) {
	if i < 0 || i >= len(s.frames) {
		return nil, fmt.Errorf("frame %d: %w", i, ErrOutOfRange)
	}
	return s.frames[i], nil
}

// Save replaces frame i's captured layers, which also clears Stale.
func (s *Store) Save(i int, layers []LayerData, thumb *image.NRGBA) error {
	f, err := s.Get(i)
	if err != nil {
		return err
	}
	f.Layers = layers
	f.Thumbnail = thumb
	f.Stale = false
	return nil
}

// Select makes frame i current and returns it for loading. A stale frame
// is rejected and the current frame is left unchanged.
func (s *Store) Select(i int) (*Frame, error) {
	f, err := s.Get(i)
	if err != nil {
		return nil, err
	}
	if f.Stale {
		return nil, fmt.Errorf("frame %d: %w", i, ErrStaleFrame)
	}
	s.current = i
	return f, nil
}

// SetDuration changes how long frame i is shown during playback.
func (s *Store) SetDuration(i int, d time.Duration) error {
	f, err := s.Get(i)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("frame %d: duration must be positive, got %v", i, d)
	}
	f.Duration = d
	return nil
}

// Rename sets frame i's display name.
func (s *Store) Rename(i int, name string) error {
	f, err := s.Get(i)
	if err != nil {
		return err
	}
	f.Name = name
	return nil
}

// Invalidate marks every frame referencing one of layerIDs as stale and
// returns how many frames changed state.
func (s *Store) Invalidate(layerIDs ...string) int {
	n := 0
	for _, f := range s.frames {
		if f.Stale {
			continue
		}
		for _, id := range layerIDs {
			if f.references(id) {
				f.Stale = true
				n++
				logrus.WithFields(logrus.Fields{
					"frame_id": f.ID,
					"layer_id": id,
				}).Debug("frame invalidated")
				break
			}
		}
	}
	return n
}

// Playing reports whether playback is running.
func (s *Store) Playing() bool { return s.timer != nil }

// Play starts looping playback from the current frame, calling show with
// each frame index as it becomes current. Any previous playback is stopped
// first. With no playable frame it returns ErrEmptyFrameSet and starts no
// timer.
func (s *Store) Play(p Policy, show func(int)) error {
	s.Stop()
	if _, ok := s.nextPlayable(-1); !ok {
		return ErrEmptyFrameSet
	}
	s.policy = p
	s.show = show
	s.timer = s.exec.After(s.delay(s.current), s.step)
	return nil
}

// Stop cancels playback. No show callback runs after Stop returns.
func (s *Store) Stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Store) step() {
	next, ok := s.nextPlayable(s.current)
	if !ok {
		logrus.Warn("playback stopped: every frame is stale")
		s.timer = nil
		return
	}
	s.current = next
	if s.show != nil {
		s.show(next)
	}
	// show may have stopped playback.
	if s.timer == nil {
		return
	}
	s.timer = s.exec.After(s.delay(next), s.step)
}

// nextPlayable returns the first non-stale frame after from, wrapping.
func (s *Store) nextPlayable(from int) (int, bool) {
	n := len(s.frames)
	for k := 1; k <= n; k++ {
		i := ((from+k)%n + n) % n
		if !s.frames[i].Stale {
			return i, true
		}
	}
	return 0, false
}

func (s *Store) delay(i int) time.Duration {
	if s.policy.Interval > 0 {
		return s.policy.Interval
	}
	if i >= 0 && i < len(s.frames) && s.frames[i].Duration > 0 {
		return s.frames[i].Duration
	}
	return s.defaultDur
}

// Reset stops playback and discards every frame.
func (s *Store) Reset() {
	s.Stop()
	s.frames = nil
	s.current = 0
}

// Restore replaces the frame list, renumbering ids by position.
func (s *Store) Restore(frames []*Frame) {
	s.Reset()
	for i, f := range frames {
		f.ID = i
		if f.Duration <= 0 {
			f.Duration = s.defaultDur
		}
	}
	s.frames = frames
}
