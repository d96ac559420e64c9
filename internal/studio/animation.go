package studio

import (
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/frames"
	"github.com/example/cartoonlab/internal/raster"
)

// FrameInfo is what the timeline shows for one frame.
type FrameInfo struct {
	Index     int
	Name      string
	Duration  time.Duration
	Stale     bool
	Current   bool
	Thumbnail *image.NRGBA
}

// Frames describes every frame in order.
func (s *Studio) Frames() []FrameInfo {
	out := make([]FrameInfo, 0, s.frames.Len())
	for i, f := range s.frames.Frames() {
		out = append(out, FrameInfo{
			Index:     i,
			Name:      f.Name,
			Duration:  f.Duration,
			Stale:     f.Stale,
			Current:   i == s.frames.Current(),
			Thumbnail: f.Thumbnail,
		})
	}
	return out
}

func (s *Studio) capture() ([]frames.LayerData, *image.NRGBA) {
	data := make([]frames.LayerData, 0, s.stack.Len())
	for _, l := range s.stack.Layers() {
		data = append(data, frames.LayerData{LayerID: l.ID, Snapshot: l.Snapshot()})
	}
	flat := raster.FromImage(s.stack.CompositeImage())
	return data, flat.Thumbnail(frames.ThumbWidth, frames.ThumbHeight)
}

// AddFrame captures every layer into a new frame and returns its index.
func (s *Studio) AddFrame() int {
	s.settle()
	s.finishGesture()
	data, thumb := s.capture()
	i := s.frames.Add(data, thumb)
	s.changed()
	return i
}

// SaveFrame re-captures every layer into frame i.
func (s *Studio) SaveFrame(i int) error {
	s.settle()
	s.finishGesture()
	data, thumb := s.capture()
	if err := s.frames.Save(i, data, thumb); err != nil {
		return err
	}
	s.changed()
	return nil
}

// SetFrameDuration changes how long frame i shows during playback.
func (s *Studio) SetFrameDuration(i int, d time.Duration) error {
	return s.frames.SetDuration(i, d)
}

// RenameFrame sets frame i's name.
func (s *Studio) RenameFrame(i int, name string) error {
	if err := s.frames.Rename(i, name); err != nil {
		return err
	}
	s.changed()
	return nil
}

// SetActiveFrame loads frame i's captured pixels back into the layers it
// references, discarding unsaved edits. Undo history restarts from the
// loaded state. A frame referencing a missing layer fails with
// frames.ErrStaleFrame and changes nothing.
func (s *Studio) SetActiveFrame(i int) error {
	s.finishGesture()
	f, err := s.frames.Get(i)
	if err != nil {
		return err
	}
	targets := make([]target, 0, len(f.Layers))
	for _, ld := range f.Layers {
		if _, ok := s.stack.LayerByID(ld.LayerID); !ok {
			s.frames.Invalidate(ld.LayerID)
			return fmt.Errorf("frame %d: %w", i, frames.ErrStaleFrame)
		}
		targets = append(targets, target{layerID: ld.LayerID, snap: ld.Snapshot})
	}
	if _, err := s.frames.Select(i); err != nil {
		return err
	}
	s.restore(targets, s.restartHistory, nil)
	return nil
}

func (s *Studio) restartHistory() {
	s.book.Reset()
	s.trackAll()
}

// Play loops through the frames. A positive interval overrides each
// frame's own duration.
func (s *Studio) Play(interval time.Duration) error {
	s.finishGesture()
	err := s.frames.Play(frames.Policy{Interval: interval}, func(i int) {
		if err := s.SetActiveFrame(i); err != nil {
			logrus.WithError(err).WithField("frame_id", i).Warn("skipping frame during playback")
		}
	})
	if err != nil {
		return err
	}
	s.changed()
	return nil
}

// Stop halts playback.
func (s *Studio) Stop() {
	s.frames.Stop()
	s.changed()
}

// Playing reports whether playback is running.
func (s *Studio) Playing() bool { return s.frames.Playing() }
