package studio

import (
	"fmt"
	"image"
	"time"

	"github.com/example/cartoonlab/internal/core"
	"github.com/example/cartoonlab/internal/frames"
	"github.com/example/cartoonlab/internal/layers"
	"github.com/example/cartoonlab/internal/raster"
)

// Document captures the whole studio as a record ready to save. name
// overrides the record name when non-empty.
func (s *Studio) Document(name string) *core.Cartoon {
	s.settle()
	s.finishGesture()
	if name == "" {
		name = s.docName
	}
	if name == "" {
		name = core.AutoSaveName(time.Now())
	}
	c := &core.Cartoon{
		ID:        s.docID,
		Name:      name,
		Width:     s.width,
		Height:    s.height,
		Image:     raster.Encode(s.stack.CompositeImage()),
		CreatedAt: s.createdAt,
	}
	for _, l := range s.stack.Layers() {
		c.Layers = append(c.Layers, core.LayerRecord{
			ID:      l.ID,
			Name:    l.Name,
			Visible: l.Visible,
			Opacity: l.Opacity,
			Blend:   l.Blend.String(),
			Data:    l.Snapshot(),
		})
	}
	for _, f := range s.frames.Frames() {
		fr := core.FrameRecord{
			Name:       f.Name,
			DurationMs: f.Duration.Milliseconds(),
			Stale:      f.Stale,
		}
		for _, ld := range f.Layers {
			fr.Layers = append(fr.Layers, core.FrameLayer{LayerID: ld.LayerID, Data: ld.Snapshot})
		}
		c.Frames = append(c.Frames, fr)
	}
	return c
}

// Saved records the id a store assigned to the current document so later
// saves update the same record.
func (s *Studio) Saved(c *core.Cartoon) {
	s.docID = c.ID
	s.docName = c.Name
	s.createdAt = c.CreatedAt
}

// Name returns the name of the last saved or loaded document, or "".
func (s *Studio) Name() string { return s.docName }

// Load replaces the studio contents with a saved record. Every layer is
// decoded before anything changes; on error the studio is untouched.
func (s *Studio) Load(c *core.Cartoon) error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("cartoon %q: invalid size %dx%d", c.ID, c.Width, c.Height)
	}
	if len(c.Layers) == 0 {
		return fmt.Errorf("cartoon %q: no layers: %w", c.ID, layers.ErrOutOfRange)
	}
	ls := make([]*layers.Layer, 0, len(c.Layers))
	for _, rec := range c.Layers {
		img, err := raster.Decode(rec.Data, c.Width, c.Height)
		if err != nil {
			return fmt.Errorf("layer %q: %w", rec.Name, err)
		}
		mode, err := raster.ParseBlendMode(rec.Blend)
		if err != nil {
			return fmt.Errorf("layer %q: %w", rec.Name, err)
		}
		l := layers.NewLayer(rec.Name, c.Width, c.Height)
		if rec.ID != "" {
			l.ID = rec.ID
		}
		_ = l.Surface.Replace(img)
		l.Visible = rec.Visible
		l.Blend = mode
		ls = append(ls, l)
	}
	st, err := layers.NewStackFrom(c.Width, c.Height, ls, len(ls)-1)
	if err != nil {
		return err
	}
	for i, rec := range c.Layers {
		_ = st.SetOpacity(i, rec.Opacity)
	}
	fs := make([]*frames.Frame, 0, len(c.Frames))
	for _, fr := range c.Frames {
		f := &frames.Frame{
			Name:     fr.Name,
			Duration: time.Duration(fr.DurationMs) * time.Millisecond,
			Stale:    fr.Stale,
		}
		for _, fl := range fr.Layers {
			f.Layers = append(f.Layers, frames.LayerData{LayerID: fl.LayerID, Snapshot: fl.Data})
			if st.IndexOf(fl.LayerID) < 0 {
				f.Stale = true
			}
		}
		fs = append(fs, f)
	}

	s.finishGesture()
	s.width, s.height = c.Width, c.Height
	s.view = raster.New(c.Width, c.Height)
	s.reset(st)
	s.frames.Restore(fs)
	for _, f := range fs {
		f.Thumbnail = s.frameThumbnail(f)
	}
	s.docID = c.ID
	s.docName = c.Name
	s.createdAt = c.CreatedAt
	s.changed()
	return nil
}

// frameThumbnail composites a frame's captured pixels with the current
// layer attributes. Layers the frame did not capture use their live pixels.
func (s *Studio) frameThumbnail(f *frames.Frame) *image.NRGBA {
	flat := raster.New(s.width, s.height)
	for _, l := range s.stack.Layers() {
		if !l.Visible {
			continue
		}
		src := l.Surface
		for _, ld := range f.Layers {
			if ld.LayerID != l.ID {
				continue
			}
			if img, err := raster.Decode(ld.Snapshot, s.width, s.height); err == nil {
				src = raster.FromImage(img)
			}
			break
		}
		flat.DrawSurface(src, l.Opacity, l.Blend)
	}
	return flat.Thumbnail(frames.ThumbWidth, frames.ThumbHeight)
}
