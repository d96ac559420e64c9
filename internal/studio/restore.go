package studio

import (
	"image"

	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/raster"
)

type target struct {
	layerID string
	snap    raster.Snapshot
}

// restore is one in-flight decode of snapshots back into layers. Decoding
// runs off the loop; applying always happens on it.
type restore struct {
	gen     uint64
	targets []target
	after   func()
	// rollback undoes the history move that requested this restore when
	// decoding fails.
	rollback func()

	ready chan struct{}
	imgs  []*image.NRGBA
	err   error
	done  bool
}

// restore starts decoding targets. Any earlier restore still in flight is
// superseded and its result dropped.
func (s *Studio) restore(targets []target, after, rollback func()) {
	s.gen++
	r := &restore{
		gen:      s.gen,
		targets:  targets,
		after:    after,
		rollback: rollback,
		ready:    make(chan struct{}),
	}
	s.pending = r
	w, h := s.width, s.height
	s.exec.Async(func() {
		defer close(r.ready)
		imgs := make([]*image.NRGBA, len(targets))
		for i, t := range targets {
			img, err := raster.Decode(t.snap, w, h)
			if err != nil {
				r.err = err
				return
			}
			imgs[i] = img
		}
		r.imgs = imgs
	}, func() {
		s.apply(r)
	})
}

func (s *Studio) apply(r *restore) {
	if r.done {
		return
	}
	r.done = true
	log := logrus.WithField("generation", r.gen)
	if r.gen != s.gen {
		log.WithField("current", s.gen).Debug("dropping stale restore")
		return
	}
	s.pending = nil
	if r.err != nil {
		log.WithError(r.err).Warn("snapshot restore failed; layer left unchanged")
		if r.rollback != nil {
			r.rollback()
			s.changed()
		}
		return
	}
	for i, t := range r.targets {
		l, ok := s.stack.LayerByID(t.layerID)
		if !ok {
			log.WithField("layer_id", t.layerID).Warn("restore target no longer exists")
			continue
		}
		if err := l.Surface.Replace(r.imgs[i]); err != nil {
			log.WithError(err).WithField("layer_id", t.layerID).Warn("restore size mismatch")
			continue
		}
		l.Touch()
	}
	if r.after != nil {
		r.after()
	}
	s.changed()
}

// settle waits for the newest in-flight restore and applies it now, so a
// later mutation can never be overwritten by an earlier restore.
func (s *Studio) settle() {
	r := s.pending
	if r == nil {
		return
	}
	<-r.ready
	s.apply(r)
}

// cancelRestore drops any in-flight restore without applying it.
func (s *Studio) cancelRestore() {
	s.gen++
	s.pending = nil
}

// Settle applies any pending restore immediately.
func (s *Studio) Settle() { s.settle() }

// Restoring reports whether a restore is waiting to be applied.
func (s *Studio) Restoring() bool { return s.pending != nil }
