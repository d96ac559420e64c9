package main

import (
	"context"
	"fmt"

	"github.com/example/cartoonlab/internal/core"
	"github.com/example/cartoonlab/internal/loop"
	"github.com/example/cartoonlab/internal/studio"
	"github.com/example/cartoonlab/internal/tools"
)

// session runs a studio on its own loop goroutine for the line-oriented
// commands. Every studio call goes through do.
type session struct {
	loop   *loop.Loop
	st     *studio.Studio
	cancel context.CancelFunc
	done   chan struct{}

	// text answers the next prompt. It is consumed by the prompt.
	text string
	// confirm answers clear and merge. Nil confirms.
	confirm func(message string) bool
}

func (r *root) newSession(extra ...studio.Option) *session {
	s := &session{loop: loop.New(), done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		defer close(s.done)
		_ = s.loop.Run(ctx)
	}()
	opts := append(r.studioOptions(),
		studio.WithPrompter(studio.PromptFunc(s.prompt)),
		studio.WithConfirmer(studio.ConfirmFunc(s.confirmFn)),
	)
	opts = append(opts, extra...)
	s.loop.Do(func() { s.st = studio.New(s.loop, opts...) })
	return s
}

func (s *session) prompt(_, def string) (string, bool) {
	if s.text != "" {
		t := s.text
		s.text = ""
		return t, true
	}
	return def, def != ""
}

func (s *session) confirmFn(message string) bool {
	if s.confirm == nil {
		return true
	}
	return s.confirm(message)
}

// do runs fn on the loop and waits for any restore it started to land.
func (s *session) do(fn func(st *studio.Studio)) {
	s.loop.Do(func() { fn(s.st) })
	s.loop.Sync()
}

func (s *session) update(fn func(ss *tools.Session)) {
	s.do(func(st *studio.Studio) {
		ss := st.Session()
		fn(&ss)
		st.SetSession(ss.Normalize())
	})
}

func (s *session) load(c *core.Cartoon) error {
	var err error
	s.do(func(st *studio.Studio) { err = st.Load(c) })
	if err != nil {
		return fmt.Errorf("open %s: %w", c.ID, err)
	}
	return nil
}

// save writes the studio to store under name and returns the saved record.
func (s *session) save(ctx context.Context, store core.CartoonStore, name string) (*core.Cartoon, error) {
	var doc *core.Cartoon
	s.do(func(st *studio.Studio) { doc = st.Document(name) })
	if _, err := store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save %q: %w", doc.Name, err)
	}
	s.do(func(st *studio.Studio) { st.Saved(doc) })
	return doc, nil
}

func (s *session) Close() {
	s.loop.Do(func() { s.st.Stop() })
	s.cancel()
	<-s.done
}
