package studio

import (
	"image/color"
	"math/rand"
	"time"

	"github.com/example/cartoonlab/internal/history"
	"github.com/example/cartoonlab/internal/tools"
)

// Option configures a Studio.
type Option func(*Studio)

// WithSize sets the canvas dimensions.
func WithSize(w, h int) Option { return func(s *Studio) { s.width, s.height = w, h } }

// WithBackground sets the colour the background layer starts with.
func WithBackground(c color.NRGBA) Option { return func(s *Studio) { s.background = c } }

// WithSession sets the initial drawing settings.
func WithSession(ss tools.Session) Option { return func(s *Studio) { s.session = ss } }

// WithHistoryCapacity bounds the undo stack.
func WithHistoryCapacity(n int) Option { return func(s *Studio) { s.historyCap = n } }

// WithHistoryScope selects global or per-layer undo.
func WithHistoryScope(sc history.Scope) Option { return func(s *Studio) { s.scope = sc } }

// WithFrameDuration sets the default duration of new frames.
func WithFrameDuration(d time.Duration) Option { return func(s *Studio) { s.frameDur = d } }

// WithPrompter supplies text input for the text tool and layer naming.
func WithPrompter(p Prompter) Option { return func(s *Studio) { s.prompter = p } }

// WithConfirmer supplies yes/no answers before destructive operations.
func WithConfirmer(c Confirmer) Option { return func(s *Studio) { s.confirmer = c } }

// WithOnChange registers a callback run whenever the view may have changed.
func WithOnChange(fn func()) Option { return func(s *Studio) { s.onChange = fn } }

// WithRand fixes the spray randomness source.
func WithRand(r *rand.Rand) Option { return func(s *Studio) { s.rng = r } }
