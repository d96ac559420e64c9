package studio

import "errors"

// ErrAborted reports an operation cancelled by the user through a prompt
// or confirmation.
var ErrAborted = errors.New("studio: operation aborted")

// Prompter asks the user for a line of text. ok is false when the user
// cancelled.
type Prompter interface {
	Prompt(message, def string) (string, bool)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(message, def string) (string, bool)

// Prompt implements Prompter.
func (f PromptFunc) Prompt(message, def string) (string, bool) { return f(message, def) }

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// Defaults used when no collaborator is configured: prompts accept their
// default text and confirmations succeed.
type defaults struct{}

func (defaults) Prompt(_ string, def string) (string, bool) { return def, def != "" }
func (defaults) Confirm(string) bool                        { return true }
