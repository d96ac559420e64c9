package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/cartoonlab/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(out *[]sent) Sender {
	return func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		*out = append(*out, s)
		return nil
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Save("x", nil)
	n.Export("x.png")
	n.Copy("")
	if len(got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(got))
	}
	var nilNotifier *Notifier
	nilNotifier.Copy("safe")
}

func TestTemplatesFromEnv(t *testing.T) {
	t.Setenv("CARTOONLAB_NOTIFY_TITLE", "Lab")
	t.Setenv("CARTOONLAB_NOTIFY_COPY_TEXT", "Clipboard has %s")
	var got []sent
	n := New(LoadPreferences()).WithSender(recorder(&got))
	n.Enable(EventCopy, true)
	n.Copy("")
	if len(got) != 1 || got[0].title != "Lab" || got[0].body != "Clipboard has cartoon" {
		t.Fatalf("unexpected notifications %+v", got)
	}
}

func TestSavePreviewIsTemporary(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Enable(EventSave, true)
	n.Save("Sunny day", image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	if len(got) != 1 || got[0].body != "Saved Sunny day" {
		t.Fatalf("unexpected notifications %+v", got)
	}
	if !got[0].iconExisted {
		t.Fatalf("preview missing during send")
	}
	if _, err := os.Stat(got[0].opts.IconPath); !os.IsNotExist(err) {
		t.Fatalf("preview not removed: %v", err)
	}
}

func TestExportUsesAbsolutePathAsIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cartoon.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Enable(EventExport, true)
	n.Export(path)
	if len(got) != 1 || got[0].opts.IconPath != path || got[0].body != "Exported "+path {
		t.Fatalf("unexpected notifications %+v", got)
	}
}

func TestSendErrorIsSwallowed(t *testing.T) {
	n := New(DefaultPreferences()).WithSender(func(string, string, platform.Options) error {
		return errors.New("no bus")
	})
	n.Enable(EventCopy, true)
	n.Copy("x")
}
