// Package gallery serves saved cartoons over a small read-mostly HTTP API.
package gallery

import (
	"bytes"
	"errors"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/assets"
	"github.com/example/cartoonlab/internal/core"
	internalrender "github.com/example/cartoonlab/internal/render"
)

// Default thumbnail size served when no w/h query is given.
const (
	ThumbWidth  = 160
	ThumbHeight = 120
	maxThumb    = 1024
)

// NewRouter returns the gallery routes mounted under /api.
func NewRouter(store core.CartoonStore) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/favicon.svg", HandleFavicon)
	r.Get("/icon-{size}.png", HandleIcon)
	r.Route("/api", func(r chi.Router) {
		r.Get("/backup", HandleBackup(store))
		r.Route("/cartoons", func(r chi.Router) {
			r.Get("/", HandleList(store))
			r.Get("/{id}", HandleGet(store))
			r.Delete("/{id}", HandleDelete(store))
			r.Get("/{id}/image.png", HandleImage(store))
			r.Get("/{id}/thumbnail.png", HandleThumbnail(store))
		})
	})
	return r
}

func fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

// lookup loads the cartoon named by the {id} URL parameter, writing the
// error response itself when it cannot.
func lookup(store core.CartoonStore, w http.ResponseWriter, r *http.Request) (*core.Cartoon, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		fail(w, r, http.StatusBadRequest, "Cartoon id is required")
		return nil, false
	}
	c, err := store.Get(r.Context(), id)
	if errors.Is(err, core.ErrNotFound) {
		fail(w, r, http.StatusNotFound, "Cartoon not found")
		return nil, false
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"error":      err,
			"cartoon_id": id,
		}).Error("Failed to get cartoon")
		fail(w, r, http.StatusInternalServerError, "Failed to get cartoon")
		return nil, false
	}
	return c, true
}

// HandleList returns every saved cartoon's summary.
func HandleList(store core.CartoonStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.List(r.Context())
		if err != nil {
			logrus.WithField("error", err).Error("Failed to list cartoons")
			fail(w, r, http.StatusInternalServerError, "Failed to list cartoons")
			return
		}
		if list == nil {
			list = []*core.Cartoon{}
		}
		render.JSON(w, r, list)
	}
}

// HandleGet returns a cartoon record including layers and frames.
func HandleGet(store core.CartoonStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := lookup(store, w, r)
		if !ok {
			return
		}
		render.JSON(w, r, c)
	}
}

// HandleDelete removes a cartoon.
func HandleDelete(store core.CartoonStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.Delete(r.Context(), id); err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"cartoon_id": id,
			}).Error("Failed to delete cartoon")
			fail(w, r, http.StatusInternalServerError, "Failed to delete cartoon")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleImage serves the flattened PNG.
func HandleImage(store core.CartoonStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := lookup(store, w, r)
		if !ok {
			return
		}
		if len(c.Image) == 0 {
			fail(w, r, http.StatusNotFound, "Cartoon has no image")
			return
		}
		writePNG(w, c.Image)
	}
}

// HandleThumbnail serves an aspect-fit downscale of the flattened PNG.
// The size may be overridden with the w and h query parameters.
func HandleThumbnail(store core.CartoonStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tw, err := sizeParam(r, "w", ThumbWidth)
		if err != nil {
			fail(w, r, http.StatusBadRequest, err.Error())
			return
		}
		th, err := sizeParam(r, "h", ThumbHeight)
		if err != nil {
			fail(w, r, http.StatusBadRequest, err.Error())
			return
		}
		c, ok := lookup(store, w, r)
		if !ok {
			return
		}
		img, err := png.Decode(bytes.NewReader(c.Image))
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"cartoon_id": c.ID,
			}).Warn("Failed to decode cartoon image")
			fail(w, r, http.StatusUnprocessableEntity, "Cartoon image is unreadable")
			return
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, internalrender.Thumbnail(img, tw, th)); err != nil {
			fail(w, r, http.StatusInternalServerError, "Failed to encode thumbnail")
			return
		}
		writePNG(w, buf.Bytes())
	}
}

// HandleBackup returns every cartoon as one JSON document.
func HandleBackup(store core.CartoonStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := core.CollectBackup(r.Context(), store, time.Now())
		if err != nil {
			logrus.WithField("error", err).Error("Failed to collect backup")
			fail(w, r, http.StatusInternalServerError, "Failed to collect backup")
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="cartoonlab-backup.json"`)
		render.JSON(w, r, b)
	}
}

func sizeParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxThumb {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return n, nil
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// HandleFavicon serves the application icon as SVG.
func HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(assets.IconSVG())
}

// HandleIcon serves the application icon as a PNG of one of the rendered
// sizes.
func HandleIcon(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(chi.URLParam(r, "size"))
	if err != nil {
		fail(w, r, http.StatusBadRequest, "Invalid icon size")
		return
	}
	data, err := assets.IconPNG(size)
	if err != nil {
		fail(w, r, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}
