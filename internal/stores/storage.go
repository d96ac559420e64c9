// Package stores selects a cartoon storage backend.
package stores

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/core"
	"github.com/example/cartoonlab/internal/stores/filesystem"
	"github.com/example/cartoonlab/internal/stores/memory"
	"github.com/example/cartoonlab/internal/stores/sqlite"
)

// Options chooses and locates a backend.
type Options struct {
	// Type is "filesystem", "sqlite" or "memory".
	Type string
	// Path is the directory used by the filesystem backend.
	Path string
	// DataSource is the SQLite file or DSN.
	DataSource string
}

// FromEnv overlays STORAGE_TYPE, LOCAL_STORAGE_PATH and DATA_SOURCE_NAME
// onto o.
func (o Options) FromEnv() Options {
	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		o.Type = v
	}
	if v := os.Getenv("LOCAL_STORAGE_PATH"); v != "" {
		o.Path = v
	}
	if v := os.Getenv("DATA_SOURCE_NAME"); v != "" {
		o.DataSource = v
	}
	return o
}

// GetStore opens the backend named by o.Type. An empty type selects the
// filesystem backend.
func GetStore(o Options) (core.CartoonStore, error) {
	fields := logrus.Fields{"storageType": o.Type}
	var (
		store core.CartoonStore
		err   error
	)
	switch strings.ToLower(o.Type) {
	case "", "filesystem":
		if o.Path == "" {
			o.Path = "./data"
		}
		fields["storageType"] = "filesystem"
		fields["basePath"] = o.Path
		store, err = filesystem.NewStore(o.Path)
	case "sqlite":
		if o.DataSource == "" {
			o.DataSource = "cartoonlab.db"
		}
		fields["dataSourceName"] = o.DataSource
		store, err = sqlite.NewStore(o.DataSource)
	case "memory":
		store = memory.NewStore()
		fields["storageType"] = "in-memory"
	default:
		return nil, fmt.Errorf("unknown storage type %q", o.Type)
	}
	if err != nil {
		return nil, err
	}
	logrus.WithFields(fields).Debug("Use storage")
	return store, nil
}
