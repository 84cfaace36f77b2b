package tinyrel

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tuannm99/tinyrel/internal"
	"github.com/tuannm99/tinyrel/internal/engine"
	"github.com/tuannm99/tinyrel/internal/index"
)

var ErrUnknownScheme = errors.New("tinyrel: unknown connection scheme")

// Connect opens a database from a URL:
//
//	mem:<name>      in-memory database
//	disk:<path>     disk database in folder path (also disk://<path>)
//	<path>          same as disk:<path>
func Connect(rawURL string, opts ...Option) (Database, error) {
	scheme, target, err := splitURL(rawURL)
	if err != nil {
		return nil, err
	}
	switch scheme {
	case "mem":
		return engine.NewMem(target, opts...), nil
	case "disk", "":
		if target == "" {
			return nil, fmt.Errorf("connect %q: empty path", rawURL)
		}
		db, err := engine.OpenDisk(target, opts...)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// splitURL returns the scheme and the name or path after it.
func splitURL(rawURL string) (string, string, error) {
	if !strings.Contains(rawURL, ":") {
		return "", rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("connect %q: %w", rawURL, err)
	}
	target := u.Opaque
	if target == "" {
		target = u.Host + u.Path
	}
	return strings.ToLower(u.Scheme), target, nil
}

// ConnectConfig opens the database described by a loaded config.
func ConnectConfig(cfg *internal.TinyRelConfig) (Database, error) {
	kind, err := index.ParseKind(cfg.Storage.IndexKind)
	if err != nil {
		return nil, err
	}
	return Connect(cfg.URL(), WithIndexKind(kind), WithRowCache(cfg.Storage.RowCache))
}
