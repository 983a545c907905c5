package cache

import (
	"io"
	"strings"

	"github.com/iammike/cardcheck/internal/domain"
	"github.com/rotisserie/eris"
)

// Backend types accepted by Open
const (
	TypeMemory = "memory"
	TypeSQLite = "sqlite"
	TypeNone   = "none"
)

// Backend is a cache repository that owns resources
type Backend interface {
	domain.CacheRepository
	io.Closer
}

// Open builds the cache backend named by kind. path is only read for sqlite.
func Open(kind, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case TypeMemory, "":
		return NewMemoryCache(), nil
	case TypeSQLite:
		return OpenSQLite(path)
	case TypeNone:
		return NoopCache{}, nil
	default:
		return nil, eris.Errorf("unknown cache type %q", kind)
	}
}
