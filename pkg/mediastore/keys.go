package mediastore

import (
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jaevor/go-nanoid"
)

// KeyGenerator produces object keys of the form
// <prefix>/<yyyy>/<mm>/<dd>/<nanoid><ext>.
type KeyGenerator struct {
	prefix string
	id     func() string
	now    func() time.Time
}

func NewKeyGenerator(prefix string) (*KeyGenerator, error) {
	id, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}
	return &KeyGenerator{prefix: strings.Trim(prefix, "/"), id: id, now: time.Now}, nil
}

func (g *KeyGenerator) Key(name, contentType string) string {
	date := g.now().UTC().Format("2006/01/02")
	key := path.Join(date, g.id()+Extension(name, contentType))
	if g.prefix == "" {
		return key
	}
	return g.prefix + "/" + key
}

// Extension prefers the file name's extension and falls back to the one
// registered for contentType.
func Extension(name, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" && len(ext) <= 10 {
		return ext
	}
	if contentType == "" {
		return ""
	}
	if m := mimetype.Lookup(contentType); m != nil {
		return m.Extension()
	}
	return ""
}
