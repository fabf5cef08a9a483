package platform

import (
	"strings"

	"github.com/aretw0/persistor/pkg/adapters/fs"
	"github.com/aretw0/persistor/pkg/core"
)

// Context kinds accepted by NewContext. The aliases keep configuration files
// of the earlier layout working.
const (
	KindBinary = "binary"
	KindText   = "text"

	aliasBinary = "pickle"
	aliasText   = "archivo"
)

// Configuration keys read by NewContext.
const (
	KeyResource       = "resource"
	KeyResourceLegacy = "recurso"

	// DefaultResource is used when the configuration names no directory.
	DefaultResource = "./tmp/datos"
)

// NewContext builds the Context named by kind.
//
//	ctx, err := platform.NewContext("text", map[string]string{"resource": "./data"})
//
// An unknown kind yields *core.UnsupportedKindError and nothing is created on
// disk.
func NewContext(kind string, config map[string]string, opts ...Option) (core.Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	normalized, err := NormalizeKind(kind)
	if err != nil {
		return nil, err
	}

	cfg := fs.Config{
		Path:     resourceOf(config),
		Logger:   o.logger,
		Registry: o.registry,
	}

	switch normalized {
	case KindBinary:
		return fs.NewBinaryContext(cfg)
	default:
		return fs.NewTextContext(cfg)
	}
}

// NormalizeKind maps a kind or one of its aliases to KindBinary or KindText.
func NormalizeKind(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindBinary, aliasBinary:
		return KindBinary, nil
	case KindText, aliasText:
		return KindText, nil
	default:
		return "", &core.UnsupportedKindError{Kind: kind}
	}
}

func resourceOf(config map[string]string) string {
	if v := config[KeyResource]; v != "" {
		return v
	}
	if v := config[KeyResourceLegacy]; v != "" {
		return v
	}
	return DefaultResource
}
