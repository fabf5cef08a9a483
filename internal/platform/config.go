package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/persistor/pkg/core"
	"github.com/aretw0/persistor/pkg/supervisor"
)

// Config is the content of a persistor configuration file.
//
//	contexts:
//	  signals:
//	    kind: text
//	    resource: ./data
//	    audit: ./logs/audit.log
//	    trace: ./logs/trace.log
//
// JSON files with the same shape are accepted too. The legacy keys "tipo"
// and "recurso" are read when "kind" and "resource" are absent.
type Config struct {
	Contexts map[string]ContextConfig `yaml:"contexts" json:"contexts"`

	// dir is the directory of the loaded file; relative paths resolve against it.
	dir string
}

// ContextConfig describes one named context and its supervision.
type ContextConfig struct {
	Kind     string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Tipo     string `yaml:"tipo,omitempty" json:"tipo,omitempty"`
	Resource string `yaml:"resource,omitempty" json:"resource,omitempty"`
	Recurso  string `yaml:"recurso,omitempty" json:"recurso,omitempty"`
	// Audit and Trace are log file paths. Empty disables the collaborator.
	Audit string `yaml:"audit,omitempty" json:"audit,omitempty"`
	Trace string `yaml:"trace,omitempty" json:"trace,omitempty"`
}

// KindName returns the configured kind, preferring "kind" over "tipo".
func (c ContextConfig) KindName() string {
	if c.Kind != "" {
		return c.Kind
	}
	return c.Tipo
}

// ResourcePath returns the configured resource, preferring "resource" over
// "recurso", or DefaultResource.
func (c ContextConfig) ResourcePath() string {
	return resourceOf(map[string]string{KeyResource: c.Resource, KeyResourceLegacy: c.Recurso})
}

// LoadConfig reads a YAML or JSON configuration file and validates every
// context kind.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	for name, cc := range cfg.Contexts {
		if _, err := NormalizeKind(cc.KindName()); err != nil {
			return nil, fmt.Errorf("context %q: %w", name, err)
		}
	}

	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}

// Names returns the configured context names, sorted.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve makes p relative to the configuration file's directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// NewRepository builds the repository described by the named context: its
// Context plus a FileAuditor and a FileTracer when their paths are set.
func NewRepository(cfg *Config, name string, opts ...Option) (*core.EntityRepository, error) {
	cc, ok := cfg.Contexts[name]
	if !ok {
		return nil, &core.ValidationError{Op: "open", ID: name, Reason: "no such context in configuration"}
	}

	ctx, err := NewContext(cc.KindName(), map[string]string{KeyResource: cfg.Resolve(cc.ResourcePath())}, opts...)
	if err != nil {
		return nil, fmt.Errorf("context %q: %w", name, err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repoOpts := []core.RepositoryOption{core.WithLogger(o.logger)}
	if cc.Audit != "" {
		repoOpts = append(repoOpts, core.WithAuditor(supervisor.NewFileAuditor(cfg.Resolve(cc.Audit))))
	}
	if cc.Trace != "" {
		repoOpts = append(repoOpts, core.WithTracer(supervisor.NewFileTracer(cfg.Resolve(cc.Trace))))
	}
	return core.NewRepository(ctx, repoOpts...), nil
}
