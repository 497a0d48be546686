// Package catalog is the registry of vendor AI tools. The built-in list is
// embedded; an operator can point TOOLS_CATALOG_PATH at a YAML file of the
// same shape and have it reloaded on change.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed tools.yaml
var defaultYAML []byte

var ErrUnknownTool = errors.New("unknown tool")

const (
	MinPollInterval = 2 * time.Second
	MaxPollInterval = 5 * time.Second
	MinPollTimeout  = 2 * time.Minute
	MaxPollTimeout  = 5 * time.Minute

	DefaultPollInterval = 4 * time.Second
	DefaultPollTimeout  = 2 * time.Minute
)

type Tool struct {
	Name           string            `yaml:"name" json:"name"`
	Endpoint       string            `yaml:"endpoint" json:"-"`
	JobBased       bool              `yaml:"job_based" json:"job_based"`
	RequiresImage  bool              `yaml:"requires_image" json:"requires_image"`
	CreditCost     int               `yaml:"credit_cost" json:"credit_cost"`
	DefaultPayload map[string]string `yaml:"default_payload" json:"-"`
	PollInterval   time.Duration     `yaml:"poll_interval" json:"-"`
	PollTimeout    time.Duration     `yaml:"poll_timeout" json:"-"`
	// Files lists the multipart file fields the tool accepts.
	Files []string `yaml:"files" json:"files"`
}

// AcceptsFile reports whether field is one of the tool's file inputs.
func (t Tool) AcceptsFile(field string) bool {
	for _, f := range t.Files {
		if f == field {
			return true
		}
	}
	return false
}

// MergePayload overlays user fields on the tool defaults.
func (t Tool) MergePayload(user map[string]string) map[string]string {
	out := make(map[string]string, len(t.DefaultPayload)+len(user))
	for k, v := range t.DefaultPayload {
		out[k] = v
	}
	for k, v := range user {
		out[k] = v
	}
	return out
}

type file struct {
	Tools []Tool `yaml:"tools"`
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (map[string]Tool, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Tools) == 0 {
		return nil, errors.New("catalog has no tools")
	}

	tools := make(map[string]Tool, len(f.Tools))
	for i, t := range f.Tools {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, fmt.Errorf("tool #%d: name is required", i)
		}
		if _, dup := tools[t.Name]; dup {
			return nil, fmt.Errorf("tool %s: duplicate name", t.Name)
		}
		if !strings.HasPrefix(t.Endpoint, "/") {
			return nil, fmt.Errorf("tool %s: endpoint must start with /", t.Name)
		}
		if t.CreditCost < 0 {
			return nil, fmt.Errorf("tool %s: credit_cost must not be negative", t.Name)
		}
		if len(t.Files) == 0 {
			t.Files = []string{"image"}
		}
		t.PollInterval = clamp(t.PollInterval, DefaultPollInterval, MinPollInterval, MaxPollInterval)
		t.PollTimeout = clamp(t.PollTimeout, DefaultPollTimeout, MinPollTimeout, MaxPollTimeout)
		tools[t.Name] = t
	}
	return tools, nil
}

func clamp(v, def, lo, hi time.Duration) time.Duration {
	switch {
	case v <= 0:
		return def
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// Catalog is safe for concurrent use; Replace swaps the whole tool set.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// Default returns the embedded catalog.
func Default() *Catalog {
	tools, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded tool catalog: %v", err))
	}
	return &Catalog{tools: tools}
}

// Load reads the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	tools, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return &Catalog{tools: tools}, nil
}

func (c *Catalog) Get(name string) (Tool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tools[name]
	if !ok {
		return Tool{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// List returns the tools sorted by name.
func (c *Catalog) List() []Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Tool, 0, len(c.tools))
	for _, t := range c.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Catalog) Replace(tools map[string]Tool) {
	c.mu.Lock()
	c.tools = tools
	c.mu.Unlock()
}
