// Package profile loads rewrite profiles: path rules and extraction selectors
// describing one migration.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/cascadia"
	"go.yaml.in/yaml/v2"

	"hstools/internal/rules"
)

// Profile is an immutable, validated rewrite profile.
type Profile struct {
	PathPrefix string
	Rules      rules.Set
	Extract    Extract
}

// Extract selects the subtree to keep and the descendants to drop from it.
type Extract struct {
	Src   string
	Drops []string
}

// Enabled reports whether an extraction selector is configured.
func (e Extract) Enabled() bool {
	return e.Src != ""
}

// Empty returns the no-op profile.
func Empty() *Profile {
	return &Profile{}
}

// Error is returned when a profile can't be read, decoded or validated.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("profile %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// file is the on-disk schema. Both the nested extract block and the flat
// src/drops/rules keys written by older profiles are accepted.
type file struct {
	PathPrefix  string      `json:"path_prefix" yaml:"path_prefix"`
	AnchorRules [][]string  `json:"anchor_rules" yaml:"anchor_rules"`
	Rules       [][]string  `json:"rules" yaml:"rules"`
	Extract     *extractDoc `json:"extract" yaml:"extract"`
	Src         string      `json:"src" yaml:"src"`
	Drops       []string    `json:"drops" yaml:"drops"`
}

type extractDoc struct {
	Src   string   `json:"src" yaml:"src"`
	Drops []string `json:"drops" yaml:"drops"`
}

// Load reads a profile from a .json, .yaml or .yml file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	var f file
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = fmt.Errorf("unsupported profile format %q (want .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	p, err := f.build()
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return p, nil
}

// Parse decodes a JSON profile held in memory.
func Parse(data []byte) (*Profile, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &Error{Path: "<inline>", Err: err}
	}
	p, err := f.build()
	if err != nil {
		return nil, &Error{Path: "<inline>", Err: err}
	}
	return p, nil
}

func (f file) build() (*Profile, error) {
	pairs := f.AnchorRules
	if pairs == nil {
		pairs = f.Rules
	}
	set, err := rules.CompilePairs(pairs)
	if err != nil {
		return nil, fmt.Errorf("anchor_rules: %w", err)
	}

	extract := Extract{Src: f.Src, Drops: f.Drops}
	if f.Extract != nil {
		if f.Extract.Src != "" {
			extract.Src = f.Extract.Src
		}
		if f.Extract.Drops != nil {
			extract.Drops = f.Extract.Drops
		}
	}

	if err := validateSelectors(extract); err != nil {
		return nil, err
	}

	return &Profile{
		PathPrefix: strings.TrimSpace(f.PathPrefix),
		Rules:      set,
		Extract:    extract,
	}, nil
}

func validateSelectors(e Extract) error {
	if e.Src != "" {
		if _, err := cascadia.Compile(e.Src); err != nil {
			return fmt.Errorf("extract.src %q: %w", e.Src, err)
		}
	}
	for i, drop := range e.Drops {
		if _, err := cascadia.Compile(drop); err != nil {
			return fmt.Errorf("extract.drops[%d] %q: %w", i, drop, err)
		}
	}
	return nil
}

// LoadOrEmpty loads the profile at path. An empty path or an unusable profile
// yields the empty profile; in the latter case the load error is returned too
// so callers can report it.
func LoadOrEmpty(path string) (*Profile, error) {
	if strings.TrimSpace(path) == "" {
		return Empty(), nil
	}
	p, err := Load(path)
	if err != nil {
		return Empty(), err
	}
	return p, nil
}
