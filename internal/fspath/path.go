// Package fspath implements FilePath: a normalized, validated sequence of
// path components used as the key type of a FileTree. Construction rejects
// anything that could let a path escape its logical root.
package fspath

import (
	"fmt"
	"strings"
)

// FilePath is a normalized ordered sequence of non-empty path components.
// The zero value is the empty path.
type FilePath struct {
	parts []string
}

// New parses a '/'-separated path string into a FilePath. It rejects empty
// components, ".", "..", absolute anchors, and components that still carry
// an embedded separator (backslash), which would indicate an un-split
// platform path leaking in.
func New(raw string) (FilePath, error) {
	if raw == "" {
		return FilePath{}, fmt.Errorf("fspath: empty path")
	}
	if strings.HasPrefix(raw, "/") {
		return FilePath{}, fmt.Errorf("fspath: %q is absolute", raw)
	}
	return Join(strings.Split(raw, "/")...)
}

// Join validates and assembles a FilePath from individual components.
func Join(components ...string) (FilePath, error) {
	parts := make([]string, 0, len(components))
	for _, c := range components {
		if err := validateComponent(c); err != nil {
			return FilePath{}, fmt.Errorf("fspath: %w", err)
		}
		parts = append(parts, c)
	}
	if len(parts) == 0 {
		return FilePath{}, fmt.Errorf("fspath: path has no components")
	}
	return FilePath{parts: parts}, nil
}

func validateComponent(c string) error {
	switch c {
	case "":
		return fmt.Errorf("empty path component")
	case ".":
		return fmt.Errorf("component '.' is not allowed")
	case "..":
		return fmt.Errorf("component '..' is not allowed")
	}
	if strings.ContainsAny(c, "\\") {
		return fmt.Errorf("component %q contains an embedded separator", c)
	}
	if strings.Contains(c, "/") {
		return fmt.Errorf("component %q contains an embedded separator", c)
	}
	return nil
}

// String renders the path with '/' separators.
func (p FilePath) String() string {
	return strings.Join(p.parts, "/")
}

// Components returns the path's components. The returned slice must not be
// mutated by the caller.
func (p FilePath) Components() []string {
	return p.parts
}

// IsZero reports whether p is the empty FilePath.
func (p FilePath) IsZero() bool {
	return len(p.parts) == 0
}

// Equal reports component-wise equality.
func (p FilePath) Equal(other FilePath) bool {
	return p.Compare(other) == 0
}

// Compare orders paths component-wise lexicographically, returning a
// negative, zero, or positive value the way strings.Compare does.
func (p FilePath) Compare(other FilePath) int {
	for i := 0; i < len(p.parts) && i < len(other.parts); i++ {
		if c := strings.Compare(p.parts[i], other.parts[i]); c != 0 {
			return c
		}
	}
	return len(p.parts) - len(other.parts)
}

// Less reports whether p sorts before other.
func (p FilePath) Less(other FilePath) bool {
	return p.Compare(other) < 0
}
