// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package kvfile

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser parses small line-oriented configuration files: snapshot sidecar
// metadata, /etc/default/grub, and fstab-style tables.
type Parser struct {
	maxSize      int
	skipComments bool
	kvDelimiter  string
	valueDefault string
	trimChars    string
}

// WithMaxSize sets the maximum size (in bytes) of the file to be parsed.
// Default is 1MB; these are all tiny system files.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether lines starting with '#' are dropped.
// Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKVDelimiter sets the key-value delimiter used by Map. Default is "=".
func WithKVDelimiter(delim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = delim
	}
}

// WithValueDefault sets the value recorded for keys that appear without a
// delimiter. Default is the empty string.
func WithValueDefault(v string) Option {
	return func(p *Parser) {
		p.valueDefault = v
	}
}

// WithTrimChars sets characters trimmed from both ends of parsed values,
// typically quote characters in shell-style assignment files.
func WithTrimChars(chars string) Option {
	return func(p *Parser) {
		p.trimChars = chars
	}
}

// NewParser creates a parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		maxSize:      1 << 20,
		skipComments: true,
		kvDelimiter:  "=",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Lines reads the file at path and returns its non-empty, non-comment lines
// with surrounding whitespace removed. An error is returned if the file
// cannot be read, exceeds the maximum size, or is not valid UTF-8.
func (p *Parser) Lines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", path)
	}

	if len(b) > p.maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", path, p.maxSize)
	}

	lines := strings.Split(string(b), "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.TrimSpace(line)
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		result = append(result, clean)
	}

	return result, nil
}

// Map reads the file at path and parses each line into a key-value pair
// split on the configured delimiter. Lines without the delimiter map the
// whole line (as key) to the configured default value.
func (p *Parser) Map(path string) (map[string]string, error) {
	lines, err := p.Lines(path)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(lines))
	for _, line := range lines {
		kv := strings.SplitN(line, p.kvDelimiter, 2)
		key := strings.TrimSpace(kv[0])

		if len(kv) != 2 {
			slog.Debug("line without value, using default", "line", line, "delimiter", p.kvDelimiter)
			result[key] = p.valueDefault
			continue
		}

		value := strings.TrimSpace(kv[1])
		if p.trimChars != "" {
			value = strings.Trim(value, p.trimChars)
		}
		result[key] = value
	}

	return result, nil
}

// Fields reads the file at path and splits each line into whitespace
// separated fields, the shape of fstab and other system tables.
func (p *Parser) Fields(path string) ([][]string, error) {
	lines, err := p.Lines(path)
	if err != nil {
		return nil, err
	}

	result := make([][]string, 0, len(lines))
	for _, line := range lines {
		result = append(result, strings.Fields(line))
	}

	return result, nil
}
