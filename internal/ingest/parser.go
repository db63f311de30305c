package ingest

import (
	"bytes"
	"strings"

	domainerr "blogsmith/internal/domain/errors"
)

const delimiter = "---"

// Field is one folded key/value pair of a front-matter block.
type Field struct {
	Key   string
	Value string
	Line  int
}

// FrontMatter is the leading ---/--- block of a source document.
type FrontMatter struct {
	Fields []Field
	// Block is the raw text between the delimiters.
	Block string
	// Body is everything after the closing delimiter line.
	Body []byte
}

// Get returns the last value recorded for key.
func (fm FrontMatter) Get(key string) (string, bool) {
	for i := len(fm.Fields) - 1; i >= 0; i-- {
		if fm.Fields[i].Key == key {
			return fm.Fields[i].Value, true
		}
	}
	return "", false
}

type lineKind int

const (
	lineDelimiter lineKind = iota
	lineBlank
	lineContinuation
	lineField
	lineInvalid
)

func classifyLine(line string) lineKind {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.TrimRight(line, " \t") == delimiter:
		return lineDelimiter
	case trimmed == "":
		return lineBlank
	case strings.HasPrefix(trimmed, "-"):
		return lineContinuation
	case strings.Index(trimmed, ":") > 0:
		return lineField
	default:
		return lineInvalid
	}
}

type fmParser struct {
	path   string
	lineNo int
	fields []Field
	// last is the field continuation lines append to; -1 before the first key.
	last   int
	closed bool
}

var lineHandlers = map[lineKind]func(*fmParser, string) error{
	lineDelimiter:    (*fmParser).closeBlock,
	lineBlank:        (*fmParser).skip,
	lineContinuation: (*fmParser).appendContinuation,
	lineField:        (*fmParser).addField,
	lineInvalid:      (*fmParser).reject,
}

func (p *fmParser) closeBlock(string) error {
	p.closed = true
	return nil
}

func (p *fmParser) skip(string) error { return nil }

func (p *fmParser) appendContinuation(line string) error {
	if p.last < 0 {
		return domainerr.Malformed(p.path, p.lineNo, "list entry before any key")
	}
	item := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
	if item == "" {
		return nil
	}
	f := &p.fields[p.last]
	if f.Value == "" {
		f.Value = item
	} else {
		f.Value += " " + item
	}
	return nil
}

func (p *fmParser) addField(line string) error {
	key, value, _ := strings.Cut(strings.TrimSpace(line), ":")
	p.fields = append(p.fields, Field{
		Key:   strings.TrimSpace(key),
		Value: strings.TrimSpace(value),
		Line:  p.lineNo,
	})
	p.last = len(p.fields) - 1
	return nil
}

func (p *fmParser) reject(line string) error {
	return domainerr.Malformed(p.path, p.lineNo, "expected 'key: value' or '- value', got %q", strings.TrimSpace(line))
}

// ParseFrontMatter reads the mandatory front-matter block of raw. Lines are
// `key: value` or `- value`; a `- value` line appends to the previous key,
// space-joined. path is only used in diagnostics.
func ParseFrontMatter(path string, raw []byte) (FrontMatter, error) {
	rest := bytes.TrimPrefix(raw, []byte("\ufeff"))

	first, rest := nextLine(rest)
	if strings.TrimRight(string(first), " \t\r") != delimiter {
		return FrontMatter{}, domainerr.Malformed(path, 1, "missing opening %s delimiter", delimiter)
	}

	p := &fmParser{path: path, lineNo: 1, last: -1}
	blockStart := len(raw) - len(rest)
	blockEnd := blockStart

	for len(rest) > 0 && !p.closed {
		lineStart := len(raw) - len(rest)
		var line []byte
		line, rest = nextLine(rest)
		p.lineNo++

		text := strings.TrimSuffix(string(line), "\r")
		if err := lineHandlers[classifyLine(text)](p, text); err != nil {
			return FrontMatter{}, err
		}
		if p.closed {
			blockEnd = lineStart
		}
	}
	if !p.closed {
		return FrontMatter{}, domainerr.Malformed(path, p.lineNo, "missing terminating %s delimiter", delimiter)
	}

	return FrontMatter{
		Fields: p.fields,
		Block:  string(raw[blockStart:blockEnd]),
		Body:   rest,
	}, nil
}

func nextLine(b []byte) (line, rest []byte) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:]
	}
	return b, nil
}
