package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidChunk is returned when a chunk misses a required field.
var ErrInvalidChunk = errors.New("invalid chunk")

// Script tells which writing system dominates a document.
type Script int

const (
	ScriptLatin Script = iota
	ScriptArabic
)

func (s Script) String() string {
	if s == ScriptArabic {
		return "arabic"
	}
	return "latin"
}

// Document is the output of text extraction for a single file.
type Document struct {
	Source  string
	LawName string
	Text    string
	Pages   int
	Script  Script
	// Err is set when extraction degraded; Text then holds a placeholder.
	Err error
}

// Chunk is the unit of retrieval.
type Chunk struct {
	Content         string
	LawName         string
	Source          string
	Script          Script
	Page            int // 0 when unknown
	SequenceIndex   int
	TotalInDocument int
}

// NewChunk builds a chunk and validates its required fields.
func NewChunk(content, lawName, source string, script Script, page, seq, total int) (Chunk, error) {
	switch {
	case strings.TrimSpace(content) == "":
		return Chunk{}, fmt.Errorf("%w: empty content", ErrInvalidChunk)
	case lawName == "":
		return Chunk{}, fmt.Errorf("%w: empty law name", ErrInvalidChunk)
	case source == "":
		return Chunk{}, fmt.Errorf("%w: empty source", ErrInvalidChunk)
	case seq < 0 || seq >= total:
		return Chunk{}, fmt.Errorf("%w: sequence %d outside [0,%d)", ErrInvalidChunk, seq, total)
	case page < 0:
		return Chunk{}, fmt.Errorf("%w: negative page %d", ErrInvalidChunk, page)
	}
	return Chunk{
		Content:         content,
		LawName:         lawName,
		Source:          source,
		Script:          script,
		Page:            page,
		SequenceIndex:   seq,
		TotalInDocument: total,
	}, nil
}

// HasScript reports whether the chunk holds right-to-left (Arabic) content.
func (c Chunk) HasScript() bool { return c.Script == ScriptArabic }

// PageLabel renders the originating page, or "unknown".
func (c Chunk) PageLabel() string {
	if c.Page <= 0 {
		return "unknown"
	}
	return strconv.Itoa(c.Page)
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Corpus is the ordered collection of chunks across all ingested documents.
type Corpus []Chunk

// Laws returns the sorted distinct law names present in the corpus.
func (c Corpus) Laws() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ch := range c {
		if _, ok := seen[ch.LawName]; ok {
			continue
		}
		seen[ch.LawName] = struct{}{}
		out = append(out, ch.LawName)
	}
	sort.Strings(out)
	return out
}

// ByLaw returns the chunks of one law in corpus order.
func (c Corpus) ByLaw(lawName string) Corpus {
	var out Corpus
	for _, ch := range c {
		if ch.LawName == lawName {
			out = append(out, ch)
		}
	}
	return out
}
