// Package trafilatura implements munifin.TextExtractor with go-trafilatura.
// The plain text of a page is what the number miner scans for amounts.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/munifin"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements munifin.TextExtractor at compile time.
var _ munifin.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main text from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns its title and main text. Tables are
// kept because budget figures are usually tabulated.
func (e *Extractor) Extract(rawHTML string) (*munifin.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, munifin.Errorf(munifin.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		ExcludeTables:  false,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	return &munifin.ExtractResult{
		Title: result.Metadata.Title,
		Text:  strings.TrimSpace(result.ContentText),
	}, nil
}
