package mock

import "github.com/fwojciec/munifin"

var _ munifin.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of munifin.TextExtractor.
type TextExtractor struct {
	ExtractFn func(html string) (*munifin.ExtractResult, error)
}

func (e *TextExtractor) Extract(html string) (*munifin.ExtractResult, error) {
	return e.ExtractFn(html)
}
