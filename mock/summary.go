package mock

import (
	"context"

	"github.com/fwojciec/munifin"
)

var _ munifin.DocumentSearcher = (*DocumentSearcher)(nil)

// DocumentSearcher is a mock implementation of munifin.DocumentSearcher.
type DocumentSearcher struct {
	SearchDocumentsFn func(ctx context.Context, q munifin.DocumentQuery) ([]*munifin.DocumentSummary, error)
	GetPaperFn        func(ctx context.Context, reference string) (*munifin.DocumentSummary, error)
	CloseFn           func() error
}

func (s *DocumentSearcher) SearchDocuments(ctx context.Context, q munifin.DocumentQuery) ([]*munifin.DocumentSummary, error) {
	return s.SearchDocumentsFn(ctx, q)
}

func (s *DocumentSearcher) GetPaper(ctx context.Context, reference string) (*munifin.DocumentSummary, error) {
	return s.GetPaperFn(ctx, reference)
}

func (s *DocumentSearcher) Close() error {
	return s.CloseFn()
}

var _ munifin.SummaryService = (*SummaryService)(nil)

// SummaryService is a mock implementation of munifin.SummaryService.
type SummaryService struct {
	CreateSummaryFn func(ctx context.Context, s *munifin.DocumentSummary) error
	FindSummariesFn func(ctx context.Context, filter munifin.SummaryFilter) ([]*munifin.DocumentSummary, error)
}

func (s *SummaryService) CreateSummary(ctx context.Context, summary *munifin.DocumentSummary) error {
	return s.CreateSummaryFn(ctx, summary)
}

func (s *SummaryService) FindSummaries(ctx context.Context, filter munifin.SummaryFilter) ([]*munifin.DocumentSummary, error) {
	return s.FindSummariesFn(ctx, filter)
}
