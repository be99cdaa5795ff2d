package mock

import (
	"context"

	"github.com/fwojciec/munifin"
)

var _ munifin.TableParser = (*TableParser)(nil)

// TableParser is a mock implementation of munifin.TableParser.
type TableParser struct {
	ParseTablesFn func(html string) ([]munifin.RawTable, error)
}

func (p *TableParser) ParseTables(html string) ([]munifin.RawTable, error) {
	return p.ParseTablesFn(html)
}

var _ munifin.ExtractionService = (*ExtractionService)(nil)

// ExtractionService is a mock implementation of munifin.ExtractionService.
type ExtractionService struct {
	CreateExtractionFn   func(ctx context.Context, e *munifin.Extraction) error
	FindExtractionByIDFn func(ctx context.Context, id string) (*munifin.Extraction, error)
	FindExtractionsFn    func(ctx context.Context, filter munifin.ExtractionFilter) ([]*munifin.Extraction, error)
	DeleteExtractionFn   func(ctx context.Context, id string) error
}

func (s *ExtractionService) CreateExtraction(ctx context.Context, e *munifin.Extraction) error {
	return s.CreateExtractionFn(ctx, e)
}

func (s *ExtractionService) FindExtractionByID(ctx context.Context, id string) (*munifin.Extraction, error) {
	return s.FindExtractionByIDFn(ctx, id)
}

func (s *ExtractionService) FindExtractions(ctx context.Context, filter munifin.ExtractionFilter) ([]*munifin.Extraction, error) {
	return s.FindExtractionsFn(ctx, filter)
}

func (s *ExtractionService) DeleteExtraction(ctx context.Context, id string) error {
	return s.DeleteExtractionFn(ctx, id)
}

var _ munifin.StatisticsSession = (*StatisticsSession)(nil)

// StatisticsSession is a mock implementation of munifin.StatisticsSession.
type StatisticsSession struct {
	FetchTableFn func(ctx context.Context, req munifin.TableRequest) (string, error)
	CloseFn      func() error
}

func (s *StatisticsSession) FetchTable(ctx context.Context, req munifin.TableRequest) (string, error) {
	return s.FetchTableFn(ctx, req)
}

func (s *StatisticsSession) Close() error {
	return s.CloseFn()
}
