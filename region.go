package munifin

import "context"

// Region identifies a municipality or other administrative area.
type Region struct {
	// Key is the official regional key (AGS), used as an opaque identifier.
	Key  string `json:"key"`
	Name string `json:"name"`
}

// TableRequest selects one statistics table for one region.
type TableRequest struct {
	TableID   string
	RegionKey string
	Level     int
}

// Validate returns an error if the request is missing required fields.
func (r *TableRequest) Validate() error {
	if r.TableID == "" {
		return Errorf(EINVALID, "table ID required")
	}
	if r.RegionKey == "" {
		return Errorf(EINVALID, "region key required")
	}
	if r.Level < 1 {
		return Errorf(EINVALID, "invalid region level %d", r.Level)
	}
	return nil
}

// StatisticsSession is a stateful connection to a statistics database that
// renders tables as HTML pages.
type StatisticsSession interface {
	// FetchTable returns the result page HTML for the requested table.
	FetchTable(ctx context.Context, req TableRequest) (html string, err error)

	// Close releases the session.
	Close() error
}
