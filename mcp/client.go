// Package mcp implements munifin.DocumentSearcher against a council
// information server that speaks the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/munifin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/gjson"
)

// DefaultEndpoint is the document server of the municipality of Nordstemmen.
const DefaultEndpoint = "https://nordstemmen-mcp.levinkeller.de/mcp"

// Tool names offered by the document server.
const (
	SearchTool = "search_documents"
	PaperTool  = "get_paper_by_reference"
)

// DefaultTimeout is the HTTP timeout for a single tool call.
const DefaultTimeout = 60 * time.Second

// Ensure Client implements munifin.DocumentSearcher at compile time.
var _ munifin.DocumentSearcher = (*Client)(nil)

// Client calls document server tools over one MCP session.
type Client struct {
	// Endpoint of the streamable HTTP transport.
	Endpoint string

	// HTTPClient used by the streamable HTTP transport.
	HTTPClient *http.Client

	// Transport replaces the streamable HTTP transport when set.
	Transport mcp.Transport

	// DeriveFingerprints fills in a fingerprint for results without a file
	// hash, computed from their PDF URL or OParl ID.
	DeriveFingerprints bool

	// Now returns the time stamped on fetched summaries.
	Now func() time.Time

	session *mcp.ClientSession
}

// NewClient returns a Client for the given endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Now:        time.Now,
	}
}

// Open connects to the server and performs the protocol handshake.
func (c *Client) Open(ctx context.Context) error {
	if c.Transport == nil && c.Endpoint == "" {
		return munifin.Errorf(munifin.EINVALID, "document server endpoint required")
	}

	transport := c.Transport
	if transport == nil {
		transport = &mcp.StreamableClientTransport{
			Endpoint:   c.Endpoint,
			HTTPClient: c.HTTPClient,
			MaxRetries: 3,
		}
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "munifin",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("connecting to document server %s: %w", c.Endpoint, err)
	}
	c.session = session
	return nil
}

// Close ends the session.
func (c *Client) Close() error {
	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

// SearchDocuments runs a full-text search and returns the results in ranking
// order. Excerpts are cut to munifin.MaxExcerptLength runes.
func (c *Client) SearchDocuments(ctx context.Context, q munifin.DocumentQuery) ([]*munifin.DocumentSummary, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	args := map[string]any{"query": q.Query}
	if q.Limit > 0 {
		args["limit"] = q.Limit
	}
	if q.DateFrom != "" {
		args["date_from"] = q.DateFrom
	}

	payload, err := c.call(ctx, SearchTool, args)
	if err != nil {
		return nil, err
	}

	now := c.now()
	var summaries []*munifin.DocumentSummary
	payload.Get("results").ForEach(func(_, r gjson.Result) bool {
		summaries = append(summaries, c.decodeSummary(r, now))
		return true
	})
	return summaries, nil
}

// GetPaper retrieves one paper by its reference code, e.g. "DS 89/2024".
func (c *Client) GetPaper(ctx context.Context, reference string) (*munifin.DocumentSummary, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, munifin.Errorf(munifin.EINVALID, "paper reference required")
	}

	payload, err := c.call(ctx, PaperTool, map[string]any{"reference": reference})
	if err != nil {
		return nil, err
	}
	if p := payload.Get("paper"); p.IsObject() {
		payload = p
	}
	if !payload.IsObject() || len(payload.Map()) == 0 {
		return nil, munifin.Errorf(munifin.ENOTFOUND, "paper %q not found", reference)
	}

	s := c.decodeSummary(payload, c.now())
	if s.Reference == "" {
		s.Reference = reference
	}
	return s, nil
}

// call invokes a tool and returns its structured result. Servers that only
// send text content are accepted if the text is a JSON object.
func (c *Client) call(ctx context.Context, name string, args map[string]any) (gjson.Result, error) {
	if c.session == nil {
		return gjson.Result{}, munifin.Errorf(munifin.EINVALID, "document server session not open")
	}

	res, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("calling %s: %w", name, err)
	}
	return decodeResult(name, res)
}

func decodeResult(name string, res *mcp.CallToolResult) (gjson.Result, error) {
	if res == nil {
		return gjson.Result{}, munifin.Errorf(munifin.EUNAVAILABLE, "%s returned no result", name)
	}
	text := resultText(res)
	if res.IsError {
		if strings.Contains(strings.ToLower(text), "not found") {
			return gjson.Result{}, munifin.Errorf(munifin.ENOTFOUND, "%s: %s", name, text)
		}
		return gjson.Result{}, munifin.Errorf(munifin.EUNAVAILABLE, "%s failed: %s", name, text)
	}

	if res.StructuredContent != nil {
		b, err := json.Marshal(res.StructuredContent)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("encoding %s result: %w", name, err)
		}
		return gjson.ParseBytes(b), nil
	}
	if gjson.Valid(text) {
		return gjson.Parse(text), nil
	}
	return gjson.Result{}, nil
}

func resultText(res *mcp.CallToolResult) string {
	var parts []string
	for _, content := range res.Content {
		if t, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, t.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func (c *Client) decodeSummary(r gjson.Result, now time.Time) *munifin.DocumentSummary {
	s := &munifin.DocumentSummary{
		Fingerprint: r.Get("file_hash").String(),
		Title:       firstString(r, "title", "name"),
		Reference:   r.Get("reference").String(),
		Date:        firstString(r, "date", "meeting_date"),
		SourceURL:   firstString(r, "pdf_url", "mainFile.accessUrl", "url"),
		OParlID:     firstString(r, "oparl_id", "id"),
		Excerpt:     munifin.TruncateExcerpt(firstString(r, "excerpt", "text")),
		FetchedAt:   now,
	}
	if s.Fingerprint == "" && c.DeriveFingerprints {
		s.Fingerprint = DeriveFingerprint(s)
	}
	return s
}

// DeriveFingerprint returns a stand-in fingerprint for a summary the server
// did not hash, or "" if the summary has no stable locator.
func DeriveFingerprint(s *munifin.DocumentSummary) string {
	key := s.SourceURL
	if key == "" {
		key = s.OParlID
	}
	if key == "" {
		return ""
	}
	return "xxh64:" + strconv.FormatUint(xxhash.Sum64String(key), 16)
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.String() != "" {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}

func (c *Client) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
