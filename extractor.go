package munifin

// ExtractResult holds the readable text of an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// Text is the main content as plain text, boilerplate removed.
	Text string
}

// TextExtractor extracts the main text of HTML pages, removing boilerplate.
type TextExtractor interface {
	Extract(html string) (*ExtractResult, error)
}
