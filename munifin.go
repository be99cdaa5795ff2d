// Package munifin retrieves municipal financial data from a legacy statistics
// website and a document server, and normalizes what it finds into typed
// record sets.
//
// This package contains domain types, interfaces and the pure extraction
// pipeline (header detection, row classification, numeric normalization,
// deduplication, record assembly), following Ben Johnson's Standard Package
// Layout. Implementations of the collaborators live in subdirectories named
// after their primary dependency (e.g., goquery/, resty/, sqlite/, mcp/).
package munifin
