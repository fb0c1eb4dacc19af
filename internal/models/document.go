// ABOUTME: Document and Fragment types for the ingestion pipeline
// ABOUTME: A document is fetched once, split into fragments, then discarded
package models

// Document is a raw source text together with the URI it was fetched from.
// It only lives for the duration of an ingestion run.
type Document struct {
	URI  string
	Text string
}

// Fragment is one contiguous span of a document produced by the splitter.
type Fragment struct {
	// Index is the position of the fragment within the source document.
	Index int
	// Content is the fragment text, separators included.
	Content string
	// Overlap is the number of leading characters shared with the previous
	// fragment. Zero for the first fragment and after hard boundaries.
	Overlap int
	// ChunkSize and ChunkOverlap record the splitter configuration the
	// fragment was produced under.
	ChunkSize    int
	ChunkOverlap int
}
