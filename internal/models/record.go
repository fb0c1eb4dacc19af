// ABOUTME: Stored record and search result types shared across the system
// ABOUTME: Records are immutable once written; results are scoped to one query
package models

// Record is the persisted unit in the vector store. It is created by the
// ingestion pipeline and never updated afterwards.
type Record struct {
	ID        string
	Content   string
	Metadata  map[string]any
	Embedding []float32
}

// Scored is a fragment returned by similarity search, paired with its
// similarity to the query vector. Higher is more similar.
type Scored struct {
	Content    string
	Similarity float64
}
