package domain

// RawRecord is one source document as decoded from JSON: an archive entry
// item or one element of an API results page. Keys and value shapes are not
// trusted until classified.
type RawRecord = map[string]any
