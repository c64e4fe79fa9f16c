package db

import "time"

// Datasets recorded in the builds table.
const (
	DatasetKanjifile = "kanjifile"
	DatasetWordfile  = "wordfile"
)

// Build is a provenance record for one export of a dataset.
type Build struct {
	ID              string
	Dataset         string
	Version         string
	UpstreamVersion string
	CreatedAt       time.Time
}
