// Package model defines shared data structures.
package model

import "time"

// Segment is one unit of machine-translated text to post-edit.
// Segments are created at corpus load time and never mutated.
type Segment struct {
	Index int
	Text  string
}

// EditRecord captures the outcome of post-editing one segment instance.
type EditRecord struct {
	SegmentID  int
	Original   string
	Edited     string
	EditTime   float64
	Insertions int
	Deletions  int
}

// SessionSummary aggregates a sequence of edit records.
type SessionSummary struct {
	TotalSegments   int
	TotalTime       float64
	AverageTime     float64
	TotalInsertions int
	TotalDeletions  int
}

// User identifies an operator. Sessions are tagged with the user.
type User struct {
	ID           int64
	Name         string
	Surname      string
	Email        string
	PasswordHash string
	Active       bool
}

// SessionBundle is the persisted result of a completed pass: user identity
// plus the ordered record history.
type SessionBundle struct {
	UserID     int64
	StartedAt  time.Time
	EndedAt    time.Time
	CorpusPath string
	Records    []EditRecord
}

// UserAggregate summarizes one user's stored records for the dashboard.
type UserAggregate struct {
	UserID    int64
	Name      string
	Surname   string
	Segments  int
	TotalTime float64
	AvgTime   float64
	Edits     int
}

// StatsConfig defines filters for dashboard output.
type StatsConfig struct {
	Email       string
	Since       *time.Time
	CurveWindow int
}

// Scores holds translation quality metrics against references.
type Scores struct {
	BLEU float64
	ChrF float64
	TER  float64
}
