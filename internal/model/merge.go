package model

import (
	"fmt"
	"time"

	apperrors "github.com/Taichi-iskw/arena-merge/internal/errors"
)

// CopyResult records the outcome of copying one planned block
type CopyResult struct {
	Block     Block  `json:"block"`
	Created   *Block `json:"created,omitempty"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

// MergeOutcome is the result of merging a source channel into a destination
type MergeOutcome struct {
	Destination        ChannelRef   `json:"destination"`
	Source             ChannelRef   `json:"source"`
	Copied             []CopyResult `json:"copied"`
	AllCopiesSucceeded bool         `json:"all_copies_succeeded"`
	DeleteRequested    bool         `json:"delete_requested"`
	SourceDeleted      bool         `json:"source_deleted"`
	DeleteError        string       `json:"delete_error,omitempty"`
}

// Failed returns the number of planned copies that failed
func (o *MergeOutcome) Failed() int {
	failed := 0
	for _, c := range o.Copied {
		if !c.Succeeded {
			failed++
		}
	}
	return failed
}

// Partial reports whether at least one planned copy failed
func (o *MergeOutcome) Partial() bool {
	return !o.AllCopiesSucceeded
}

// Err returns a PARTIAL_MERGE error when the merge did not copy every planned block
func (o *MergeOutcome) Err() error {
	if o.AllCopiesSucceeded {
		return nil
	}
	return apperrors.New(apperrors.CodePartialMerge,
		fmt.Sprintf("%d of %d blocks failed to copy", o.Failed(), len(o.Copied)))
}

// MergeRun is the persisted summary of one merge invocation
type MergeRun struct {
	ID              string    `json:"id" db:"id"`
	DestinationID   int64     `json:"destination_id" db:"destination_id"`
	SourceID        int64     `json:"source_id" db:"source_id"`
	Planned         int       `json:"planned" db:"planned"`
	Succeeded       int       `json:"succeeded" db:"succeeded"`
	Failed          int       `json:"failed" db:"failed"`
	DeleteRequested bool      `json:"delete_requested" db:"delete_requested"`
	SourceDeleted   bool      `json:"source_deleted" db:"source_deleted"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// MergeRunItem is the persisted result of one planned copy
type MergeRunItem struct {
	RunID     string `json:"run_id" db:"run_id"`
	Position  int    `json:"position" db:"position"`
	Title     string `json:"title" db:"title"`
	Content   string `json:"content" db:"content"`
	Succeeded bool   `json:"succeeded" db:"succeeded"`
	Error     string `json:"error,omitempty" db:"error"`
}
