package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-synth/internal/db"
)

type fakeFinder map[string]int64

func (f fakeFinder) FindResumeByJobID(_ context.Context, jobID string) (*db.Resume, error) {
	id, ok := f[jobID]
	if !ok {
		return nil, nil
	}
	return &db.Resume{ID: id, JobID: jobID}, nil
}

func TestResolveResumeID(t *testing.T) {
	finder := fakeFinder{"3812345": 9}
	ctx := context.Background()

	id, err := resolveResumeID(ctx, finder, "42", false)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	// Numeric job ids are only looked up with --job.
	id, err = resolveResumeID(ctx, finder, "3812345", true)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)

	_, err = resolveResumeID(ctx, finder, "abc", false)
	assert.ErrorContains(t, err, "use --job")

	_, err = resolveResumeID(ctx, finder, "0", false)
	assert.Error(t, err)

	_, err = resolveResumeID(ctx, finder, "other", true)
	assert.ErrorContains(t, err, "no resume for job other")
}

func TestFormatColumn(t *testing.T) {
	def := "true"
	assert.Equal(t, "is_visible               boolean NOT NULL DEFAULT true",
		formatColumn(db.ColumnInfo{Name: "is_visible", DataType: "boolean", Default: &def}))
	assert.Equal(t, "location                 text",
		formatColumn(db.ColumnInfo{Name: "location", DataType: "text", Nullable: true}))
}
