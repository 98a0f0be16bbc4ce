package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menugen/menu"
	"menugen/sheet"
)

// stubRunner records which stages ran, in order.
func stubRunner(calls *[]string, items []menu.Item) *Runner {
	return &Runner{
		Fetch: func(ctx context.Context) error {
			*calls = append(*calls, "fetch")
			return nil
		},
		Load: func() ([]menu.Item, error) {
			*calls = append(*calls, "load")
			return items, nil
		},
		Generate: func(got []menu.Item) error {
			*calls = append(*calls, "generate")
			return nil
		},
		Build: func(ctx context.Context) error {
			*calls = append(*calls, "build")
			return nil
		},
	}
}

func TestRun_AllStagesInOrder(t *testing.T) {
	var calls []string
	r := stubRunner(&calls, []menu.Item{{Name: "Croissant", Category: "Pastries"}})

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []string{"fetch", "load", "generate", "build"}, calls)
}

func TestRun_UnchangedDataShortCircuits(t *testing.T) {
	var calls []string
	r := stubRunner(&calls, nil)
	r.Fetch = func(ctx context.Context) error {
		calls = append(calls, "fetch")
		return sheet.ErrUnchanged
	}

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []string{"fetch"}, calls)
}

func TestRun_FetchFailureAborts(t *testing.T) {
	var calls []string
	r := stubRunner(&calls, nil)
	ferr := &sheet.FetchError{URL: "https://example.com", StatusCode: 500}
	r.Fetch = func(ctx context.Context) error {
		calls = append(calls, "fetch")
		return ferr
	}

	err := r.Run(context.Background())
	require.Error(t, err)

	var got *sheet.FetchError
	assert.ErrorAs(t, err, &got)
	assert.Equal(t, []string{"fetch"}, calls)
}

func TestRun_ValidationFailureAborts(t *testing.T) {
	var calls []string
	r := stubRunner(&calls, nil)
	verr := &menu.ValidationError{Rows: []menu.RowError{{Line: 2, Name: "Baguette", Field: "category", Reason: "unknown category"}}}
	r.Load = func() ([]menu.Item, error) {
		calls = append(calls, "load")
		return nil, verr
	}

	err := r.Run(context.Background())
	require.Error(t, err)

	var got *menu.ValidationError
	assert.ErrorAs(t, err, &got)
	// Generate and build never run; nothing is published.
	assert.Equal(t, []string{"fetch", "load"}, calls)
}

func TestRun_NoItemsSkipsBuild(t *testing.T) {
	var calls []string
	r := stubRunner(&calls, nil)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []string{"fetch", "load", "generate"}, calls)
}

func TestRun_BuildFailurePropagates(t *testing.T) {
	var calls []string
	r := stubRunner(&calls, []menu.Item{{Name: "Croissant", Category: "Pastries"}})
	r.Build = func(ctx context.Context) error {
		calls = append(calls, "build")
		return errors.New("hugo exited with status 1")
	}

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build stage")
}
