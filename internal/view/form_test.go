package view

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/novapm/internal/project"
	"github.com/kazz187/novapm/pkg/cerr"
)

func TestFormSubmit(t *testing.T) {
	t.Run("success resets and refreshes once", func(t *testing.T) {
		f := NewForm(project.NewDraft, "Failed to create project")
		f.Show()
		f.Draft.Title = "Apollo"
		refreshes := 0

		err := f.Submit(context.Background(),
			func(_ context.Context, d project.Draft) error {
				assert.Equal(t, "Apollo", d.Title)
				return nil
			},
			func(context.Context) error { refreshes++; return nil },
		)
		require.NoError(t, err)
		assert.False(t, f.Open)
		assert.Equal(t, project.NewDraft(), f.Draft)
		assert.Empty(t, f.Err)
		assert.Equal(t, 1, refreshes)
	})

	t.Run("failure keeps modal and draft", func(t *testing.T) {
		f := NewForm(project.NewDraft, "Failed to create project")
		f.Show()
		f.Draft.Title = "Apollo"
		refreshes := 0

		err := f.Submit(context.Background(),
			func(context.Context, project.Draft) error {
				return cerr.NewError(cerr.InvalidArgument, "title: already taken", nil)
			},
			func(context.Context) error { refreshes++; return nil },
		)
		require.Error(t, err)
		assert.True(t, f.Open)
		assert.Equal(t, "Apollo", f.Draft.Title)
		assert.Equal(t, "title: already taken", f.Err)
		assert.Zero(t, refreshes)
	})

	t.Run("failure without message uses fallback", func(t *testing.T) {
		f := NewForm(project.NewDraft, "Failed to create project")
		err := f.Submit(context.Background(),
			func(context.Context, project.Draft) error { return errors.New("eof") },
			nil,
		)
		require.Error(t, err)
		assert.True(t, f.Open)
		assert.Equal(t, "Failed to create project", f.Err)
	})
}
