package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	title  string
	status string
}

func title(r row) string { return r.title }

func status(r row) string { return r.status }

func TestApply(t *testing.T) {
	rows := []row{
		{"Client Onboarding Portal", "Active"},
		{"Nova Admin Panel", "On Hold"},
		{"Payments Revamp", "Active"},
	}

	tests := []struct {
		name   string
		query  string
		status string
		want   []row
	}{
		{"no filters", "", All, rows},
		{"blank query", "   ", "", rows},
		{"status only", "", "Active", []row{rows[0], rows[2]}},
		{"case insensitive", "NOVA", All, []row{rows[1]}},
		{"query and status", "p", "Active", []row{rows[0], rows[2]}},
		{"both must hold", "nova", "Active", []row{}},
		{"no match", "xyz", All, []row{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(rows, TitleContains(tt.query, title), Equal(tt.status, status))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyNeverReturnsNil(t *testing.T) {
	got := Apply[row](nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQueryKeepsSurroundingSpaces(t *testing.T) {
	rows := []row{{"Fix login", ""}, {"Fix login page", ""}}
	assert.Len(t, Apply(rows, TitleContains("   ", title)), 2)
	assert.Len(t, Apply(rows, TitleContains(" LOGIN", title)), 2)
	got := Apply(rows, TitleContains(" login ", title))
	require.Len(t, got, 1)
	assert.Equal(t, "Fix login page", got[0].title)
}
