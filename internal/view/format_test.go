package view

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-03-07", "Mar 07, 2025"},
		{"2025-03-07T10:15:00Z", "Mar 07, 2025"},
		{"2025-03-07T10:15:00.123456+09:00", "Mar 07, 2025"},
		{"", "—"},
		{"soon", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.in))
		})
	}
}

func TestClampText(t *testing.T) {
	assert.Equal(t, "short", ClampText("short", 80))

	long := strings.Repeat("word ", 30)
	got := ClampText(long, 80)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 80)
	assert.NotContains(t, got, " …")
}

func TestEmptyState(t *testing.T) {
	assert.Empty(t, EmptyState(3, 1, "projects"))
	assert.Equal(t, "No projects match your filters.", EmptyState(3, 0, "projects"))
	assert.Equal(t, "No projects found.", EmptyState(0, 0, "projects"))
	assert.Equal(t, "2 Dev • 1 QA", TeamSize(2, 1))
}
