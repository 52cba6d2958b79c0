package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kazz187/novapm/internal/project"
	"github.com/kazz187/novapm/internal/user"
)

func TestToggleID(t *testing.T) {
	tests := []struct {
		name string
		list []int
		id   int
		want []int
	}{
		{"remove keeps order", []int{4, 2, 7}, 2, []int{4, 7}},
		{"append absent", []int{4, 7}, 2, []int{4, 7, 2}},
		{"empty", nil, 1, []int{1}},
		{"remove last", []int{1}, 1, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := append([]int(nil), tt.list...)
			assert.Equal(t, tt.want, ToggleID(tt.list, tt.id))
			assert.Equal(t, orig, tt.list)
		})
	}
}

func TestAssignDraft(t *testing.T) {
	p := project.Project{
		ID:         5,
		Developers: []user.User{{ID: 1}, {ID: 2}},
		QAs:        []user.User{{ID: 9}},
	}
	d := SeedAssignment(p)
	assert.True(t, d.Selected())
	assert.True(t, d.HasDeveloper(2))
	assert.False(t, d.HasQA(2))

	d.Developers = ToggleID(d.Developers, 1)
	assert.Equal(t, project.Assignment{Developers: []int{2}, QAs: []int{9}}, d.Assignment())

	empty := NewAssignDraft()
	assert.False(t, empty.Selected())
	assert.Equal(t, project.Assignment{Developers: []int{}, QAs: []int{}}, empty.Assignment())
}
