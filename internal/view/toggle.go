package view

import (
	"slices"

	"github.com/kazz187/novapm/internal/project"
)

// ToggleID removes id from list if present, keeping the order of the rest,
// and appends it otherwise. list is not modified.
func ToggleID(list []int, id int) []int {
	if i := slices.Index(list, id); i >= 0 {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return append(slices.Clone(list), id)
}

// AssignDraft is the membership being edited in the assignment modal.
type AssignDraft struct {
	ProjectID  int
	Developers []int
	QAs        []int
}

func NewAssignDraft() AssignDraft {
	return AssignDraft{Developers: []int{}, QAs: []int{}}
}

// SeedAssignment opens the modal on p's current membership.
func SeedAssignment(p project.Project) AssignDraft {
	return AssignDraft{
		ProjectID:  p.ID,
		Developers: p.DeveloperIDs(),
		QAs:        p.QAIDs(),
	}
}

func (d AssignDraft) Selected() bool {
	return d.ProjectID != 0
}

func (d AssignDraft) HasDeveloper(id int) bool { return slices.Contains(d.Developers, id) }

func (d AssignDraft) HasQA(id int) bool { return slices.Contains(d.QAs, id) }

func (d AssignDraft) Assignment() project.Assignment {
	a := project.Assignment{Developers: d.Developers, QAs: d.QAs}
	if a.Developers == nil {
		a.Developers = []int{}
	}
	if a.QAs == nil {
		a.QAs = []int{}
	}
	return a
}
