package project

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a project reference embedded in tasks and bugs. The bug endpoints
// send {"id":..,"title":..}; the task list sends only the title string.
type Ref struct {
	ID    int    `json:"id,omitempty"`
	Title string `json:"title"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = Ref{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var title string
		if err := json.Unmarshal(data, &title); err != nil {
			return fmt.Errorf("failed to decode project title: %w", err)
		}
		*r = Ref{Title: title}
		return nil
	case len(data) > 0 && data[0] >= '0' && data[0] <= '9':
		var id int
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("failed to decode project id: %w", err)
		}
		*r = Ref{ID: id}
		return nil
	}
	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to decode project ref: %w", err)
	}
	*r = Ref(p)
	return nil
}

// Label is what list rows show for the project column.
func (r Ref) Label() string {
	switch {
	case r.Title != "":
		return r.Title
	case r.ID != 0:
		return fmt.Sprintf("#%d", r.ID)
	}
	return "—"
}

// Resolve fills in whichever half of the reference is missing from the
// projects the page already holds.
func (r Ref) Resolve(projects []Project) Ref {
	for _, p := range projects {
		if (r.ID != 0 && p.ID == r.ID) || (r.ID == 0 && r.Title != "" && p.Title == r.Title) {
			return p.Ref()
		}
	}
	return r
}
