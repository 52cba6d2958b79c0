package view

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DateLayout   = "Jan 02, 2006"
	ClampDefault = 80
)

var inputLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// FormatDate renders API dates for tables. Blank dates render as "—"; a
// value in an unknown layout is shown as sent.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "—"
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

// ClampText shortens text to at most max runes, ending in an ellipsis when
// it had to cut.
func ClampText(text string, max int) string {
	if max <= 0 {
		max = ClampDefault
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:max-1]), " \t\n") + "…"
}

// EmptyState is the placeholder for a list that rendered no rows: "" when
// there are rows, a filter hint when rows exist but none matched.
func EmptyState(total, shown int, noun string) string {
	switch {
	case shown > 0:
		return ""
	case total > 0:
		return fmt.Sprintf("No %s match your filters.", noun)
	}
	return fmt.Sprintf("No %s found.", noun)
}

// TeamSize renders the overview card "N Dev • M QA".
func TeamSize(devs, qas int) string {
	return fmt.Sprintf("%d Dev • %d QA", devs, qas)
}
