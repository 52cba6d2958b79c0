package view

import (
	"context"

	"github.com/kazz187/novapm/pkg/cerr"
)

// Form is the state behind a create/edit modal.
type Form[D any] struct {
	Open  bool
	Draft D
	Err   string

	defaults func() D
	fallback string
}

// NewForm starts closed with a default draft. fallback is the alert text for
// failures that carry no message of their own.
func NewForm[D any](defaults func() D, fallback string) *Form[D] {
	return &Form[D]{
		Draft:    defaults(),
		defaults: defaults,
		fallback: fallback,
	}
}

func (f *Form[D]) Show() {
	f.Open = true
	f.Err = ""
}

// Close discards the draft.
func (f *Form[D]) Close() {
	f.Open = false
	f.Draft = f.defaults()
	f.Err = ""
}

// Fail keeps the modal open with the draft intact and records the alert.
func (f *Form[D]) Fail(err error) {
	f.Open = true
	f.Err = cerr.Message(err, f.fallback)
}

// Submit sends the current draft. On failure the modal stays open with the
// draft and an alert. On success the form resets and refresh runs once.
func (f *Form[D]) Submit(ctx context.Context, send func(context.Context, D) error, refresh func(context.Context) error) error {
	if err := send(ctx, f.Draft); err != nil {
		f.Fail(err)
		return err
	}
	f.Close()
	if refresh == nil {
		return nil
	}
	return refresh(ctx)
}
