package reconciler

import (
	"fmt"

	"github.com/laurel-etl/laurel/pkg/errors"
)

type options struct {
	notes    NotesPolicy
	tracking bool
}

func defaultOptions() *options {
	return &options{
		notes:    NotesUnattached,
		tracking: false,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithNotesPolicy sets what happens to free-text lines.
func WithNotesPolicy(policy NotesPolicy) Option {
	return func(o *options) error {
		if !policy.IsValid() {
			return &errors.ValidationError{
				Field:   "notes_policy",
				Value:   policy,
				Message: fmt.Sprintf("must be one of %v", NotesPolicies()),
			}
		}
		o.notes = policy
		return nil
	}
}

// WithProvenance enables field-level tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}
