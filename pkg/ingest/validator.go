package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amrwatch/surveillance/pkg/common/models"
)

var (
	errInvalidSource = errors.New("invalid source")
	errEmptyRow      = errors.New("missing row data")
)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

type Validator struct {
	allowedSources map[string]struct{}
}

func NewValidator(sources []string) *Validator {
	allowed := make(map[string]struct{})
	for _, src := range sources {
		if trimmed := strings.TrimSpace(strings.ToLower(src)); trimmed != "" {
			allowed[trimmed] = struct{}{}
		}
	}
	return &Validator{allowedSources: allowed}
}

func (v *Validator) Validate(req models.SubmitRequest) error {
	if v == nil {
		return ValidationError{reason: errors.New("validator not initialised")}
	}

	source := strings.TrimSpace(strings.ToLower(req.Source))
	if source == "" {
		return ValidationError{reason: fmt.Errorf("source required: %w", errInvalidSource)}
	}
	if len(v.allowedSources) > 0 {
		if _, ok := v.allowedSources[source]; !ok {
			return ValidationError{reason: fmt.Errorf("source '%s' not allowed: %w", source, errInvalidSource)}
		}
	}

	if len(req.Row) == 0 {
		return ValidationError{reason: errEmptyRow}
	}

	return nil
}
