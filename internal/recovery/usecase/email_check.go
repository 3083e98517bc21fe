package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
)

type EmailAvailabilityInput struct {
	Email string `validate:"required,email"`
}

// EmailAvailability succeeds when no account uses the email.
func (s *Usecase) EmailAvailability(ctx context.Context, in EmailAvailabilityInput) error {
	ctx, span := s.startSpan(ctx, "EmailAvailability")
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	_, err := s.findAccount(ctx, in.Email)
	if errors.Is(err, entity.ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return goerror.NewBusinessCause(entity.ErrEmailInUse, "Email already in use", goerror.CodeConflict)
}
