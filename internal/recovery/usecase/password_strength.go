package usecase

import (
	"context"

	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/pkg/strength"
)

type PasswordStrengthInput struct {
	Password string `validate:"max=1024"`
}

type PasswordStrengthOutput struct {
	Tier  strength.Tier
	Score int
}

func (s *Usecase) PasswordStrength(ctx context.Context, in PasswordStrengthInput) (*PasswordStrengthOutput, error) {
	_, span := s.startSpan(ctx, "PasswordStrength")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return &PasswordStrengthOutput{
		Tier:  strength.Classify(in.Password),
		Score: strength.Score(in.Password),
	}, nil
}
