package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/otpgate/otpgate/internal/pkg/goerror"
	"github.com/otpgate/otpgate/internal/pkg/jwt"
)

type AdminResetInput struct {
	Phone string `validate:"required,subject_address"`
}

// AdminReset removes every trace of a subject: the active challenge record
// and the durable user row. Used by operators to rewind a test account.
func (s *Usecase) AdminReset(ctx context.Context, in AdminResetInput) error {
	ctx, span := s.startSpan(ctx, "AdminReset")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	key, err := s.subjectKey(in.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to derive subject key", "error", err)
		return err
	}

	challengeDeleted, err := s.repoStore.DeleteChallenge(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete challenge record", "error", err)
		return goerror.NewServer(err)
	}

	userDeleted, err := s.repoDB.DeleteUserByPhone(ctx, in.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete user record", "error", err)
		return goerror.NewServer(err)
	}

	if !challengeDeleted && !userDeleted {
		return goerror.NewBusiness("Nothing to reset for this subject", goerror.CodeNotFound)
	}

	slog.InfoContext(ctx, "subject data reset",
		"by", clm.Subject,
		"challenge_deleted", challengeDeleted,
		"user_deleted", userDeleted,
	)

	return nil
}
