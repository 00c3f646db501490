package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/otpgate/otpgate/internal/otp/entity"
	"github.com/otpgate/otpgate/internal/pkg/goerror"
)

type VerifyInput struct {
	Phone string `validate:"required,subject_address"`
	Code  string `validate:"required,min=4"`
}

type VerifyOutput struct {
	Credential string
}

// Verify checks a candidate code against the subject's active challenge and,
// on a match, destroys the record and mints a signed credential.
//
// The attempt counter is incremented atomically in the store before the hash
// comparison, so incorrect attempts are never lost even when the process dies
// right after responding or when verifies race on the same subject.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	in.Code = strings.TrimSpace(in.Code)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	key, err := s.subjectKey(in.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to derive subject key", "error", err)
		return nil, err
	}

	rec, err := s.repoStore.GetChallenge(ctx, key)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("No active challenge for this subject", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load challenge record", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	if !now.Before(rec.ExpiresAt) {
		if _, err := s.repoStore.DeleteChallenge(ctx, key); err != nil {
			slog.ErrorContext(ctx, "failed to delete expired challenge", "error", err)
			return nil, goerror.NewServer(err)
		}
		return nil, goerror.NewBusiness("Challenge has expired", goerror.CodeExpired)
	}

	attempts, err := s.repoStore.IncrementAttempts(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "failed to increment challenge attempts", "error", err)
		return nil, goerror.NewServer(err)
	}
	if attempts > s.maxAttempts() {
		if _, err := s.repoStore.DeleteChallenge(ctx, key); err != nil {
			slog.ErrorContext(ctx, "failed to delete exhausted challenge", "error", err)
			return nil, goerror.NewServer(err)
		}
		slog.WarnContext(ctx, "challenge attempt budget exhausted", "attempts", attempts)
		return nil, goerror.NewBusiness("Too many incorrect attempts, request a new code", goerror.CodeTooManyRequest)
	}

	if !s.secrets.Verify(rec.SecretHash, in.Code, rec.Salt) {
		slog.WarnContext(ctx, "incorrect challenge code", "attempts", attempts)
		return nil, goerror.NewBusiness("Incorrect verification code", goerror.CodeUnauthorized)
	}

	// Single-use enforcement: the record is destroyed before the credential is
	// minted, so the same code can never verify twice.
	if _, err := s.repoStore.DeleteChallenge(ctx, key); err != nil {
		slog.ErrorContext(ctx, "failed to delete verified challenge", "error", err)
		return nil, goerror.NewServer(err)
	}

	user, err := s.resolveOrCreateUser(ctx, in.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve user identity", "error", err)
		return nil, goerror.NewServer(err)
	}

	credential, err := s.jwt.Generate(user.ID, in.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to mint credential", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.publishSubjectVerified(ctx, SubjectVerifiedEvent{
		UserID:     user.ID,
		Subject:    in.Phone,
		Channel:    rec.Channel,
		VerifiedAt: now,
	})

	return &VerifyOutput{Credential: credential}, nil
}

func (s *Usecase) resolveOrCreateUser(ctx context.Context, phone string) (*entity.User, error) {
	user, err := s.repoDB.GetUserByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		return nil, err
	}

	newUser := entity.User{ID: s.uid.Generate(), Phone: phone}
	if err := s.repoDB.CreateUser(ctx, newUser); err != nil && !errors.Is(err, goerror.ErrConflict) {
		return nil, err
	}

	// Re-read so a concurrent creator's row wins over ours.
	return s.repoDB.GetUserByPhone(ctx, phone)
}

// publishSubjectVerified emits the verified event without delaying the
// response. Publish failure is logged, never surfaced to the caller.
func (s *Usecase) publishSubjectVerified(ctx context.Context, msg SubjectVerifiedEvent) {
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishSubjectVerified(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "failed to publish subject verified event", "user_id", msg.UserID, "error", err)
		}
		return nil
	})
}
