package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/otpgate/otpgate/internal/otp/entity"
	"github.com/otpgate/otpgate/internal/pkg/goerror"
)

type StartInput struct {
	Phone   string `validate:"required,subject_address"`
	Channel string `validate:"required"`
}

// Start issues a fresh challenge for a subject and delivers the plaintext
// code out of band. A new issuance replaces any previous record wholesale, so
// the expiry window restarts and the attempt budget resets.
func (s *Usecase) Start(ctx context.Context, in StartInput) error {
	ctx, span := s.startSpan(ctx, "Start")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	channel := entity.ChannelFromString(in.Channel)
	if channel.IsUnknown() {
		return goerror.NewInvalidInput(nil, "channel", "channel must be whatsapp")
	}

	key, err := s.subjectKey(in.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to derive subject key", "error", err)
		return err
	}

	acquired, err := s.repoStore.AcquireCooldown(ctx, key, s.cooldownWindow())
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire resend cooldown", "error", err)
		return goerror.NewServer(err)
	}
	if !acquired {
		slog.WarnContext(ctx, "resend cooldown still active for subject")
		return goerror.NewBusiness("Please wait before requesting another code", goerror.CodeTooManyRequest)
	}

	code, err := s.codes.Code()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate challenge code", "error", err)
		return goerror.NewServer(err)
	}

	salt, err := s.codes.Salt()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate challenge salt", "error", err)
		return goerror.NewServer(err)
	}

	now := s.clock.Now()
	if err := s.repoStore.SaveChallenge(ctx, key, entity.Challenge{
		Subject:    in.Phone,
		Channel:    channel,
		SecretHash: s.secrets.Sum(code, salt),
		Salt:       salt,
		Attempts:   0,
		CreatedAt:  now,
		LastSentAt: now,
		ExpiresAt:  now.Add(s.expiryWindow()),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to persist challenge record", "error", err)
		return goerror.NewServer(err)
	}

	// The record stays persisted even when delivery fails. A retry within the
	// cooldown window is rejected although no message arrived; callers must
	// wait out the window.
	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.GetSecond("modules.otp.timeouts.delivery_seconds"))
	defer cancel()

	if err := s.sender.Send(sendCtx, in.Phone, code); err != nil {
		slog.ErrorContext(ctx, "failed to deliver challenge code", "error", err)
		return goerror.NewDependency(err, "Failed to deliver verification code")
	}

	return nil
}
