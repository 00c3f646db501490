package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/otpgate/otpgate/internal/otp/entity"
	"github.com/otpgate/otpgate/internal/pkg/goerror"
	"github.com/otpgate/otpgate/internal/pkg/instrument"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	fieldSubject    = "subject"
	fieldChannel    = "channel"
	fieldSecretHash = "secret_hash"
	fieldSalt       = "salt"
	fieldAttempts   = "attempts"
	fieldCreatedAt  = "created_at_ms"
	fieldLastSentAt = "last_sent_at_ms"
	fieldExpiresAt  = "expires_at_ms"
)

// Store keeps challenge records in Redis, one hash per subject.
//
// HIncrBy and SetNX give the single-key atomicity the state machine relies on
// for attempt counting and resend cooldown.
type Store struct {
	client *redis.Client
	prefix string
	ins    instrument.Instrumentation
}

func NewStore(client *redis.Client, prefix string, ins instrument.Instrumentation) *Store {
	if prefix == "" {
		prefix = "otp:challenge:"
	}
	return &Store{
		client: client,
		prefix: prefix,
		ins:    ins,
	}
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.outbound.store").Start(ctx, name)
}

func (s *Store) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Store) recordKey(subjectKey string) string {
	return s.prefix + subjectKey
}

func (s *Store) cooldownKey(subjectKey string) string {
	return s.prefix + "cooldown:" + subjectKey
}

// GetChallenge loads the challenge record for a subject key. Returns
// goerror.ErrNotFound when no record exists.
func (s *Store) GetChallenge(ctx context.Context, subjectKey string) (_ *entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "GetChallenge")
	defer func() { s.endSpan(span, err) }()

	fields, err := s.client.HGetAll(ctx, s.recordKey(subjectKey)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, goerror.ErrNotFound
	}

	return recordFromFields(fields), nil
}

// SaveChallenge writes the full record, replacing any previous issuance.
func (s *Store) SaveChallenge(ctx context.Context, subjectKey string, ch entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "SaveChallenge")
	defer func() { s.endSpan(span, err) }()

	key := s.recordKey(subjectKey)
	if err := s.client.HSet(ctx, key, map[string]any{
		fieldSubject:    ch.Subject,
		fieldChannel:    ch.Channel.String(),
		fieldSecretHash: ch.SecretHash,
		fieldSalt:       ch.Salt,
		fieldAttempts:   ch.Attempts,
		fieldCreatedAt:  ch.CreatedAt.UnixMilli(),
		fieldLastSentAt: ch.LastSentAt.UnixMilli(),
		fieldExpiresAt:  ch.ExpiresAt.UnixMilli(),
	}).Err(); err != nil {
		return err
	}

	// Storage hygiene only. Expiry is still enforced lazily by the state
	// machine comparing expires_at_ms against the clock.
	return s.client.PExpireAt(ctx, key, ch.ExpiresAt).Err()
}

// DeleteChallenge removes the record and reports whether one existed. The
// cooldown lease binds resends only while a record exists, so it goes with
// the record.
func (s *Store) DeleteChallenge(ctx context.Context, subjectKey string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "DeleteChallenge")
	defer func() { s.endSpan(span, err) }()

	deleted, err := s.client.Del(ctx, s.recordKey(subjectKey)).Result()
	if err != nil {
		return false, err
	}

	if err := s.client.Del(ctx, s.cooldownKey(subjectKey)).Err(); err != nil {
		return false, err
	}

	return deleted > 0, nil
}

// IncrementAttempts bumps the attempt counter atomically and returns the new
// value. Concurrent verifies on the same subject can never lose an increment.
func (s *Store) IncrementAttempts(ctx context.Context, subjectKey string) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "IncrementAttempts")
	defer func() { s.endSpan(span, err) }()

	return s.client.HIncrBy(ctx, s.recordKey(subjectKey), fieldAttempts, 1).Result()
}

// AcquireCooldown claims the resend slot for a subject. Exactly one caller
// wins per window, closing the concurrent-start race.
func (s *Store) AcquireCooldown(ctx context.Context, subjectKey string, window time.Duration) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "AcquireCooldown")
	defer func() { s.endSpan(span, err) }()

	return s.client.SetNX(ctx, s.cooldownKey(subjectKey), "1", window).Result()
}

func recordFromFields(fields map[string]string) *entity.Challenge {
	attempts, _ := strconv.ParseInt(fields[fieldAttempts], 10, 64)

	return &entity.Challenge{
		Subject:    fields[fieldSubject],
		Channel:    entity.ChannelFromString(fields[fieldChannel]),
		SecretHash: fields[fieldSecretHash],
		Salt:       fields[fieldSalt],
		Attempts:   attempts,
		CreatedAt:  msToTime(fields[fieldCreatedAt]),
		LastSentAt: msToTime(fields[fieldLastSentAt]),
		ExpiresAt:  msToTime(fields[fieldExpiresAt]),
	}
}

func msToTime(v string) time.Time {
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
