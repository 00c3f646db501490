package usecase

import (
	"context"
	"time"

	"github.com/otpgate/otpgate/internal/otp/entity"
	"github.com/otpgate/otpgate/internal/pkg/clock"
	"github.com/otpgate/otpgate/internal/pkg/config"
	"github.com/otpgate/otpgate/internal/pkg/goerror"
	"github.com/otpgate/otpgate/internal/pkg/goroutine"
	"github.com/otpgate/otpgate/internal/pkg/hash"
	"github.com/otpgate/otpgate/internal/pkg/instrument"
	"github.com/otpgate/otpgate/internal/pkg/jwt"
	"github.com/otpgate/otpgate/internal/pkg/otpcode"
	"github.com/otpgate/otpgate/internal/pkg/uid"
	"github.com/otpgate/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type SubjectVerifiedEvent struct {
	UserID     int64
	Subject    string
	Channel    entity.Channel
	VerifiedAt time.Time
}

type repoStore interface {
	GetChallenge(ctx context.Context, subjectKey string) (*entity.Challenge, error)
	SaveChallenge(ctx context.Context, subjectKey string, ch entity.Challenge) error
	DeleteChallenge(ctx context.Context, subjectKey string) (bool, error)
	IncrementAttempts(ctx context.Context, subjectKey string) (int64, error)
	AcquireCooldown(ctx context.Context, subjectKey string, window time.Duration) (bool, error)
}

type repoDB interface {
	GetUserByPhone(ctx context.Context, phone string) (*entity.User, error)
	CreateUser(ctx context.Context, user entity.User) error
	DeleteUserByPhone(ctx context.Context, phone string) (bool, error)
}

type repoMessaging interface {
	PublishSubjectVerified(ctx context.Context, msg SubjectVerifiedEvent) error
}

type sender interface {
	Send(ctx context.Context, subject, code string) error
}

type Usecase struct {
	repoStore     repoStore
	repoDB        repoDB
	repoMessaging repoMessaging
	sender        sender
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	secrets       *hash.SaltedSHA256
	codes         otpcode.Generator
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoStore     repoStore
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Sender        sender
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Secrets       *hash.SaltedSHA256
	Codes         otpcode.Generator
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoStore:     dep.RepoStore,
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		sender:        dep.Sender,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		secrets:       dep.Secrets,
		codes:         dep.Codes,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

// subjectKey derives the store key from a normalized subject address. The key
// is a keyed digest, never the plaintext address.
func (s *Usecase) subjectKey(subject string) (string, error) {
	key, err := s.hmac.Hash(subject)
	if err != nil {
		return "", goerror.NewServer(err)
	}
	return string(key), nil
}

func (s *Usecase) cooldownWindow() time.Duration {
	return s.cfg.GetSecond("modules.otp.cooldown_seconds")
}

func (s *Usecase) expiryWindow() time.Duration {
	return s.cfg.GetMinute("modules.otp.expiry_minutes")
}

func (s *Usecase) maxAttempts() int64 {
	return s.cfg.GetInt64("modules.otp.max_attempts")
}
