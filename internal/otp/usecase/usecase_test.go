package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/otpgate/otpgate/internal/otp/entity"
	"github.com/otpgate/otpgate/internal/pkg/config"
	"github.com/otpgate/otpgate/internal/pkg/goerror"
	"github.com/otpgate/otpgate/internal/pkg/goroutine"
	"github.com/otpgate/otpgate/internal/pkg/hash"
	"github.com/otpgate/otpgate/internal/pkg/instrument"
	"github.com/otpgate/otpgate/internal/pkg/jwt"
	"github.com/otpgate/otpgate/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
modules:
  otp:
    cooldown_seconds: 30
    expiry_minutes: 5
    max_attempts: 5
    timeouts:
      delivery_seconds: 10
`

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type fakeStore struct {
	mu        sync.Mutex
	clock     *fakeClock
	records   map[string]entity.Challenge
	cooldowns map[string]time.Time
}

func newFakeStore(clock *fakeClock) *fakeStore {
	return &fakeStore{
		clock:     clock,
		records:   make(map[string]entity.Challenge),
		cooldowns: make(map[string]time.Time),
	}
}

func (f *fakeStore) GetChallenge(_ context.Context, key string) (*entity.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[key]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &rec, nil
}

func (f *fakeStore) SaveChallenge(_ context.Context, key string, ch entity.Challenge) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.records[key] = ch

	return nil
}

func (f *fakeStore) DeleteChallenge(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.records[key]
	delete(f.records, key)
	delete(f.cooldowns, key)

	return ok, nil
}

func (f *fakeStore) IncrementAttempts(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[key]
	if !ok {
		return 0, goerror.ErrNotFound
	}

	rec.Attempts++
	f.records[key] = rec

	return rec.Attempts, nil
}

func (f *fakeStore) AcquireCooldown(_ context.Context, key string, window time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()
	if until, ok := f.cooldowns[key]; ok && now.Before(until) {
		return false, nil
	}
	f.cooldowns[key] = now.Add(window)

	return true, nil
}

func (f *fakeStore) challengeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.records)
}

type fakeDB struct {
	mu    sync.Mutex
	users map[string]entity.User
}

func newFakeDB() *fakeDB {
	return &fakeDB{users: make(map[string]entity.User)}
}

func (f *fakeDB) GetUserByPhone(_ context.Context, phone string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &user, nil
}

func (f *fakeDB) CreateUser(_ context.Context, user entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.Phone]; ok {
		return goerror.ErrConflict
	}
	f.users[user.Phone] = user

	return nil
}

func (f *fakeDB) DeleteUserByPhone(_ context.Context, phone string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.users[phone]
	delete(f.users, phone)

	return ok, nil
}

func (f *fakeDB) userCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.users)
}

type delivery struct {
	subject string
	code    string
}

type fakeSender struct {
	mu         sync.Mutex
	deliveries []delivery
	err        error
}

func (f *fakeSender) Send(_ context.Context, subject, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.deliveries = append(f.deliveries, delivery{subject: subject, code: code})

	return nil
}

func (f *fakeSender) sent() []delivery {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]delivery(nil), f.deliveries...)
}

type fakeBroker struct {
	mu     sync.Mutex
	events []SubjectVerifiedEvent
	err    error
}

func (f *fakeBroker) PublishSubjectVerified(_ context.Context, msg SubjectVerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, msg)

	return nil
}

func (f *fakeBroker) published() []SubjectVerifiedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]SubjectVerifiedEvent(nil), f.events...)
}

type fakeCodes struct {
	code string
	salt string
}

func (f *fakeCodes) Code() (string, error) { return f.code, nil }
func (f *fakeCodes) Salt() (string, error) { return f.salt, nil }

type fakeNumberID struct {
	mu   sync.Mutex
	next int64
}

func (f *fakeNumberID) Generate() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++

	return f.next
}

type fakeStringID struct{}

func (fakeStringID) Generate() string { return "0198f2a4-test-jti" }

type fixture struct {
	uc      *Usecase
	store   *fakeStore
	db      *fakeDB
	sender  *fakeSender
	broker  *fakeBroker
	clock   *fakeClock
	codes   *fakeCodes
	manager *goroutine.Manager
	secrets *hash.SaltedSHA256
	jwt     jwt.JWT
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	require.NoError(t, err)

	vld, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := &fakeClock{now: time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)}

	tokenizer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		Issuer:    "otpgate",
		Audiences: []string{"otpgate"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      fakeStringID{},
	})
	require.NoError(t, err)

	f := &fixture{
		store:   newFakeStore(clk),
		db:      newFakeDB(),
		sender:  &fakeSender{},
		broker:  &fakeBroker{},
		clock:   clk,
		codes:   &fakeCodes{code: "123456", salt: "5f8c1d2e3a4b5c6d7e8f90a1b2c3d4e5"},
		manager: goroutine.NewManager(4),
		secrets: hash.NewSaltedSHA256(),
		jwt:     tokenizer,
	}

	f.uc = New(Dependency{
		RepoStore:     f.store,
		RepoDB:        f.db,
		RepoMessaging: f.broker,
		Sender:        f.sender,
		Validator:     vld,
		Config:        cfg,
		HMAC:          hash.NewHMACSHA256("test-subject-key-secret"),
		Secrets:       f.secrets,
		Codes:         f.codes,
		UID:           &fakeNumberID{next: 1000},
		Clock:         clk,
		JWT:           tokenizer,
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.manager,
	})

	return f
}

func asGoError(t *testing.T, err error) *goerror.Error {
	t.Helper()

	gerr, ok := err.(*goerror.Error)
	require.True(t, ok, "expected *goerror.Error, got %T: %v", err, err)

	return gerr
}
