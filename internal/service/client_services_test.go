package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/prompt-shield/internal/config"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/mock"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/internal/store"
	"github.com/MKhiriev/prompt-shield/internal/validators"
	"github.com/MKhiriev/prompt-shield/models"
)

// memRepo is an in-memory StateRepository.
type memRepo struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func newMemRepo() *memRepo { return &memRepo{values: map[string]string{}} }

func (m *memRepo) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", store.ErrStateNotFound
	}
	return v, nil
}

func (m *memRepo) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memRepo) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memRepo) failSet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

func (m *memRepo) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

var testProfile = models.Profile{Email: "user@example.com", Tier: "free", MaxUsage: 50, IsVerified: true, SubscriptionPlan: "free"}

// testEnv wires a real session store over an in-memory repository and a
// mocked server.
type testEnv struct {
	srv       *mock.MockServerAdapter
	repo      *memRepo
	sess      *session.Store
	validator validators.Validator
	log       *logger.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	srv := mock.NewMockServerAdapter(ctrl)
	repo := newMemRepo()
	log := logger.Nop()

	return &testEnv{
		srv:       srv,
		repo:      repo,
		sess:      session.NewStore(repo, srv, log),
		validator: validators.NewFormValidator(),
		log:       log,
	}
}

// signIn puts key in the session, answering the profile refresh it
// triggers.
func (e *testEnv) signIn(t *testing.T, key models.Credential) {
	t.Helper()
	e.expectProfile(key)
	require.NoError(t, e.sess.SetCredential(context.Background(), key))
}

func (e *testEnv) expectProfile(key models.Credential) {
	e.srv.EXPECT().Me(gomock.Any(), key).Return(testProfile, nil)
}

func TestNewClientServices_SharesSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := mock.NewMockServerAdapter(ctrl)

	cfg := &config.ClientConfig{
		Adapter:    config.ClientAdapter{HTTPAddress: "http://api.test", RequestTimeout: time.Second},
		Playground: config.ClientPlayground{Provider: "openai", Model: "gpt-4"},
	}
	svcs := NewClientServices(cfg, newMemRepo(), srv, logger.Nop())

	require.NotNil(t, svcs.Session)
	assert.Equal(t, cfg.Playground, svcs.Playground.Defaults())
	assert.Same(t, svcs.Session, svcs.NewAuthFlow().session)
	assert.Same(t, svcs.Session, svcs.NewChangePasswordFlow().session)
	assert.Same(t, svcs.Session, svcs.NewPaymentFlow().session)
	assert.True(t, svcs.NewResetPasswordFlow("").State().InvalidLink)
	assert.NotNil(t, svcs.AccountService)
	assert.NotNil(t, svcs.AnalyticsService)
	assert.NotNil(t, svcs.ConsentService)
	assert.NotNil(t, svcs.SnippetService)
}
