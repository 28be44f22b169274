package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/mock"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/internal/store"
	"github.com/MKhiriev/prompt-shield/models"
)

type testDeps struct {
	repo    *mock.MockStateRepository
	adapter *mock.MockServerAdapter
	session *session.Store
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockStateRepository(ctrl)
	srv := mock.NewMockServerAdapter(ctrl)

	return &testDeps{
		repo:    repo,
		adapter: srv,
		session: session.NewStore(repo, srv, logger.Nop()),
	}
}

// signIn makes key the active credential with the given profile.
func (d *testDeps) signIn(t *testing.T, key models.Credential, profile models.Profile) {
	t.Helper()
	d.repo.EXPECT().Set(gomock.Any(), store.KeyAPIKey, key.String()).Return(nil)
	d.adapter.EXPECT().Me(gomock.Any(), key).Return(profile, nil)
	require.NoError(t, d.session.SetCredential(context.Background(), key))
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}
