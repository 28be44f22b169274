package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/prompt-shield/models"
)

type fakeAccount struct {
	rotated int
}

func (f *fakeAccount) Whoami(context.Context) (models.Profile, error) {
	return models.Profile{}, nil
}

func (f *fakeAccount) RotateKey(context.Context) (models.Credential, error) {
	f.rotated++
	return "key-2", nil
}

func (f *fakeAccount) Logout(context.Context) error { return nil }

func TestAccountModel_ShowsProfile(t *testing.T) {
	deps := newTestDeps(t)
	deps.signIn(t, "sk-live-123456789", models.Profile{
		Email: "a@b.c", Tier: "free", UsageCount: 10, MaxUsage: 10, SubscriptionPlan: "free",
	})
	m := NewAccountModel(context.Background(), deps.session, &fakeAccount{})

	require.NotNil(t, m.Init())

	view := m.View()
	assert.Contains(t, view, "a@b.c")
	assert.Contains(t, view, "10 / 10 requests")
	assert.Contains(t, view, "used your whole quota")
	assert.Contains(t, view, "sk-l…6789")
	assert.NotContains(t, view, "sk-live-123456789")
}

func TestAccountModel_RotateNeedsConfirmation(t *testing.T) {
	deps := newTestDeps(t)
	deps.signIn(t, "key-1", models.Profile{Email: "a@b.c"})
	account := &fakeAccount{}
	m := NewAccountModel(context.Background(), deps.session, account)
	m.Init()

	m.Update(keyRunes("r"))
	assert.True(t, m.confirmRotate)
	assert.Contains(t, m.View(), "(y/n)")

	_, cmd := m.Update(keyRunes("n"))
	assert.Nil(t, cmd)
	assert.False(t, m.confirmRotate)

	m.Update(keyRunes("r"))
	_, cmd = m.Update(keyRunes("y"))
	require.NotNil(t, cmd)
	assert.True(t, m.rotating)

	m.Update(cmd())
	assert.Equal(t, 1, account.rotated)
	assert.False(t, m.rotating)
	assert.Contains(t, m.View(), "New API key generated")
}

func TestAccountModel_SignedOut(t *testing.T) {
	deps := newTestDeps(t)
	m := NewAccountModel(context.Background(), deps.session, &fakeAccount{})
	m.Init()

	_, cmd := m.Update(keyRunes("r"))
	assert.Nil(t, cmd)
	assert.False(t, m.confirmRotate)

	_, cmd = m.Update(keyRunes("c"))
	assert.Nil(t, cmd)

	assert.Contains(t, m.View(), "signed out")

	_, cmd = m.Update(keyType(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateTo{Page: pageMenu}, cmd())
}
