package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/models"
)

func newTestAnalyticsService(t *testing.T) (ClientAnalyticsService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewClientAnalyticsService(env.sess, env.srv, env.log), env
}

func TestActivityRows_OldestFirst(t *testing.T) {
	newer := time.Date(2025, 3, 1, 14, 5, 0, 0, time.Local)
	older := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)

	rows := ActivityRows([]models.ActivityLog{
		{ID: 2, RawTokens: 100, CompressedTokens: 60, SavingsRatio: 0.4, CreatedAt: newer.Format("2006-01-02T15:04:05.000000")},
		{ID: 1, RawTokens: 50, CompressedTokens: 45, SavingsRatio: 0.1234, CreatedAt: older.Format(time.RFC3339)},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, models.ActivityRow{ID: 1, Time: "09:30", Raw: 50, Compressed: 45, Savings: "12.3"}, rows[0])
	assert.Equal(t, models.ActivityRow{ID: 2, Time: "14:05", Raw: 100, Compressed: 60, Savings: "40.0"}, rows[1])
}

func TestActivityRows_UnparsableTime(t *testing.T) {
	rows := ActivityRows([]models.ActivityLog{{ID: 1, CreatedAt: "yesterday"}})
	require.Len(t, rows, 1)
	assert.Equal(t, "yesterday", rows[0].Time)
	assert.Equal(t, "0.0", rows[0].Savings)
}

func TestHistory_DefaultLimitAndOptionalKey(t *testing.T) {
	svc, env := newTestAnalyticsService(t)

	env.srv.EXPECT().History(gomock.Any(), models.Credential(""), DefaultHistoryLimit).
		Return([]models.ActivityLog{}, nil)

	rows, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestHistory_SendsKey(t *testing.T) {
	svc, env := newTestAnalyticsService(t)
	env.signIn(t, "key-1")

	env.srv.EXPECT().History(gomock.Any(), models.Credential("key-1"), 10).
		Return([]models.ActivityLog{{ID: 7, CreatedAt: "2025-01-01T08:00:00"}}, nil)

	rows, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].ID)
}

func TestHistory_UnauthorizedClearsSession(t *testing.T) {
	svc, env := newTestAnalyticsService(t)
	env.signIn(t, "key-1")

	env.srv.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, adapter.NewAPIError(401, "Invalid API key"))

	_, err := svc.History(context.Background(), 0)
	require.ErrorIs(t, err, session.ErrSessionExpired)
	assert.Equal(t, "Session expired. Please login again.", ErrorMessage(err))
	assert.False(t, env.sess.IsAuthenticated())
}

func TestHistory_OtherError(t *testing.T) {
	svc, env := newTestAnalyticsService(t)

	env.srv.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, adapter.NewAPIError(500, ""))

	_, err := svc.History(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, msgHistoryFailed, ErrorMessage(err))
}

func TestDashboard_FetchesBoth(t *testing.T) {
	svc, env := newTestAnalyticsService(t)
	env.signIn(t, "key-1")

	stats := models.AnalyticsStats{TotalRequests: 12, TotalTokensSaved: 3400, AverageSavingsPercentage: 31.5, AverageLatencyMs: 120}
	points := []models.TimeSeriesPoint{{Date: "2025-03-01", Requests: 4, TokensSaved: 900}}

	env.srv.EXPECT().Stats(gomock.Any(), models.Credential("key-1")).Return(stats, nil)
	env.srv.EXPECT().TimeSeries(gomock.Any(), models.Credential("key-1")).Return(points, nil)

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats, dashboard.Stats)
	assert.Equal(t, points, dashboard.TimeSeries)
}

func TestDashboard_RequiresKey(t *testing.T) {
	svc, _ := newTestAnalyticsService(t)

	_, err := svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestDashboard_OneFailureFailsAll(t *testing.T) {
	svc, env := newTestAnalyticsService(t)
	env.signIn(t, "key-1")

	env.srv.EXPECT().Stats(gomock.Any(), gomock.Any()).Return(models.AnalyticsStats{}, nil).AnyTimes()
	env.srv.EXPECT().TimeSeries(gomock.Any(), gomock.Any()).Return(nil, adapter.NewAPIError(403, "Forbidden"))

	_, err := svc.Dashboard(context.Background())
	require.ErrorIs(t, err, session.ErrSessionExpired)
	assert.False(t, env.sess.IsAuthenticated())
}
