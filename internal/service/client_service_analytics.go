package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/models"
)

// DefaultHistoryLimit is the number of activity rows fetched when no limit
// is given.
const DefaultHistoryLimit = 50

const (
	msgHistoryFailed   = "Failed to load history"
	msgDashboardFailed = "Failed to load analytics"
)

// createdAtLayouts are tried in order; zone-less timestamps are read in
// local time.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type clientAnalyticsService struct {
	session *session.Store
	adapter adapter.ServerAdapter
	logger  *logger.Logger
}

func NewClientAnalyticsService(sess *session.Store, serverAdapter adapter.ServerAdapter, logger *logger.Logger) ClientAnalyticsService {
	return &clientAnalyticsService{
		session: sess,
		adapter: serverAdapter,
		logger:  logger,
	}
}

func (s *clientAnalyticsService) History(ctx context.Context, limit int) ([]models.ActivityRow, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	key := s.session.Credential()
	logs, err := s.adapter.History(ctx, key, limit)
	if err != nil {
		if adapter.IsAuthError(err) {
			s.session.InvalidateOnAuthError(ctx, key, err)
			return nil, sessionExpired(err)
		}
		s.logger.Err(err).Str("func", "clientAnalyticsService.History").Msg("failed to fetch history")
		return nil, newUserError(err, msgHistoryFailed)
	}

	return ActivityRows(logs), nil
}

func (s *clientAnalyticsService) Dashboard(ctx context.Context) (models.Dashboard, error) {
	key := s.session.Credential()
	if key.IsEmpty() {
		return models.Dashboard{}, ErrAPIKeyRequired
	}

	var dashboard models.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.adapter.Stats(gctx, key)
		if err != nil {
			return fmt.Errorf("fetch stats: %w", err)
		}
		dashboard.Stats = stats
		return nil
	})
	g.Go(func() error {
		points, err := s.adapter.TimeSeries(gctx, key)
		if err != nil {
			return fmt.Errorf("fetch time series: %w", err)
		}
		dashboard.TimeSeries = points
		return nil
	})

	if err := g.Wait(); err != nil {
		if s.session.InvalidateOnAuthError(ctx, key, err) {
			return models.Dashboard{}, sessionExpired(err)
		}
		s.logger.Err(err).Str("func", "clientAnalyticsService.Dashboard").Msg("failed to fetch analytics")
		return models.Dashboard{}, newUserError(err, msgDashboardFailed)
	}
	return dashboard, nil
}

// ActivityRows adapts activity logs, newest first as served, to chart rows
// in chronological order.
func ActivityRows(logs []models.ActivityLog) []models.ActivityRow {
	rows := make([]models.ActivityRow, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, models.ActivityRow{
			ID:         l.ID,
			Time:       clockTime(l.CreatedAt),
			Raw:        l.RawTokens,
			Compressed: l.CompressedTokens,
			Savings:    fmt.Sprintf("%.1f", l.SavingsRatio*100),
		})
	}
	slices.Reverse(rows)
	return rows
}

// clockTime renders createdAt as HH:MM, or returns it unchanged when it
// cannot be parsed.
func clockTime(createdAt string) string {
	for _, layout := range createdAtLayouts {
		if t, err := time.ParseInLocation(layout, createdAt, time.Local); err == nil {
			return t.Local().Format("15:04")
		}
	}
	return createdAt
}
