// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/prompt-shield/internal/logger"
)

const stateTable = "client_state"

type stateRepository struct {
	*DB
	logger *logger.Logger
	psql   sq.StatementBuilderType
	now    func() time.Time
}

// NewStateRepository returns a [StateRepository] backed by the client_state
// table.
func NewStateRepository(db *DB, logger *logger.Logger) StateRepository {
	return &stateRepository{
		DB:     db,
		logger: logger,
		psql:   sq.StatementBuilder.PlaceholderFormat(sq.Question),
		now:    time.Now,
	}
}

func (r *stateRepository) Get(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.psql.
		Select("state_value").
		From(stateTable).
		Where(sq.Eq{"state_key": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingQuery, err)
	}

	var value string
	if err = r.DB.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrStateNotFound
		}
		log.Err(err).
			Str("func", "stateRepository.Get").
			Str("key", key).
			Msg("failed to read state value")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return value, nil
}

func (r *stateRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.psql.
		Insert(stateTable).
		Columns("state_key", "state_value", "updated_at").
		Values(key, value, r.now().UTC()).
		Suffix("ON CONFLICT(state_key) DO UPDATE SET state_value = excluded.state_value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "stateRepository.Set").
			Str("key", key).
			Msg("failed to upsert state value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *stateRepository) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.psql.
		Delete(stateTable).
		Where(sq.Eq{"state_key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "stateRepository.Delete").
			Str("key", key).
			Msg("failed to delete state value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
