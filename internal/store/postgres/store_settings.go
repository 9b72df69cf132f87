package postgres

import (
	"context"
	"errors"
	"fmt"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"

	"github.com/jackc/pgx/v5"
)

const settingColumns = `key, value, is_secret, updated_at`

func (s *PostgresStore) GetSetting(ctx context.Context, key string) (*models.SiteSetting, error) {
	query := `SELECT ` + settingColumns + ` FROM site_settings WHERE key = $1`
	setting := &models.SiteSetting{}
	err := s.db.QueryRow(ctx, query, key).Scan(
		&setting.Key,
		&setting.Value,
		&setting.IsSecret,
		&setting.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning site setting: %w", err)
	}
	return setting, nil
}

func (s *PostgresStore) ListSettings(ctx context.Context) ([]models.SiteSetting, error) {
	query := `SELECT ` + settingColumns + ` FROM site_settings ORDER BY key ASC`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying site settings: %w", err)
	}
	defer rows.Close()

	var items []models.SiteSetting
	for rows.Next() {
		var setting models.SiteSetting
		if err := rows.Scan(
			&setting.Key,
			&setting.Value,
			&setting.IsSecret,
			&setting.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning site setting row: %w", err)
		}
		items = append(items, setting)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating site setting rows: %w", err)
	}
	return items, nil
}

const putSetting = `-- name: PutSetting :exec
INSERT INTO site_settings (key, value, is_secret, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (key) DO UPDATE SET value = $2, is_secret = $3, updated_at = NOW();
`

func (s *PostgresStore) PutSetting(ctx context.Context, setting *models.SiteSetting) error {
	_, err := s.db.Exec(ctx, putSetting, setting.Key, setting.Value, setting.IsSecret)
	if err != nil {
		return fmt.Errorf("database error writing site setting %q: %w", setting.Key, err)
	}
	return nil
}

func (s *PostgresStore) DeleteSetting(ctx context.Context, key string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM site_settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("error executing delete site setting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
