package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
)

// GatewayConfigRecord is one onboarded gateway: a client's credentials for a
// provider type, stored as JSONB so each provider keeps its own field set.
type GatewayConfigRecord struct {
	ID          string
	ClientID    string
	GatewayID   string
	GatewayType string
	Config      map[string]any
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type GatewayConfigRepository struct {
	pool *pgxpool.Pool
}

func NewGatewayConfigRepository(pool *pgxpool.Pool) *GatewayConfigRepository {
	return &GatewayConfigRepository{pool: pool}
}

func (r *GatewayConfigRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

func (r *GatewayConfigRepository) Create(ctx context.Context, rec *GatewayConfigRecord) error {
	err := r.db(ctx).QueryRow(ctx,
		`INSERT INTO gateway_configs (client_id, gateway_id, gateway_type, config, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		rec.ClientID, rec.GatewayID, rec.GatewayType, rec.Config, rec.Active,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("gateway %q already onboarded: %w", rec.GatewayID, domainErrors.ErrGatewayConfigInvalid)
		}
		return fmt.Errorf("create gateway config: %w", err)
	}
	return nil
}

// GetActive returns the stored config for an active gateway, keyed by
// provider type plus gateway identifier as they appear in the webhook URL.
func (r *GatewayConfigRepository) GetActive(ctx context.Context, gatewayType, gatewayID string) (map[string]any, error) {
	var cfg map[string]any
	err := r.db(ctx).QueryRow(ctx,
		`SELECT config FROM gateway_configs
		 WHERE gateway_type = $1 AND gateway_id = $2 AND active`,
		gatewayType, gatewayID,
	).Scan(&cfg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("gateway %s/%s: %w", gatewayType, gatewayID, domainErrors.ErrGatewayNotFound)
		}
		return nil, fmt.Errorf("get gateway config: %w", err)
	}
	return cfg, nil
}

func (r *GatewayConfigRepository) ListByClient(ctx context.Context, clientID string) ([]*GatewayConfigRecord, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, client_id, gateway_id, gateway_type, config, active, created_at, updated_at
		 FROM gateway_configs WHERE client_id = $1 ORDER BY created_at`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("list gateway configs: %w", err)
	}
	defer rows.Close()

	var records []*GatewayConfigRecord
	for rows.Next() {
		rec := &GatewayConfigRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.ClientID, &rec.GatewayID, &rec.GatewayType,
			&rec.Config, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan gateway config: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gateway configs: %w", err)
	}
	return records, nil
}

func (r *GatewayConfigRepository) SetActive(ctx context.Context, gatewayID string, active bool) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE gateway_configs SET active = $2, updated_at = NOW() WHERE gateway_id = $1`,
		gatewayID, active,
	)
	if err != nil {
		return fmt.Errorf("update gateway config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("gateway %q: %w", gatewayID, domainErrors.ErrGatewayNotFound)
	}
	return nil
}
