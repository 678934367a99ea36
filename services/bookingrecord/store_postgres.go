package bookingrecord

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MarcGrol/bookingbackend/lib/myerrors"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS booking_records (
	confirmation_code TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	activity_id BIGINT NOT NULL,
	date TEXT NOT NULL DEFAULT '',
	total DOUBLE PRECISION NOT NULL DEFAULT 0,
	currency TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_booking_records_user ON booking_records(user_id, created_at DESC);
`

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects and creates the schema when missing
func NewPostgresStore(c context.Context, databaseURL string) (Store, func(), error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing database url: %s", err)
	}
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(c, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to database: %s", err)
	}

	pingCtx, cancel := context.WithTimeout(c, 3*time.Second)
	defer cancel()
	err = pool.Ping(pingCtx)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("error pinging database: %s", err)
	}

	_, err = pool.Exec(c, schemaSQL)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("error migrating database: %s", err)
	}

	return &postgresStore{pool: pool}, pool.Close, nil
}

func (s *postgresStore) Create(c context.Context, r BookingRecord) error {
	tag, err := s.pool.Exec(c, `
		INSERT INTO booking_records (confirmation_code, user_id, session_id, activity_id, date, total, currency, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (confirmation_code) DO NOTHING
	`, r.ConfirmationCode, r.UserID, r.SessionID, r.ActivityID, r.Date, r.Total, r.Currency, r.CreatedAt)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error inserting booking record %s: %s", r.ConfirmationCode, err))
	}
	if tag.RowsAffected() == 0 {
		return myerrors.NewConflictError(fmt.Errorf("booking record %s already exists", r.ConfirmationCode))
	}
	return nil
}

func (s *postgresStore) ListByUser(c context.Context, userID string) ([]BookingRecord, error) {
	rows, err := s.pool.Query(c, `
		SELECT confirmation_code, user_id, session_id, activity_id, date, total, currency, created_at
		FROM booking_records WHERE user_id=$1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error querying booking records: %s", err))
	}
	defer rows.Close()

	records := []BookingRecord{}
	for rows.Next() {
		r := BookingRecord{}
		err := rows.Scan(&r.ConfirmationCode, &r.UserID, &r.SessionID, &r.ActivityID, &r.Date, &r.Total, &r.Currency, &r.CreatedAt)
		if err != nil {
			return nil, myerrors.NewInternalError(fmt.Errorf("error scanning booking record: %s", err))
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, myerrors.NewInternalError(err)
	}
	return records, nil
}
