// Package mysqldb is the MySQL flavour of the recovery store. It honours the
// same contract as the postgres store so the usecase cannot tell them apart.
package mysqldb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/pkg/instrument"
	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:embed schema.sql
var schema string

const (
	errDuplicateEntry   = 1062
	errNoReferencedRow2 = 1452
)

type DB struct {
	conn *sql.DB
	ins  instrument.Instrumentation
}

func NewDB(conn *sql.DB, ins instrument.Instrumentation) *DB {
	return &DB{
		conn: conn,
		ins:  ins,
	}
}

// Open builds a pool from a go-sql-driver DSN. parseTime and UTC are forced on.
func Open(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	conn, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(conn), nil
}

func (s *DB) Migrate(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, "Migrate")
	defer func() { s.endSpan(span, err) }()

	for stmt := range strings.SplitSeq(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err = s.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

func (s *DB) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDuplicateEntry:
			return goerror.ErrConflict
		case errNoReferencedRow2:
			return goerror.ErrNotFound
		}
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("recovery.outbound.mysqldb").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(); rErr != nil && !errors.Is(rErr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *DB) GetAccountByEmail(ctx context.Context, email string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByEmail")
	defer func() { s.endSpan(span, err) }()

	var acc entity.Account
	err = s.conn.QueryRowContext(ctx,
		"SELECT id, email, password_hash FROM recovery_accounts WHERE email = ?",
		email,
	).Scan(&acc.ID, &acc.Email, &acc.PasswordHash)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &acc, nil
}

func (s *DB) GetLiveOtp(ctx context.Context, accountID int64, codeDigest string, now time.Time) (_ *entity.OtpRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetLiveOtp")
	defer func() { s.endSpan(span, err) }()

	var rec entity.OtpRecord
	err = s.conn.QueryRowContext(ctx,
		`SELECT id, account_id, code, expires_at FROM recovery_otps
		WHERE account_id = ? AND code = ? AND expires_at > ?
		ORDER BY expires_at DESC LIMIT 1`,
		accountID, codeDigest, now.UTC(),
	).Scan(&rec.ID, &rec.AccountID, &rec.Code, &rec.ExpiresAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &rec, nil
}

func (s *DB) DeleteOtp(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteOtp")
	defer func() { s.endSpan(span, err) }()

	res, err := s.conn.ExecContext(ctx, "DELETE FROM recovery_otps WHERE id = ?", id)
	if err != nil {
		return s.mapError(err)
	}

	return affected(res)
}

func (s *DB) DeleteExpiredOtps(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpiredOtps")
	defer func() { s.endSpan(span, err) }()

	res, err := s.conn.ExecContext(ctx, "DELETE FROM recovery_otps WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, s.mapError(err)
	}

	return res.RowsAffected()
}

func (s *DB) ReplaceOtp(ctx context.Context, rec entity.OtpRecord) (err error) {
	ctx, span := s.startSpan(ctx, "ReplaceOtp")
	defer func() { s.endSpan(span, err) }()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		if err := tx.QueryRowContext(ctx,
			"SELECT id FROM recovery_accounts WHERE id = ? FOR UPDATE", rec.AccountID,
		).Scan(&id); err != nil {
			return s.mapError(err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM recovery_otps WHERE account_id = ?", rec.AccountID); err != nil {
			return s.mapError(err)
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO recovery_otps (id, account_id, code, expires_at) VALUES (?, ?, ?, ?)",
			rec.ID, rec.AccountID, rec.Code, rec.ExpiresAt.UTC(),
		)
		return s.mapError(err)
	})
}

func (s *DB) CommitPasswordReset(ctx context.Context, accountID, otpID int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "CommitPasswordReset")
	defer func() { s.endSpan(span, err) }()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		// MySQL reports changed rows, so an identical hash would read as zero.
		// Lock the row first and rely on the otp delete for the race guard.
		var id int64
		if err := tx.QueryRowContext(ctx,
			"SELECT id FROM recovery_accounts WHERE id = ? FOR UPDATE", accountID,
		).Scan(&id); err != nil {
			return s.mapError(err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE recovery_accounts SET password_hash = ?, updated_at = CURRENT_TIMESTAMP(6) WHERE id = ?",
			hash, accountID,
		); err != nil {
			return s.mapError(err)
		}

		res, err := tx.ExecContext(ctx,
			"DELETE FROM recovery_otps WHERE id = ? AND account_id = ?", otpID, accountID,
		)
		if err != nil {
			return s.mapError(err)
		}

		return affected(res)
	})
}

func (s *DB) CreateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.ExecContext(ctx,
		"INSERT INTO recovery_accounts (id, email, password_hash) VALUES (?, ?, ?)",
		acc.ID, acc.Email, acc.PasswordHash,
	)
	return s.mapError(err)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
