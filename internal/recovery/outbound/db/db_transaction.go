package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
)

func (s *DB) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *DB) ReplaceOtp(ctx context.Context, rec entity.OtpRecord) (err error) {
	ctx, span := s.startSpan(ctx, "ReplaceOtp")
	defer func() { s.endSpan(span, err) }()

	return s.withTx(ctx, func(tx pgx.Tx) error {
		// the lock serializes concurrent requests for one account
		var id int64
		if err := tx.QueryRow(ctx,
			`SELECT id FROM recovery_accounts WHERE id = $1 FOR UPDATE`, rec.AccountID,
		).Scan(&id); err != nil {
			return s.mapError(err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM recovery_otps WHERE account_id = $1`, rec.AccountID); err != nil {
			return s.mapError(err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO recovery_otps (id, account_id, code, expires_at) VALUES ($1, $2, $3, $4)`,
			rec.ID, rec.AccountID, rec.Code, rec.ExpiresAt.UTC(),
		); err != nil {
			return s.mapError(err)
		}

		return nil
	})
}

func (s *DB) CommitPasswordReset(ctx context.Context, accountID, otpID int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "CommitPasswordReset")
	defer func() { s.endSpan(span, err) }()

	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE recovery_accounts SET password_hash = $2, updated_at = now() WHERE id = $1`,
			accountID, hash,
		)
		if err != nil {
			return s.mapError(err)
		}
		if tag.RowsAffected() == 0 {
			return goerror.ErrNotFound
		}

		tag, err = tx.Exec(ctx,
			`DELETE FROM recovery_otps WHERE id = $1 AND account_id = $2`, otpID, accountID,
		)
		if err != nil {
			return s.mapError(err)
		}
		if tag.RowsAffected() == 0 {
			return goerror.ErrNotFound
		}

		return nil
	})
}

// CreateAccount inserts an account row. Registration lives outside this module;
// tests use it to seed fixtures.
func (s *DB) CreateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO recovery_accounts (id, email, password_hash) VALUES ($1, $2, $3)`,
		acc.ID, acc.Email, acc.PasswordHash,
	)
	return s.mapError(err)
}
