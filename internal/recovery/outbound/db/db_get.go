package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
)

func (s *DB) GetAccountByEmail(ctx context.Context, email string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByEmail")
	defer func() { s.endSpan(span, err) }()

	var acc entity.Account
	err = s.conn.QueryRow(ctx,
		`SELECT id, email, password_hash FROM recovery_accounts WHERE email = $1`,
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
	err = s.conn.QueryRow(ctx,
		`SELECT id, account_id, code, expires_at FROM recovery_otps
		WHERE account_id = $1 AND code = $2 AND expires_at > $3
		ORDER BY expires_at DESC LIMIT 1`,
		accountID, codeDigest, now.UTC(),
	).Scan(&rec.ID, &rec.AccountID, &rec.Code, &rec.ExpiresAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &rec, nil
}
