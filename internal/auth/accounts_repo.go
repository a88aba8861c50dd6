package auth

import (
	"context"
	"errors"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrAccountNotFound = errors.New("account not found")

type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
}

type AccountsRepo struct {
	db *pgxpool.Pool
}

func NewAccountsRepo(db *pgxpool.Pool) *AccountsRepo {
	return &AccountsRepo{
		db: db,
	}
}

func (r *AccountsRepo) GetByUsername(ctx context.Context, username string) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.accounts.getByUsername")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("username", username))

	var acc Account
	err = r.db.QueryRow(
		ctx,
		`SELECT id, username, password_hash, role FROM account WHERE username = $1;`,
		username,
	).Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &acc, nil
}
