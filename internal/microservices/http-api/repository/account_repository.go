package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserScopedTables lists every table holding rows owned by a user, children
// first. user_profiles is keyed by id, the rest by user_id.
var UserScopedTables = []string{
	"reviews",
	"push_subscriptions",
	"notification_settings",
	"watchlist",
	"animes",
	"user_profiles",
}

type AccountRepository interface {
	// DeleteUserData removes every row owned by userID and reports the number
	// of rows deleted per table.
	DeleteUserData(ctx context.Context, userID string) (map[string]int64, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) DeleteUserData(ctx context.Context, userID string) (map[string]int64, error) {
	deleted := make(map[string]int64, len(UserScopedTables))

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, table := range UserScopedTables {
			column := "user_id"
			if table == "user_profiles" {
				column = "id"
			}
			// table and column come from the fixed list above
			tag, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, column), userID)
			if err != nil {
				return fmt.Errorf("delete from %s: %w", table, err)
			}
			deleted[table] = tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
