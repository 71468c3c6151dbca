package repository

import (
	"context"

	"classifieds_service/internal/catalog/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// UserRepository definition get user display info
type UserRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository create a UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

// FindByIDs unknown ids are skipped
func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	rows, err := r.db.Query(ctx,
		"SELECT id, COALESCE(first_name, ''), COALESCE(last_name, '') FROM users WHERE id = ANY($1)",
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0, len(ids))
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
