package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `WHERE id=$1`, id)
}

func (r *PGUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE username=$1`, username)
}

func (r *PGUserRepository) GetByUsernameAndUUID(ctx context.Context, username, uuid string) (*domain.User, error) {
	if uuid == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, `WHERE username=$1 AND uuid=$2`, username, uuid)
}

func (r *PGUserRepository) UpdateUUID(ctx context.Context, userID int64, uuid string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET uuid=$1 WHERE id=$2`, uuid, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGUserRepository) getOne(ctx context.Context, where string, args ...any) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, username, pass_hash, COALESCE(uuid, '') FROM users `+where, args...)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PassHash, &u.UUID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
