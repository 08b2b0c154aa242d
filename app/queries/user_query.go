package queries

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/smartconsult/smartconsult-backend/app/models"
)

type UserQueries struct {
	DB *sql.DB
}

func (q *UserQueries) GetUserByID(id uuid.UUID) (models.User, error) {
	user := models.User{}

	query := `SELECT uid, name, role, email, phone, avatar, password_hash, created_at, updated_at
			  FROM users WHERE uid = $1`

	err := q.DB.QueryRow(query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Role,
		&user.Email,
		&user.Phone,
		&user.Avatar,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return user, errors.New("user not found")
		}
		return user, errors.New("unable to get user, DB error")
	}

	return user, nil
}

func (q *UserQueries) GetUserByEmail(email string) (models.User, error) {
	user := models.User{}

	query := `SELECT uid, name, role, email, password_hash, created_at, updated_at
			  FROM users WHERE email = $1`

	err := q.DB.QueryRow(query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Role,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return user, errors.New("user not found")
		}
		return user, errors.New("unable to get user, DB error")
	}

	return user, nil
}

func (q *UserQueries) CreateUser(u *models.User) error {
	query := `INSERT INTO users (uid, name, role, email, password_hash, phone, avatar, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := q.DB.Exec(query,
		u.ID,
		u.Name,
		u.Role,
		u.Email,
		u.PasswordHash,
		u.Phone,
		u.Avatar,
		u.CreatedAt,
		u.UpdatedAt,
	)

	if err != nil {
		return errors.New("unable to create user, DB error")
	}

	return nil
}
