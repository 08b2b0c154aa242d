package queries

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/smartconsult/smartconsult-backend/app/models"
)

type ExpertQueries struct {
	DB *sql.DB
}

// PromoteExpert flips an existing user to role 'expert' and inserts the
// expert profile row in one transaction.
func (q *ExpertQueries) PromoteExpert(uid uuid.UUID, req *models.PromoteExpertRequest) error {
	tx, err := q.DB.Begin()
	if err != nil {
		return errors.New("unable to start transaction")
	}

	_, err = tx.Exec(`UPDATE users SET role = 'expert', updated_at = now() WHERE uid = $1`, uid)
	if err != nil {
		tx.Rollback()
		return errors.New("unable to update user role, DB error")
	}

	_, err = tx.Exec(`INSERT INTO experts (uid, specialization, experience, price, rating) VALUES ($1, $2, $3, $4, $5)`,
		uid, req.Specialization, req.Experience, req.Price, req.Rating,
	)
	if err != nil {
		tx.Rollback()
		return errors.New("unable to create expert profile, DB error")
	}

	if err := tx.Commit(); err != nil {
		return errors.New("unable to commit transaction")
	}

	return nil
}

func (q *ExpertQueries) GetExperts() ([]models.User, error) {
	experts := []models.User{}
	query := `SELECT u.uid, u.name, u.role, u.email, u.phone, u.avatar, u.created_at, u.updated_at,
	e.specialization, e.experience, e.price, e.rating
	FROM users u JOIN experts e ON u.uid = e.uid WHERE u.role = 'expert'`

	rows, err := q.DB.Query(query)
	if err != nil {
		return experts, errors.New("unable to get experts, DB error")
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Role,
			&u.Email,
			&u.Phone,
			&u.Avatar,
			&u.CreatedAt,
			&u.UpdatedAt,
			&u.Specialization,
			&u.Experience,
			&u.Price,
			&u.Rating,
		); err != nil {
			return experts, errors.New("error scanning expert row")
		}
		experts = append(experts, u)
	}

	if err := rows.Err(); err != nil {
		return experts, errors.New("error iterating expert rows")
	}

	return experts, nil
}

func (q *ExpertQueries) GetExpertByID(id uuid.UUID) (models.User, error) {
	u := models.User{}
	query := `SELECT u.uid, u.name, u.role, u.email, u.phone, u.avatar, u.created_at, u.updated_at,
	e.specialization, e.experience, e.price, e.rating
	FROM users u JOIN experts e ON u.uid = e.uid WHERE u.uid = $1 AND u.role = 'expert'`

	err := q.DB.QueryRow(query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Role,
		&u.Email,
		&u.Phone,
		&u.Avatar,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Specialization,
		&u.Experience,
		&u.Price,
		&u.Rating,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return u, errors.New("expert not found")
		}
		return u, errors.New("unable to get expert, DB error")
	}

	return u, nil
}
