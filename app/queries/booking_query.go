package queries

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/smartconsult/smartconsult-backend/app/models"
)

type BookingQueries struct {
	DB *sql.DB
}

func (q *BookingQueries) CreateBooking(b *models.Booking) error {
	query := `INSERT INTO bookings (id, user_id, expert_id, order_id, date, time, duration, status, payment_status, payment_id, meeting_link, booked_at, created_at, updated_at)
			  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := q.DB.Exec(query, b.ID, b.UserID, b.ExpertID, nullableString(b.OrderID), b.Date, b.Time, b.Duration, b.Status, b.PaymentStatus, b.PaymentID, b.MeetingLink, b.BookedAt, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return errors.New("unable to create booking")
	}
	return nil
}

// CreateBookingFromOrder inserts the materialized booking for a paid order.
// The unique index on order_id makes repeated materialization a no-op; the
// bool reports whether this call actually inserted the row.
func (q *BookingQueries) CreateBookingFromOrder(b *models.Booking) (bool, error) {
	query := `INSERT INTO bookings (id, user_id, expert_id, order_id, date, time, duration, status, payment_status, payment_id, meeting_link, booked_at, created_at, updated_at)
			  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			  ON CONFLICT (order_id) DO NOTHING`
	res, err := q.DB.Exec(query, b.ID, b.UserID, b.ExpertID, b.OrderID, b.Date, b.Time, b.Duration, b.Status, b.PaymentStatus, b.PaymentID, b.MeetingLink, b.BookedAt, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return false, errors.New("unable to create booking")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, errors.New("unable to create booking")
	}
	return rows > 0, nil
}

func (q *BookingQueries) GetBookingByOrderID(orderID string) (models.Booking, error) {
	b := models.Booking{}
	query := `SELECT id, user_id, expert_id, order_id, date, time, duration, status, payment_status, payment_id, meeting_link, booked_at, created_at, updated_at
			  FROM bookings WHERE order_id = $1`
	err := q.DB.QueryRow(query, orderID).Scan(&b.ID, &b.UserID, &b.ExpertID, &b.OrderID, &b.Date, &b.Time, &b.Duration, &b.Status, &b.PaymentStatus, &b.PaymentID, &b.MeetingLink, &b.BookedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return b, errors.New("booking not found")
		}
		return b, errors.New("unable to get booking")
	}
	return b, nil
}

func (q *BookingQueries) GetBookingByID(id uuid.UUID) (models.Booking, error) {
	b := models.Booking{}
	query := `SELECT id, user_id, expert_id, order_id, date, time, duration, status, payment_status, payment_id, meeting_link, booked_at, created_at, updated_at
			  FROM bookings WHERE id = $1`
	err := q.DB.QueryRow(query, id).Scan(&b.ID, &b.UserID, &b.ExpertID, &b.OrderID, &b.Date, &b.Time, &b.Duration, &b.Status, &b.PaymentStatus, &b.PaymentID, &b.MeetingLink, &b.BookedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return b, errors.New("booking not found")
		}
		return b, errors.New("unable to get booking")
	}
	return b, nil
}

func (q *BookingQueries) GetBookingsByUser(userID uuid.UUID) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `SELECT id, user_id, expert_id, order_id, date, time, duration, status, payment_status, payment_id, meeting_link, booked_at, created_at, updated_at
			  FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := q.DB.Query(query, userID)
	if err != nil {
		return bookings, errors.New("unable to get bookings")
	}
	defer rows.Close()

	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ExpertID, &b.OrderID, &b.Date, &b.Time, &b.Duration, &b.Status, &b.PaymentStatus, &b.PaymentID, &b.MeetingLink, &b.BookedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return bookings, errors.New("error scanning booking row")
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return bookings, errors.New("error iterating booking rows")
	}

	return bookings, nil
}

func (q *BookingQueries) UpdateBooking(id uuid.UUID, userID uuid.UUID, req *models.UpdateBookingRequest) error {
	setClauses := []string{}
	args := []interface{}{}
	argID := 1

	if req.Date != nil {
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", argID))
		args = append(args, *req.Date)
		argID++
	}
	if req.Time != nil {
		setClauses = append(setClauses, fmt.Sprintf("time = $%d", argID))
		args = append(args, *req.Time)
		argID++
	}
	if req.Duration != nil {
		setClauses = append(setClauses, fmt.Sprintf("duration = $%d", argID))
		args = append(args, *req.Duration)
		argID++
	}
	if req.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argID))
		args = append(args, *req.Status)
		argID++
	}

	if len(setClauses) == 0 {
		return errors.New("no fields to update")
	}

	setClauses = append(setClauses, "updated_at = now()")
	query := fmt.Sprintf(`UPDATE bookings SET %s WHERE id = $%d AND user_id = $%d`, strings.Join(setClauses, ", "), argID, argID+1)
	args = append(args, id, userID)

	res, err := q.DB.Exec(query, args...)
	if err != nil {
		return errors.New("unable to update booking")
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return errors.New("booking not found")
	}
	return nil
}

func (q *BookingQueries) CancelBooking(id uuid.UUID, userID uuid.UUID) error {
	query := `UPDATE bookings SET status = 'cancelled', updated_at = now() WHERE id = $1 AND user_id = $2 AND status NOT IN ('cancelled', 'completed')`
	res, err := q.DB.Exec(query, id, userID)
	if err != nil {
		return errors.New("unable to cancel booking")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.New("unable to cancel booking")
	}
	if rows == 0 {
		return errors.New("booking not found")
	}
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
