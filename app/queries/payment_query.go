package queries

import (
	"database/sql"
	"errors"

	"github.com/smartconsult/smartconsult-backend/app/models"
)

type PaymentQueries struct {
	DB *sql.DB
}

func (q *PaymentQueries) CreatePayment(p *models.Payment) error {
	query := `INSERT INTO payments (order_id, amount, currency, customer_id, customer_name, customer_email, customer_phone, expert_id, date, time, duration, session_id, status, payment_id, created_at, updated_at)
			  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err := q.DB.Exec(query, p.OrderID, p.Amount, p.Currency, p.CustomerID, p.CustomerName, p.CustomerEmail, p.CustomerPhone, p.ExpertID, p.Date, p.Time, p.Duration, p.SessionID, p.Status, p.PaymentID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return errors.New("unable to create payment")
	}
	return nil
}

func (q *PaymentQueries) GetPaymentByOrderID(orderID string) (models.Payment, error) {
	p := models.Payment{}
	query := `SELECT order_id, amount, currency, customer_id, customer_name, customer_email, customer_phone, expert_id, date, time, duration, session_id, status, payment_id, created_at, updated_at
			  FROM payments WHERE order_id = $1`
	err := q.DB.QueryRow(query, orderID).Scan(&p.OrderID, &p.Amount, &p.Currency, &p.CustomerID, &p.CustomerName, &p.CustomerEmail, &p.CustomerPhone, &p.ExpertID, &p.Date, &p.Time, &p.Duration, &p.SessionID, &p.Status, &p.PaymentID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return p, errors.New("payment not found")
		}
		return p, errors.New("unable to get payment")
	}
	return p, nil
}

func (q *PaymentQueries) SetSessionID(orderID string, sessionID string) error {
	query := `UPDATE payments SET session_id = $2, updated_at = now() WHERE order_id = $1`
	res, err := q.DB.Exec(query, orderID, sessionID)
	if err != nil {
		return errors.New("unable to update payment")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.New("unable to update payment")
	}
	if rows == 0 {
		return errors.New("payment not found")
	}
	return nil
}

// UpdatePaymentStatus records a status transition. Rows already in a terminal
// state are left alone so a late PENDING from the poller cannot clobber a
// webhook-delivered PAID.
func (q *PaymentQueries) UpdatePaymentStatus(orderID string, status string, paymentID string) error {
	query := `UPDATE payments SET status = $2, payment_id = COALESCE(NULLIF($3, ''), payment_id), updated_at = now()
			  WHERE order_id = $1 AND status NOT IN ('PAID', 'FAILED')`
	res, err := q.DB.Exec(query, orderID, status, paymentID)
	if err != nil {
		return errors.New("unable to update payment")
	}
	if _, err := res.RowsAffected(); err != nil {
		return errors.New("unable to update payment")
	}
	return nil
}
