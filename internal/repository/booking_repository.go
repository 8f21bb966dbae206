package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cirqle/cirqle-api/internal/models"
)

// BookingSlotConstraint is the unique index guarding one booking per host, date and slot.
const BookingSlotConstraint = "bookings_host_date_slot_key"

const bookingColumns = `id, host_id, service_id, service_name, to_char(booking_date, 'YYYY-MM-DD') AS booking_date, time_slot, starts_at, timezone, customer_name, customer_email, notes, confirmation_sent_at, created_at`

// BookingRepository reads and writes booking records.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking. A taken slot surfaces as a unique violation on BookingSlotConstraint.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO bookings (id, host_id, service_id, service_name, booking_date, time_slot, starts_at, timezone, customer_name, customer_email, notes, created_at)
VALUES (:id, :host_id, :service_id, :service_name, :booking_date, :time_slot, :starts_at, :timezone, :customer_name, :customer_email, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// ListByHost returns a host's bookings starting in [From, To), earliest first.
func (r *BookingRepository) ListByHost(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE host_id = $1 AND starts_at >= $2 AND starts_at < $3 ORDER BY starts_at ASC`
	bookings := []models.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, filter.HostID, filter.From, filter.To); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// MarkConfirmationSent records when the customer confirmation went out.
func (r *BookingRepository) MarkConfirmationSent(ctx context.Context, id string, sentAt time.Time) error {
	const query = `UPDATE bookings SET confirmation_sent_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, sentAt); err != nil {
		return fmt.Errorf("mark confirmation sent: %w", err)
	}
	return nil
}
