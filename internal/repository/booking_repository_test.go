package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirqle/cirqle-api/internal/models"
	"github.com/cirqle/cirqle-api/pkg/database"
)

var bookingRowColumns = []string{"id", "host_id", "service_id", "service_name", "booking_date", "time_slot", "starts_at", "timezone", "customer_name", "customer_email", "notes", "confirmation_sent_at", "created_at"}

func TestCreateBooking(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(1, 1))

	b := &models.Booking{HostID: "host-1", ServiceID: "consultation", Date: "2025-03-10", TimeSlot: "09:00", StartsAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.NotEmpty(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSlotTaken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec("INSERT INTO bookings").WillReturnError(&pq.Error{Code: "23505", Constraint: BookingSlotConstraint})

	err := repo.Create(context.Background(), &models.Booking{HostID: "host-1", Date: "2025-03-10", TimeSlot: "09:00"})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err, BookingSlotConstraint))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookingsByHost(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	from := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	starts := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(bookingRowColumns).
		AddRow("b1", "host-1", "consultation", "Consultation", "2025-03-10", "09:00", starts, "Europe/Paris", "Grace", "grace@example.com", "", nil, starts)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+bookingColumns+" FROM bookings WHERE host_id = $1 AND starts_at >= $2 AND starts_at < $3 ORDER BY starts_at ASC")).
		WithArgs("host-1", from, to).
		WillReturnRows(rows)

	bookings, err := repo.ListByHost(context.Background(), models.BookingFilter{HostID: "host-1", From: from, To: to})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "2025-03-10", bookings[0].Date)
	assert.Nil(t, bookings[0].ConfirmationSentAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookingsEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery("FROM bookings WHERE host_id").WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	bookings, err := repo.ListByHost(context.Background(), models.BookingFilter{HostID: "host-1"})
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}

func TestMarkConfirmationSent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	sent := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET confirmation_sent_at = $2 WHERE id = $1")).
		WithArgs("b1", sent).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkConfirmationSent(context.Background(), "b1", sent))
	assert.NoError(t, mock.ExpectationsWereMet())
}
