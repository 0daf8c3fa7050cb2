package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/Cole-Dreyer/Restaurant-Reservation/database"
	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newReservation(first, mobile, date, clock string, people int) models.Reservation {
	return models.Reservation{
		FirstName:       first,
		LastName:        "Guest",
		MobileNumber:    mobile,
		ReservationDate: date,
		ReservationTime: clock,
		People:          people,
	}
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected *utils.AppError, got %v", err)
	require.Equal(t, status, appErr.Status, appErr.Message)
}

const (
	statusBadRequest = http.StatusBadRequest
	statusNotFound   = http.StatusNotFound
	statusConflict   = http.StatusConflict
)

type publishedEvent struct {
	Event   string
	Payload interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{Event: event, Payload: payload})
	return f.err
}

func (f *fakePublisher) Events() []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedEvent(nil), f.events...)
}
