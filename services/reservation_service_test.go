package services

import (
	"context"
	"testing"

	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationCreateForcesBooked(t *testing.T) {
	svc := NewReservationService(setupTestDB(t))
	r := newReservation("Ann", "555-0100", "2030-01-10", "18:00", 2)
	r.Status = models.StatusSeated

	created, err := svc.Create(context.Background(), r)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.StatusBooked, created.Status)

	got, err := svc.Read(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FirstName)
	assert.Equal(t, models.StatusBooked, got.Status)
}

func TestReservationReadMissing(t *testing.T) {
	svc := NewReservationService(setupTestDB(t))
	_, err := svc.Read(context.Background(), 42)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestListByDateExcludesCancelledAndSortsByTime(t *testing.T) {
	ctx := context.Background()
	svc := NewReservationService(setupTestDB(t))

	late, _ := svc.Create(ctx, newReservation("Late", "1", "2030-01-10", "20:00", 2))
	early, _ := svc.Create(ctx, newReservation("Early", "2", "2030-01-10", "11:00", 2))
	gone, _ := svc.Create(ctx, newReservation("Gone", "3", "2030-01-10", "12:00", 2))
	_, _ = svc.Create(ctx, newReservation("Other", "4", "2030-01-11", "12:00", 2))
	seated, _ := svc.Create(ctx, newReservation("Seated", "5", "2030-01-10", "13:00", 2))

	_, err := svc.UpdateStatus(ctx, gone.ID, models.StatusCancelled)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, seated.ID, models.StatusSeated)
	require.NoError(t, err)

	list, err := svc.ListByDate(ctx, "2030-01-10")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, seated.ID, list[1].ID)
	assert.Equal(t, late.ID, list[2].ID)

	empty, err := svc.ListByDate(ctx, "2030-02-01")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSearchIgnoresFormatting(t *testing.T) {
	ctx := context.Background()
	svc := NewReservationService(setupTestDB(t))

	a, _ := svc.Create(ctx, newReservation("A", "(202) 555-0164", "2030-01-10", "18:00", 2))
	b, _ := svc.Create(ctx, newReservation("B", "202-555-0164", "2030-01-12", "18:00", 2))
	_, _ = svc.Create(ctx, newReservation("C", "303-555-0199", "2030-01-10", "18:00", 2))
	_, err := svc.UpdateStatus(ctx, a.ID, models.StatusCancelled)
	require.NoError(t, err)

	cases := []struct {
		name  string
		query string
	}{
		{"digits only", "2025550164"},
		{"formatted", "202-555-0164"},
		{"partial", "555-01 64"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found, err := svc.Search(ctx, tc.query)
			require.NoError(t, err)
			require.Len(t, found, 2)
			// newest date first, cancelled included
			assert.Equal(t, b.ID, found[0].ID)
			assert.Equal(t, a.ID, found[1].ID)
		})
	}

	none, err := svc.Search(ctx, "999")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEditKeepsStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewReservationService(setupTestDB(t))

	r, _ := svc.Create(ctx, newReservation("Old", "1", "2030-01-10", "18:00", 2))
	_, err := svc.UpdateStatus(ctx, r.ID, models.StatusSeated)
	require.NoError(t, err)

	changed := newReservation("New", "2", "2030-01-11", "19:15", 5)
	changed.Status = models.StatusCancelled
	edited, err := svc.Edit(ctx, r.ID, changed)
	require.NoError(t, err)

	assert.Equal(t, "New", edited.FirstName)
	assert.Equal(t, "2", edited.MobileNumber)
	assert.Equal(t, "2030-01-11", edited.ReservationDate)
	assert.Equal(t, "19:15", edited.ReservationTime)
	assert.Equal(t, 5, edited.People)
	assert.Equal(t, models.StatusSeated, edited.Status)

	_, err = svc.Edit(ctx, 999, changed)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUpdateStatusMissing(t *testing.T) {
	svc := NewReservationService(setupTestDB(t))
	_, err := svc.UpdateStatus(context.Background(), 5, models.StatusCancelled)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewReservationService(db)

	a, _ := svc.Create(ctx, newReservation("A", "1", "2030-01-10", "18:00", 2))
	b, _ := svc.Create(ctx, newReservation("B", "2", "2030-01-10", "18:30", 4))
	_, _ = svc.Create(ctx, newReservation("C", "3", "2030-01-10", "19:00", 3))
	_, _ = svc.Create(ctx, newReservation("D", "4", "2030-01-11", "19:00", 8))
	_, err := svc.UpdateStatus(ctx, a.ID, models.StatusCancelled)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Table{TableName: "#1", Capacity: 6, ReservationID: &b.ID}).Error)
	require.NoError(t, db.Create(&models.Table{TableName: "#2", Capacity: 6}).Error)

	stats, err := svc.Stats(ctx, "2030-01-10")
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{
		Date:           "2030-01-10",
		Reservations:   2,
		Covers:         7,
		Booked:         2,
		Cancelled:      1,
		TablesTotal:    2,
		TablesOccupied: 1,
	}, stats)
}
