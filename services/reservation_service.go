package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"gorm.io/gorm"
)

var nonDigits = regexp.MustCompile(`\D`)

// strippedMobile is the mobile number column without formatting
// characters. REPLACE is available in sqlite, MySQL and Postgres alike.
const strippedMobile = "REPLACE(REPLACE(REPLACE(REPLACE(mobile_number, '(', ''), ')', ''), '-', ''), ' ', '')"

// ReservationService persists reservations.
type ReservationService struct {
	db *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{db: db}
}

// Create inserts r as a new booking. The status is always booked.
func (s *ReservationService) Create(ctx context.Context, r models.Reservation) (*models.Reservation, error) {
	r.ID = 0
	r.Status = models.StatusBooked
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	return &r, nil
}

// Read returns utils.ErrNotFound when no reservation has id.
func (s *ReservationService) Read(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := s.db.WithContext(ctx).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read reservation %d: %w", id, err)
	}
	return &r, nil
}

// ListByDate returns the date's reservations that are not cancelled,
// earliest first.
func (s *ReservationService) ListByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	err := s.db.WithContext(ctx).
		Where("reservation_date = ? AND status <> ?", date, models.StatusCancelled).
		Order("reservation_time ASC").
		Order("id ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations for %s: %w", date, err)
	}
	return reservations, nil
}

// Search matches the digits of mobile against stored numbers regardless
// of their formatting. Every status is included, newest first.
func (s *ReservationService) Search(ctx context.Context, mobile string) ([]models.Reservation, error) {
	digits := nonDigits.ReplaceAllString(mobile, "")
	reservations := []models.Reservation{}
	err := s.db.WithContext(ctx).
		Where(strippedMobile+" LIKE ?", "%"+digits+"%").
		Order("reservation_date DESC").
		Order("reservation_time DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("search reservations: %w", err)
	}
	return reservations, nil
}

// UpdateStatus changes the status column. A reservation that is no longer
// seated gives up the table it was linked to.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) (*models.Reservation, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Reservation{}).
			Where("id = ?", id).
			Update("status", status)
		if result.Error != nil {
			return fmt.Errorf("update reservation %d status: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		if status == models.StatusSeated {
			return nil
		}
		if err := tx.Model(&models.Table{}).
			Where("reservation_id = ?", id).
			Update("reservation_id", nil).Error; err != nil {
			return fmt.Errorf("free table of reservation %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Read(ctx, id)
}

// Edit overwrites the guest details and booking slot. The status is left
// untouched.
func (s *ReservationService) Edit(ctx context.Context, id uint, r models.Reservation) (*models.Reservation, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"first_name":       r.FirstName,
			"last_name":        r.LastName,
			"mobile_number":    r.MobileNumber,
			"reservation_date": r.ReservationDate,
			"reservation_time": r.ReservationTime,
			"people":           r.People,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("edit reservation %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, utils.ErrNotFound
	}
	return s.Read(ctx, id)
}

// DashboardStats summarises one service date.
type DashboardStats struct {
	Date           string `json:"date"`
	Reservations   int    `json:"reservations"`
	Covers         int    `json:"covers"`
	Booked         int    `json:"booked"`
	Seated         int    `json:"seated"`
	Finished       int    `json:"finished"`
	Cancelled      int    `json:"cancelled"`
	TablesTotal    int    `json:"tables_total"`
	TablesOccupied int    `json:"tables_occupied"`
}

// Stats counts the date's reservations per status and the current table
// occupancy. Reservations and Covers exclude cancelled bookings.
func (s *ReservationService) Stats(ctx context.Context, date string) (DashboardStats, error) {
	stats := DashboardStats{Date: date}

	var rows []struct {
		Status models.ReservationStatus
		Count  int
		People int
	}
	err := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(people), 0) AS people").
		Where("reservation_date = ?", date).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return stats, fmt.Errorf("reservation stats for %s: %w", date, err)
	}

	for _, row := range rows {
		switch row.Status {
		case models.StatusBooked:
			stats.Booked = row.Count
		case models.StatusSeated:
			stats.Seated = row.Count
		case models.StatusFinished:
			stats.Finished = row.Count
		case models.StatusCancelled:
			stats.Cancelled = row.Count
			continue
		}
		stats.Reservations += row.Count
		stats.Covers += row.People
	}

	var total, occupied int64
	if err := s.db.WithContext(ctx).Model(&models.Table{}).Count(&total).Error; err != nil {
		return stats, fmt.Errorf("count tables: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Table{}).Where("reservation_id IS NOT NULL").Count(&occupied).Error; err != nil {
		return stats, fmt.Errorf("count occupied tables: %w", err)
	}
	stats.TablesTotal = int(total)
	stats.TablesOccupied = int(occupied)
	return stats, nil
}
