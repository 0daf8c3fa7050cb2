package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"gorm.io/gorm"
)

// CapacityPolicy decides whether a party may be seated at a table smaller
// than the party.
type CapacityPolicy string

const (
	CapacityReject CapacityPolicy = "reject"
	CapacityAllow  CapacityPolicy = "allow"
)

// Seating is the outcome of seating or finishing a table.
type Seating struct {
	Table       models.Table       `json:"table"`
	Reservation models.Reservation `json:"reservation"`
}

// TableService persists tables and moves parties on and off them.
type TableService struct {
	db     *gorm.DB
	policy CapacityPolicy
}

func NewTableService(db *gorm.DB, policy CapacityPolicy) *TableService {
	if policy == "" {
		policy = CapacityReject
	}
	return &TableService{db: db, policy: policy}
}

func (s *TableService) Create(ctx context.Context, t models.Table) (*models.Table, error) {
	t.ID = 0
	t.ReservationID = nil
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &t, nil
}

func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	tables := []models.Table{}
	if err := s.db.WithContext(ctx).Order("table_name ASC").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// Read returns utils.ErrNotFound when no table has id.
func (s *TableService) Read(ctx context.Context, id uint) (*models.Table, error) {
	var t models.Table
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read table %d: %w", id, err)
	}
	return &t, nil
}

// Seat assigns a booked reservation to a free table and marks it seated.
// Both rows change in one transaction.
func (s *TableService) Seat(ctx context.Context, tableID, reservationID uint) (*Seating, error) {
	var out Seating
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		table, err := findTable(tx, tableID)
		if err != nil {
			return err
		}
		reservation, err := findReservation(tx, reservationID)
		if err != nil {
			return err
		}

		if table.Occupied() {
			return utils.Conflict("Table %s is occupied.", table.TableName)
		}
		if reservation.Status != models.StatusBooked {
			return utils.BadRequest("Reservation %d is %s and cannot be seated.", reservation.ID, reservation.Status)
		}
		if s.policy == CapacityReject && table.Capacity < reservation.People {
			return utils.BadRequest("Table %s does not have sufficient capacity for %d people.", table.TableName, reservation.People)
		}

		// Conditional updates keep two concurrent seatings from both winning.
		res := tx.Model(&models.Table{}).
			Where("id = ? AND reservation_id IS NULL", table.ID).
			Update("reservation_id", reservation.ID)
		if res.Error != nil {
			return fmt.Errorf("seat table %d: %w", table.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return utils.Conflict("Table %s is occupied.", table.TableName)
		}

		res = tx.Model(&models.Reservation{}).
			Where("id = ? AND status = ?", reservation.ID, models.StatusBooked).
			Update("status", models.StatusSeated)
		if res.Error != nil {
			return fmt.Errorf("mark reservation %d seated: %w", reservation.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return utils.BadRequest("Reservation %d can no longer be seated.", reservation.ID)
		}

		if table, err = findTable(tx, tableID); err != nil {
			return err
		}
		if reservation, err = findReservation(tx, reservationID); err != nil {
			return err
		}
		out = Seating{Table: *table, Reservation: *reservation}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Finish frees an occupied table and marks its reservation finished.
func (s *TableService) Finish(ctx context.Context, tableID uint) (*Seating, error) {
	var out Seating
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		table, err := findTable(tx, tableID)
		if err != nil {
			return err
		}
		if !table.Occupied() {
			return utils.BadRequest("Table %s is not occupied.", table.TableName)
		}
		reservationID := *table.ReservationID

		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", reservationID).
			Update("status", models.StatusFinished).Error; err != nil {
			return fmt.Errorf("mark reservation %d finished: %w", reservationID, err)
		}
		if err := tx.Model(&models.Table{}).
			Where("id = ?", table.ID).
			Update("reservation_id", nil).Error; err != nil {
			return fmt.Errorf("free table %d: %w", table.ID, err)
		}

		if table, err = findTable(tx, tableID); err != nil {
			return err
		}
		out.Table = *table
		// The reservation may have been removed underneath the table.
		var reservation models.Reservation
		if err := tx.First(&reservation, reservationID).Error; err == nil {
			out.Reservation = reservation
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("read reservation %d: %w", reservationID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func findTable(tx *gorm.DB, id uint) (*models.Table, error) {
	var t models.Table
	err := tx.First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("Table %d cannot be found.", id)
	}
	if err != nil {
		return nil, fmt.Errorf("read table %d: %w", id, err)
	}
	return &t, nil
}

func findReservation(tx *gorm.DB, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := tx.First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("Reservation %d cannot be found.", id)
	}
	if err != nil {
		return nil, fmt.Errorf("read reservation %d: %w", id, err)
	}
	return &r, nil
}
