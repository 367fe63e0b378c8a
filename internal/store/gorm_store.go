package store

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/AhmadWajid/kfmruns/internal/models"
)

// GormStore implements Store on a GORM Postgres handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	var drivers []models.Driver
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&drivers).Error
	return drivers, err
}

func (s *GormStore) ListRiders(ctx context.Context) ([]models.Rider, error) {
	var riders []models.Rider
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&riders).Error
	return riders, err
}

func (s *GormStore) GetDriver(ctx context.Context, id uint) (models.Driver, error) {
	var driver models.Driver
	err := s.db.WithContext(ctx).First(&driver, id).Error
	return driver, translate(err)
}

func (s *GormStore) GetRider(ctx context.Context, id uint) (models.Rider, error) {
	var rider models.Rider
	err := s.db.WithContext(ctx).First(&rider, id).Error
	return rider, translate(err)
}

func (s *GormStore) RidersByDriver(ctx context.Context, driverID uint) ([]models.Rider, error) {
	var riders []models.Rider
	err := s.db.WithContext(ctx).Where("driver_id = ?", driverID).Order("id ASC").Find(&riders).Error
	return riders, err
}

func (s *GormStore) CreateDriver(ctx context.Context, driver *models.Driver) error {
	return translate(s.db.WithContext(ctx).Create(driver).Error)
}

func (s *GormStore) CreateRider(ctx context.Context, rider *models.Rider) error {
	return translate(s.db.WithContext(ctx).Create(rider).Error)
}

func (s *GormStore) SetRiderDriver(ctx context.Context, riderID uint, driverID *uint) error {
	res := s.db.WithContext(ctx).Model(&models.Rider{}).Where("id = ?", riderID).Update("driver_id", driverID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) UnassignRidersOfDriver(ctx context.Context, driverID uint) error {
	return s.db.WithContext(ctx).Model(&models.Rider{}).
		Where("driver_id = ?", driverID).
		Update("driver_id", nil).Error
}

func (s *GormStore) DeleteDriver(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Driver{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteRider(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Rider{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) UnassignAllRiders(ctx context.Context) error {
	return s.db.WithContext(ctx).Model(&models.Rider{}).
		Where("driver_id IS NOT NULL").
		Update("driver_id", nil).Error
}

func (s *GormStore) DeleteAllRiders(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Rider{}).Error
}

func (s *GormStore) DeleteAllDrivers(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Driver{}).Error
}

func (s *GormStore) AppState(ctx context.Context) (models.AppState, error) {
	var state models.AppState
	err := s.db.WithContext(ctx).First(&state, 1).Error
	return state, translate(err)
}

func (s *GormStore) SetFinalized(ctx context.Context, finalized bool) error {
	return s.db.WithContext(ctx).Model(&models.AppState{}).
		Where("id = ?", 1).
		Updates(map[string]interface{}{"is_finalized": finalized, "updated_at": time.Now()}).Error
}

func (s *GormStore) ListPickupAreas(ctx context.Context) ([]models.PickupArea, error) {
	var areas []models.PickupArea
	err := s.db.WithContext(ctx).Order("name ASC").Find(&areas).Error
	return areas, err
}

// translate maps driver-level errors onto the store sentinels. Constraint
// violations (seat checks, rider→driver FK) surface as ErrInvalidData.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if pgErr, ok := err.(*pq.Error); ok {
		switch pgErr.Code {
		case "23514", "23503": // check_violation, foreign_key_violation
			return ErrInvalidData
		}
	}
	return err
}
