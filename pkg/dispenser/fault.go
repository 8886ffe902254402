package dispenser

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/models"
)

func (d *Dispenser) recordError(input *models.HardwareError) error {
	logger := common.GetCategoryLogger(common.LoggerNameDispenserCore, common.LoggerCategoryFault)

	hwErr := *input
	hwErr.ID = 0
	hwErr.DeviceID = strings.TrimSpace(hwErr.DeviceID)
	if hwErr.DeviceID == "" {
		return invalidArgument("hardware error without device id")
	}
	if hwErr.ErrorType == "" {
		return invalidArgument("hardware error without type")
	}
	switch hwErr.Severity {
	case models.SeverityInfo, models.SeverityWarning, models.SeverityError:
	case "":
		hwErr.Severity = models.SeverityError
	default:
		return invalidArgument("unknown severity %q", hwErr.Severity)
	}
	if hwErr.OccurredAt.IsZero() {
		hwErr.OccurredAt = d.now()
	}

	if err := d.Db.Conn.Create(&hwErr).Error; err != nil {
		return err
	}
	input.ID = hwErr.ID

	logger.Warn("Hardware error reported", zap.Reflect("hardware_error", hwErr))
	return nil
}

func (d *Dispenser) listErrors(onlyOpen bool) ([]models.HardwareError, error) {
	query := d.Db.Conn.Order("occurred_at desc").Order("id desc")
	if onlyOpen {
		query = query.Where("resolved = ?", false)
	}

	var errs []models.HardwareError
	err := query.Find(&errs).Error
	return errs, err
}

// resolveError marks the error resolved. Resolving twice is a no-op; there is
// no way back to unresolved.
func (d *Dispenser) resolveError(id uint) (*models.HardwareError, error) {
	logger := common.GetCategoryLogger(common.LoggerNameDispenserCore, common.LoggerCategoryFault)

	var hwErr models.HardwareError
	err := d.Db.Conn.First(&hwErr, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: hardware error %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if hwErr.Resolved {
		return &hwErr, nil
	}

	if err := d.Db.Conn.Model(&hwErr).Update("resolved", true).Error; err != nil {
		return nil, err
	}
	hwErr.Resolved = true

	logger.Info("Hardware error resolved", zap.Uint("id", hwErr.ID), zap.String("device_id", hwErr.DeviceID))
	return &hwErr, nil
}

type IFaultsImpl struct {
	dispenser *Dispenser
}

func (fi *IFaultsImpl) RecordError(hwErr *models.HardwareError) error {
	return fi.dispenser.recordError(hwErr)
}

func (fi *IFaultsImpl) ListErrors(onlyOpen bool) ([]models.HardwareError, error) {
	return fi.dispenser.listErrors(onlyOpen)
}

func (fi *IFaultsImpl) ResolveError(id uint) (*models.HardwareError, error) {
	return fi.dispenser.resolveError(id)
}

func (d *Dispenser) GetIFaults() IFaults {
	return &IFaultsImpl{dispenser: d}
}
