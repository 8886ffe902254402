package dispenser

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/models"
)

func SignalLevelFor(rssi int) models.SignalLevel {
	switch {
	case rssi >= -50:
		return models.SignalExcellent
	case rssi >= -60:
		return models.SignalGood
	case rssi >= -70:
		return models.SignalFair
	default:
		return models.SignalWeak
	}
}

func FormatUptime(seconds int64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

func (d *Dispenser) recordHeartbeat(input *models.Heartbeat) error {
	logger := common.GetCategoryLogger(common.LoggerNameDispenserCore, common.LoggerCategoryHeartbeat)

	hb := *input
	hb.DeviceID = strings.TrimSpace(hb.DeviceID)
	if hb.DeviceID == "" {
		return invalidArgument("heartbeat without device id")
	}
	if hb.BatteryPercent < 0 || hb.BatteryPercent > 100 {
		return invalidArgument("battery percent %d out of range", hb.BatteryPercent)
	}
	if hb.UptimeSeconds < 0 {
		return invalidArgument("negative uptime %d", hb.UptimeSeconds)
	}
	if hb.Status == "" {
		hb.Status = models.DeviceOnline
	}
	if hb.ObservedAt.IsZero() {
		hb.ObservedAt = d.now()
	}

	// only the latest heartbeat per device is kept
	err := d.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		UpdateAll: true,
	}).Create(&hb).Error

	if err == nil {
		logger.Debug("Upserted heartbeat for device", zap.Reflect("heartbeat", hb))
	}
	return err
}

func (d *Dispenser) view(hb models.Heartbeat) models.DeviceView {
	if d.now().Sub(hb.ObservedAt) > d.offlineAfter() {
		hb.Status = models.DeviceOffline
	}
	return models.DeviceView{
		Heartbeat: hb,
		Signal:    SignalLevelFor(hb.RSSI),
		Uptime:    FormatUptime(hb.UptimeSeconds),
	}
}

func (d *Dispenser) listDevices() ([]models.DeviceView, error) {
	var beats []models.Heartbeat
	if err := d.Db.Conn.Order("device_id asc").Find(&beats).Error; err != nil {
		return nil, err
	}
	return common.Mapper(beats, d.view), nil
}

func (d *Dispenser) getDevice(deviceID string) (*models.DeviceView, error) {
	var hb models.Heartbeat
	err := d.Db.Conn.First(&hb, "device_id = ?", deviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: device %s", ErrNotFound, deviceID)
	}
	if err != nil {
		return nil, err
	}
	view := d.view(hb)
	return &view, nil
}

type IFleetImpl struct {
	dispenser *Dispenser
}

func (fi *IFleetImpl) RecordHeartbeat(hb *models.Heartbeat) error {
	return fi.dispenser.recordHeartbeat(hb)
}

func (fi *IFleetImpl) ListDevices() ([]models.DeviceView, error) {
	return fi.dispenser.listDevices()
}

func (fi *IFleetImpl) GetDevice(deviceID string) (*models.DeviceView, error) {
	return fi.dispenser.getDevice(deviceID)
}

func (d *Dispenser) GetIFleet() IFleet {
	return &IFleetImpl{dispenser: d}
}
