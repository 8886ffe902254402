package dispenser

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mzrn1122/SMD/pkg/adherence"
	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/inventory"
	"github.com/mzrn1122/SMD/pkg/models"
)

func (d *Dispenser) recordIntake(input *models.IntakeEvent) error {
	logger := common.GetCategoryLogger(common.LoggerNameDispenserCore, common.LoggerCategoryIntake)

	event := *input
	event.ID = 0
	event.DeviceID = strings.TrimSpace(event.DeviceID)
	if event.DeviceID == "" {
		return invalidArgument("intake event without device id")
	}
	if err := event.Validate(); err != nil {
		return invalidArgument("%v", err)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = d.now()
	}

	if err := d.Db.Conn.Create(&event).Error; err != nil {
		return err
	}
	input.ID = event.ID

	logger.Info("Recorded intake event", zap.Reflect("intake", event))

	state, err := d.getInventory(event.DeviceID)
	if err != nil {
		return err
	}
	d.warnOnInventory(event.DeviceID, state)
	return nil
}

func (d *Dispenser) warnOnInventory(deviceID string, state *models.InventoryState) {
	logger := common.GetCategoryLogger(common.LoggerNameDispenserCore, common.LoggerCategoryInventory)

	if state.RefillRequired {
		logger.Warn("Physical slots empty, refill required",
			zap.String("device_id", deviceID), zap.Reflect("inventory", state))
	}
	if state.LowStockWarning {
		logger.Warn("Virtual stock low",
			zap.String("device_id", deviceID), zap.Reflect("inventory", state))
	}
}

func (d *Dispenser) listIntake(deviceID string) ([]models.IntakeEvent, error) {
	var events []models.IntakeEvent
	err := d.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("timestamp asc").
		Order("id asc").
		Find(&events).Error
	return events, err
}

func (d *Dispenser) getInventory(deviceID string) (*models.InventoryState, error) {
	events, err := d.listIntake(deviceID)
	if err != nil {
		return nil, err
	}
	state := inventory.Compute(events)
	return &state, nil
}

func (d *Dispenser) getAdherence(deviceID string, loc *time.Location) (*adherence.Report, error) {
	events, err := d.listIntake(deviceID)
	if err != nil {
		return nil, err
	}
	report := adherence.Build(events, loc)
	return &report, nil
}

type IIntakeImpl struct {
	dispenser *Dispenser
}

func (ii *IIntakeImpl) RecordIntake(event *models.IntakeEvent) error {
	return ii.dispenser.recordIntake(event)
}

func (ii *IIntakeImpl) ListIntake(deviceID string) ([]models.IntakeEvent, error) {
	return ii.dispenser.listIntake(deviceID)
}

func (ii *IIntakeImpl) GetInventory(deviceID string) (*models.InventoryState, error) {
	return ii.dispenser.getInventory(deviceID)
}

func (ii *IIntakeImpl) GetAdherence(deviceID string, loc *time.Location) (*adherence.Report, error) {
	return ii.dispenser.getAdherence(deviceID, loc)
}

func (d *Dispenser) GetIIntake() IIntake {
	return &IIntakeImpl{dispenser: d}
}
