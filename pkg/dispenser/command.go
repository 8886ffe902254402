package dispenser

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	z "github.com/Oudwins/zog"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mzrn1122/SMD/pkg/bus"
	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/inventory"
	"github.com/mzrn1122/SMD/pkg/metrics"
	"github.com/mzrn1122/SMD/pkg/models"
)

const (
	rejectInvalid  = "invalid"
	rejectDispatch = "dispatch"
)

var scheduleTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type commandInput struct {
	DeviceID string
	Name     string
}

var commandSchema = z.Struct(z.Shape{
	"DeviceID": z.String().Min(1, z.Message("device id is required")).Required(),
	"Name":     z.String().Min(1, z.Message("command name is required")).Required(),
})

type scheduleInput struct {
	DeviceID string
	Slots    []int
	Time     string
}

var scheduleSchema = z.Struct(z.Shape{
	"DeviceID": z.String().Min(1, z.Message("device id is required")).Required(),
	"Slots": z.Slice(
		z.Int().GTE(1, z.Message("slot must be between 1 and 7")).LTE(7, z.Message("slot must be between 1 and 7")),
	).Min(1, z.Message("at least one slot is required")).Required(),
	"Time": z.String().Match(scheduleTimePattern, z.Message("time must be HH:MM")).Required(),
})

func (d *Dispenser) sendCommand(ctx context.Context, deviceID, name string, params map[string]any) (*models.Command, error) {
	input := commandInput{
		DeviceID: strings.TrimSpace(deviceID),
		Name:     strings.TrimSpace(name),
	}
	if err := issuesError(commandSchema.Validate(&input)); err != nil {
		metrics.CommandsRejected.WithLabelValues(rejectInvalid).Inc()
		return nil, err
	}

	if params == nil {
		params = map[string]any{}
	}
	if _, err := json.Marshal(params); err != nil {
		metrics.CommandsRejected.WithLabelValues(rejectInvalid).Inc()
		return nil, invalidArgument("params are not serialisable: %v", err)
	}

	cmd := &models.Command{
		DeviceID: input.DeviceID,
		Name:     input.Name,
		Params:   params,
		IssuedAt: d.now().UTC(),
	}

	if err := d.dispatch(ctx, bus.TopicCommands, cmd.Name, cmd); err != nil {
		return nil, err
	}

	d.appendCommandLog(models.CommandRecord{
		DeviceID: cmd.DeviceID,
		Topic:    bus.TopicCommands,
		Name:     cmd.Name,
		Params:   cmd.Params,
		IssuedAt: cmd.IssuedAt,
	})

	return cmd, nil
}

func (d *Dispenser) updateSchedule(ctx context.Context, deviceID string, slots []int, at string) (*models.ScheduleSync, error) {
	input := scheduleInput{
		DeviceID: strings.TrimSpace(deviceID),
		Slots:    slots,
		Time:     strings.TrimSpace(at),
	}
	if err := issuesError(scheduleSchema.Validate(&input)); err != nil {
		metrics.CommandsRejected.WithLabelValues(rejectInvalid).Inc()
		return nil, err
	}
	// zog skips element tests on zero values, so slot 0 is checked here.
	for _, slot := range input.Slots {
		if slot < 1 || slot > inventory.CartridgeSlots {
			metrics.CommandsRejected.WithLabelValues(rejectInvalid).Inc()
			return nil, invalidArgument("slot must be between 1 and %d, got %d", inventory.CartridgeSlots, slot)
		}
	}

	update := &models.ScheduleSync{
		Command:  models.CommandUpdateSchedule,
		DeviceID: input.DeviceID,
		Slots:    append([]int(nil), input.Slots...),
		Time:     input.Time,
	}

	if err := d.dispatch(ctx, bus.TopicScheduleSync, update.Command, update); err != nil {
		return nil, err
	}

	d.appendCommandLog(models.CommandRecord{
		DeviceID: update.DeviceID,
		Topic:    bus.TopicScheduleSync,
		Name:     update.Command,
		Params:   map[string]any{"slots": update.Slots, "time": update.Time},
		IssuedAt: d.now().UTC(),
	})

	return update, nil
}

func (d *Dispenser) dispatch(ctx context.Context, topic, name string, payload any) error {
	logger := common.GetCategoryLogger(common.LoggerNameDispenserCore, common.LoggerCategoryCommand)

	if err := ctx.Err(); err != nil {
		metrics.CommandsRejected.WithLabelValues(rejectDispatch).Inc()
		return fmt.Errorf("%w: %w", ErrDispatchFailure, err)
	}
	if d.Bus == nil {
		metrics.CommandsRejected.WithLabelValues(rejectDispatch).Inc()
		return fmt.Errorf("%w: no event bus", ErrDispatchFailure)
	}

	if err := d.Bus.Publish(topic, payload); err != nil {
		metrics.CommandsRejected.WithLabelValues(rejectDispatch).Inc()
		logger.Error("Failed to publish command",
			zap.String(common.LoggerFieldTopic, topic), zap.String("name", name), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrDispatchFailure, err)
	}

	metrics.CommandsDispatched.WithLabelValues(name).Inc()
	logger.Info("Command published",
		zap.String(common.LoggerFieldTopic, topic), zap.String("name", name), zap.Reflect("payload", payload))
	return nil
}

// appendCommandLog records a published command. The command is already on the
// bus at this point, so a failed write is logged and not returned.
func (d *Dispenser) appendCommandLog(record models.CommandRecord) {
	logger := common.GetCategoryLogger(common.LoggerNameDispenserCore, common.LoggerCategoryCommand)

	record.RequestID = uuid.NewString()
	if err := d.Db.Conn.Create(&record).Error; err != nil {
		logger.Error("Failed to write command log",
			zap.String("request_id", record.RequestID), zap.Error(err))
	}
}

func (d *Dispenser) listCommands(deviceID string) ([]models.CommandRecord, error) {
	var records []models.CommandRecord
	err := d.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("issued_at desc").
		Order("id desc").
		Find(&records).Error
	return records, err
}

type ICommandImpl struct {
	dispenser *Dispenser
}

func (ci *ICommandImpl) SendCommand(ctx context.Context, deviceID, name string, params map[string]any) (*models.Command, error) {
	return ci.dispenser.sendCommand(ctx, deviceID, name, params)
}

func (ci *ICommandImpl) UpdateSchedule(ctx context.Context, deviceID string, slots []int, at string) (*models.ScheduleSync, error) {
	return ci.dispenser.updateSchedule(ctx, deviceID, slots, at)
}

func (ci *ICommandImpl) ListCommands(deviceID string) ([]models.CommandRecord, error) {
	return ci.dispenser.listCommands(deviceID)
}

func (d *Dispenser) GetICommand() ICommand {
	return &ICommandImpl{dispenser: d}
}
