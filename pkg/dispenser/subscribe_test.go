package dispenser

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/mzrn1122/SMD/pkg/bus"
	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/inventory"
	"github.com/mzrn1122/SMD/pkg/models"
	_ "github.com/mzrn1122/SMD/pkg/testing"
)

func TestAttach_RoutesPayloads(t *testing.T) {
	common.SetTestLoggerNop()

	b := bus.New()
	ctrl, d, m := GetMockDispenserWithMemorySqliteDialector(t, b, useMocks{Intake: true, Fleet: true, Faults: true})
	defer ctrl.Finish()

	subs := d.Attach(b)
	assert.Len(t, subs, 4)

	intake := models.IntakeEvent{DeviceID: "dev1", Event: models.IntakeTaken}
	hb := models.Heartbeat{DeviceID: "dev1", BatteryPercent: 90}
	hwErr := models.HardwareError{DeviceID: "dev1", ErrorType: "Motor Jam"}

	m.Intake.EXPECT().RecordIntake(gomock.Eq(&intake)).Times(2)
	m.Fleet.EXPECT().RecordHeartbeat(gomock.Eq(&hb)).Times(1)
	m.Faults.EXPECT().RecordError(gomock.Eq(&hwErr)).Times(1)

	// value and pointer payloads are both accepted
	require.NoError(t, b.Publish(bus.TopicIntake, intake))
	require.NoError(t, b.Publish(bus.TopicIntake, &intake))
	require.NoError(t, b.Publish(bus.TopicHeartbeat, hb))
	require.NoError(t, b.Publish(bus.TopicError, hwErr))
}

func TestAttach_RecorderErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	common.SetTestCaptureLogger(&buf, zap.InfoLevel)
	defer common.SetTestLoggerNop()

	b := bus.New()
	ctrl, d, m := GetMockDispenserWithMemorySqliteDialector(t, b, useMocks{Intake: true})
	defer ctrl.Finish()

	d.Attach(b)

	m.Intake.EXPECT().RecordIntake(gomock.Any()).Return(errors.New("disk full"))

	err := b.Publish(bus.TopicIntake, models.IntakeEvent{DeviceID: "dev1", Event: models.IntakeTaken})
	assert.NoError(t, err)

	entry := findLog(ParseLogs(&buf), "Failed to record event")
	require.NotNil(t, entry)
	assert.Equal(t, bus.TopicIntake, entry[common.LoggerFieldTopic])
	assert.Equal(t, "disk full", entry["error"])
}

func TestAttach_UnexpectedPayload(t *testing.T) {
	var buf bytes.Buffer
	common.SetTestCaptureLogger(&buf, zap.InfoLevel)
	defer common.SetTestLoggerNop()

	b := bus.New()
	ctrl, d, _ := GetMockDispenserWithMemorySqliteDialector(t, b, useMocks{Intake: true, Fleet: true, Faults: true})
	defer ctrl.Finish()

	d.Attach(b)

	require.NoError(t, b.Publish(bus.TopicHeartbeat, "not a heartbeat"))
	require.NoError(t, b.Publish(bus.TopicError, (*models.HardwareError)(nil)))

	logs := ParseLogs(&buf)
	var types []any
	for _, l := range logs {
		if l["msg"] == "Unexpected payload type" {
			types = append(types, l["type"])
		}
	}
	assert.Equal(t, []any{"string", "*models.HardwareError"}, types)
}

func TestAttach_ScheduleAckLogged(t *testing.T) {
	var buf bytes.Buffer
	common.SetTestCaptureLogger(&buf, zap.InfoLevel)
	defer common.SetTestLoggerNop()

	b := bus.New()
	ctrl, d, _ := GetMockDispenserWithMemorySqliteDialector(t, b, useMocks{})
	defer ctrl.Finish()

	d.Attach(b)
	require.NoError(t, b.Publish(bus.TopicScheduleSyncResponse, models.ScheduleSyncResponse{
		DeviceID: "dev1",
		Status:   "success",
		Message:  "Schedule updated successfully",
	}))

	entry := findLog(ParseLogs(&buf), "Schedule sync acknowledged")
	require.NotNil(t, entry)
	assert.Equal(t, "success", entry["status"])
}

// Five taken events on the bus end up as 55 doses left in the ledger.
func TestAttach_EndToEndInventory(t *testing.T) {
	common.SetTestLoggerNop()

	b := bus.New()
	ctrl, d, _ := GetMockDispenserWithMemorySqliteDialector(t, b, useMocks{})
	defer ctrl.Finish()

	d.Attach(b)

	deviceID := uuid.NewString()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, b.Publish(bus.TopicIntake, models.IntakeEvent{
			DeviceID:     deviceID,
			Event:        models.IntakeTaken,
			Verification: &models.Verification{Face: true, IR: true, Load: true},
			Timestamp:    base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}

	state, err := d.Intake.GetInventory(deviceID)
	require.NoError(t, err)
	assert.Equal(t, 55, state.VirtualStockRemaining)

	events, err := d.Intake.ListIntake(deviceID)
	require.NoError(t, err)
	assert.Equal(t, *state, inventory.Compute(events))
}
