package dispenser

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/models"
	_ "github.com/mzrn1122/SMD/pkg/testing"
)

func onlyDevice(errs []models.HardwareError, deviceID string) []models.HardwareError {
	return common.Filter(errs, func(e models.HardwareError) bool { return e.DeviceID == deviceID })
}

func TestRecordAndListErrors(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, d, _ := GetMockDispenserWithMemorySqliteDialector(t, nil, useMocks{})
	defer ctrl.Finish()

	deviceID := uuid.NewString()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	first := &models.HardwareError{DeviceID: deviceID, ErrorType: "Motor Jam", Severity: models.SeverityError, OccurredAt: base}
	second := &models.HardwareError{DeviceID: deviceID, ErrorType: "WiFi Weak", Severity: models.SeverityWarning, OccurredAt: base.Add(time.Hour)}
	require.NoError(t, d.Faults.RecordError(first))
	require.NoError(t, d.Faults.RecordError(second))

	all, err := d.Faults.ListErrors(false)
	require.NoError(t, err)
	mine := onlyDevice(all, deviceID)
	require.Len(t, mine, 2)
	assert.Equal(t, "WiFi Weak", mine[0].ErrorType, "newest first")

	_, err = d.Faults.ResolveError(second.ID)
	require.NoError(t, err)

	open, err := d.Faults.ListErrors(true)
	require.NoError(t, err)
	mine = onlyDevice(open, deviceID)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)
}

func TestRecordError_Invalid(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, d, _ := GetMockDispenserWithMemorySqliteDialector(t, nil, useMocks{})
	defer ctrl.Finish()

	for _, hwErr := range []models.HardwareError{
		{ErrorType: "Motor Jam"},
		{DeviceID: "dev1"},
		{DeviceID: "dev1", ErrorType: "Motor Jam", Severity: "fatal"},
	} {
		err := d.Faults.RecordError(&hwErr)
		assert.True(t, errors.Is(err, ErrInvalidArgument), "%+v: %v", hwErr, err)
	}
}

func TestRecordError_DefaultSeverity(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, d, _ := GetMockDispenserWithMemorySqliteDialector(t, nil, useMocks{})
	defer ctrl.Finish()

	hwErr := &models.HardwareError{DeviceID: uuid.NewString(), ErrorType: "Sensor Fault"}
	require.NoError(t, d.Faults.RecordError(hwErr))

	var saved models.HardwareError
	require.NoError(t, d.Db.Conn.First(&saved, hwErr.ID).Error)
	assert.Equal(t, models.SeverityError, saved.Severity)
	assert.False(t, saved.OccurredAt.IsZero())
}

func TestResolveError_Idempotent(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, d, _ := GetMockDispenserWithMemorySqliteDialector(t, nil, useMocks{})
	defer ctrl.Finish()

	hwErr := &models.HardwareError{DeviceID: uuid.NewString(), ErrorType: "Motor Jam", Severity: models.SeverityError}
	require.NoError(t, d.Faults.RecordError(hwErr))

	for range 2 {
		resolved, err := d.Faults.ResolveError(hwErr.ID)
		require.NoError(t, err)
		assert.True(t, resolved.Resolved)
	}

	var saved models.HardwareError
	require.NoError(t, d.Db.Conn.First(&saved, hwErr.ID).Error)
	assert.True(t, saved.Resolved)
}

func TestResolveError_NotFound(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, d, _ := GetMockDispenserWithMemorySqliteDialector(t, nil, useMocks{})
	defer ctrl.Finish()

	_, err := d.Faults.ResolveError(999999)
	assert.True(t, errors.Is(err, ErrNotFound))
}
