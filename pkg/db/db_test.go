package db

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/models"
	_ "github.com/mzrn1122/SMD/pkg/testing"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	instance := GetInstance(UseMemorySqliteDialector())
	if instance == nil {
		t.Fatal("Expected non-nil DB instance")
	}

	var tables = []string{"intake_events", "heartbeats", "hardware_errors", "command_records"}
	for _, table := range tables {
		if !tableExists(instance.Conn, table) {
			t.Errorf("Expected table %q to exist after migration", table)
		}
	}
}

func TestSingletonConcurrency(t *testing.T) {
	common.SetTestLoggerNop()

	const goroutineCount = 20

	var wg sync.WaitGroup
	instances := make(chan *DB, goroutineCount)

	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instances <- GetInstance(UseMemorySqliteDialector())
		}()
	}

	wg.Wait()
	close(instances)

	var first *DB
	for inst := range instances {
		if first == nil {
			first = inst
			continue
		}
		if inst != first {
			t.Error("Expected all instances to be the same (singleton), but found different ones")
		}
	}
}

func TestVerificationRoundTrip(t *testing.T) {
	common.SetTestLoggerNop()

	conn := GetInstance(UseMemorySqliteDialector()).Conn
	deviceID := "db-test-" + time.Now().Format(time.RFC3339Nano)

	withCheck := models.IntakeEvent{
		DeviceID:     deviceID,
		Event:        models.IntakeTaken,
		Verification: &models.Verification{Face: true, IR: false, Load: true},
		Timestamp:    time.Now().UTC(),
	}
	missed := models.IntakeEvent{DeviceID: deviceID, Event: models.IntakeMissed, Timestamp: time.Now().UTC()}
	require.NoError(t, conn.Create(&withCheck).Error)
	require.NoError(t, conn.Create(&missed).Error)

	var stored []models.IntakeEvent
	require.NoError(t, conn.Where("device_id = ?", deviceID).Order("id").Find(&stored).Error)
	require.Len(t, stored, 2)

	require.NotNil(t, stored[0].Verification)
	assert.Equal(t, *withCheck.Verification, *stored[0].Verification)
	assert.Nil(t, stored[1].Verification)
}

func TestSeverityCheckConstraint(t *testing.T) {
	common.SetTestLoggerNop()

	conn := GetInstance(UseMemorySqliteDialector()).Conn
	err := conn.Create(&models.HardwareError{DeviceID: "x", Severity: "catastrophic"}).Error
	assert.Error(t, err)
}
