package models

import (
	"errors"
	"time"
)

type IntakeKind string

const (
	IntakeTaken  IntakeKind = "taken"
	IntakeMissed IntakeKind = "missed"
)

type DeviceStatus string

const (
	DeviceOnline  DeviceStatus = "online"
	DeviceWarning DeviceStatus = "warning"
	DeviceOffline DeviceStatus = "offline"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

const CommandUpdateSchedule string = "UPDATE_SCHEDULE"

var ErrVerificationOnMissed = errors.New("verification is only recorded for taken events")

// Verification holds the triple-check result accompanying a taken dose.
type Verification struct {
	Face bool `json:"face"`
	IR   bool `json:"ir"`
	Load bool `json:"load"`
}

func (v Verification) Passed() bool {
	return v.Face && v.IR && v.Load
}

type IntakeEvent struct {
	ID                 uint          `json:"id,omitempty" gorm:"primaryKey"`
	DeviceID           string        `json:"deviceId" gorm:"index"`
	Event              IntakeKind    `json:"event" gorm:"type:varchar(10);check:event IN ('taken','missed')"`
	Verification       *Verification `json:"verification,omitempty" gorm:"serializer:json"`
	RemainingStockHint int           `json:"remainingStockHint"`
	Timestamp          time.Time     `json:"timestamp" gorm:"index"`
}

func (e *IntakeEvent) Validate() error {
	if e.Event != IntakeTaken && e.Event != IntakeMissed {
		return errors.New("unknown intake event: " + string(e.Event))
	}
	if e.Event == IntakeMissed && e.Verification != nil {
		return ErrVerificationOnMissed
	}
	return nil
}

type Heartbeat struct {
	DeviceID       string       `json:"deviceId" gorm:"primaryKey"`
	RSSI           int          `json:"rssi"`
	BatteryPercent int          `json:"batteryPercent"`
	UptimeSeconds  int64        `json:"uptimeSeconds"`
	Status         DeviceStatus `json:"status" gorm:"type:varchar(10)"`
	ObservedAt     time.Time    `json:"observedAt"`
}

type HardwareError struct {
	ID         uint      `json:"id,omitempty" gorm:"primaryKey"`
	DeviceID   string    `json:"deviceId" gorm:"index"`
	ErrorType  string    `json:"errorType"`
	Severity   Severity  `json:"severity" gorm:"type:varchar(10);check:severity IN ('info','warning','error')"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt" gorm:"index"`
	Resolved   bool      `json:"resolved"`
}

// Command is the payload published on the commands topic.
type Command struct {
	DeviceID string         `json:"deviceId"`
	Name     string         `json:"name"`
	Params   map[string]any `json:"params"`
	IssuedAt time.Time      `json:"issuedAt"`
}

// ScheduleSync is the payload published on the schedule sync topic. Its shape
// differs from Command because the firmware's schedule consumer reads it
// directly.
type ScheduleSync struct {
	Command  string `json:"command"`
	DeviceID string `json:"deviceId"`
	Slots    []int  `json:"slots"`
	Time     string `json:"time"`
}

type ScheduleSyncResponse struct {
	DeviceID string `json:"deviceId"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// CommandRecord is the command log row written for every dispatched command or
// schedule update.
type CommandRecord struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	RequestID string         `json:"requestId" gorm:"uniqueIndex"`
	DeviceID  string         `json:"deviceId" gorm:"index"`
	Topic     string         `json:"topic"`
	Name      string         `json:"name"`
	Params    map[string]any `json:"params" gorm:"serializer:json"`
	IssuedAt  time.Time      `json:"issuedAt"`
}

type InventoryState struct {
	VirtualStockRemaining  int     `json:"virtualStockRemaining"`
	PhysicalSlotsRemaining int     `json:"physicalSlotsRemaining"`
	RefillRequired         bool    `json:"refillRequired"`
	LowStockWarning        bool    `json:"lowStockWarning"`
	DaysRemaining          int     `json:"daysRemaining"`
	StockPercent           float64 `json:"stockPercent"`
	SlotsPercent           float64 `json:"slotsPercent"`
}

type SignalLevel string

const (
	SignalExcellent SignalLevel = "excellent"
	SignalGood      SignalLevel = "good"
	SignalFair      SignalLevel = "fair"
	SignalWeak      SignalLevel = "weak"
)

// DeviceView is a fleet row: the latest heartbeat plus derived fields.
type DeviceView struct {
	Heartbeat
	Signal SignalLevel `json:"signal"`
	Uptime string      `json:"uptime"`
}
