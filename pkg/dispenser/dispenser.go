package dispenser

import (
	"context"
	"time"

	"github.com/mzrn1122/SMD/pkg/adherence"
	"github.com/mzrn1122/SMD/pkg/bus"
	"github.com/mzrn1122/SMD/pkg/db"
	"github.com/mzrn1122/SMD/pkg/models"
)

//go:generate mockgen -source=dispenser.go -destination=mocks/mock_dispenser.go -package=mocks

type IIntake interface {
	RecordIntake(event *models.IntakeEvent) error
	ListIntake(deviceID string) ([]models.IntakeEvent, error)
	GetInventory(deviceID string) (*models.InventoryState, error)
	GetAdherence(deviceID string, loc *time.Location) (*adherence.Report, error)
}

type IFleet interface {
	RecordHeartbeat(hb *models.Heartbeat) error
	ListDevices() ([]models.DeviceView, error)
	GetDevice(deviceID string) (*models.DeviceView, error)
}

type IFaults interface {
	RecordError(hwErr *models.HardwareError) error
	ListErrors(onlyOpen bool) ([]models.HardwareError, error)
	ResolveError(id uint) (*models.HardwareError, error)
}

type ICommand interface {
	SendCommand(ctx context.Context, deviceID, name string, params map[string]any) (*models.Command, error)
	UpdateSchedule(ctx context.Context, deviceID string, slots []int, at string) (*models.ScheduleSync, error)
	ListCommands(deviceID string) ([]models.CommandRecord, error)
}

const DefaultOfflineAfter = 90 * time.Second

// Dispenser owns the dashboard's views of the fleet: intake history, latest
// heartbeat per device, the hardware error feed and the command log.
type Dispenser struct {
	Db       db.DB
	Bus      bus.Publisher
	Intake   IIntake
	Fleet    IFleet
	Faults   IFaults
	Commands ICommand

	// OfflineAfter is how stale a heartbeat may get before the device is
	// listed as offline.
	OfflineAfter time.Duration
	Now          func() time.Time
}

type ServiceOpts struct {
	Intake   IIntake
	Fleet    IFleet
	Faults   IFaults
	Commands ICommand
}

func (d *Dispenser) WithServices(opts ServiceOpts) *Dispenser {
	if opts.Intake != nil {
		d.Intake = opts.Intake
	}
	if opts.Fleet != nil {
		d.Fleet = opts.Fleet
	}
	if opts.Faults != nil {
		d.Faults = opts.Faults
	}
	if opts.Commands != nil {
		d.Commands = opts.Commands
	}
	return d
}

// WithDefaultServices wires the gorm-backed implementations.
func (d *Dispenser) WithDefaultServices() *Dispenser {
	return d.WithServices(ServiceOpts{
		Intake:   d.GetIIntake(),
		Fleet:    d.GetIFleet(),
		Faults:   d.GetIFaults(),
		Commands: d.GetICommand(),
	})
}

func (d *Dispenser) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Dispenser) offlineAfter() time.Duration {
	if d.OfflineAfter <= 0 {
		return DefaultOfflineAfter
	}
	return d.OfflineAfter
}
