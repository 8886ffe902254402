package dispenser

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/mzrn1122/SMD/pkg/bus"
	"github.com/mzrn1122/SMD/pkg/db"
	"github.com/mzrn1122/SMD/pkg/dispenser/mocks"
)

type mockServices struct {
	Intake   *mocks.MockIIntake
	Fleet    *mocks.MockIFleet
	Faults   *mocks.MockIFaults
	Commands *mocks.MockICommand
}

type useMocks struct {
	Intake, Fleet, Faults, Commands bool
}

// GetMockDispenserWithMemorySqliteDialector builds a dispenser on the shared
// in-memory database and swaps in mocks for the services selected by use.
func GetMockDispenserWithMemorySqliteDialector(t *testing.T, pub bus.Publisher, use useMocks) (
	*gomock.Controller,
	*Dispenser,
	mockServices,
) {
	ctrl := gomock.NewController(t)

	m := mockServices{
		Intake:   mocks.NewMockIIntake(ctrl),
		Fleet:    mocks.NewMockIFleet(ctrl),
		Faults:   mocks.NewMockIFaults(ctrl),
		Commands: mocks.NewMockICommand(ctrl),
	}

	dbInstance := db.GetInstance(db.UseMemorySqliteDialector()) // ensure migrations
	d := (&Dispenser{Db: *dbInstance, Bus: pub}).WithDefaultServices()

	opts := ServiceOpts{}
	if use.Intake {
		opts.Intake = m.Intake
	}
	if use.Fleet {
		opts.Fleet = m.Fleet
	}
	if use.Faults {
		opts.Faults = m.Faults
	}
	if use.Commands {
		opts.Commands = m.Commands
	}
	d.WithServices(opts)

	return ctrl, d, m
}

func ParseLogs(r io.Reader) []map[string]any {
	scanner := bufio.NewScanner(r)
	var logs []map[string]any

	for scanner.Scan() {
		var j map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

func findLog(logs []map[string]any, msg string) map[string]any {
	for _, l := range logs {
		if l["msg"] == msg {
			return l
		}
	}
	return nil
}

// fixedNow pins the dispenser clock and returns the pinned instant.
func fixedNow(d *Dispenser, at time.Time) time.Time {
	d.Now = func() time.Time { return at }
	return at
}
