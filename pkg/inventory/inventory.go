// Package inventory derives dispenser stock from the intake history. Nothing
// here is stored: every figure is recomputed from the events, so it cannot
// drift from the log.
package inventory

import (
	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/models"
)

const (
	CycleDoses     = 60
	CartridgeSlots = 7
	LowStockRatio  = 0.30
)

func TakenCount(events []models.IntakeEvent) int {
	return common.CountIf(events, func(e models.IntakeEvent) bool {
		return e.Event == models.IntakeTaken
	})
}

func VirtualStock(taken int) int {
	return max(0, CycleDoses-taken)
}

// PhysicalSlots reports the doses left in the cartridge. A fresh cartridge
// holds all slots; after every full rotation it reads empty until the next
// dose is taken from a refilled cartridge.
func PhysicalSlots(taken int) int {
	if taken <= 0 {
		return CartridgeSlots
	}
	return (CartridgeSlots - taken%CartridgeSlots) % CartridgeSlots
}

func Compute(events []models.IntakeEvent) models.InventoryState {
	taken := TakenCount(events)
	virtual := VirtualStock(taken)
	physical := PhysicalSlots(taken)
	ratio := float64(virtual) / CycleDoses

	return models.InventoryState{
		VirtualStockRemaining:  virtual,
		PhysicalSlotsRemaining: physical,
		RefillRequired:         physical == 0 && virtual > 0,
		LowStockWarning:        ratio > 0 && ratio < LowStockRatio,
		DaysRemaining:          virtual, // one dose per day
		StockPercent:           ratio * 100,
		SlotsPercent:           float64(physical) / CartridgeSlots * 100,
	}
}
