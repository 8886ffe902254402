package grpc

import (
	"github.com/mzrn1122/SMD/pkg/dispenser"
)

type DispenserServer struct {
	Dispenser        *dispenser.Dispenser
	RateLimiterStore *dispenser.RateLimiterStore
}

var _ DispenserServiceServer = (*DispenserServer)(nil)

func (s *DispenserServer) CheckDeviceLimiter(deviceID string) bool {
	if s.RateLimiterStore == nil {
		return true
	}
	return s.RateLimiterStore.Allow(deviceID)
}
