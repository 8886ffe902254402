package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mzrn1122/SMD/pkg/common"
)

// CreateRateLimitInterceptor throttles the listed methods per deviceId.
// Requests without a deviceId are let through; the handler rejects them.
func (s *DispenserServer) CreateRateLimitInterceptor(targetMethods []string) grpc.UnaryServerInterceptor {
	targetMethodMap := common.Reducer(targetMethods,
		func(m map[string]bool, method string) map[string]bool {
			m[method] = true
			return m
		},
		map[string]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if targetMethodMap[info.FullMethod] {
			if r, ok := req.(*structpb.Struct); ok {
				if deviceID := stringField(r, "deviceId"); deviceID != "" && !s.CheckDeviceLimiter(deviceID) {
					return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
				}
			}
		}

		return handler(ctx, req)
	}
}

// LimitedMethods are the calls throttled by default.
var LimitedMethods = []string{
	MethodSendCommand,
	MethodUpdateSchedule,
	MethodGetInventory,
}
