package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/dispenser"
)

func validateDeviceID(deviceID *string) z.ZogIssueList {
	var deviceIdValidator = z.String().Min(1).Required()
	return deviceIdValidator.Validate(deviceID)
}

func stringField(req *structpb.Struct, key string) string {
	if v, ok := req.GetFields()[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func numberField(req *structpb.Struct, key string) (float64, bool) {
	v, ok := req.GetFields()[key]
	if !ok {
		return 0, false
	}
	if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); !isNumber {
		return 0, false
	}
	return v.GetNumberValue(), true
}

// reply builds {success, message} plus any extra fields. Extras are encoded
// through JSON so model structs keep their json tags.
func reply(success bool, message string, extra map[string]any) (*structpb.Struct, error) {
	fields := map[string]any{
		"success": success,
		"message": message,
	}
	for k, v := range extra {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, err
		}
		fields[k] = decoded
	}
	return structpb.NewStruct(fields)
}

func succeeded(extra map[string]any) (*structpb.Struct, error) {
	return reply(true, "OK", extra)
}

func validationFailed(err any) (*structpb.Struct, error) {
	return reply(false, fmt.Sprintf("validation error: %v", err), nil)
}

func failed(method string, err error) (*structpb.Struct, error) {
	if errors.Is(err, dispenser.ErrInvalidArgument) {
		return validationFailed(err)
	}
	common.GetLoggerWith(common.LoggerNameGrpcServer).Warn("Call failed", zap.String("method", method), zap.Error(err))
	return reply(false, err.Error(), nil)
}

func (s *DispenserServer) SendCommand(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	deviceID := stringField(req, "deviceId")
	if err := validateDeviceID(&deviceID); err != nil {
		return validationFailed(err)
	}

	var params map[string]any
	if p, found := req.GetFields()["params"]; found && p.GetStructValue() != nil {
		params = p.GetStructValue().AsMap()
	}

	cmd, err := s.Dispenser.Commands.SendCommand(ctx, deviceID, stringField(req, "name"), params)
	if err != nil {
		return failed(MethodSendCommand, err)
	}
	return succeeded(map[string]any{"command": cmd})
}

func (s *DispenserServer) UpdateSchedule(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	deviceID := stringField(req, "deviceId")
	if err := validateDeviceID(&deviceID); err != nil {
		return validationFailed(err)
	}

	var slots []int
	for _, v := range req.GetFields()["slots"].GetListValue().GetValues() {
		n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
		if !isNumber || n.NumberValue != float64(int(n.NumberValue)) {
			return validationFailed("slots must be whole numbers")
		}
		slots = append(slots, int(n.NumberValue))
	}

	update, err := s.Dispenser.Commands.UpdateSchedule(ctx, deviceID, slots, stringField(req, "time"))
	if err != nil {
		return failed(MethodUpdateSchedule, err)
	}
	return succeeded(map[string]any{"schedule": update})
}

func (s *DispenserServer) GetInventory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	deviceID := stringField(req, "deviceId")
	if err := validateDeviceID(&deviceID); err != nil {
		return validationFailed(err)
	}

	state, err := s.Dispenser.Intake.GetInventory(deviceID)
	if err != nil {
		return failed(MethodGetInventory, err)
	}
	return succeeded(map[string]any{"inventory": state})
}

func (s *DispenserServer) ResolveError(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, found := numberField(req, "id")
	if !found || id < 1 || id != float64(uint(id)) {
		return validationFailed("id must be a positive whole number")
	}

	resolved, err := s.Dispenser.Faults.ResolveError(uint(id))
	if err != nil {
		return failed(MethodResolveError, err)
	}
	return succeeded(map[string]any{"error": resolved})
}

func (s *DispenserServer) PostLimiter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	deviceID := stringField(req, "deviceId")
	if err := validateDeviceID(&deviceID); err != nil {
		return validationFailed(err)
	}

	deviceRate, rateFound := numberField(req, "rate")
	deviceBurst, burstFound := numberField(req, "burst")
	if !rateFound || !burstFound {
		return validationFailed("rate and burst are required")
	}

	if s.RateLimiterStore == nil {
		return reply(false, "RateLimiterStore is not used. No effect.", nil)
	}

	limits := dispenser.Limits{Rate: rate.Limit(deviceRate), Burst: int(deviceBurst)}
	if err := s.RateLimiterStore.Override(deviceID, limits); err != nil {
		return failed(MethodPostLimiter, err)
	}
	return succeeded(map[string]any{"limits": limits})
}
