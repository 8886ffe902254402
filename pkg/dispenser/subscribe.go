package dispenser

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/mzrn1122/SMD/pkg/bus"
	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/models"
)

// payloadAs accepts both T and *T payloads.
func payloadAs[T any](payload any) (*T, bool) {
	switch v := payload.(type) {
	case T:
		return &v, true
	case *T:
		return v, v != nil
	default:
		return nil, false
	}
}

// Attach subscribes the recorders to the device event topics. Recorder errors
// are logged here and never reach the publisher.
func (d *Dispenser) Attach(sub bus.Subscriber) []bus.Subscription {
	logger := common.GetCategoryLogger(common.LoggerNameDispenserCore, common.LoggerCategorySubscribers)

	unexpected := func(ev bus.Event) {
		logger.Warn("Unexpected payload type",
			zap.String(common.LoggerFieldTopic, ev.Topic), zap.String("type", typeName(ev.Payload)))
	}
	failed := func(ev bus.Event, err error) {
		logger.Error("Failed to record event",
			zap.String(common.LoggerFieldTopic, ev.Topic), zap.Error(err))
	}

	return []bus.Subscription{
		sub.Subscribe(bus.TopicIntake, func(ev bus.Event) {
			event, ok := payloadAs[models.IntakeEvent](ev.Payload)
			if !ok {
				unexpected(ev)
				return
			}
			if err := d.Intake.RecordIntake(event); err != nil {
				failed(ev, err)
			}
		}),
		sub.Subscribe(bus.TopicHeartbeat, func(ev bus.Event) {
			hb, ok := payloadAs[models.Heartbeat](ev.Payload)
			if !ok {
				unexpected(ev)
				return
			}
			if err := d.Fleet.RecordHeartbeat(hb); err != nil {
				failed(ev, err)
			}
		}),
		sub.Subscribe(bus.TopicError, func(ev bus.Event) {
			hwErr, ok := payloadAs[models.HardwareError](ev.Payload)
			if !ok {
				unexpected(ev)
				return
			}
			if err := d.Faults.RecordError(hwErr); err != nil {
				failed(ev, err)
			}
		}),
		sub.Subscribe(bus.TopicScheduleSyncResponse, func(ev bus.Event) {
			resp, ok := payloadAs[models.ScheduleSyncResponse](ev.Payload)
			if !ok {
				unexpected(ev)
				return
			}
			logger.Info("Schedule sync acknowledged",
				zap.String("device_id", resp.DeviceID),
				zap.String("status", resp.Status),
				zap.String("message", resp.Message))
		}),
	}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
