package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mzrn1122/SMD/pkg/bus"
	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/db"
	"github.com/mzrn1122/SMD/pkg/dispenser"
	"github.com/mzrn1122/SMD/pkg/dispenser/mocks"
	"github.com/mzrn1122/SMD/pkg/models"
	_ "github.com/mzrn1122/SMD/pkg/testing"
)

func setupTestServer() (*RestfulServer, *bus.Bus) {
	gin.SetMode(gin.TestMode)

	b := bus.New()
	d := (&dispenser.Dispenser{
		Db:  *db.GetInstance(db.UseMemorySqliteDialector()),
		Bus: b,
	}).WithDefaultServices()
	d.Attach(b)

	rs := &RestfulServer{
		Server:    gin.New(),
		Dispenser: d,
		Stream:    NewStream(b),
		// no limiter by default, tests that need one assign rs.RateLimiterStore
	}
	rs.Setup()

	return rs, b
}

func do(rs *RestfulServer, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	return w
}

type topicRecorder struct {
	mu     sync.Mutex
	events []bus.Event
}

func (r *topicRecorder) handle(ev bus.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *topicRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestHealthCheck(t *testing.T) {
	common.SetTestLoggerNop()
	rs, _ := setupTestServer()

	w := do(rs, "GET", "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	common.SetTestLoggerNop()
	rs, _ := setupTestServer()

	do(rs, "GET", "/healthz", nil)
	w := do(rs, "GET", "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "smd_http_requests_total")
}

func TestPostCommand(t *testing.T) {
	common.SetTestLoggerNop()
	rs, b := setupTestServer()

	commands := &topicRecorder{}
	b.Subscribe(bus.TopicCommands, commands.handle)

	deviceID := uuid.NewString()
	w := do(rs, "POST", "/devices/"+deviceID+"/commands", CommandRequest{
		Name:   "REMOTE_RESET",
		Params: map[string]any{"force": true},
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, 1, commands.count())

	var cmd models.Command
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmd))
	assert.Equal(t, deviceID, cmd.DeviceID)
	assert.Equal(t, true, cmd.Params["force"])

	w = do(rs, "GET", "/devices/"+deviceID+"/commands", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []models.CommandRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "REMOTE_RESET", records[0].Name)
}

func TestPostCommand_Invalid(t *testing.T) {
	common.SetTestLoggerNop()
	rs, _ := setupTestServer()

	w := do(rs, "POST", "/devices/dev1/commands", CommandRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest("POST", "/devices/dev1/commands", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	rs.Server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostCommand_DispatchFailure(t *testing.T) {
	common.SetTestLoggerNop()
	rs, _ := setupTestServer()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCommands := mocks.NewMockICommand(ctrl)
	mockCommands.
		EXPECT().
		SendCommand(gomock.Any(), gomock.Eq("dev1"), gomock.Eq("FORCE_SYNC"), gomock.Any()).
		Return(nil, fmt.Errorf("%w: bus down", dispenser.ErrDispatchFailure)).
		Times(1)
	rs.Dispenser = (&dispenser.Dispenser{Db: rs.Dispenser.Db}).WithServices(dispenser.ServiceOpts{Commands: mockCommands})

	w := do(rs, "POST", "/devices/dev1/commands", CommandRequest{Name: "FORCE_SYNC"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "dispatch failure")
}

func TestPostSchedule(t *testing.T) {
	common.SetTestLoggerNop()
	rs, b := setupTestServer()

	commands, schedule := &topicRecorder{}, &topicRecorder{}
	b.Subscribe(bus.TopicCommands, commands.handle)
	b.Subscribe(bus.TopicScheduleSync, schedule.handle)

	w := do(rs, "POST", "/devices/dev1/schedule", map[string]any{"slots": []int{1, 3, 5}, "time": "08:00"})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, 1, schedule.count())
	assert.Equal(t, 0, commands.count())

	var update models.ScheduleSync
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &update))
	assert.Equal(t, models.CommandUpdateSchedule, update.Command)
	assert.Equal(t, []int{1, 3, 5}, update.Slots)
}

func TestPostSchedule_Invalid(t *testing.T) {
	common.SetTestLoggerNop()
	rs, b := setupTestServer()
	schedule := &topicRecorder{}
	b.Subscribe(bus.TopicScheduleSync, schedule.handle)

	for _, body := range []map[string]any{
		{"slots": []int{0}, "time": "08:00"},
		{"slots": []int{2, 0}, "time": "08:00"},
		{"slots": []int{9}, "time": "08:00"},
		{"slots": []int{1}, "time": "8am"},
		{"time": "08:00"},
	} {
		w := do(rs, "POST", "/devices/dev1/schedule", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
	}
	assert.Zero(t, schedule.count())
}

func TestPostLimiter(t *testing.T) {
	common.SetTestLoggerNop()
	rs, _ := setupTestServer()
	rs.RateLimiterStore = dispenser.NewRateLimiterStore(dispenser.Limits{Rate: 100, Burst: 100})

	deviceID := uuid.NewString()

	w := do(rs, "POST", "/devices/"+deviceID+"/limiter", LimiterRequest{Rate: 0.001, Burst: 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(rs, "GET", "/devices/"+deviceID+"/inventory", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(rs, "GET", "/devices/"+deviceID+"/inventory", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// other devices keep the defaults
	w = do(rs, "GET", "/devices/"+uuid.NewString()+"/inventory", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(rs, "POST", "/devices/"+deviceID+"/limiter", LimiterRequest{Rate: 1, Burst: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntakeInventoryAndAdherence(t *testing.T) {
	common.SetTestLoggerNop()
	rs, b := setupTestServer()

	deviceID := uuid.NewString()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := range 8 {
		require.NoError(t, b.Publish(bus.TopicIntake, models.IntakeEvent{
			DeviceID:     deviceID,
			Event:        models.IntakeTaken,
			Verification: &models.Verification{Face: true, IR: true, Load: true},
			Timestamp:    base.AddDate(0, 0, i),
		}))
	}

	w := do(rs, "GET", "/devices/"+deviceID+"/intake", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []models.IntakeEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	assert.Len(t, events, 8)

	w = do(rs, "GET", "/devices/"+deviceID+"/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state models.InventoryState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, 52, state.VirtualStockRemaining)
	assert.Equal(t, 6, state.PhysicalSlotsRemaining)
	assert.False(t, state.RefillRequired)

	w = do(rs, "GET", "/devices/"+deviceID+"/adherence?tz=UTC", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		Taken int    `json:"taken"`
		Grade string `json:"grade"`
		Days  []any  `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 8, report.Taken)
	assert.Equal(t, "excellent", report.Grade)
	assert.Len(t, report.Days, 8)

	w = do(rs, "GET", "/devices/"+deviceID+"/adherence?tz=Mars/Olympus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDevices(t *testing.T) {
	common.SetTestLoggerNop()
	rs, b := setupTestServer()

	deviceID := uuid.NewString()
	require.NoError(t, b.Publish(bus.TopicHeartbeat, models.Heartbeat{
		DeviceID:       deviceID,
		RSSI:           -65,
		BatteryPercent: 77,
		UptimeSeconds:  3600,
		ObservedAt:     time.Now(),
	}))

	w := do(rs, "GET", "/devices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []models.DeviceView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	found := common.Filter(views, func(v models.DeviceView) bool { return v.DeviceID == deviceID })
	require.Len(t, found, 1)
	assert.Equal(t, models.SignalFair, found[0].Signal)
	assert.Equal(t, "1h 0m", found[0].Uptime)

	w = do(rs, "GET", "/devices/"+deviceID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(rs, "GET", "/devices/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorsListAndResolve(t *testing.T) {
	common.SetTestLoggerNop()
	rs, b := setupTestServer()

	deviceID := uuid.NewString()
	require.NoError(t, b.Publish(bus.TopicError, models.HardwareError{
		DeviceID:  deviceID,
		ErrorType: "Motor Jam",
		Severity:  models.SeverityError,
		Message:   "Dispensing motor blocked",
	}))

	listMine := func(path string) []models.HardwareError {
		w := do(rs, "GET", path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var errs []models.HardwareError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errs))
		return common.Filter(errs, func(e models.HardwareError) bool { return e.DeviceID == deviceID })
	}

	open := listMine("/errors?open=true")
	require.Len(t, open, 1)

	w := do(rs, "POST", fmt.Sprintf("/errors/%d/resolve", open[0].ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, listMine("/errors?open=true"))
	all := listMine("/errors")
	require.Len(t, all, 1)
	assert.True(t, all[0].Resolved)

	w = do(rs, "POST", "/errors/9999999/resolve", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(rs, "POST", "/errors/abc/resolve", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteError(t *testing.T) {
	common.SetTestLoggerNop()
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: x", dispenser.ErrInvalidArgument), http.StatusBadRequest},
		{fmt.Errorf("%w: x", dispenser.ErrNotFound), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/", nil)
		writeError(c, tt.err)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}

func TestStream(t *testing.T) {
	common.SetTestLoggerNop()
	rs, b := setupTestServer()

	srv := httptest.NewServer(rs.Server)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream?topics=" + bus.TopicCommands
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// heartbeats are not part of this stream
	require.NoError(t, b.Publish(bus.TopicHeartbeat, models.Heartbeat{DeviceID: "dev1", BatteryPercent: 50}))

	w := do(rs, "POST", "/devices/dev1/commands", CommandRequest{Name: "FORCE_SYNC"})
	require.Equal(t, http.StatusAccepted, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Topic   string         `json:"topic"`
		Payload models.Command `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, bus.TopicCommands, msg.Topic)
	assert.Equal(t, "dev1", msg.Payload.DeviceID)
	assert.Equal(t, "FORCE_SYNC", msg.Payload.Name)
}

func TestStream_SlowClientDropped(t *testing.T) {
	common.SetTestLoggerNop()
	rs, b := setupTestServer()
	rs.Stream.QueueSize = 1

	srv := httptest.NewServer(rs.Server)
	defer srv.Close()

	topic := "test." + uuid.NewString()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream?topics=" + topic
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Equal(t, 1, b.Subscribers(topic))

	// flood faster than the writer can drain; the stream gives up on the client
	for i := 0; i < 100000 && b.Subscribers(topic) > 0; i++ {
		require.NoError(t, b.Publish(topic, i))
	}

	assert.Eventually(t, func() bool { return b.Subscribers(topic) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestParseTopics(t *testing.T) {
	assert.Equal(t, DefaultStreamTopics, parseTopics(""))
	assert.Equal(t, []string{"events.intake", "events.error"}, parseTopics("events.intake, events.error,"))
}
