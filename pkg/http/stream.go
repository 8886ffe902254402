package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mzrn1122/SMD/pkg/bus"
	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	DefaultStreamQueue = 64
)

// DefaultStreamTopics is what /stream follows when no topics are requested.
var DefaultStreamTopics = []string{
	bus.TopicIntake,
	bus.TopicHeartbeat,
	bus.TopicError,
	bus.TopicCommands,
	bus.TopicScheduleSync,
	bus.TopicScheduleSyncResponse,
}

type StreamMessage struct {
	Topic       string    `json:"topic"`
	Payload     any       `json:"payload"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Stream relays bus events to websocket clients. Each client gets a bounded
// queue; a client that falls behind is disconnected rather than slowing the
// publisher down.
type Stream struct {
	Bus       bus.Subscriber
	QueueSize int
	Upgrader  websocket.Upgrader
}

func NewStream(sub bus.Subscriber) *Stream {
	return &Stream{
		Bus:       sub,
		QueueSize: DefaultStreamQueue,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the dashboard is served from another origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func parseTopics(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return DefaultStreamTopics
	}
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

type streamClient struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	closing sync.Once
}

func (sc *streamClient) close() {
	sc.closing.Do(func() { close(sc.done) })
}

// enqueue never blocks the publishing goroutine.
func (sc *streamClient) enqueue(msg []byte) bool {
	select {
	case <-sc.done:
		return false
	default:
	}
	select {
	case sc.send <- msg:
		return true
	default:
		return false
	}
}

func (s *Stream) Handle(c *gin.Context) {
	logger := common.GetLoggerWith(common.LoggerNameRestfulServer, zap.String(common.LoggerFieldCategory, "stream"))

	topics := parseTopics(c.Query("topics"))

	size := s.QueueSize
	if size <= 0 {
		size = DefaultStreamQueue
	}
	client := &streamClient{
		send: make(chan []byte, size),
		done: make(chan struct{}),
	}

	// subscribe before the handshake completes so nothing published after the
	// client sees the upgrade is missed
	subs := make([]bus.Subscription, 0, len(topics))
	for _, topic := range topics {
		subs = append(subs, s.Bus.Subscribe(topic, func(ev bus.Event) {
			msg, err := json.Marshal(StreamMessage{Topic: ev.Topic, Payload: ev.Payload, PublishedAt: ev.PublishedAt})
			if err != nil {
				logger.Warn("Dropping unencodable event", zap.String(common.LoggerFieldTopic, ev.Topic), zap.Error(err))
				return
			}
			if !client.enqueue(msg) {
				client.close()
			}
		}))
	}
	unsubscribe := func() {
		for _, sub := range subs {
			s.Bus.Unsubscribe(sub)
		}
	}

	conn, err := s.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response
		unsubscribe()
		logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	client.conn = conn

	metrics.StreamClients.Inc()
	logger.Info("Stream client connected", zap.Strings("topics", topics), zap.String("remote", conn.RemoteAddr().String()))

	defer func() {
		unsubscribe()
		metrics.StreamClients.Dec()
		_ = conn.Close()
		logger.Info("Stream client disconnected", zap.String("remote", conn.RemoteAddr().String()))
	}()

	go client.readPump()
	client.writePump()
}

// readPump only exists to notice the peer going away and to answer pings.
func (sc *streamClient) readPump() {
	defer sc.close()

	sc.conn.SetReadLimit(512)
	_ = sc.conn.SetReadDeadline(time.Now().Add(pongWait))
	sc.conn.SetPongHandler(func(string) error {
		return sc.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sc.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (sc *streamClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-sc.send:
			_ = sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sc.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				sc.close()
				return
			}
		case <-ticker.C:
			_ = sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				sc.close()
				return
			}
		case <-sc.done:
			_ = sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = sc.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream closed"))
			return
		}
	}
}
