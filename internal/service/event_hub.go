package service

import (
	"context"
	"encoding/json"
	"net/http"
	"study_planner_backend/pkg/logger"
	"study_planner_backend/pkg/monitoring"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32
	sendBuffer     = 64

	eventChannel = "study_planner:events"
)

// event types pushed to clients
const (
	EventPlanGenerated     = "PLAN_GENERATED"
	EventPrioritiesUpdated = "PRIORITIES_UPDATED"
	EventTasksMissed       = "TASKS_MISSED"
	EventPong              = "PONG"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are enforced by the CORS middleware on the HTTP side
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Notifier receives domain events from the services. A zero userID broadcasts.
type Notifier interface {
	Notify(userID uint, evt Event)
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(uint, Event) {}

func notify(n Notifier, userID uint, evt Event) {
	if n != nil {
		n.Notify(userID, evt)
	}
}

type Client struct {
	Hub     *EventHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  uint
	Limiter *rate.Limiter

	// guards Send against a close racing with a send
	mu     sync.Mutex
	closed bool
}

// trySend queues msg unless the client is closed or its buffer is full.
func (c *Client) trySend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// close closes Send once; writePump then sends the close frame.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("Event stream closed unexpectedly", zap.Error(err), zap.Uint("userID", c.UserID))
			}
			return
		}
		if !c.Limiter.Allow() {
			continue
		}

		var in Event
		if err := json.Unmarshal(message, &in); err != nil {
			continue
		}
		// clients only ever ping; everything else is ignored
		if in.Type == "PING" {
			if raw, err := json.Marshal(Event{Type: EventPong}); err == nil {
				c.trySend(raw)
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
}

// EventHub fans study events out to the websocket connections of their owner. With redis
// the events travel over pub/sub so every instance delivers to its own connections;
// without it delivery is local only.
type EventHub struct {
	shards     [shardCount]*shard
	register   chan *Client
	unregister chan *Client
	Redis      *redis.Client

	stopOnce sync.Once
	done     chan struct{}
}

type envelopeMessage struct {
	UserID  uint            `json:"userId"`
	Payload json.RawMessage `json:"payload"`
}

func NewEventHub(rdb *redis.Client) *EventHub {
	h := &EventHub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Redis:      rdb,
		done:       make(chan struct{}),
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{clients: make(map[uint]map[*Client]struct{})}
	}
	return h
}

func (h *EventHub) getShard(userID uint) *shard {
	return h.shards[userID%shardCount]
}

// Run owns connection bookkeeping and, when redis is configured, the pub/sub relay.
// It returns when ctx is cancelled or Stop is called.
func (h *EventHub) Run(ctx context.Context) {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(ctx, eventChannel)
		defer pubsub.Close()
		go func() {
			for msg := range pubsub.Channel() {
				var env envelopeMessage
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					logger.Log.Error("Event relay unmarshal error", zap.Error(err))
					continue
				}
				h.deliverLocal(env.UserID, env.Payload)
			}
		}()
	}

	for {
		select {
		case client := <-h.register:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			if s.clients[client.UserID] == nil {
				s.clients[client.UserID] = make(map[*Client]struct{})
			}
			s.clients[client.UserID][client] = struct{}{}
			s.mu.Unlock()
			monitoring.EventConnections.Inc()

		case client := <-h.unregister:
			h.drop(client)

		case <-ctx.Done():
			h.Stop()
			h.closeAll()
			return
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

func (h *EventHub) drop(client *Client) {
	s := h.getShard(client.UserID)
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(s.clients, client.UserID)
	}
	client.close()
	monitoring.EventConnections.Dec()
}

func (h *EventHub) closeAll() {
	closed := 0
	for _, s := range h.shards {
		s.mu.Lock()
		for userID, set := range s.clients {
			for client := range set {
				client.close()
				closed++
			}
			delete(s.clients, userID)
		}
		s.mu.Unlock()
	}
	monitoring.EventConnections.Set(0)
	logger.Log.Info("Event hub stopped", zap.Int("closedConnections", closed))
}

func (h *EventHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Notify pushes evt to every connection of userID, or to everyone when userID is zero.
func (h *EventHub) Notify(userID uint, evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		logger.Log.Error("Event marshal error", zap.String("type", evt.Type), zap.Error(err))
		return
	}
	monitoring.EventsPushed.WithLabelValues(evt.Type).Inc()

	if h.Redis == nil {
		h.deliverLocal(userID, payload)
		return
	}

	raw, _ := json.Marshal(envelopeMessage{UserID: userID, Payload: payload})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.Redis.Publish(ctx, eventChannel, raw).Err(); err != nil {
		logger.Log.Warn("Event publish failed, delivering locally", zap.Error(err))
		h.deliverLocal(userID, payload)
	}
}

// deliverLocal never blocks; a client whose buffer is full misses the event.
func (h *EventHub) deliverLocal(userID uint, payload []byte) {
	push := func(set map[*Client]struct{}) {
		for client := range set {
			client.trySend(payload)
		}
	}

	if userID == 0 {
		for _, s := range h.shards {
			s.mu.RLock()
			for _, set := range s.clients {
				push(set)
			}
			s.mu.RUnlock()
		}
		return
	}

	s := h.getShard(userID)
	s.mu.RLock()
	push(s.clients[userID])
	s.mu.RUnlock()
}

// Connections reports how many streams userID has open on this instance.
func (h *EventHub) Connections(userID uint) int {
	s := h.getShard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[userID])
}

func ServeEvents(hub *EventHub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("WebSocket upgrade failed", zap.Error(err), zap.Uint("userID", userID))
		return
	}
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		UserID:  userID,
		Limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
