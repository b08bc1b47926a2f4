package tracking

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/matst80/gig-finder/pkg/common"
	"github.com/matst80/gig-finder/pkg/messaging"
	"github.com/matst80/gig-finder/pkg/types"
)

const trackingPrefix = "global"

type RabbitTracking struct {
	country    string
	connection *amqp.Connection
	queue      *common.QueueHandler[any]
	logger     *zap.Logger
}

func NewRabbitTracking(url, country string, logger *zap.Logger) (*RabbitTracking, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ret := &RabbitTracking{
		country: country,
		logger:  logger,
	}
	if err := ret.connect(url); err != nil {
		return nil, err
	}
	ret.queue = common.NewQueueHandler(ret.sendBatch, 50)
	return ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	defer ch.Close()
	if err := messaging.DefineTopic(ch, trackingPrefix, messaging.Tracking); err != nil {
		conn.Close()
		return err
	}
	t.connection = conn
	return nil
}

func (t *RabbitTracking) sendBatch(events []any) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, e := range events {
		if err := messaging.SendChange(ctx, t.connection, trackingPrefix, messaging.Tracking, e); err != nil {
			t.logger.Warn("error sending tracking event", zap.Error(err))
		}
	}
}

func (t *RabbitTracking) Close() error {
	t.queue.Close()
	return t.connection.Close()
}

type BaseEvent struct {
	EventId   string    `json:"event_id"`
	SessionId int       `json:"session_id"`
	Country   string    `json:"country,omitempty"`
	Event     uint16    `json:"event"`
	At        time.Time `json:"at"`
}

const (
	SessionEvent uint16 = 0
	QueryEvent   uint16 = 1
)

func (t *RabbitTracking) base(event uint16, sessionId int) *BaseEvent {
	return &BaseEvent{
		EventId:   uuid.NewString(),
		SessionId: sessionId,
		Country:   t.country,
		Event:     event,
		At:        time.Now(),
	}
}

type Session struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

func (t *RabbitTracking) TrackSession(sessionId int, r *http.Request) {
	t.queue.Add(&Session{
		BaseEvent: t.base(SessionEvent, sessionId),
		Language:  r.Header.Get("Accept-Language"),
		UserAgent: r.UserAgent(),
		Ip:        clientIp(r),
	})
}

type QueryEventData struct {
	*BaseEvent
	Instruments     []int  `json:"instruments,omitempty"`
	Genres          []int  `json:"genres,omitempty"`
	Query           string `json:"query,omitempty"`
	Sort            string `json:"sort"`
	NumberOfResults int    `json:"noi"`
	Referer         string `json:"referer,omitempty"`
}

func (t *RabbitTracking) TrackQuery(sessionId int, state types.FilterState, resultLen int, r *http.Request) {
	t.queue.Add(&QueryEventData{
		BaseEvent:       t.base(QueryEvent, sessionId),
		Instruments:     state.Instruments,
		Genres:          state.Genres,
		Query:           state.Query,
		Sort:            string(state.SortKey()) + ":" + state.Direction.String(),
		NumberOfResults: resultLen,
		Referer:         r.Header.Get("Referer"),
	})
}
