package tracking

import (
	"fmt"
	"net"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/matst80/gig-finder/pkg/common"
	"github.com/matst80/gig-finder/pkg/types"
)

func queued(t *testing.T) (*RabbitTracking, func() []any) {
	t.Helper()
	var mu sync.Mutex
	var events []any
	trk := &RabbitTracking{country: "se", logger: zap.NewNop()}
	trk.queue = common.NewQueueHandler(func(items []any) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, items...)
	}, 50)
	return trk, func() []any {
		trk.queue.Close()
		mu.Lock()
		defer mu.Unlock()
		return events
	}
}

func TestTrackQuery(t *testing.T) {
	trk, drain := queued(t)
	r := httptest.NewRequest("GET", "/api/groups?q=zet", nil)
	r.Header.Set("Referer", "http://localhost:3000/groups")
	trk.TrackQuery(4, types.FilterState{Instruments: []int{1}, Query: "zet", Direction: types.Descending}, 1, r)

	events := drain()
	require.Len(t, events, 1)
	q, ok := events[0].(*QueryEventData)
	require.True(t, ok)
	assert.Equal(t, QueryEvent, q.Event)
	assert.Equal(t, 4, q.SessionId)
	assert.Equal(t, "se", q.Country)
	assert.Equal(t, "name:desc", q.Sort)
	assert.Equal(t, 1, q.NumberOfResults)
	assert.Equal(t, "http://localhost:3000/groups", q.Referer)
	assert.NotEmpty(t, q.EventId)
}

func TestTrackSessionPrefersProxyHeaders(t *testing.T) {
	trk, drain := queued(t)
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "10.0.0.8")
	r.Header.Set("Accept-Language", "sv-SE")
	trk.TrackSession(9, r)

	events := drain()
	require.Len(t, events, 1)
	s := events[0].(*Session)
	assert.Equal(t, "10.0.0.8", s.Ip)
	assert.Equal(t, "sv-SE", s.Language)
	assert.Equal(t, SessionEvent, s.Event)
}

func TestNewRabbitTrackingFailsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	trk, err := NewRabbitTracking(fmt.Sprintf("amqp://guest:guest@%s/", addr), "se", nil)
	assert.Error(t, err)
	assert.Nil(t, trk)
}
