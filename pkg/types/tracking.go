package types

import (
	"net/http"
)

type Tracking interface {
	TrackSession(sessionId int, r *http.Request)
	TrackQuery(sessionId int, state FilterState, resultLen int, r *http.Request)
	Close() error
}
