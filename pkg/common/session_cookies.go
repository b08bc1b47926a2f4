package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matst80/gig-finder/pkg/types"
)

const sessionCookie = "sid"

func generateSessionId() int {
	return int(time.Now().UnixNano())
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    fmt.Sprintf("%d", sessionId),
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteNoneMode,
		HttpOnly: true,
		MaxAge:   2592000,
		Path:     "/",
	})
}

// HandleSessionCookie returns the caller's session id, issuing a new cookie
// (and a tracked session) when the request has none or an unreadable one.
func HandleSessionCookie(tracking types.Tracking, w http.ResponseWriter, r *http.Request) int {
	c, err := r.Cookie(sessionCookie)
	if err == nil {
		if id, err := strconv.Atoi(c.Value); err == nil {
			return id
		}
	}
	sessionId := generateSessionId()
	if tracking != nil {
		tracking.TrackSession(sessionId, r)
	}
	setSessionCookie(w, r, sessionId)
	return sessionId
}
