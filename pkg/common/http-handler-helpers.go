package common

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/matst80/gig-finder/pkg/common/jsoncompat"
	"github.com/matst80/gig-finder/pkg/types"
)

type JsonHandlerFunc func(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error

// HttpError lets a handler choose the status code of a failed request.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JsonHandler(trk types.Tracking, logger *zap.Logger, fn JsonHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(trk, w, r)
		w.Header().Set("Content-Type", "application/json")
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		err := fn(w, r, sessionId, jsoncompat.NewEncoder(w))
		if err != nil {
			logger.Warn("error handling request", zap.String("path", r.URL.Path), zap.Error(err))
			WriteError(w, err)
		}
	}
}

// WriteError writes err as a JSON body. Handlers that already started the
// response should not return an error.
func WriteError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	body := errorBody{Error: err.Error()}
	var he *HttpError
	if errors.As(err, &he) {
		code = he.Code
		body.Error = he.Message
	}
	var fe interface{ FieldErrors() map[string]string }
	if errors.As(err, &fe) {
		body.Fields = fe.FieldErrors()
	}
	w.WriteHeader(code)
	_ = jsoncompat.NewEncoder(w).Encode(body)
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
