// Package http is the ops API transport: a chi-backed router seam, the
// server lifecycle and the JSON envelope every endpoint answers with
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "ladderbot/internal/platform/errors"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Envelope wraps every ops API body. Errors fill Code and Error, successes
// fill Data.
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Response is what return-style handlers produce. An error Body overrides
// Status with the error's mapped status.
type Response struct {
	Status int
	Body   any
}

// OK is a 200 carrying data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Accepted is a 202 for work that carries on after the reply
func Accepted(data any) Response { return Response{Status: stdhttp.StatusAccepted, Body: data} }

// Error answers with err's mapped status and wire form
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a return-style handler to net/http
func Handle(h func(*stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		writeEnvelope(w, r, h(r).envelope())
	}
}

func (resp Response) envelope() Envelope {
	if err, ok := resp.Body.(error); ok && err != nil {
		wire := perr.WireFrom(err)
		status := perr.HTTPStatus(err)
		return Envelope{StatusCode: status, Code: wire.Code, Error: wire.Message}
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	return Envelope{StatusCode: status, Data: resp.Body}
}

// writeEnvelope fills the derived fields and writes env as JSON
func writeEnvelope(w stdhttp.ResponseWriter, r *stdhttp.Request, env Envelope) {
	env.Status = stdhttp.StatusText(env.StatusCode)
	env.RequestID = chimw.GetReqID(r.Context())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(env.StatusCode)
	_ = json.NewEncoder(w).Encode(env)
}

// WriteError writes err in the envelope outside a Handle chain, e.g. from
// middleware
func WriteError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	writeEnvelope(w, r, Error(err).envelope())
}
