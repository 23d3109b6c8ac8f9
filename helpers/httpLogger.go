package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type reqStartKey struct{}

type transportWithLogger struct {
	Transport http.RoundTripper
}

// NewTransportWithLogger wraps a RoundTripper so every outbound API call
// (Slack, mainly) is logged with latency and body.
func NewTransportWithLogger(transport http.RoundTripper) http.RoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &transportWithLogger{Transport: transport}
}

func (t *transportWithLogger) RoundTrip(req *http.Request) (*http.Response, error) {

	ctx := context.WithValue(req.Context(), reqStartKey{}, time.Now())
	req = req.WithContext(ctx)

	var reqBodyBytes []byte
	if req.Body != nil {
		reqBodyBytes, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(reqBodyBytes))
	}

	event := log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String())

	if len(reqBodyBytes) > 0 {
		if json.Valid(reqBodyBytes) {
			event = event.RawJSON("body", reqBodyBytes)
		} else {
			event = event.Bytes("body", reqBodyBytes)
		}
	}

	event.Msg("API request:")

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	var respBodyBytes []byte
	if resp.Body != nil {
		respBodyBytes, _ = io.ReadAll(resp.Body)
		resp.Body = io.NopCloser(bytes.NewBuffer(respBodyBytes))
	}

	switch {
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		event = log.Warn()
	case resp.StatusCode >= http.StatusInternalServerError:
		event = log.Error()
	default:
		event = log.Debug()
	}

	event = event.Str("method", resp.Request.Method).
		Str("url", resp.Request.URL.String()).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(ctx.Value(reqStartKey{}).(time.Time)))

	if len(respBodyBytes) > 0 {
		if json.Valid(respBodyBytes) {
			event = event.RawJSON("body", respBodyBytes)
		} else {
			event = event.Bytes("body", respBodyBytes)
		}
	}

	event.Msg("API response:")

	return resp, err
}
