package web

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/gorilla/schema"
	"github.com/nyaruka/voicex/runtime"
	"github.com/shopspring/decimal"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.SetAliasTag("form")
	decoder.RegisterConverter(decimal.Decimal{}, func(value string) reflect.Value {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(d)
	})
}

// Call is the normalized read-only projection of one inbound call event. It is created per
// event and carries a single use respond capability bound to that event's exchange.
type Call struct {
	Session      string          `form:"sessionId"`
	Active       bool            `form:"isActive"`
	Direction    string          `form:"direction"`
	Caller       string          `form:"callerNumber"`
	Callee       string          `form:"destinationNumber"`
	Digits       string          `form:"dtmfDigits"`
	RecordingURL string          `form:"recordingUrl"`
	Duration     int             `form:"durationInSeconds"`
	Currency     string          `form:"currencyCode"`
	Amount       decimal.Decimal `form:"amount"`
	Status       string          `form:"status"`
	SessionState string          `form:"callSessionState"`

	responder *responder
}

// Respond writes the response to the event that created this call record - a plain text
// body with status 500 if err is non-nil, 200 otherwise. It can only be used once.
func (c *Call) Respond(err error, payload string) error {
	return c.responder.respond(err, payload)
}

// Responded returns whether this call record's respond capability has been used
func (c *Call) Responded() bool {
	return c.responder.used
}

// responder is the one-shot capability to respond to an inbound call event
type responder struct {
	w    http.ResponseWriter
	used bool
}

func (r *responder) respond(callErr error, payload string) error {
	if r.used {
		return fmt.Errorf("response already written for call event")
	}
	r.used = true

	status := http.StatusOK
	if callErr != nil {
		status = http.StatusInternalServerError
	}

	r.w.Header().Set("Content-Type", "text/plain")
	r.w.WriteHeader(status)
	_, err := r.w.Write([]byte(payload))
	return err
}

// ReadCall reads an inbound call event from the passed in request, which can be form
// encoded (the platform's native webhook encoding) or JSON
func ReadCall(r *http.Request, maxBodyBytes int) (*Call, error) {
	form, err := eventValues(r, maxBodyBytes)
	if err != nil {
		return nil, err
	}

	call := &Call{}
	if err := decoder.Decode(call, form); err != nil {
		return nil, fmt.Errorf("unable to decode call event: %w", err)
	}
	return call, nil
}

// eventValues extracts the event payload fields as form values, flattening JSON bodies so
// that both encodings decode the same way
func eventValues(r *http.Request, maxBodyBytes int) (url.Values, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, int64(maxBodyBytes))

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("error reading event body: %w", err)
		}

		form := url.Values{}
		err = jsonparser.ObjectEach(body, func(key []byte, value []byte, valueType jsonparser.ValueType, offset int) error {
			if valueType != jsonparser.Null {
				form.Set(string(key), string(value))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("invalid json event body: %w", err)
		}
		return form, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("error parsing event form: %w", err)
	}
	return r.Form, nil
}

// CallHandler is the signature of application level call event handlers
type CallHandler func(ctx context.Context, rt *runtime.Runtime, call *Call) error

// NewCallHandler wraps an application call handler as a web handler, taking care of
// decoding the event and responding on error
func NewCallHandler(handler CallHandler) Handler {
	return func(ctx context.Context, rt *runtime.Runtime, r *http.Request, w http.ResponseWriter) error {
		call, err := ReadCall(r, rt.Config.MaxBodyBytes)
		if err != nil {
			return fmt.Errorf("unable to read call event: %w", err)
		}
		call.responder = &responder{w: w}

		if err := handler(ctx, rt, call); err != nil {
			slog.Error("error handling call event", "error", err, "session", call.Session)

			if !call.Responded() {
				return call.Respond(err, err.Error())
			}
			return nil
		}

		if !call.Responded() {
			slog.Warn("call handler completed without responding", "session", call.Session)
		}
		return nil
	}
}

// RegisterCallHandler registers an application call handler at the given pattern
func RegisterCallHandler(pattern string, handler CallHandler) {
	RegisterRoute(http.MethodPost, pattern, NewCallHandler(handler))
}
