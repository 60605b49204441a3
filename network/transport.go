package network

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/imgscout/imgscout/constant"
	"github.com/imgscout/imgscout/key"
	"github.com/imgscout/imgscout/log"
	"github.com/spf13/viper"
)

// Outcome classifies a finished request.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeEmpty
	OutcomeRateLimited
	OutcomeHTTPError
	OutcomeNetworkError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeRateLimited:
		return "rate-limited"
	case OutcomeHTTPError:
		return "http-error"
	case OutcomeNetworkError:
		return "network-error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Transient reports whether a later retry might succeed.
func (o Outcome) Transient() bool {
	return o == OutcomeRateLimited || o == OutcomeNetworkError
}

const maxBodySize = 16 << 20

// Request is a GET against URL with Params merged into its query.
type Request struct {
	URL    string
	Params url.Values
	Header http.Header
}

// Response is the final result of a Get. Body is empty unless Outcome is OutcomeOK.
type Response struct {
	Outcome Outcome
	Status  int
	Body    []byte
	Err     error
}

func (r Response) OK() bool {
	return r.Outcome == OutcomeOK
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Transport performs throttled GET requests with bounded retries.
type Transport struct {
	name        string
	client      *http.Client
	throttle    *Throttle
	maxAttempts int
	cooldown    time.Duration
	timeout     time.Duration
	userAgent   string
	sleep       Sleeper
}

type Option func(*Transport)

// WithName tags log entries with the owning provider.
func WithName(name string) Option {
	return func(t *Transport) { t.name = name }
}

func WithClient(client *http.Client) Option {
	return func(t *Transport) { t.client = client }
}

// WithMaxAttempts sets the total number of attempts, the first one included.
func WithMaxAttempts(n int) Option {
	return func(t *Transport) {
		if n > 0 {
			t.maxAttempts = n
		}
	}
}

// WithCooldown sets the pause after a 429 response.
func WithCooldown(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.cooldown = d
		}
	}
}

// WithTimeout sets the per-attempt deadline.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(t *Transport) {
		if ua != "" {
			t.userAgent = ua
		}
	}
}

// WithSleeper replaces the cooldown sleep.
func WithSleeper(s Sleeper) Option {
	return func(t *Transport) { t.sleep = s }
}

// ConfigOptions returns the options derived from the network.* settings.
func ConfigOptions() []Option {
	return []Option{
		WithMaxAttempts(viper.GetInt(key.NetworkMaxAttempts)),
		WithCooldown(time.Duration(viper.GetInt(key.NetworkCooldown)) * time.Second),
		WithTimeout(time.Duration(viper.GetInt(key.NetworkTimeout)) * time.Second),
		WithUserAgent(viper.GetString(key.NetworkUserAgent)),
	}
}

// NewTransport creates a transport gated by throttle. A nil throttle never blocks.
func NewTransport(throttle *Throttle, options ...Option) *Transport {
	if throttle == nil {
		throttle = NewThrottle(0)
	}

	t := &Transport{
		throttle:    throttle,
		maxAttempts: 3,
		cooldown:    5 * time.Second,
		timeout:     15 * time.Second,
		userAgent:   constant.UserAgent,
		sleep:       sleep,
	}
	for _, option := range options {
		option(t)
	}
	if t.client == nil {
		t.client = NewClient()
	}
	return t
}

// Get runs req. Every attempt waits on the throttle first. 429 responses
// are retried after the cooldown and network failures right away. Any
// other status is final. When the attempts run out the last failure is
// returned with an empty body.
func (t *Transport) Get(ctx context.Context, req Request) Response {
	var last Response

	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if err := t.throttle.Wait(ctx); err != nil {
			return Response{Outcome: OutcomeNetworkError, Err: err}
		}

		res := t.do(ctx, req)
		t.logAttempt(req, attempt, res)

		switch res.Outcome {
		case OutcomeOK, OutcomeEmpty, OutcomeHTTPError:
			return res
		}

		last = res
		if ctx.Err() != nil {
			return last
		}

		if res.Outcome == OutcomeRateLimited && attempt < t.maxAttempts {
			if err := t.sleep(ctx, t.cooldown); err != nil {
				return last
			}
		}
	}

	return last
}

func (t *Transport) do(ctx context.Context, req Request) Response {
	target, err := buildURL(req)
	if err != nil {
		return Response{Outcome: OutcomeNetworkError, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Response{Outcome: OutcomeNetworkError, Err: err}
	}

	httpReq.Header.Set("User-Agent", t.userAgent)
	for name, values := range req.Header {
		httpReq.Header.Del(name)
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Response{Outcome: OutcomeNetworkError, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		drain(resp.Body)
		return Response{Outcome: OutcomeRateLimited, Status: resp.StatusCode}
	default:
		drain(resp.Body)
		return Response{Outcome: OutcomeHTTPError, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Response{Outcome: OutcomeNetworkError, Status: resp.StatusCode, Err: err}
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return Response{Outcome: OutcomeEmpty, Status: resp.StatusCode}
	}

	return Response{Outcome: OutcomeOK, Status: resp.StatusCode, Body: body}
}

// drain reads what is left of a small error body so the connection can be reused.
func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4<<10))
}

func buildURL(req Request) (string, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return "", err
	}
	if len(req.Params) > 0 {
		q := u.Query()
		for name, values := range req.Params {
			q[name] = values
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// logAttempt never records the query string, it may carry credentials.
func (t *Transport) logAttempt(req Request, attempt int, res Response) {
	fields := log.Fields{
		"provider": t.name,
		"attempt":  attempt,
		"outcome":  res.Outcome.String(),
		"status":   res.Status,
		"url":      redact(req.URL),
	}
	entry := log.WithFields(fields)

	switch res.Outcome {
	case OutcomeOK, OutcomeEmpty:
		entry.Debug("request finished")
	case OutcomeNetworkError:
		entry.WithError(res.Err).Warn("request failed")
	default:
		entry.Warn("request failed")
	}
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

// DecodeJSON unmarshals body into v and reports whether it worked.
func DecodeJSON(body []byte, v any) bool {
	if len(body) == 0 {
		return false
	}
	return json.Unmarshal(body, v) == nil
}
