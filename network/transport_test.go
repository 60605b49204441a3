package network

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type failingRoundTripper struct {
	calls atomic.Int32
}

func (f *failingRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	f.calls.Add(1)
	return nil, errors.New("connection refused")
}

func recordingSleeper(slept *[]time.Duration) Sleeper {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func TestTransportGet(t *testing.T) {
	Convey("Given a transport in front of a test server", t, func() {
		var (
			hits     atomic.Int32
			statuses []int
			bodies   []string
			lastReq  *http.Request
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			i := int(hits.Add(1)) - 1
			lastReq = r
			if i >= len(statuses) {
				i = len(statuses) - 1
			}
			w.WriteHeader(statuses[i])
			_, _ = w.Write([]byte(bodies[i]))
		}))
		defer server.Close()

		var slept []time.Duration
		transport := NewTransport(nil, WithSleeper(recordingSleeper(&slept)))

		Convey("429, 429, 200 yields the third attempt's body", func() {
			statuses = []int{429, 429, 200}
			bodies = []string{"", "", `[{"id":1}]`}

			res := transport.Get(context.Background(), Request{URL: server.URL})
			So(res.Outcome, ShouldEqual, OutcomeOK)
			So(string(res.Body), ShouldEqual, `[{"id":1}]`)
			So(hits.Load(), ShouldEqual, 3)
			So(slept, ShouldHaveLength, 2)
			for _, d := range slept {
				So(d, ShouldBeGreaterThanOrEqualTo, 5*time.Second)
			}
		})

		Convey("Persistent 429 exhausts the attempts without a trailing cooldown", func() {
			statuses = []int{429}
			bodies = []string{""}

			res := transport.Get(context.Background(), Request{URL: server.URL})
			So(res.Outcome, ShouldEqual, OutcomeRateLimited)
			So(res.Body, ShouldBeEmpty)
			So(hits.Load(), ShouldEqual, 3)
			So(slept, ShouldHaveLength, 2)
		})

		Convey("An empty 200 is Empty, not an error", func() {
			statuses = []int{200}
			bodies = []string{"  \n\t"}

			res := transport.Get(context.Background(), Request{URL: server.URL})
			So(res.Outcome, ShouldEqual, OutcomeEmpty)
			So(res.Body, ShouldBeEmpty)
			So(hits.Load(), ShouldEqual, 1)
		})

		Convey("Other statuses are not retried", func() {
			statuses = []int{503}
			bodies = []string{"down"}

			res := transport.Get(context.Background(), Request{URL: server.URL})
			So(res.Outcome, ShouldEqual, OutcomeHTTPError)
			So(res.Status, ShouldEqual, 503)
			So(res.Body, ShouldBeEmpty)
			So(hits.Load(), ShouldEqual, 1)
		})

		Convey("Params and headers are sent", func() {
			statuses = []int{200}
			bodies = []string{"ok"}

			res := transport.Get(context.Background(), Request{
				URL:    server.URL + "/path?fixed=1",
				Params: url.Values{"q": {"a b"}},
				Header: http.Header{"Referer": {"https://example.com/"}},
			})
			So(res.OK(), ShouldBeTrue)
			So(lastReq.URL.Query().Get("fixed"), ShouldEqual, "1")
			So(lastReq.URL.Query().Get("q"), ShouldEqual, "a b")
			So(lastReq.Header.Get("Referer"), ShouldEqual, "https://example.com/")
			So(lastReq.Header.Get("User-Agent"), ShouldNotBeEmpty)
		})

		Convey("The User-Agent can be overridden per request", func() {
			statuses = []int{200}
			bodies = []string{"ok"}

			transport.Get(context.Background(), Request{
				URL:    server.URL,
				Header: http.Header{"User-Agent": {"custom"}},
			})
			So(lastReq.Header.Get("User-Agent"), ShouldEqual, "custom")
		})
	})

	Convey("Retried error responses keep the connection alive", t, func() {
		var (
			hits  atomic.Int32
			conns atomic.Int32
		)
		server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte("slow down"))
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		server.Config.ConnState = func(_ net.Conn, state http.ConnState) {
			if state == http.StateNew {
				conns.Add(1)
			}
		}
		server.Start()
		defer server.Close()

		var slept []time.Duration
		transport := NewTransport(nil, WithSleeper(recordingSleeper(&slept)))

		res := transport.Get(context.Background(), Request{URL: server.URL})
		So(res.Outcome, ShouldEqual, OutcomeOK)
		So(hits.Load(), ShouldEqual, 3)
		So(conns.Load(), ShouldEqual, 1)
	})

	Convey("Given a transport whose connection always fails", t, func() {
		rt := &failingRoundTripper{}
		var slept []time.Duration
		transport := NewTransport(nil,
			WithClient(&http.Client{Transport: rt}),
			WithSleeper(recordingSleeper(&slept)),
		)

		Convey("Every attempt is made and none sleeps", func() {
			res := transport.Get(context.Background(), Request{URL: "http://unreachable.invalid"})
			So(res.Outcome, ShouldEqual, OutcomeNetworkError)
			So(res.Outcome.Transient(), ShouldBeTrue)
			So(res.Err, ShouldNotBeNil)
			So(rt.calls.Load(), ShouldEqual, 3)
			So(slept, ShouldBeEmpty)
		})

		Convey("The attempt count is configurable", func() {
			transport := NewTransport(nil, WithClient(&http.Client{Transport: rt}), WithMaxAttempts(1))
			transport.Get(context.Background(), Request{URL: "http://unreachable.invalid"})
			So(rt.calls.Load(), ShouldEqual, 1)
		})
	})

	Convey("Every attempt passes the throttle", t, func() {
		rt := &failingRoundTripper{}
		throttle := NewThrottle(20 * time.Millisecond)
		transport := NewTransport(throttle, WithClient(&http.Client{Transport: rt}))

		start := time.Now()
		transport.Get(context.Background(), Request{URL: "http://unreachable.invalid"})
		So(time.Since(start), ShouldBeGreaterThanOrEqualTo, 39*time.Millisecond)
	})

	Convey("A cancelled context abandons the cooldown", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		transport := NewTransport(nil)
		start := time.Now()
		res := transport.Get(ctx, Request{URL: server.URL})
		So(res.Outcome, ShouldEqual, OutcomeRateLimited)
		So(time.Since(start), ShouldBeLessThan, 5*time.Second)
	})
}

func TestDecodeJSON(t *testing.T) {
	Convey("DecodeJSON reports failure instead of panicking", t, func() {
		var v []map[string]any
		So(DecodeJSON([]byte(`[{"a":1}]`), &v), ShouldBeTrue)
		So(v, ShouldHaveLength, 1)

		So(DecodeJSON(nil, &v), ShouldBeFalse)
		So(DecodeJSON([]byte("<html>"), &v), ShouldBeFalse)
		So(DecodeJSON([]byte(`{"success":false}`), &v), ShouldBeFalse)
	})
}

func TestRedact(t *testing.T) {
	Convey("Redact drops query and userinfo", t, func() {
		So(redact("https://u:p@api.example.com/index.php?api_key=secret"), ShouldEqual, "https://api.example.com/index.php")
	})
}
