package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/indigo-web/rawhttp/http/method"
	"github.com/indigo-web/rawhttp/http/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rawhttp"

// Metrics is the set of collectors the server reports into. All of them are
// registered at once by New.
type Metrics struct {
	connectionsTotal  prometheus.Counter
	connectionsActive prometheus.Gauge
	connectionPanics  prometheus.Counter
	acceptErrors      prometheus.Counter
	parseErrors       *prometheus.CounterVec
	requestsTotal     *prometheus.CounterVec
	handlerDuration   *prometheus.HistogramVec
}

// New registers the collectors in the registerer. A nil registerer results in
// a private registry, so nothing leaks into prometheus.DefaultRegisterer.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	factory := promauto.With(registerer)

	return &Metrics{
		connectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Total number of accepted connections",
		}),
		connectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of connections being served right now",
		}),
		connectionPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_panics_total",
			Help:      "Total number of panics recovered in connection goroutines",
		}),
		acceptErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accept_errors_total",
			Help:      "Total number of failed accepts",
		}),
		parseErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Total number of rejected requests by the rejection reason",
		}, []string{"kind"}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of served requests by method and response code",
		}, []string{"method", "code"}),
		handlerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handler_duration_seconds",
			Help:      "Time spent in handlers in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// ConnOpened must be paired with ConnClosed.
func (m *Metrics) ConnOpened() {
	m.connectionsTotal.Inc()
	m.connectionsActive.Inc()
}

func (m *Metrics) ConnClosed() {
	m.connectionsActive.Dec()
}

func (m *Metrics) Panic() {
	m.connectionPanics.Inc()
}

func (m *Metrics) AcceptError() {
	m.acceptErrors.Inc()
}

// ParseError counts a rejected request, labeled by the rejection reason.
func (m *Metrics) ParseError(err error) {
	m.parseErrors.WithLabelValues(ErrorKind(err)).Inc()
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{status.ErrIncompleteRequest, "incomplete_request"},
	{status.ErrMissingMethod, "missing_method"},
	{status.ErrMissingPath, "missing_path"},
	{status.ErrMissingVersion, "missing_version"},
	{status.ErrMalformedHeaderText, "malformed_header_text"},
	{status.ErrBadRequest, "bad_request"},
	{status.ErrTooManyHeaders, "too_many_headers"},
	{status.ErrRequestEntityTooLarge, "request_entity_too_large"},
	{status.ErrRequestTimeout, "request_timeout"},
}

// ErrorKind names the rejection reason. The set of names is fixed, so the label
// cardinality stays bounded no matter what errors are passed.
func ErrorKind(err error) string {
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}

	return "other"
}

// Request counts a request that reached the routing stage.
func (m *Metrics) Request(meth method.Method, code status.Code, took time.Duration) {
	label := methodLabel(meth)
	m.requestsTotal.WithLabelValues(label, strconv.Itoa(int(code))).Inc()
	m.handlerDuration.WithLabelValues(label).Observe(took.Seconds())
}

// methodLabel keeps the label cardinality bounded: arbitrary verbs are collapsed
// into a single value.
func methodLabel(m method.Method) string {
	if m.IsOther() {
		return "OTHER"
	}

	return m.String()
}
