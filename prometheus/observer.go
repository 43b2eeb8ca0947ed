// Package prometheus exports harvest measurements as Prometheus metrics.
package prometheus

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/fwojciec/harvest"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ harvest.Observer = (*Observer)(nil)

// Observer records harvest measurements in Prometheus collectors.
// Observer is safe for concurrent use.
type Observer struct {
	attemptsFailed *prom.CounterVec
	fetches        *prom.CounterVec
	fetchAttempts  *prom.HistogramVec
	pages          prom.Counter
	posts          prom.Counter
	queued         prom.Counter
	queueDepth     prom.Gauge
}

// NewObserver registers the collectors against reg. A nil reg uses the
// default registerer.
func NewObserver(reg prom.Registerer) (*Observer, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	o := &Observer{
		attemptsFailed: prom.NewCounterVec(prom.CounterOpts{
			Name: "harvest_attempts_failed_total",
			Help: "Failed fetch attempts partitioned by kind and error class.",
		}, []string{"kind", "class"}),
		fetches: prom.NewCounterVec(prom.CounterOpts{
			Name: "harvest_fetches_total",
			Help: "Finished fetch actions partitioned by kind and outcome.",
		}, []string{"kind", "ok"}),
		fetchAttempts: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "harvest_fetch_attempts",
			Help:    "Attempts used per finished fetch action.",
			Buckets: []float64{1, 2, 3, 5, 10, 20},
		}, []string{"kind"}),
		pages: prom.NewCounter(prom.CounterOpts{
			Name: "harvest_pages_total",
			Help: "Listing pages crawled.",
		}),
		posts: prom.NewCounter(prom.CounterOpts{
			Name: "harvest_posts_total",
			Help: "Posts found on listing pages.",
		}),
		queued: prom.NewCounter(prom.CounterOpts{
			Name: "harvest_downloads_queued_total",
			Help: "Media downloads added to the queue.",
		}),
		queueDepth: prom.NewGauge(prom.GaugeOpts{
			Name: "harvest_queue_depth",
			Help: "Downloads waiting in the queue.",
		}),
	}
	for _, c := range []prom.Collector{
		o.attemptsFailed,
		o.fetches,
		o.fetchAttempts,
		o.pages,
		o.posts,
		o.queued,
		o.queueDepth,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register harvest collector: %w", err)
		}
	}
	return o, nil
}

func (o *Observer) AttemptFailed(kind harvest.FetchKind, class harvest.ErrorClass) {
	o.attemptsFailed.WithLabelValues(kind.String(), class.String()).Inc()
}

func (o *Observer) FetchFinished(kind harvest.FetchKind, ok bool, attempts int) {
	o.fetches.WithLabelValues(kind.String(), strconv.FormatBool(ok)).Inc()
	if attempts > 0 {
		o.fetchAttempts.WithLabelValues(kind.String()).Observe(float64(attempts))
	}
}

func (o *Observer) PageCrawled(posts, queued int) {
	o.pages.Inc()
	o.posts.Add(float64(posts))
	o.queued.Add(float64(queued))
}

func (o *Observer) QueueDepth(n int) {
	o.queueDepth.Set(float64(n))
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prom.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
