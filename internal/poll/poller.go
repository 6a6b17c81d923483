// Package poll periodically refreshes the source documents the page is
// rendered from.
package poll

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/whaleprotocol/watchdesk/internal/fetch"
	"github.com/whaleprotocol/watchdesk/internal/metrics"
	"github.com/whaleprotocol/watchdesk/internal/snapshot"
)

// Snapshot names for the two polled documents.
const (
	SourceReports = "reports"
	SourceTop20   = "top20"
)

// Poller refreshes each configured source on a fixed interval. A failed
// refresh keeps the previous snapshot; there is no retry storm, just the
// next tick.
type Poller struct {
	client   *fetch.Client
	store    *snapshot.Store
	log      *logrus.Entry
	metrics  *metrics.Metrics
	interval time.Duration
	sources  map[string]string // name -> URL
}

// New builds a poller for the given name→URL source set.
func New(client *fetch.Client, store *snapshot.Store, log *logrus.Entry, m *metrics.Metrics, interval time.Duration, sources map[string]string) *Poller {
	return &Poller{
		client:   client,
		store:    store,
		log:      log,
		metrics:  m,
		interval: interval,
		sources:  sources,
	}
}

// Run refreshes all sources immediately, then on every tick until ctx is
// cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.RefreshAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RefreshAll(ctx)
		}
	}
}

// RefreshAll refreshes every source once. Failures are logged and counted,
// never propagated; the page degrades to last-known data.
func (p *Poller) RefreshAll(ctx context.Context) {
	for name, url := range p.sources {
		p.refresh(ctx, name, url)
	}
}

func (p *Poller) refresh(ctx context.Context, name, url string) {
	p.metrics.FetchTotal.WithLabelValues(name).Inc()

	data, err := p.client.FetchJSON(ctx, url)
	if err != nil {
		p.metrics.FetchFailures.WithLabelValues(name).Inc()
		p.log.WithError(err).WithField("source", name).Warn("source refresh failed")
		return
	}

	if err := p.store.Put(name, data); err != nil {
		p.log.WithError(err).WithField("source", name).Error("snapshot write failed")
		return
	}
	p.log.WithFields(logrus.Fields{"source": name, "bytes": len(data)}).Debug("source refreshed")
}
