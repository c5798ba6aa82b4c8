package respool

import (
	"time"
)

const (
	MetricAcquire     = "respool.acquire"
	MetricAcquireWait = "respool.acquire_wait"
	MetricRelease     = "respool.release"
	MetricAvailable   = "respool.available"

	tagResultAcquired  = "result:acquired"
	tagResultExhausted = "result:exhausted"
	tagResultCanceled  = "result:canceled"
	tagResultClosed    = "result:closed"

	samplingRate = 1.0
)

func (p *Pool[T]) count(name string, tags ...string) {
	if err := p.stats.Count(name, 1, append(tags, p.tags...), samplingRate); err != nil {
		p.logger.Warn().Err(err).Str("metric", name).Msg("failed to send statsd count")
	}
}

func (p *Pool[T]) gaugeAvailable(available int) {
	if err := p.stats.Gauge(MetricAvailable, float64(available), p.tags, samplingRate); err != nil {
		p.logger.Warn().Err(err).Str("metric", MetricAvailable).Msg("failed to send statsd gauge")
	}
}

func (p *Pool[T]) timingSince(name string, start time.Time, tags ...string) {
	if err := p.stats.Timing(name, time.Since(start), append(tags, p.tags...), samplingRate); err != nil {
		p.logger.Warn().Err(err).Str("metric", name).Msg("failed to send statsd timing")
	}
}
