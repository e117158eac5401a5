package tracker

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushgatewayJob is the job name metrics are pushed under
const PushgatewayJob = "clworld"

// PushgatewayOutput pushes each row to a Prometheus pushgateway, so that
// runs can be followed on a remote dashboard. Every column is exported
// as the clworld_metric gauge labelled with the column name, and the
// step as the clworld_step gauge. Metrics are grouped by run group and
// run ID.
type PushgatewayOutput struct {
	pusher *push.Pusher
	metric *prometheus.GaugeVec
	step   prometheus.Gauge
}

// NewPushgatewayOutput returns a PushgatewayOutput pushing to the
// pushgateway at url
func NewPushgatewayOutput(url, groupID, runID string) (*PushgatewayOutput,
	error) {
	if url == "" {
		return nil, fmt.Errorf("newPushgatewayOutput: no pushgateway URL")
	}

	metric := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "clworld_metric",
		Help: "Epoch statistics of a continual learning run.",
	}, []string{"name"})
	step := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "clworld_step",
		Help: "Environment step of the last logged epoch.",
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(metric, step)

	pusher := push.New(url, PushgatewayJob).
		Gatherer(registry).
		Grouping("group_id", groupID).
		Grouping("run_id", runID)

	return &PushgatewayOutput{pusher: pusher, metric: metric, step: step}, nil
}

// Write sets the gauges to the values of the row and pushes them.
// Columns missing from the row are not pushed.
func (p *PushgatewayOutput) Write(step int, columns []string,
	values map[string]float64) error {
	p.step.Set(float64(step))
	p.metric.Reset()
	for _, c := range columns {
		if v, ok := values[c]; ok {
			p.metric.WithLabelValues(c).Set(v)
		}
	}

	if err := p.pusher.Push(); err != nil {
		return fmt.Errorf("write: could not push metrics: %w", err)
	}
	return nil
}

// Close does nothing, pushed metrics stay on the pushgateway
func (p *PushgatewayOutput) Close() error {
	return nil
}
