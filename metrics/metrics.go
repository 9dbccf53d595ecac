// Package metrics counts what a run did. The registry can be dumped in the
// node_exporter textfile format at the end of a run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Registry         *prometheus.Registry
	ProxyAttempts    *prometheus.CounterVec
	ScheduleBatches  *prometheus.CounterVec
	PlaylistEntries  *prometheus.GaugeVec
	GuideProgrammes  *prometheus.GaugeVec
	CountryRuns      *prometheus.CounterVec
	ArtifactFailures *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ProxyAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tubi_proxy_attempts_total",
			Help: "Catalog fetch attempts per proxy outcome.",
		}, []string{"country", "result"}),
		ScheduleBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tubi_schedule_batches_total",
			Help: "Schedule batch requests per outcome.",
		}, []string{"country", "result"}),
		PlaylistEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tubi_playlist_entries",
			Help: "Entries written to the playlist.",
		}, []string{"country"}),
		GuideProgrammes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tubi_guide_programmes",
			Help: "Programme elements written to the guide.",
		}, []string{"country"}),
		CountryRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tubi_country_runs_total",
			Help: "Countries processed per outcome.",
		}, []string{"result"}),
		ArtifactFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tubi_artifact_write_failures_total",
			Help: "Artifact writes that failed.",
		}, []string{"country"}),
	}
	m.Registry.MustRegister(m.ProxyAttempts, m.ScheduleBatches, m.PlaylistEntries,
		m.GuideProgrammes, m.CountryRuns, m.ArtifactFailures)
	return m
}

func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// WriteTextfile writes the registry to path. Empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
