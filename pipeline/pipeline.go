// Package pipeline runs the per-country scrape: resolve proxies, fetch and
// decode the catalog page, fetch schedules, compose and persist artifacts.
// A failing country never stops the run.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"tubi-epg/consts"
	"tubi-epg/epg"
	"tubi-epg/metrics"
	"tubi-epg/playlist"
	"tubi-epg/proxy"
	"tubi-epg/store"
	"tubi-epg/tubi"

	"github.com/sirupsen/logrus"
)

type Resolver interface {
	Resolve(ctx context.Context, country string) []proxy.Candidate
}

type ScheduleFetcher interface {
	Fetch(ctx context.Context, ids []string) (*tubi.Schedule, error)
}

type Runner struct {
	Resolver     Resolver
	Pages        tubi.PageFetcher
	Schedule     ScheduleFetcher
	Store        *store.Store
	Metrics      *metrics.Metrics
	GuideBaseURL string
	Log          logrus.FieldLogger
}

type Outcome struct {
	Country      string
	Err          error
	Attempts     int
	Entries      int
	Channels     int
	Programmes   int
	PlaylistPath string
	GuidePath    string
}

type Report struct {
	Outcomes []Outcome
}

func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Run processes countries one after another.
func (r *Runner) Run(ctx context.Context, countries []string) *Report {
	report := &Report{}
	for _, country := range countries {
		country = strings.ToUpper(strings.TrimSpace(country))
		out := r.RunCountry(ctx, country)
		log := r.Log.WithField("country", country)
		if out.Err != nil {
			log.WithError(out.Err).Error("failed to build artifacts")
		} else {
			log.WithFields(logrus.Fields{
				"entries":    out.Entries,
				"channels":   out.Channels,
				"programmes": out.Programmes,
			}).Info("country done")
		}
		r.Metrics.CountryRuns.WithLabelValues(metrics.Result(out.Err)).Inc()
		report.Outcomes = append(report.Outcomes, out)
	}
	return report
}

func (r *Runner) RunCountry(ctx context.Context, country string) Outcome {
	out := Outcome{Country: country}
	log := r.Log.WithField("country", country)

	candidates := r.Resolver.Resolve(ctx, country)
	if len(candidates) == 0 {
		out.Err = proxy.ErrNoEgressRoutes
		return out
	}

	ctrl := tubi.NewController(r.Pages, log)
	ctrl.OnAttempt = func(_ proxy.Candidate, err error) {
		r.Metrics.ProxyAttempts.WithLabelValues(country, metrics.Result(err)).Inc()
	}
	payload, err := ctrl.Fetch(ctx, candidates)
	out.Attempts = ctrl.Attempts()
	if err != nil {
		out.Err = err
		return out
	}
	log.WithField("attempts", out.Attempts).Info("fetched catalog data")

	groups, ids := tubi.BuildIndex(payload)
	log.WithField("channels", len(ids)).Info("built channel list")
	if len(ids) == 0 {
		out.Err = tubi.ErrEmptyChannelList
		return out
	}

	schedule, err := r.Schedule.Fetch(ctx, ids)
	if schedule != nil {
		r.Metrics.ScheduleBatches.WithLabelValues(country, "success").Add(float64(schedule.Requests - schedule.Failed))
		r.Metrics.ScheduleBatches.WithLabelValues(country, "failure").Add(float64(schedule.Failed))
	}
	if err != nil {
		out.Err = err
		return out
	}
	log.WithField("rows", len(schedule.Rows)).Info("fetched schedule")

	code := strings.ToLower(country)
	m3u, entries := playlist.Compose(schedule.Rows, groups, playlist.GuideURL(r.GuideBaseURL, code))
	guide := epg.Compose(schedule.Rows)
	xmlData, err := guide.Marshal()
	if err != nil {
		out.Err = fmt.Errorf("marshal guide: %w", err)
		return out
	}
	out.Entries = entries
	out.Channels = len(guide.Channels)
	out.Programmes = len(guide.Programmes)

	paths, err := r.Store.WriteAll(
		store.Artifact{Name: fmt.Sprintf(consts.PLAYLIST_FILENAME, code), Data: []byte(m3u)},
		store.Artifact{Name: fmt.Sprintf(consts.EPG_FILENAME, code), Data: xmlData},
	)
	if err != nil {
		r.Metrics.ArtifactFailures.WithLabelValues(country).Inc()
		out.Err = err
		return out
	}
	out.PlaylistPath, out.GuidePath = paths[0], paths[1]
	log.WithFields(logrus.Fields{
		"playlist": out.PlaylistPath,
		"guide":    out.GuidePath,
	}).Info("saved artifacts")

	r.Metrics.PlaylistEntries.WithLabelValues(country).Set(float64(out.Entries))
	r.Metrics.GuideProgrammes.WithLabelValues(country).Set(float64(out.Programmes))
	return out
}
