package tubi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"tubi-epg/consts"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	ErrEmptyChannelList = errors.New("channel list is empty")
	ErrEmptySchedule    = errors.New("schedule result is empty")
)

type Program struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type VideoResource struct {
	Manifest struct {
		URL string `json:"url"`
	} `json:"manifest"`
}

// Row is one channel as returned by the schedule endpoint.
type Row struct {
	ContentID ContentID `json:"content_id"`
	Title     *string   `json:"title"`
	Images    struct {
		Thumbnail []string `json:"thumbnail"`
	} `json:"images"`
	VideoResources []VideoResource `json:"video_resources"`
	Programs       []Program       `json:"programs"`
}

// TitleOr returns the title, or def when the row carries none.
func (r Row) TitleOr(def string) string {
	if r.Title == nil {
		return def
	}
	return *r.Title
}

func (r Row) Thumbnail() string {
	if len(r.Images.Thumbnail) == 0 {
		return ""
	}
	return r.Images.Thumbnail[0]
}

func (r Row) StreamURL() string {
	if len(r.VideoResources) == 0 {
		return ""
	}
	return r.VideoResources[0].Manifest.URL
}

type scheduleResponse struct {
	Rows []Row `json:"rows"`
}

type Schedule struct {
	Rows     []Row
	Requests int
	Failed   int
}

// Batches splits ids into consecutive chunks of at most size.
func Batches(ids []string, size int) [][]string {
	if size <= 0 {
		size = consts.BATCH_SIZE
	}
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}

type ScheduleClient struct {
	Client    *http.Client
	URL       string
	BatchSize int
	// Limiter paces batch requests; nil means unpaced.
	Limiter *rate.Limiter
	Log     logrus.FieldLogger
}

func NewScheduleClient(client *http.Client, url string, perSecond float64, log logrus.FieldLogger) *ScheduleClient {
	s := &ScheduleClient{Client: client, URL: url, BatchSize: consts.BATCH_SIZE, Log: log}
	if perSecond > 0 {
		s.Limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return s
}

// Fetch requests every batch in order. A failed batch is logged and skipped;
// the remaining batches still run.
func (s *ScheduleClient) Fetch(ctx context.Context, ids []string) (*Schedule, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyChannelList
	}
	res := &Schedule{}
	batches := Batches(ids, s.BatchSize)
	for i, batch := range batches {
		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		res.Requests++
		rows, err := s.fetchBatch(ctx, batch)
		if err != nil {
			res.Failed++
			s.Log.WithFields(logrus.Fields{
				"batch": fmt.Sprintf("%d/%d", i+1, len(batches)),
				"ids":   len(batch),
			}).WithError(err).Warn("failed to fetch schedule batch")
			continue
		}
		res.Rows = append(res.Rows, rows...)
	}
	if len(res.Rows) == 0 {
		return res, ErrEmptySchedule
	}
	return res, nil
}

func (s *ScheduleClient) fetchBatch(ctx context.Context, batch []string) ([]Row, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("content_id", strings.Join(batch, ","))
	u.RawQuery = q.Encode()

	res, err := fetchUrl(ctx, s.Client, u.String(), map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var body scheduleResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return body.Rows, nil
}
