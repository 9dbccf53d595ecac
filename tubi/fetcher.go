package tubi

import (
	"context"
	"errors"
	"fmt"
	"time"
	"tubi-epg/consts"
	"tubi-epg/proxy"

	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoCandidates         = errors.New("no proxy candidates")
	ErrCandidatesExhausted  = errors.New("proxy candidates exhausted")
	ErrRetryBudgetExhausted = errors.New("retry budget exhausted")
)

// PageFetcher retrieves the raw catalog page through one candidate.
type PageFetcher interface {
	FetchPage(ctx context.Context, c proxy.Candidate) ([]byte, error)
}

type PageClient struct {
	URL        string
	Timeout    time.Duration
	SkipVerify bool
}

func (p *PageClient) FetchPage(ctx context.Context, c proxy.Candidate) ([]byte, error) {
	client, err := proxy.NewClient(c, p.Timeout, p.SkipVerify)
	if err != nil {
		return nil, err
	}
	res, err := fetchUrl(ctx, client, p.URL, map[string]string{
		"Accept":          "text/html,application/xhtml+xml",
		"Accept-Encoding": "gzip, br",
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return readBody(res)
}

// Controller tries candidates in order until one yields a decoded payload.
// Every Fetch starts a new attempt count against the retry budget.
type Controller struct {
	Pages      PageFetcher
	MaxRetries int
	Log        logrus.FieldLogger
	// OnAttempt, if set, is called after every attempt with its outcome.
	OnAttempt func(c proxy.Candidate, err error)

	attempts int
}

func NewController(pages PageFetcher, log logrus.FieldLogger) *Controller {
	return &Controller{Pages: pages, MaxRetries: consts.MAX_RETRIES, Log: log}
}

// Attempts reports how many candidates the last Fetch tried.
func (c *Controller) Attempts() int {
	return c.attempts
}

func (c *Controller) Fetch(ctx context.Context, candidates []proxy.Candidate) (*Payload, error) {
	c.attempts = 0
	budget := min(c.MaxRetries, len(candidates))
	if budget <= 0 {
		return nil, ErrNoCandidates
	}

	var payload *Payload
	err := retry.Do(
		func() error {
			candidate := candidates[c.attempts]
			c.attempts++
			p, err := c.try(ctx, candidate)
			if c.OnAttempt != nil {
				c.OnAttempt(candidate, err)
			}
			if err != nil {
				return err
			}
			payload = p
			return nil
		},
		retry.Attempts(uint(budget)),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			c.Log.WithFields(logrus.Fields{
				"attempt": n + 1,
				"proxy":   candidates[n].String(),
			}).WithError(err).Warn("proxy attempt failed")
		}),
	)
	if err == nil {
		return payload, nil
	}
	if budget == c.MaxRetries && c.attempts >= budget {
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetryBudgetExhausted, c.attempts, err)
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrCandidatesExhausted, c.attempts, err)
}

func (c *Controller) try(ctx context.Context, candidate proxy.Candidate) (*Payload, error) {
	log := c.Log.WithFields(logrus.Fields{"proxy": candidate.String(), "attempt": c.attempts})
	log.Info("trying proxy")
	page, err := c.Pages.FetchPage(ctx, candidate)
	if err != nil {
		return nil, err
	}
	payload, err := ExtractPayload(page)
	if err != nil {
		return nil, err
	}
	log.WithField("shape", payload.Shape.String()).Info("decoded catalog data")
	return payload, nil
}
