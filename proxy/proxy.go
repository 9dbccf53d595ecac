// Package proxy resolves egress routes for a country and builds HTTP clients
// that dial through them.
package proxy

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"tubi-epg/consts"

	"github.com/sirupsen/logrus"
	xproxy "golang.org/x/net/proxy"
	"h12.io/socks"
)

var ErrNoEgressRoutes = errors.New("no egress routes")

// Candidate is one egress route as listed by the proxy directory.
type Candidate struct {
	Address  string // ip:port
	Protocol string // socks4, socks5 or http
}

func (c Candidate) String() string {
	return c.Protocol + "://" + c.Address
}

type Resolver struct {
	Client       *http.Client
	DirectoryURL string
	Protocol     string
	Log          logrus.FieldLogger
}

func NewResolver(directoryURL, protocol string, timeout time.Duration, skipVerify bool, log logrus.FieldLogger) *Resolver {
	return &Resolver{
		Client:       DirectClient(timeout, skipVerify),
		DirectoryURL: directoryURL,
		Protocol:     protocol,
		Log:          log,
	}
}

func (r *Resolver) directoryRequestURL(country string) (string, error) {
	u, err := url.Parse(r.DirectoryURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("request", "displayproxies")
	q.Set("protocol", r.Protocol)
	q.Set("timeout", "10000")
	q.Set("country", strings.ToUpper(country))
	q.Set("ssl", "all")
	q.Set("anonymity", "elite")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Resolve returns the candidates for country in directory order. Any failure
// yields an empty list; callers treat that as "skip this country".
func (r *Resolver) Resolve(ctx context.Context, country string) []Candidate {
	log := r.Log.WithField("country", country)
	endpoint, err := r.directoryRequestURL(country)
	if err != nil {
		log.WithError(err).Warn("invalid proxy directory url")
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.WithError(err).Warn("failed to build proxy directory request")
		return nil
	}
	req.Header.Set("User-Agent", consts.UA)
	res, err := r.Client.Do(req)
	if err != nil {
		log.WithError(err).Warn("failed to fetch proxies")
		return nil
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		log.WithField("status", res.StatusCode).Warn("failed to fetch proxies")
		return nil
	}

	var candidates []Candidate
	scanner := bufio.NewScanner(res.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		candidates = append(candidates, Candidate{Address: line, Protocol: r.Protocol})
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Warn("failed to read proxy list")
		return nil
	}
	log.WithField("count", len(candidates)).Info("fetched proxy candidates")
	return candidates
}

func baseTransport(skipVerify bool) *http.Transport {
	return &http.Transport{
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: skipVerify},
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

// DirectClient is a client that does not go through any egress route.
func DirectClient(timeout time.Duration, skipVerify bool) *http.Client {
	return &http.Client{Timeout: timeout, Transport: baseTransport(skipVerify)}
}

// NewClient returns a client whose every request is routed through c.
func NewClient(c Candidate, timeout time.Duration, skipVerify bool) (*http.Client, error) {
	t := baseTransport(skipVerify)
	// one-shot route, don't keep its connections around
	t.DisableKeepAlives = true
	switch c.Protocol {
	case "http", "https":
		u, err := url.Parse(c.String())
		if err != nil {
			return nil, fmt.Errorf("parse proxy %s: %w", c, err)
		}
		t.Proxy = http.ProxyURL(u)
	case "socks5":
		d, err := xproxy.SOCKS5("tcp", c.Address, nil, &net.Dialer{Timeout: timeout})
		if err != nil {
			return nil, fmt.Errorf("socks5 dialer %s: %w", c, err)
		}
		if cd, ok := d.(xproxy.ContextDialer); ok {
			t.DialContext = cd.DialContext
		} else {
			t.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return d.Dial(network, addr)
			}
		}
	case "socks4":
		dial := socks.Dial(fmt.Sprintf("%s?timeout=%s", c, timeout))
		t.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dial(network, addr)
		}
	default:
		return nil, fmt.Errorf("unsupported proxy protocol %q", c.Protocol)
	}
	return &http.Client{Timeout: timeout, Transport: t}, nil
}
