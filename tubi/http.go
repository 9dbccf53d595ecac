package tubi

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"tubi-epg/consts"

	"github.com/andybalholm/brotli"
)

var ErrNonSuccessStatus = errors.New("non-success status")

func fetchUrl(ctx context.Context, client *http.Client, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", consts.UA)

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNonSuccessStatus, res.Status)
	}
	return res, nil
}

// readBody reads the whole body, undoing any Content-Encoding we asked for
// explicitly (net/http only decodes gzip transparently when it set the header itself).
func readBody(res *http.Response) ([]byte, error) {
	var r io.Reader = res.Body
	switch strings.ToLower(strings.TrimSpace(res.Header.Get("Content-Encoding"))) {
	case "br":
		r = brotli.NewReader(res.Body)
	case "gzip":
		gz, err := gzip.NewReader(res.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}
