package jobpage

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const (
	accept          = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"
	contentEncoding = "gzip"
)

// get makes a GET request and returns the decoded response body.
// The status is only logged: error pages are parsed like any other.
// The caller must close the returned body.
func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response", zap.String("url", url), zap.Int("status", resp.StatusCode))

	return decodeBody(resp)
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

type gzipBody struct {
	*gzip.Reader
	raw io.Closer
}

func (b *gzipBody) Close() error {
	b.Reader.Close()
	return b.raw.Close()
}

type limitedBody struct {
	io.Reader
	io.Closer
}

func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	var body io.ReadCloser = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		reader, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		body = &gzipBody{Reader: reader, raw: resp.Body}
	}

	return &limitedBody{Reader: io.LimitReader(body, maxBodyBytes), Closer: body}, nil
}
