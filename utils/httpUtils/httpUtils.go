package httpUtils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Brawl345/pixabot/logger"
)

const (
	MethodGet = http.MethodGet

	maxErrorBody = 512
)

var (
	log               = logger.New("httpUtils")
	DefaultHttpClient *http.Client
)

func init() {
	DefaultHttpClient = createHTTPClient()
}

func createHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = 7 * time.Second
	transport.ResponseHeaderTimeout = 15 * time.Second
	transport.MaxIdleConnsPerHost = 20
	transport.IdleConnTimeout = 5 * time.Minute

	client := &http.Client{
		Transport: transport,
	}

	return client
}

type RequestOptions struct {
	Method   string
	URL      string
	Headers  map[string]string
	Response any
	Client   *http.Client
}

// MakeRequest sends the request and decodes a JSON body into opts.Response.
// Any status other than 200 is returned as *HttpError.
func MakeRequest(ctx context.Context, opts RequestOptions) error {
	method := opts.Method
	if method == "" {
		method = MethodGet
	}

	log.Debug().
		Str("method", method).
		Str("url", redact(opts.URL)).
		Send()

	req, err := http.NewRequestWithContext(ctx, method, opts.URL, nil)
	if err != nil {
		return err
	}

	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	httpClient := DefaultHttpClient
	if opts.Client != nil {
		httpClient = opts.Client
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redact(urlErr.URL)
		}
		return err
	}

	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Err(err).Msg("Failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HttpError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if opts.Response == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(opts.Response); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// redact hides API keys in logged URLs.
func redact(rawURL string) string {
	idx := strings.Index(rawURL, "key=")
	if idx == -1 {
		return rawURL
	}
	end := strings.IndexByte(rawURL[idx:], '&')
	if end == -1 {
		return rawURL[:idx] + "key=REDACTED"
	}
	return rawURL[:idx] + "key=REDACTED" + rawURL[idx+end:]
}
