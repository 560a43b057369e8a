package pixabay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Brawl345/pixabot/imagesearch"
	"github.com/Brawl345/pixabot/utils"
	"github.com/Brawl345/pixabot/utils/httpUtils"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
)

var (
	ErrMissingAPIKey = errors.New("pixabay_api_key is not set")
	ErrQueryTooLong  = fmt.Errorf("query exceeds %d characters", MaxQueryLength)
	ErrInvalidPage   = errors.New("page must be positive")

	validate = validator.New()
)

type (
	Options struct {
		PerPage     int    `validate:"min=3,max=200"`
		ImageType   string `validate:"oneof=all photo illustration vector"`
		Orientation string `validate:"oneof=all horizontal vertical"`
		Lang        string `validate:"len=2,lowercase"`
		SafeSearch  bool
	}

	ClientOption func(c *Client)

	Client struct {
		apiKey     func() string
		baseURL    string
		options    Options
		limiter    *rate.Limiter
		httpClient *http.Client
	}
)

func DefaultOptions() Options {
	return Options{
		PerPage:     10,
		ImageType:   "photo",
		Orientation: "horizontal",
		Lang:        "de",
		SafeSearch:  true,
	}
}

func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		if e.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", e.Field(), e.Tag(), e.Param(), e.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s (got %v)", e.Field(), e.Tag(), e.Value()))
		}
	}
	return fmt.Errorf("invalid pixabay options: %s", strings.Join(msgs, "; "))
}

// Variant identifies the result set these options produce, used as a cache key.
func (o Options) Variant() string {
	return fmt.Sprintf("pp=%d;type=%s;or=%s;lang=%s;safe=%t", o.PerPage, o.ImageType, o.Orientation, o.Lang, o.SafeSearch)
}

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// NewClient creates a Pixabay client. apiKey is resolved on every request
// so a key added later is picked up without restart.
// Rate limited to 100 requests per minute.
func NewClient(apiKey func() string, options Options, opts ...ClientOption) (*Client, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: BaseURL,
		options: options,
		limiter: rate.NewLimiter(rate.Every(600*time.Millisecond), 5),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) Options() Options {
	return c.options
}

func (c *Client) Variant() string {
	return c.options.Variant()
}

func (c *Client) requestURL(apiKey, query string, page int) (string, error) {
	requestUrl, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}

	q := requestUrl.Query()
	q.Set("key", apiKey)
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.options.PerPage))
	q.Set("image_type", c.options.ImageType)
	q.Set("orientation", c.options.Orientation)
	q.Set("lang", c.options.Lang)
	q.Set("safesearch", strconv.FormatBool(c.options.SafeSearch))

	requestUrl.RawQuery = q.Encode()
	return requestUrl.String(), nil
}

// Fetch queries the API for one page of results.
func (c *Client) Fetch(ctx context.Context, query string, page int) (Response, error) {
	apiKey := c.apiKey()
	if apiKey == "" {
		return Response{}, ErrMissingAPIKey
	}

	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Response{}, ErrQueryTooLong
	}

	if page < 1 {
		return Response{}, ErrInvalidPage
	}

	requestUrl, err := c.requestURL(apiKey, query, page)
	if err != nil {
		return Response{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	var response Response
	err = httpUtils.MakeRequest(ctx, httpUtils.RequestOptions{
		Method: httpUtils.MethodGet,
		URL:    requestUrl,
		Headers: map[string]string{
			"User-Agent": utils.UserAgent,
		},
		Response: &response,
		Client:   c.httpClient,
	})
	if err != nil {
		return Response{}, err
	}

	return response, nil
}

func (c *Client) Search(ctx context.Context, query string, page int) (imagesearch.Response, error) {
	response, err := c.Fetch(ctx, query, page)
	if err != nil {
		return imagesearch.Response{}, err
	}
	return response.SearchResponse(), nil
}
