package jobpage

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/spigell/lazyhunt/internal/failure"
	"github.com/spigell/lazyhunt/internal/utils"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultMaxTextLength = 5000
	userAgent            = "spigell/lazyhunt (+https://github.com/spigell/lazyhunt)"
	// Pages larger than this are cut before parsing.
	maxBodyBytes = 5 << 20
	// Length of the job text preview in debug logs.
	previewLength = 200
)

// DefaultDescriptionClasses are the job description container classes, in priority order.
var DefaultDescriptionClasses = []string{
	"description",
	"jobDescription",
	"job-desc",
	"job-description",
	"Job Description",
}

// Config controls how job pages are fetched and reduced to text.
type Config struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	UserAgent          string        `mapstructure:"user-agent"`
	MaxTextLength      int           `mapstructure:"max-text-length"`
	DescriptionClasses []string      `mapstructure:"description-classes"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Timeout:            defaultTimeout,
		UserAgent:          userAgent,
		MaxTextLength:      defaultMaxTextLength,
		DescriptionClasses: append([]string(nil), DefaultDescriptionClasses...),
	}
}

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	strategies []Strategy
}

// New creates a job page client. Zero fields of cfg fall back to DefaultConfig.
func New(logger *zap.Logger, cfg Config) *Client {
	defaults := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = defaults.MaxTextLength
	}
	if len(cfg.DescriptionClasses) == 0 {
		cfg.DescriptionClasses = defaults.DescriptionClasses
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		UserAgent:  cfg.UserAgent,
		strategies: Strategies(cfg.DescriptionClasses, cfg.MaxTextLength),
	}
}

// FetchJobText downloads the page at url and returns the best-effort job description text.
// An empty string with a nil error means the page had no usable text.
func (c *Client) FetchJobText(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", failure.New(failure.KindFetch, "fetch job text", errors.New("job url is required"))
	}

	body, err := c.get(ctx, url)
	if err != nil {
		return "", failure.New(failure.KindFetch, "fetch job text", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", failure.New(failure.KindFetch, "parse job page", err)
	}

	text, strategy := Run(doc, c.strategies, c.logger)
	if text == "" {
		c.logger.Info("no job text found on page", zap.String("url", url))
		return "", nil
	}

	c.logger.Info("job text extracted",
		zap.String("url", url),
		zap.String("strategy", strategy),
		zap.Int("length", utf8.RuneCountInString(text)),
	)
	c.logger.Debug("job text preview", zap.String("preview", utils.TruncateForLog(text, previewLength)))

	return text, nil
}
