package platform

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/logger"
)

const (
	userAgent = "spigell/nurse-matcher"
	// Max value for listing per page.
	perPage = 100

	jobsPath     = "/jobs"
	profilesPath = "/profiles"
)

// Client reads profiles and job postings from the recruitment platform REST API.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(apiURL, token string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		token:  token,
		APIURL: strings.TrimRight(apiURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		logger:    logger.WithFields(log, zap.String("component", "platform")),
		UserAgent: userAgent,
	}
}
