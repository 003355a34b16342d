package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/imageloader/internal/config"
	"github.com/vango-dev/imageloader/pkg/fetch"
)

// fileScope decides which local files a command may load.
type fileScope int

const (
	// filesAnyPath allows any path when fetch.root is empty. Used by probe,
	// where the caller is the local user.
	filesAnyPath fileScope = iota

	// filesRootOnly disables file sources unless fetch.root is set. Used by
	// serve, where sources come from remote requests.
	filesRootOnly
)

// clientOptions builds the fetch client options for cfg. reg receives the
// fetch metrics when metrics are enabled; it may be nil.
func clientOptions(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer, files fileScope) ([]fetch.Option, error) {
	httpSource := fetch.NewHTTPSource(&http.Client{}, cfg.Fetch.UserAgent)

	var fileSource fetch.Source
	if cfg.Fetch.Root != "" || files == filesAnyPath {
		fileSource = fetch.NewFileSource(cfg.Fetch.Root)
	}

	opts := []fetch.Option{
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithMaxBytes(cfg.Fetch.MaxBytes),
		fetch.WithDevicePixelRatio(cfg.Fetch.DevicePixelRatio),
		fetch.WithViewportWidth(cfg.Fetch.ViewportWidth),
		fetch.WithLogger(logger),
		fetch.WithSource("http", httpSource),
		fetch.WithSource("https", httpSource),
		fetch.WithSource("file", fileSource),
	}
	if base := cfg.BaseURL(); base != nil {
		opts = append(opts, fetch.WithBaseURL(base))
	}

	if cfg.S3.Region != "" {
		client, err := newS3Client(cfg.S3)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fetch.WithSource("s3", fetch.NewS3Source(client)))
	}

	if cfg.Metrics.Enabled && reg != nil {
		opts = append(opts, fetch.WithMetrics(fetch.NewMetrics(
			fetch.WithNamespace(cfg.Metrics.Namespace),
			fetch.WithRegistry(reg),
		)))
	}

	return opts, nil
}

// newS3Client creates the object storage client. Credentials come from
// AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY; without them requests are
// anonymous, which suits public buckets.
func newS3Client(cfg config.S3Config) (*s3.Client, error) {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
		Credentials:  envCredentials(),
	}
	if cfg.Endpoint != "" {
		u, err := config.EndpointURL(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		opts.BaseEndpoint = aws.String(u.String())
	}
	return s3.New(opts), nil
}

func envCredentials() aws.CredentialsProvider {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	session := os.Getenv("AWS_SESSION_TOKEN")
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    session,
			Source:          "environment",
		}, nil
	}))
}
