// Package camunda connects the workers to the Zeebe broker.
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storefront-admin/internal/common/config"
	"storefront-admin/internal/common/errors"
)

// Client wraps the Zeebe gRPC client with connection retries and health checks.
type Client struct {
	zb             zbc.Client
	retry          RetryConfig
	requestTimeout time.Duration
	logger         *zap.Logger
}

// RetryConfig bounds the exponential backoff of broker calls.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxRetries: 9,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

// Connect creates the Zeebe client and waits until the broker answers a
// topology request.
func Connect(ctx context.Context, cfg config.CamundaConfig, retry RetryConfig, log *zap.Logger) (*Client, error) {
	zb, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{
		zb:             zb,
		retry:          retry,
		requestTimeout: config.GetDuration(cfg.RequestTimeout),
		logger:         log,
	}
	if c.requestTimeout <= 0 {
		c.requestTimeout = 30 * time.Second
	}

	if err := c.ExecuteWithRetry(ctx, "topology", c.HealthCheck); err != nil {
		zb.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", cfg.BrokerAddress, err)
	}
	return c, nil
}

// Zeebe returns the raw client used to open job workers.
func (c *Client) Zeebe() zbc.Client {
	return c.zb
}

func (c *Client) Close() error {
	return c.zb.Close()
}

// HealthCheck asks the broker for its topology.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if _, err := c.zb.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// ExecuteWithRetry runs fn until it succeeds, returns a non-transient error
// or the retries run out. The final error is mapped to a StandardError.
func (c *Client) ExecuteWithRetry(ctx context.Context, operation string, fn func(context.Context) error) error {
	delay := c.retry.BaseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) || attempt >= c.retry.MaxRetries {
			return MapError(err, operation, attempt)
		}

		c.logger.Warn("zeebe call failed, retrying",
			zap.String("operation", operation),
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Duration("nextRetryIn", delay),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("operation %s cancelled after %d attempts: %w", operation, attempt+1, ctx.Err())
		}

		delay *= 2
		if c.retry.MaxDelay > 0 && delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
	}
}

// IsRetryable reports whether err is a transient broker or transport failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if st, ok := status.FromError(unwrapStatus(err)); ok && st.Code() != codes.Unknown {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
			return true
		default:
			return false
		}
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{"connection refused", "connection reset", "deadline exceeded", "unavailable", "broken pipe", "timeout"} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// MapError converts a broker error into a StandardError.
func MapError(err error, operation string, attempt int) error {
	msg := fmt.Sprintf("zeebe operation %q failed", operation)
	if attempt > 0 {
		msg += fmt.Sprintf(" after %d attempts", attempt+1)
	}
	wrapped := fmt.Errorf("%s: %w", msg, err)

	code := codes.Unknown
	if st, ok := status.FromError(unwrapStatus(err)); ok {
		code = st.Code()
	}

	switch code {
	case codes.DeadlineExceeded:
		return errors.NewTimeoutError("zeebe", wrapped)
	case codes.NotFound:
		return errors.NewResourceNotFoundError("zeebe", wrapped.Error())
	case codes.AlreadyExists, codes.FailedPrecondition:
		return errors.NewBusinessRuleError(wrapped.Error(), "broker rejected the command")
	case codes.PermissionDenied, codes.Unauthenticated:
		return errors.NewAuthenticationError(wrapped.Error())
	default:
		return errors.NewExternalServiceError("zeebe", wrapped)
	}
}

// unwrapStatus finds the innermost error carrying a gRPC status.
func unwrapStatus(err error) error {
	for e := err; e != nil; {
		if _, ok := e.(interface{ GRPCStatus() *status.Status }); ok {
			return e
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return err
}
