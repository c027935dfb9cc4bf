package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/picurit/intgw/internal/record"
)

// ErrDelivery reports a webhook request that reached the endpoint but was
// rejected with an error status.
var ErrDelivery = errors.New("webhook: delivery failed")

// Dispatcher sends record notifications to one configured endpoint. Each
// delivery waits on the dispatcher's rate limiter and carries a fresh
// delivery ID.
type Dispatcher struct {
	cfg     *Config
	client  *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
	debug   bool
}

// Delivery is the outcome of one webhook send.
type Delivery struct {
	ID         string
	StatusCode int
}

// NewDispatcher wires a dispatcher for cfg. A nil logger discards output;
// debug additionally logs a redacted dump of every outgoing request.
func NewDispatcher(cfg *Config, log *slog.Logger, debug bool) *Dispatcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Dispatcher{
		cfg:     cfg,
		client:  newClient(cfg.Timeout),
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
		debug:   debug,
	}
}

// Send builds the payload for rec and delivers it. The context bounds both
// the rate-limit wait and the request itself.
func (d *Dispatcher) Send(ctx context.Context, rec *record.Record) (*Delivery, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("webhook: rate limit wait: %w", err)
	}

	payload, err := BuildPayload(d.cfg, rec)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()

	req, err := http.NewRequestWithContext(ctx, d.cfg.Method, d.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("webhook: building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-ID", id)
	for name, value := range d.cfg.Headers {
		req.Header.Set(name, value)
	}

	if d.debug {
		if dump, err := httputil.DumpRequestOut(req, true); err == nil {
			d.log.Debug("sending webhook", "delivery_id", id, "request", string(redact(dump, d.cfg.Redact)))
		}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook: sending request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	delivery := &Delivery{ID: id, StatusCode: resp.StatusCode}

	if resp.StatusCode >= http.StatusBadRequest {
		d.log.Error("webhook rejected",
			"delivery_id", id,
			"record", rec.Name(),
			"status", resp.StatusCode,
		)
		return delivery, fmt.Errorf("%w: endpoint returned %d", ErrDelivery, resp.StatusCode)
	}

	d.log.Info("webhook delivered",
		"delivery_id", id,
		"record", rec.Name(),
		"status", resp.StatusCode,
	)
	return delivery, nil
}
