package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "studiebot.llm."

// NewNATS constructs a thin NATS-based publisher.
func NewNATS(log *slog.Logger, nc *nats.Conn) Publisher {
	return &natsPublisher{log: log, nc: nc}
}

type natsPublisher struct {
	log *slog.Logger
	nc  *nats.Conn
}

func (p *natsPublisher) Publish(_ context.Context, u Usage) error {
	if u.Endpoint == "" {
		return errors.New("event endpoint required")
	}
	if u.At.IsZero() {
		u.At = time.Now().UTC()
	}
	body, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return p.nc.Publish(subjectPrefix+string(u.Endpoint), body)
}

func (p *natsPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.log.Warn("nats drain failed", "err", err)
	}
}

// Noop discards all events. Used when no event sink is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Usage) error { return nil }
func (Noop) Close()                               {}
