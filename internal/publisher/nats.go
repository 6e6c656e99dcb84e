package publisher

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/hiking-duration-go/internal/models"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// EstimateEvent is published for every successful estimate
type EstimateEvent struct {
	ID            string                   `json:"id"`
	RequestID     string                   `json:"requestId,omitempty"`
	Source        string                   `json:"source"` // manual|gpx
	Parameters    models.HikeParameters    `json:"parameters"`
	Profile       *models.ElevationProfile `json:"profile,omitempty"`
	DurationHours float64                  `json:"durationHours"`
	Duration      string                   `json:"duration"`
	Timestamp     time.Time                `json:"timestamp"`
}

// PublisherMetrics is implemented by metrics.Collector
type PublisherMetrics interface {
	EventPublished()
	EventPublishFailed()
	EventBusSetConnected(connected bool)
}

// NATSPublisher sends estimate events to NATS core subjects
type NATSPublisher struct {
	nc      *nats.Conn
	prefix  string
	logger  *logrus.Logger
	metrics PublisherMetrics
}

// NewNATSPublisher connects to url. Events go to "<prefix>.<source>".
func NewNATSPublisher(url, prefix string, logger *logrus.Logger, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("hiking-duration"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if m != nil {
				m.EventBusSetConnected(false)
			}
			logger.WithError(err).Warn("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.EventBusSetConnected(true)
			}
			logger.Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.EventBusSetConnected(false)
			}
			logger.Info("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	if m != nil {
		m.EventBusSetConnected(true)
	}

	return &NATSPublisher{nc: nc, prefix: prefix, logger: logger, metrics: m}, nil
}

// Close drains pending messages and closes the connection
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

// PublishEstimate marshals and publishes one event
func (p *NATSPublisher) PublishEstimate(event EstimateEvent) error {
	subject := Subject(p.prefix, event.Source)
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		if err != nil {
			p.metrics.EventPublishFailed()
		} else {
			p.metrics.EventPublished()
		}
	}
	if err == nil {
		p.logger.WithFields(logrus.Fields{"subject": subject, "event_id": event.ID}).Debug("estimate event published")
	}
	return err
}

// Subject builds a NATS subject from a prefix and one free-form token
func Subject(prefix, token string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return subjectToken(token)
	}
	return prefix + "." + subjectToken(token)
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
