package eventbus

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

// Subjects for real-time dashboard updates. The WebSocket fan-out service
// subscribes to these; the API only publishes.
const (
	SubjectLogCreated   = "logs.created"
	SubjectAlertCreated = "alerts.created"
)

// LogSummary is the small payload broadcast for each new log entry.
type LogSummary struct {
	ID        int64            `json:"id"`
	EventType models.EventType `json:"event_type"`
	Severity  models.Severity  `json:"severity"`
	IsThreat  bool             `json:"is_threat"`
	Timestamp time.Time        `json:"timestamp"`
}

// Publisher publishes dashboard events to NATS.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher creates a new event bus publisher.
func NewPublisher(natsURL string) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("API connected to NATS at %s", natsURL)

	return &Publisher{conn: conn}, nil
}

// PublishLogCreated broadcasts the summary of a newly scored log entry.
func (p *Publisher) PublishLogCreated(entry *models.SecurityLog) error {
	summary := LogSummary{
		ID:        entry.ID,
		EventType: entry.EventType,
		Severity:  entry.Severity,
		IsThreat:  entry.IsThreat,
		Timestamp: entry.Timestamp,
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	return p.conn.Publish(SubjectLogCreated, data)
}

// PublishAlertCreated broadcasts a newly raised alert.
func (p *Publisher) PublishAlertCreated(alert *models.Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	return p.conn.Publish(SubjectAlertCreated, data)
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
		log.Println("API disconnected from NATS")
	}
}

// IsConnected returns true if connected to NATS.
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}
