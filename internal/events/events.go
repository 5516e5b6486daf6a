// Package events publishes planner domain events to Kafka, in the same
// envelope-and-producer shape as the fleet's shared kafka package: a
// generic Event envelope, a thin Producer wrapping *kafka.Writer, and a
// package-level Topics table.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/draymaster/tripplanner/internal/domain"
	"github.com/draymaster/tripplanner/internal/logger"
)

// Event is a generic domain event envelope.
type Event struct {
	ID     string      `json:"id"`
	Type   string      `json:"type"`
	Source string      `json:"source"`
	Time   time.Time   `json:"time"`
	Data   interface{} `json:"data"`
}

func newEvent(eventType string, data interface{}, now time.Time) *Event {
	return &Event{
		ID:     uuid.New().String(),
		Type:   eventType,
		Source: "trip-planner",
		Time:   now,
		Data:   data,
	}
}

// Topics names the topics this service publishes to.
var Topics = struct {
	TripCompleted string
}{
	TripCompleted: "planner.trip.completed",
}

// tripCompletedPayload is the JSON body of a planner.trip.completed event.
type tripCompletedPayload struct {
	TripID            uuid.UUID `json:"trip_id"`
	TotalDays         int       `json:"total_days"`
	TotalDrivingMiles float64   `json:"total_driving_miles"`
	CycleHoursAtEnd   float64   `json:"cycle_hours_at_end"`
}

// Producer publishes planner events to Kafka.
type Producer struct {
	writer *kafka.Writer
	topic  string
	log    *logger.Logger
	now    func() time.Time
}

// NewProducer constructs a Producer writing to the given brokers and
// topic with all-broker acknowledgment, matching the durability the
// fleet's other event producers use.
func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	if log == nil {
		log = logger.Default()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &Producer{writer: writer, topic: topic, log: log, now: time.Now}
}

// PublishTripCompleted satisfies planner.EventPublisher.
func (p *Producer) PublishTripCompleted(ctx context.Context, record domain.TripPlanRecord) error {
	event := newEvent(Topics.TripCompleted, tripCompletedPayload{
		TripID:            record.ID,
		TotalDays:         record.Result.Summary.TotalDays,
		TotalDrivingMiles: record.Result.Summary.TotalDrivingMiles,
		CycleHoursAtEnd:   record.Result.Summary.CycleHoursAtEnd,
	}, p.now())

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.ID),
		Value: data,
		Time:  event.Time,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "source", Value: []byte(event.Source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.WithError(err).Errorw("failed to publish trip completed event", "trip_id", record.ID)
		return fmt.Errorf("publish trip completed event: %w", err)
	}

	p.log.Debugw("trip completed event published", "trip_id", record.ID, "event_id", event.ID)
	return nil
}

// Close releases the underlying writer's resources.
func (p *Producer) Close() error {
	return p.writer.Close()
}
