// Package consumer provides Kafka consumer utilities for replaying ledger
// events into downstream read models.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Reader exposes the minimal kafka.Reader interface needed by the processor.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives decoded messages from Kafka.
type Handler interface {
	Handle(context.Context, Message) error
}

// Message is the decoded representation of a Kafka record emitted by the
// outbox dispatcher: JSON payload, metadata in headers.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	EventType string
	Payload   json.RawMessage
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor pulls messages from Kafka, decodes them, and dispatches to a Handler.
type Processor struct {
	reader  Reader
	handler Handler
	logger  *log.Logger
}

// NewProcessor constructs a Processor with the provided reader and handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:  reader,
		handler: handler,
		logger:  log.New(log.Writer(), "[consumer] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run starts a blocking loop that processes Kafka messages until the context
// is cancelled. Messages whose handler fails are not committed, so they are
// redelivered.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			p.logger.Printf("fetch error: %v", err)
			continue
		}

		msg, ok := decode(raw)
		if !ok {
			recordDecodeError(raw.Topic)
			p.logger.Printf("dropping undecodable message at %s/%d offset %d", raw.Topic, raw.Partition, raw.Offset)
			if err := p.reader.CommitMessages(ctx, raw); err != nil {
				p.logger.Printf("commit error: %v", err)
			}
			continue
		}

		if err := p.handler.Handle(ctx, msg); err != nil {
			recordHandlerError(msg)
			p.logger.Printf("handler error for %s at offset %d: %v", msg.EventType, msg.Offset, err)
			continue
		}

		recordProcessed(msg)
		if err := p.reader.CommitMessages(ctx, raw); err != nil {
			p.logger.Printf("commit error: %v", err)
		}
	}
}

// Close releases the underlying reader.
func (p *Processor) Close() error {
	return p.reader.Close()
}

func decode(raw kafka.Message) (Message, bool) {
	if len(raw.Value) == 0 || !json.Valid(raw.Value) {
		return Message{}, false
	}

	msg := Message{
		Topic:     raw.Topic,
		Partition: raw.Partition,
		Offset:    raw.Offset,
		Timestamp: raw.Time,
		Payload:   raw.Value,
	}
	for _, header := range raw.Headers {
		if header.Key == "event_type" {
			msg.EventType = string(header.Value)
		}
	}
	return msg, msg.EventType != ""
}
