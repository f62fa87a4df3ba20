package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"quality-agent/internal/model"
	"quality-agent/pkg/log"
)

const (
	SubjectPrefix = "webhooks"

	HeaderDeliveryID = "X-GitHub-Delivery"
	HeaderEventType  = "X-GitHub-Event"
	HeaderJobID      = "X-Job-ID"

	ackWaitMargin = 30 * time.Second
)

// Subject returns the stream subject jobs of eventType are published on.
func Subject(eventType model.EventType) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, eventType)
}

// NATSQueue publishes jobs to a JetStream stream for out-of-process workers.
type NATSQueue struct {
	js     jetstream.JetStream
	stream string
	l      log.Logger
}

// NewNATSQueue ensures the stream exists and returns a publisher bound to it.
func NewNATSQueue(ctx context.Context, js jetstream.JetStream, stream string, l log.Logger) (*NATSQueue, error) {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     stream,
		Subjects: []string{SubjectPrefix + ".>"},
		// broker-side dedup of redelivered webhooks, keyed by Nats-Msg-Id
		Duplicates: 2 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}
	return &NATSQueue{js: js, stream: stream, l: l}, nil
}

func (q *NATSQueue) Dispatch(ctx context.Context, job Job) error {
	data, err := Encode(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	msg := nats.NewMsg(Subject(job.EventType))
	msg.Data = data
	msg.Header.Set(HeaderDeliveryID, job.DeliveryID)
	msg.Header.Set(HeaderEventType, string(job.EventType))
	msg.Header.Set(HeaderJobID, job.ID)

	ack, err := q.js.PublishMsg(ctx, msg, jetstream.WithMsgID(job.DeliveryID))
	if err != nil {
		return fmt.Errorf("nats publish %s: %w", msg.Subject, err)
	}
	if ack.Duplicate {
		q.l.Infof(ctx, "dispatch.NATSQueue: delivery %s already queued", job.DeliveryID)
	}
	return nil
}

// Shutdown is a no-op: the connection belongs to the caller.
func (q *NATSQueue) Shutdown(context.Context) error { return nil }

// ConsumerConfig describes a durable pull consumer on the job stream.
type ConsumerConfig struct {
	Durable    string
	MaxDeliver int
	JobTimeout time.Duration
}

// Consume runs h for every job on the stream until the returned stop func is
// called. Failed jobs are redelivered up to MaxDeliver times; undecodable
// messages are terminated.
func (q *NATSQueue) Consume(ctx context.Context, cfg ConsumerConfig, h Handler) (func(), error) {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = defaultJobTimeout
	}

	consumer, err := q.js.CreateOrUpdateConsumer(ctx, q.stream, jetstream.ConsumerConfig{
		Durable:       cfg.Durable,
		FilterSubject: SubjectPrefix + ".>",
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       cfg.JobTimeout + ackWaitMargin,
		MaxDeliver:    cfg.MaxDeliver,
	})
	if err != nil {
		return nil, fmt.Errorf("nats consumer create: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		q.handleMsg(ctx, msg, h, cfg.JobTimeout)
	})
	if err != nil {
		return nil, fmt.Errorf("nats consume: %w", err)
	}
	return cc.Stop, nil
}

func (q *NATSQueue) handleMsg(ctx context.Context, msg jetstream.Msg, h Handler, timeout time.Duration) {
	job, err := Decode(msg.Data())
	if err != nil {
		q.l.Errorf(ctx, "dispatch.NATSQueue: dropping message on %s: %v", msg.Subject(), err)
		if termErr := msg.Term(); termErr != nil {
			q.l.Errorf(ctx, "dispatch.NATSQueue: term failed: %v", termErr)
		}
		return
	}

	ctx = jobContext(ctx, job)
	if err := Run(ctx, h, job, timeout); err != nil {
		q.l.Errorf(ctx, "dispatch.NATSQueue: job failed: %v", err)
		if errors.Is(err, ErrMalformedJob) {
			_ = msg.Term()
			return
		}
		if nakErr := msg.Nak(); nakErr != nil {
			q.l.Errorf(ctx, "dispatch.NATSQueue: nak failed: %v", nakErr)
		}
		return
	}

	if ackErr := msg.Ack(); ackErr != nil {
		q.l.Errorf(ctx, "dispatch.NATSQueue: ack failed: %v", ackErr)
	}
}
