// Package events publishes user directory changes to a RabbitMQ topic
// exchange. Routing keys have the form user.event.<action>.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/config"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/model"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	publishTimeout    = 5 * time.Second
	drainTimeout      = 5 * time.Second
	queueSize         = 256
	maxPublishRetries = 3
)

var (
	ErrPublisherClosed = errors.New("events: publisher closed")
	ErrQueueFull       = errors.New("events: publish queue full")
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// UserEvent is the message body.
type UserEvent struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewUserEvent(action string, user *model.User) UserEvent {
	return UserEvent{
		ID:         uuid.NewString(),
		Action:     action,
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	}
}

func RoutingKey(action string) string {
	return "user.event." + action
}

// session is one broker connection with an open channel.
type session interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type amqpSession struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func (s *amqpSession) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return s.channel.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

func (s *amqpSession) IsClosed() bool {
	return s.conn.IsClosed() || s.channel.IsClosed()
}

// Close closes the connection, which also closes its channel.
func (s *amqpSession) Close() error {
	return s.conn.Close()
}

func dialAMQP(cfg config.EventsConfig) (session, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	return &amqpSession{conn: conn, channel: ch}, nil
}

func newBackOff() backoff.BackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(200*time.Millisecond),
		backoff.WithMaxInterval(2*time.Second),
		backoff.WithMaxElapsedTime(15*time.Second),
	)
}

type outgoing struct {
	key    string
	userID int64
	msg    amqp.Publishing
}

// Publisher hands events to a single worker goroutine through a bounded
// queue, so callers never wait on the broker. The worker owns the session
// and dials a new one whenever the current one has been closed.
type Publisher struct {
	exchange     string
	dial         func() (session, error)
	backOff      func() backoff.BackOff
	drainTimeout time.Duration
	logger       *zerolog.Logger

	// mu guards closed and sends on queue.
	mu     sync.RWMutex
	closed bool
	queue  chan outgoing

	cancel   context.CancelFunc
	done     chan struct{}
	sess     session
	closeErr error
}

// NewPublisher dials the broker once up front so a bad URL fails at startup.
func NewPublisher(cfg config.EventsConfig, logger *zerolog.Logger) (*Publisher, error) {
	dial := func() (session, error) { return dialAMQP(cfg) }
	p, err := newPublisher(cfg.Exchange, dial, newBackOff, queueSize, logger)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("exchange", cfg.Exchange).Msg("connected to rabbitmq")
	return p, nil
}

func newPublisher(exchange string, dial func() (session, error), backOff func() backoff.BackOff, size int, logger *zerolog.Logger) (*Publisher, error) {
	sess, err := dial()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Publisher{
		exchange:     exchange,
		dial:         dial,
		backOff:      backOff,
		drainTimeout: drainTimeout,
		logger:       logger,
		queue:        make(chan outgoing, size),
		cancel:       cancel,
		done:         make(chan struct{}),
		sess:         sess,
	}
	go p.run(ctx)

	return p, nil
}

// PublishUserEvent queues the event and returns immediately. It fails only
// when the queue is full or the publisher has been closed.
func (p *Publisher) PublishUserEvent(ctx context.Context, action string, user *model.User) error {
	event := NewUserEvent(action, user)
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode user event: %w", err)
	}

	out := outgoing{
		key:    RoutingKey(action),
		userID: user.ID,
		msg: amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.queue <- out:
	default:
		return ErrQueueFull
	}

	zerolog.Ctx(ctx).Debug().
		Str("event_id", event.ID).
		Str("routing_key", out.key).
		Msg("queued user event")
	return nil
}

func (p *Publisher) run(ctx context.Context) {
	defer close(p.done)

	for out := range p.queue {
		if err := p.deliver(ctx, out); err != nil {
			p.logger.Error().
				Err(err).
				Str("event_id", out.msg.MessageId).
				Str("routing_key", out.key).
				Int64("user_id", out.userID).
				Msg("dropped user event")
		}
	}

	if p.sess != nil {
		p.closeErr = p.sess.Close()
	}
}

func (p *Publisher) deliver(ctx context.Context, out outgoing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	publish := func() error {
		if p.sess == nil || p.sess.IsClosed() {
			if err := p.reconnect(); err != nil {
				return err
			}
		}

		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		if err := p.sess.PublishWithContext(pubCtx, p.exchange, out.key, false, false, out.msg); err != nil {
			return fmt.Errorf("failed to publish %s: %w", out.key, err)
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		p.logger.Warn().Err(err).Str("routing_key", out.key).Dur("retry_in", wait).Msg("retrying user event")
	}

	b := backoff.WithContext(backoff.WithMaxRetries(p.backOff(), maxPublishRetries), ctx)
	if err := backoff.RetryNotify(publish, b, notify); err != nil {
		return err
	}

	p.logger.Debug().
		Str("event_id", out.msg.MessageId).
		Str("routing_key", out.key).
		Int64("user_id", out.userID).
		Msg("published user event")
	return nil
}

func (p *Publisher) reconnect() error {
	if p.sess != nil {
		_ = p.sess.Close()
		p.sess = nil
	}

	sess, err := p.dial()
	if err != nil {
		return err
	}

	p.sess = sess
	p.logger.Info().Str("exchange", p.exchange).Msg("reconnected to rabbitmq")
	return nil
}

// Close stops accepting events and waits for the queue to drain. Events
// still pending after the drain timeout are dropped.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	timer := time.NewTimer(p.drainTimeout)
	defer timer.Stop()

	select {
	case <-p.done:
	case <-timer.C:
		p.logger.Warn().Int("pending", len(p.queue)).Msg("user event queue not drained in time")
		p.cancel()
		<-p.done
	}
	p.cancel()

	return p.closeErr
}
