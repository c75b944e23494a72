package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/srgjo27/showtime_booking/internal/core/domain"
	"github.com/srgjo27/showtime_booking/internal/platform/logger"
)

type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func(ctx context.Context, url string) (io.Closer, channel, error)

const DefaultDialTimeout = 5 * time.Second

// Publisher sends BookingConfirmedEvent messages to the durable
// booking.confirmed queue. The connection is opened on first use and
// re-opened after any publish failure.
//
// A one-slot semaphore guards the connection instead of a mutex so that
// callers waiting behind a slow dial or publish give up when their ctx ends.
type Publisher struct {
	url  string
	log  *logger.Logger
	dial dialFunc

	sem  chan struct{}
	conn io.Closer
	ch   channel
}

// NewPublisher returns a publisher for url. dialTimeout caps the TCP connect
// and AMQP handshake; non-positive values use DefaultDialTimeout.
func NewPublisher(url string, dialTimeout time.Duration, log *logger.Logger) *Publisher {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}

	return &Publisher{
		url: url,
		log: log,
		dial: func(ctx context.Context, url string) (io.Closer, channel, error) {
			return dialAMQP(ctx, url, dialTimeout)
		},
		sem: make(chan struct{}, 1),
	}
}

func dialAMQP(ctx context.Context, url string, timeout time.Duration) (io.Closer, channel, error) {
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			d := net.Dialer{Deadline: deadline}
			c, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// The handshake runs under the same deadline; the client clears it
			// once the connection is open.
			if err := c.SetDeadline(deadline); err != nil {
				_ = c.Close()
				return nil, err
			}
			return c, nil
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	return conn, ch, nil
}

func (p *Publisher) PublishBookingConfirmed(ctx context.Context, booking *domain.Booking, show *domain.Show) error {
	body, err := json.Marshal(NewBookingConfirmedEvent(booking, show))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    booking.ID.String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := p.lock(ctx); err != nil {
		return fmt.Errorf("publish booking confirmed: %w", err)
	}
	defer p.unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(ctx, "", BookingConfirmedQueue, false, false, msg); err != nil {
		p.reset()
		return fmt.Errorf("publish booking confirmed: %w", err)
	}

	return nil
}

func (p *Publisher) lock(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) unlock() {
	<-p.sem
}

// channel must be called with the semaphore held.
func (p *Publisher) channel(ctx context.Context) (channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}

	conn, ch, err := p.dial(ctx, p.url)
	if err != nil {
		return nil, err
	}

	if _, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	p.log.Info("Connected to message broker", "queue", BookingConfirmedQueue)
	p.conn, p.ch = conn, ch

	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

func (p *Publisher) Close() error {
	p.sem <- struct{}{}
	defer p.unlock()

	p.reset()
	return nil
}
