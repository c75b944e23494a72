package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
	"github.com/srgjo27/showtime_booking/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct{ closed bool }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	publishErr error
	stall      bool
	closed     bool
}

func (c *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.stall {
		<-ctx.Done()
		return ctx.Err()
	}
	if c.publishErr != nil {
		return c.publishErr
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func testBooking() (*domain.Booking, *domain.Show) {
	screen := domain.NewScreen(1, []domain.Seat{{ID: 1}, {ID: 2}})
	show := domain.NewShow(domain.Movie{Name: "Avengers"}, "2026-02-10", "10:00", screen, 25000)
	payment := domain.Payment{ID: uuid.New(), AmountCents: 50000, Status: domain.PaymentSuccess}
	booking := domain.NewBooking(domain.User{ID: "u1"}, show, []domain.SeatID{2, 1}, payment)
	return booking, show
}

func TestPublishBookingConfirmed(t *testing.T) {
	ch := &fakeChannel{}
	dials := 0
	p := NewPublisher("amqp://test", time.Second, logger.Discard())
	p.dial = func(context.Context, string) (io.Closer, channel, error) {
		dials++
		return &fakeConn{}, ch, nil
	}

	booking, show := testBooking()
	require.NoError(t, p.PublishBookingConfirmed(context.Background(), booking, show))
	require.NoError(t, p.PublishBookingConfirmed(context.Background(), booking, show))

	assert.Equal(t, 1, dials)
	assert.Equal(t, []string{BookingConfirmedQueue}, ch.declared)
	require.Len(t, ch.published, 2)
	assert.Equal(t, BookingConfirmedQueue, ch.keys[0])

	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, booking.ID.String(), msg.MessageId)

	var ev BookingConfirmedEvent
	require.NoError(t, json.Unmarshal(msg.Body, &ev))
	assert.Equal(t, booking.ID.String(), ev.BookingID)
	assert.Equal(t, "Avengers", ev.MovieName)
	assert.Equal(t, []domain.SeatID{1, 2}, ev.SeatIDs)
	assert.Equal(t, int64(50000), ev.AmountCents)
	_, err := time.Parse(time.RFC3339, ev.ConfirmedAt)
	assert.NoError(t, err)
}

func TestPublishBookingConfirmed_RedialsAfterFailure(t *testing.T) {
	broken := &fakeChannel{publishErr: errors.New("channel closed")}
	healthy := &fakeChannel{}
	conns := []*fakeConn{{}, {}}
	channels := []*fakeChannel{broken, healthy}

	dials := 0
	p := NewPublisher("amqp://test", time.Second, logger.Discard())
	p.dial = func(context.Context, string) (io.Closer, channel, error) {
		conn, ch := conns[dials], channels[dials]
		dials++
		return conn, ch, nil
	}

	booking, show := testBooking()
	err := p.PublishBookingConfirmed(context.Background(), booking, show)
	require.Error(t, err)
	assert.True(t, broken.closed)
	assert.True(t, conns[0].closed)

	require.NoError(t, p.PublishBookingConfirmed(context.Background(), booking, show))
	assert.Equal(t, 2, dials)
	assert.Len(t, healthy.published, 1)
}

func TestPublishBookingConfirmed_DialError(t *testing.T) {
	p := NewPublisher("amqp://test", time.Second, logger.Discard())
	p.dial = func(context.Context, string) (io.Closer, channel, error) {
		return nil, nil, errors.New("dial broker: connection refused")
	}

	booking, show := testBooking()
	err := p.PublishBookingConfirmed(context.Background(), booking, show)
	assert.ErrorContains(t, err, "connection refused")
}

func TestPublishBookingConfirmed_StalledBrokerHonoursContext(t *testing.T) {
	stalled := &fakeChannel{stall: true}
	p := NewPublisher("amqp://test", time.Second, logger.Discard())
	p.dial = func(context.Context, string) (io.Closer, channel, error) {
		return &fakeConn{}, stalled, nil
	}

	booking, show := testBooking()

	holding := make(chan error, 1)
	holdCtx, release := context.WithCancel(context.Background())
	go func() {
		holding <- p.PublishBookingConfirmed(holdCtx, booking, show)
	}()

	require.Eventually(t, func() bool { return len(p.sem) == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.PublishBookingConfirmed(ctx, booking, show)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	release()
	assert.ErrorIs(t, <-holding, context.Canceled)
	assert.True(t, stalled.closed)
}

func TestPublishBookingConfirmed_DialReceivesContext(t *testing.T) {
	p := NewPublisher("amqp://test", time.Second, logger.Discard())
	p.dial = func(ctx context.Context, _ string) (io.Closer, channel, error) {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	booking, show := testBooking()
	assert.ErrorIs(t, p.PublishBookingConfirmed(ctx, booking, show), context.DeadlineExceeded)
}
