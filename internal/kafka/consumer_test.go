package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_DecodesEvent(t *testing.T) {
	var got SeatReleaseEvent
	handler := JSONHandler(func(_ context.Context, e SeatReleaseEvent) error {
		got = e
		return nil
	})

	msg := kafka.Message{Value: []byte(`{"type":"seat_release_requested","outbox_id":42,"release":{"sagaId":"saga-1","trainNumber":"G1234","seatType":3,"seatNo":7}}`)}
	require.NoError(t, handler(context.Background(), msg))

	assert.Equal(t, EventSeatReleaseRequested, got.Type)
	assert.Equal(t, int64(42), got.OutboxID)
	assert.Equal(t, "saga-1", got.Release.SagaID)
	assert.Equal(t, domain.SeatClassSecond, got.Release.SeatType)
	assert.Equal(t, 7, got.Release.SeatNo)
}

func TestJSONHandler_SkipsGarbage(t *testing.T) {
	called := false
	handler := JSONHandler(func(context.Context, SeatReleaseEvent) error {
		called = true
		return nil
	})

	err := handler(context.Background(), kafka.Message{Topic: "seat_release_requests", Value: []byte("not json")})

	assert.NoError(t, err)
	assert.False(t, called)
}

func TestJSONHandler_PropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	handler := JSONHandler(func(context.Context, ReservationEvent) error { return boom })

	err := handler(context.Background(), kafka.Message{Value: []byte(`{"type":"reservation_completed"}`)})

	assert.ErrorIs(t, err, boom)
}

func TestProducer_CheckConnectionWithoutBrokers(t *testing.T) {
	p := NewProducer(nil)
	defer p.Close()

	assert.Error(t, p.CheckConnection(context.Background()))
}
