package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/obra/internal/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newTestPublisher(w *fakeWriter) (*KafkaPublisher, *int) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "obra.activities")
	created := 0
	p.newWriter = func(topic string) messageWriter {
		created++
		return w
	}
	return p, &created
}

func TestKafkaPublisher_KeyedByResponsible(t *testing.T) {
	w := &fakeWriter{}
	p, _ := newTestPublisher(w)

	due := domain.MustParseDate("2025-06-02")
	a := &domain.Activity{ID: "a1", ProjectID: "p1", Responsible: "ana", Title: "Survey (Part 1/2)", EstimatedHours: 8, DueDate: &due}
	ev := NewActivityCreated(a, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, p.PublishActivityCreated(context.Background(), ev))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "ana", string(w.msgs[0].Key))
	assert.Equal(t, "event_type", w.msgs[0].Headers[0].Key)
	assert.Equal(t, TypeActivityCreated, string(w.msgs[0].Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "a1", decoded["activity_id"])
	assert.Equal(t, "2025-06-02", decoded["date"])
	assert.Equal(t, 8.0, decoded["hours"])
}

func TestKafkaPublisher_ReusesWriterPerTopic(t *testing.T) {
	w := &fakeWriter{}
	p, created := newTestPublisher(w)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, p.PublishActivityCreated(ctx, ActivityCreated{Type: TypeActivityCreated, Responsible: "ana"}))
	}
	assert.Equal(t, 1, *created)
	assert.Len(t, w.msgs, 3)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p, _ := newTestPublisher(w)

	err := p.PublishActivityCreated(context.Background(), ActivityCreated{Type: TypeActivityCreated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "obra.activities")
	assert.ErrorIs(t, err, w.err)
}

func TestNewActivityCreated_UsesScheduledDate(t *testing.T) {
	start := domain.MustParseDate("2025-06-03")
	a := &domain.Activity{ID: "a1", Responsible: "ana", StartDate: &start}

	ev := NewActivityCreated(a, time.Now())
	assert.Equal(t, start, ev.Date)
	assert.Equal(t, TypeActivityCreated, ev.Type)
}

func TestMemoryPublisher(t *testing.T) {
	p := &MemoryPublisher{}
	require.NoError(t, p.PublishActivityCreated(context.Background(), ActivityCreated{ActivityID: "a1"}))
	assert.Len(t, p.Events(), 1)

	p.Err = errors.New("nope")
	assert.Error(t, p.PublishActivityCreated(context.Background(), ActivityCreated{ActivityID: "a2"}))
	assert.Len(t, p.Events(), 1)
}
