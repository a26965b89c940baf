package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"healthsync/common/config"
	rediscommon "healthsync/common/redis"
)

var testEvent = Event{
	Type:      TypeReportUploaded,
	SubjectID: "7f1c",
	Name:      "lab.pdf",
	At:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
}

func TestRedisStreamPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rediscommon.NewRedisClient(&config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rediscommon.Close(client) })
	ctx := context.Background()

	p := NewRedisStreamPublisher(client, "healthsync:activity", 0)
	require.NoError(t, p.Publish(ctx, testEvent))

	msgs, err := rediscommon.ReadLatest(ctx, client, "healthsync:activity", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, TypeReportUploaded, msgs[0].Values["type"])
	assert.Equal(t, "7f1c", msgs[0].Values["subjectId"])

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["data"].(string)), &got))
	assert.Equal(t, testEvent, got)
}

type fakeMQTT struct {
	topic        string
	payload      []byte
	err          error
	disconnected bool
}

func (f *fakeMQTT) Publish(topic string, _ byte, _ bool, payload []byte) error {
	f.topic, f.payload = topic, payload
	return f.err
}

func (f *fakeMQTT) Disconnect() { f.disconnected = true }

func TestMQTTPublisher(t *testing.T) {
	fake := &fakeMQTT{}
	p := NewMQTTPublisher(fake, "healthsync/activity/", 1)

	require.NoError(t, p.Publish(context.Background(), testEvent))
	assert.Equal(t, "healthsync/activity/report.uploaded", fake.topic)
	assert.JSONEq(t, `{"type":"report.uploaded","subjectId":"7f1c","name":"lab.pdf","at":"2024-03-01T09:00:00Z"}`, string(fake.payload))

	require.NoError(t, p.Close())
	assert.True(t, fake.disconnected)
}

type fakeKafka struct {
	msgs []kafka.Message
}

func (f *fakeKafka) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeKafka) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	fake := &fakeKafka{}
	p := &KafkaPublisher{writer: fake}

	require.NoError(t, p.Publish(context.Background(), testEvent))
	require.Len(t, fake.msgs, 1)
	assert.Equal(t, "7f1c", string(fake.msgs[0].Key))
	assert.Equal(t, "type", fake.msgs[0].Headers[0].Key)
	assert.Equal(t, TypeReportUploaded, string(fake.msgs[0].Headers[0].Value))
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(config.KafkaConfig{Topic: "activity"})
	assert.Error(t, err)
}

func TestEmit_LogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fake := &fakeMQTT{err: errors.New("broker down")}

	Emit(context.Background(), NewMQTTPublisher(fake, "", 0), zap.New(core), testEvent)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Failed to publish activity event", logs.All()[0].Message)
	assert.Equal(t, "report.uploaded", fake.topic)
}

func TestEmit_NilPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(context.Background(), nil, zap.NewNop(), testEvent)
	})
}
