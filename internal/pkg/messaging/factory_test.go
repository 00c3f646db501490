package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFromDriverUnknown(t *testing.T) {
	m, err := NewFromDriver("rabbitmq", FactoryOptions{})
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestNewFromDriverKafkaRequiresBrokers(t *testing.T) {
	m, err := NewFromDriver("kafka", FactoryOptions{})
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrKafkaBrokersRequired)
}

func TestNewFromDriverNATSRequiresURL(t *testing.T) {
	m, err := NewFromDriver("nats", FactoryOptions{})
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrNATSURLRequired)
}

func TestNewKafka(t *testing.T) {
	k, err := NewKafka(KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.NoError(t, err)
	assert.NotNil(t, k)
	assert.NoError(t, k.Close())
}
