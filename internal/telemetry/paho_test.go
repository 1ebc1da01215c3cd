package telemetry

import (
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/interactions/internal/core/observability/log"
)

type stubToken struct {
	done chan struct{}
	err  error
}

func pendingToken() *stubToken { return &stubToken{done: make(chan struct{})} }

func finishedToken(err error) *stubToken {
	t := &stubToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *stubToken) Wait() bool {
	<-t.done
	return true
}

func (t *stubToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *stubToken) Done() <-chan struct{} { return t.done }
func (t *stubToken) Error() error          { return t.err }

// stubPaho answers every Publish with the same token.
type stubPaho struct {
	paho.Client
	token paho.Token
}

func (s *stubPaho) Publish(string, byte, bool, interface{}) paho.Token { return s.token }

func TestPahoClient_QoS0DoesNotWaitForBroker(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	client := NewPahoClient(&stubPaho{token: pendingToken()}, log.NewFromZap(zap.New(core), log.LevelDebug))
	client.timeout = 200 * time.Millisecond

	start := time.Now()
	require.NoError(t, client.Publish("interactions/valve/interaction.completed", 0, false, []byte("{}")))
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("publish timed out").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPahoClient_QoS0ReportsImmediateErrors(t *testing.T) {
	client := NewPahoClient(&stubPaho{token: finishedToken(errors.New("not connected"))}, nil)
	err := client.Publish("interactions/valve/interaction.failed", 0, false, nil)
	assert.ErrorContains(t, err, "not connected")

	client = NewPahoClient(&stubPaho{token: finishedToken(nil)}, nil)
	assert.NoError(t, client.Publish("interactions/valve/interaction.failed", 0, false, nil))
}

func TestPahoClient_QoS1WaitsForAck(t *testing.T) {
	client := NewPahoClient(&stubPaho{token: pendingToken()}, nil)
	client.timeout = 10 * time.Millisecond
	assert.ErrorContains(t, client.Publish("t", 1, false, nil), "timeout")
}
