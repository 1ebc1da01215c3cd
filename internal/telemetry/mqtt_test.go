package telemetry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/interactions/internal/core/events/bus"
	"github.com/zeusync/interactions/internal/core/interaction"
	"github.com/zeusync/interactions/internal/core/models"
	"github.com/zeusync/interactions/internal/core/timer"
)

func TestMQTTPublisher_PublishesOutcomes(t *testing.T) {
	fake := &FakeClient{}
	pub := NewMQTTPublisher(fake, nil)

	wheel := timer.NewWheel()
	reg := interaction.NewRegistry(1)
	cfg := interaction.DefaultConfig()
	cfg.Kind = interaction.KindHold
	it, err := interaction.NewInteractable(reg, models.NewActor("valve"), cfg,
		interaction.WithScheduler(wheel), interaction.WithObserver(pub))
	require.NoError(t, err)
	require.NoError(t, it.Activate())

	player := models.NewActor("player")
	ir, err := interaction.NewInteractor(reg, player, interaction.InteractorPassive)
	require.NoError(t, err)
	ir.Activate()

	it.OnOverlapBegin(player)
	ir.PressKey()
	wheel.Advance(time.Second)

	var topics []string
	for _, m := range fake.Published() {
		topics = append(topics, m.Topic)
		assert.Zero(t, m.QoS)
		assert.False(t, m.Retained)
	}
	prefix := "interactions/" + string(it.ID()) + "/"
	assert.Equal(t, []string{
		prefix + interaction.EventStateChanged, // disabled -> inactive
		prefix + interaction.EventStateChanged, // inactive -> standby
		prefix + interaction.EventStateChanged, // standby -> active
		prefix + interaction.EventStateChanged, // active -> finished
		prefix + interaction.EventInteractionCompleted,
	}, topics)

	last := fake.Published()[len(topics)-1]
	var env struct {
		Type string         `json:"type"`
		AtMS int64          `json:"at_ms"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(last.Payload, &env))
	assert.Equal(t, interaction.EventInteractionCompleted, env.Type)
	assert.Equal(t, int64(1000), env.AtMS)
	assert.Equal(t, "hold", env.Data["kind"])
}

func TestMQTTPublisher_IgnoresOtherEvents(t *testing.T) {
	fake := &FakeClient{}
	pub := NewMQTTPublisher(fake, nil)
	events := bus.New()
	events.AddObserver(pub)

	require.NoError(t, events.Publish(bus.NewEvent(interaction.EventInteractionStarted, "x", 0, nil)))
	require.NoError(t, events.Publish(bus.NewEvent(interaction.EventHoverBegan, "x", 0, nil)))
	assert.Empty(t, fake.Published())
}

func TestMQTTPublisher_SurvivesBrokerErrors(t *testing.T) {
	fake := &FakeClient{PublishError: errors.New("broker down")}
	pub := NewMQTTPublisher(fake, nil)
	events := bus.New()
	events.AddObserver(pub)

	err := events.Publish(bus.NewEvent(interaction.EventInteractionFailed, "x", 0, interaction.InteractionPayload{}))
	assert.NoError(t, err, "publish errors never reach the bus")

	require.NoError(t, pub.Close())
	assert.True(t, fake.Closed)
}
