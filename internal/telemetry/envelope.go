// Package telemetry exports interaction events out of process: a websocket
// feed for debug overlays and an MQTT publisher for outcome tracking. Both
// are bus observers and never influence delivery.
package telemetry

import (
	"bytes"
	"encoding/json"

	"github.com/zeusync/interactions/internal/core/events/bus"
	"github.com/zeusync/interactions/pkg/generic"
)

var buffers = generic.NewHotPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset, 4)

// Envelope is the wire form of a bus event.
type Envelope struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	AtMS   int64  `json:"at_ms"`
	Data   any    `json:"data,omitempty"`
}

func NewEnvelope(e bus.Event) Envelope {
	return Envelope{
		Type:   e.Type(),
		Source: e.Source(),
		AtMS:   e.At().Milliseconds(),
		Data:   e.Data(),
	}
}

// Encode serializes e as a JSON Envelope. The returned slice is owned by the caller.
func Encode(e bus.Event) ([]byte, error) {
	buf := buffers.Get()
	defer buffers.Put(buf)
	if err := json.NewEncoder(buf).Encode(NewEnvelope(e)); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len()-1) // drop the encoder's trailing newline
	copy(out, buf.Bytes())
	return out, nil
}
