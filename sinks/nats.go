package sinks

import (
	"encoding/json"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_analytics/analytics"
)

const (
	HeaderEventID   = "Analytics-Event-Id"
	HeaderEventKind = "Analytics-Event-Kind"
)

// Publisher is the part of *natsgo.Conn the NATS sink needs.
type Publisher interface {
	PublishMsg(msg *natsgo.Msg) error
}

var _ Publisher = (*natsgo.Conn)(nil)

// Connect dials url with the reconnect policy used by the NATS sink.
func Connect(url string) (*natsgo.Conn, error) {
	return natsgo.Connect(url, natsgo.MaxReconnects(3), natsgo.Name("effect_ive_analytics"))
}

// NATS publishes every event as a JSON envelope on subject. Publish errors
// are logged and the event is dropped.
func NATS(pub Publisher, subject string, logger *zap.Logger) analytics.Sink[analytics.Envelope[analytics.Data]] {
	if logger == nil {
		logger = zap.L()
	}
	return analytics.DispatchFunc[analytics.Envelope[analytics.Data]](func(env analytics.Envelope[analytics.Data]) {
		if env.Payload == nil {
			return
		}
		msg, err := NewMsg(subject, env)
		if err != nil {
			logger.Error("failed to encode analytics event", zap.Error(err), zap.Stringer("id", env.ID))
			return
		}
		if err := pub.PublishMsg(msg); err != nil {
			logger.Warn("failed to publish analytics event",
				zap.Error(err),
				zap.String("subject", subject),
				zap.Stringer("id", env.ID),
			)
		}
	})
}

// WireEvent is the JSON body published for each event.
type WireEvent struct {
	ID           string            `json:"id"`
	Kind         string            `json:"kind"`
	Name         string            `json:"name,omitempty"`
	UserID       string            `json:"user_id,omitempty"`
	Value        string            `json:"value,omitempty"`
	Description  string            `json:"description,omitempty"`
	Properties   map[string]string `json:"properties,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	ObservedFrom time.Time         `json:"observed_from"`
	ObservedTo   time.Time         `json:"observed_to"`
}

// NewMsg encodes env for subject.
func NewMsg(subject string, env analytics.Envelope[analytics.Data]) (*natsgo.Msg, error) {
	w := WireEvent{
		ID:           env.ID.String(),
		Kind:         env.Payload.Kind(),
		Metadata:     env.Metadata,
		ObservedFrom: env.ObservedAt.Start(),
		ObservedTo:   env.ObservedAt.End(),
	}
	switch e := env.Payload.(type) {
	case analytics.Event:
		w.Name, w.Properties = e.Name, e.Properties
	case analytics.UserIdentity:
		w.UserID, w.Properties = e.ID, e.Properties
	case analytics.Screen:
		w.Name = e.Name
	case analytics.UserProperty:
		w.Name, w.Value = e.Name, e.Value
	case analytics.Error:
		w.Description = e.Description
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	msg := natsgo.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(HeaderEventID, w.ID)
	msg.Header.Set(HeaderEventKind, w.Kind)
	return msg, nil
}
