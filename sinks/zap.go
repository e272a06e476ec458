// Package sinks holds analytics backends: a structured zap logger,
// a Prometheus counter, a NATS publisher and an asynchronous dispatcher
// fronting any of them.
package sinks

import (
	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_analytics/analytics"
)

// Zap logs every event at info level with one field per attribute.
func Zap(logger *zap.Logger) analytics.Sink[analytics.Data] {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("analytics")
	return analytics.DispatchFunc[analytics.Data](func(event analytics.Data) {
		if event == nil {
			return
		}
		logger.Info("analytics event", Fields(event)...)
	})
}

// Fields flattens event into zap fields.
func Fields(event analytics.Data) []zap.Field {
	fields := []zap.Field{zap.String("kind", event.Kind())}
	switch e := event.(type) {
	case analytics.Event:
		fields = append(fields, zap.String("name", e.Name))
		if len(e.Properties) > 0 {
			fields = append(fields, zap.Any("properties", e.Properties))
		}
	case analytics.UserIdentity:
		fields = append(fields, zap.String("user_id", e.ID))
		if len(e.Properties) > 0 {
			fields = append(fields, zap.Any("properties", e.Properties))
		}
	case analytics.Screen:
		fields = append(fields, zap.String("name", e.Name))
	case analytics.UserProperty:
		fields = append(fields, zap.String("name", e.Name), zap.String("value", e.Value))
	case analytics.Error:
		fields = append(fields, zap.String("description", e.Description))
	}
	return fields
}
