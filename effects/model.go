package effects

import effectmodel "github.com/on-the-ground/effect_ive_analytics/effects/internal/model"

// EffectEnum keys a handler inside a context. Packages outside effects declare their own values.
type EffectEnum = effectmodel.EffectEnum

// EffectScopeConfig sizes the worker queues behind a handler.
type EffectScopeConfig = effectmodel.EffectScopeConfig

// Partitionable payloads are routed to a worker by PartitionKey.
type Partitionable = effectmodel.Partitionable

var ErrNoEffectHandler = effectmodel.ErrNoEffectHandler

func NewEffectScopeConfig(bufferSize int, numWorkers int) EffectScopeConfig {
	return effectmodel.NewEffectScopeConfig(bufferSize, numWorkers)
}
