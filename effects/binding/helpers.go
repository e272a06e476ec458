package binding

import (
	"context"
	"errors"

	"github.com/on-the-ground/effect_ive_analytics/effects"
	effectmodel "github.com/on-the-ground/effect_ive_analytics/effects/internal/model"
	"github.com/on-the-ground/effect_ive_analytics/shared/helper"
)

var ErrKeyNotFound = errors.New("key not found")

// GetFromBindingEffect fetches a typed value from the Binding effect using the provided key.
// Returns a zero value and error if the key is not found or the type is mismatched.
func GetFromBindingEffect[T any](ctx context.Context, key string) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

// MustGetFromBindingEffect is the panic-on-failure variant of GetFromBindingEffect.
// It panics if the key is missing or the type doesn't match.
func MustGetFromBindingEffect[T any](ctx context.Context, key string) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

// GetOrDefault returns the bound value for key, or def when no binding handler is
// in scope, the key is unbound, or the bound value has another type.
func GetOrDefault[T any](ctx context.Context, key string, def T) T {
	if !effects.HasEffectHandler(ctx, effectmodel.EffectBinding) {
		return def
	}
	v, err := GetFromBindingEffect[T](ctx, key)
	if err != nil {
		return def
	}
	return v
}
