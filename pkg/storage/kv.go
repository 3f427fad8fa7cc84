// Package storage provides the key/value persistence medium behind the portal collections.
// Every value is an opaque string (JSON in practice) stored under a flat key.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when no value has been persisted for the key.
var ErrKeyNotFound = errors.New("storage: key not found")

// KV is a flat key to string mapping.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Observer receives the latency of each storage operation.
type Observer func(op string, duration time.Duration)

type observedKV struct {
	next    KV
	observe Observer
}

// WithObserver decorates kv so each call reports its latency.
func WithObserver(kv KV, observe Observer) KV {
	if observe == nil {
		return kv
	}
	return &observedKV{next: kv, observe: observe}
}

func (o *observedKV) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	defer func() { o.observe("get", time.Since(start)) }()
	return o.next.Get(ctx, key)
}

func (o *observedKV) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	defer func() { o.observe("set", time.Since(start)) }()
	return o.next.Set(ctx, key, value)
}

func (o *observedKV) Delete(ctx context.Context, key string) error {
	start := time.Now()
	defer func() { o.observe("delete", time.Since(start)) }()
	return o.next.Delete(ctx, key)
}
