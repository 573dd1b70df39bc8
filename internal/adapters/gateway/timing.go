package gateway

import (
	"context"
	"time"
)

// RemoteRecorder receives the duration of each remote call.
type RemoteRecorder interface {
	RecordRemote(table, op string, d time.Duration)
}

// WithTiming wraps a client so every call is timed and reported.
func WithTiming(c Client, rec RemoteRecorder) Client {
	return &timedClient{inner: c, rec: rec}
}

type timedClient struct {
	inner Client
	rec   RemoteRecorder
}

func (t *timedClient) Ping(ctx context.Context) error {
	start := time.Now()
	err := t.inner.Ping(ctx)
	t.rec.RecordRemote("_ping", "ping", time.Since(start))
	return err
}

func (t *timedClient) SelectAll(ctx context.Context, table string) ([]Row, error) {
	start := time.Now()
	rows, err := t.inner.SelectAll(ctx, table)
	t.rec.RecordRemote(table, "select", time.Since(start))
	return rows, err
}

func (t *timedClient) Insert(ctx context.Context, table string, rows []Row) error {
	start := time.Now()
	err := t.inner.Insert(ctx, table, rows)
	t.rec.RecordRemote(table, "insert", time.Since(start))
	return err
}

func (t *timedClient) Update(ctx context.Context, table string, patch Row, id string) error {
	start := time.Now()
	err := t.inner.Update(ctx, table, patch, id)
	t.rec.RecordRemote(table, "update", time.Since(start))
	return err
}

func (t *timedClient) Delete(ctx context.Context, table string, id string) error {
	start := time.Now()
	err := t.inner.Delete(ctx, table, id)
	t.rec.RecordRemote(table, "delete", time.Since(start))
	return err
}
