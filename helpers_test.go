package respool_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DataDog/datadog-go/v5/statsd"
)

// fakeConn stands in for a connection: it counts resets and closes.
type fakeConn struct {
	id int

	mu       sync.Mutex
	resets   int
	closed   bool
	resetErr error
	closeErr error
}

func (c *fakeConn) Reset(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets++
	return c.resetErr
}

func (c *fakeConn) Close(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.closeErr
}

func (c *fakeConn) Resets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets
}

func (c *fakeConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// connFactory records every connection it creates and fails at failAt if set.
type connFactory struct {
	mu     sync.Mutex
	conns  []*fakeConn
	failAt int
}

func newConnFactory() *connFactory {
	return &connFactory{failAt: -1}
}

func (f *connFactory) New(_ context.Context, index int) (*fakeConn, error) {
	if index == f.failAt {
		return nil, fmt.Errorf("dial %d: %w", index, errDial)
	}
	c := &fakeConn{id: index}
	f.mu.Lock()
	f.conns = append(f.conns, c)
	f.mu.Unlock()
	return c, nil
}

func (f *connFactory) Conns() []*fakeConn {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeConn(nil), f.conns...)
}

var errDial = errors.New("dial failed")

// recordingStatsd counts every Count call by metric name and tags.
type recordingStatsd struct {
	statsd.NoOpClient

	mu     sync.Mutex
	counts map[string]int64
}

func (r *recordingStatsd) Count(name string, value int64, tags []string, _ float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int64)
	}
	r.counts[name] += value
	for _, tag := range tags {
		r.counts[name+"|"+tag] += value
	}
	return nil
}

func (r *recordingStatsd) CountOf(key string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}
