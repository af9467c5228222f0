package health

import (
	"context"
	"time"
)

const checkTimeout = time.Second

// Pinger is satisfied by the repository store and the redis revocation store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingChecker struct {
	name string
	p    Pinger
}

func NewPingChecker(name string, p Pinger) *PingChecker {
	return &PingChecker{name: name, p: p}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return c.p.Ping(ctx)
}
