// Package mail delivers account emails outside the request path.
package mail

import (
	"context"
	"fmt"
	"sync"

	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

var _ model.MailDispatcher = (*Dispatcher)(nil)

// Dispatcher sends each message on its own goroutine. Delivery is detached
// from the caller's context, so an aborted request does not cancel it, and
// failures are only logged.
type Dispatcher struct {
	mailer model.Mailer
	logger *logger.Logger
	wg     sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(mailer model.Mailer, logger *logger.Logger) *Dispatcher {
	return &Dispatcher{mailer: mailer, logger: logger}
}

// Dispatch schedules msg for delivery and returns immediately.
func (d *Dispatcher) Dispatch(ctx context.Context, msg model.Message) {
	ctx = context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if err := d.send(ctx, msg); err != nil {
			d.logger.Error("Mail: delivery failed",
				"to", msg.To,
				"subject", msg.Subject,
				"error", err.Error())
			return
		}

		d.logger.Info("Mail: delivered",
			"to", msg.To,
			"subject", msg.Subject)
	}()
}

func (d *Dispatcher) send(ctx context.Context, msg model.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mailer panicked: %v", r)
		}
	}()
	return d.mailer.Send(ctx, msg)
}

// Wait blocks until every dispatched message has been handled or ctx is done.
// A stuck mailer keeps its goroutine alive; Wait only stops waiting for it.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail dispatcher did not drain: %w", ctx.Err())
	}
}
