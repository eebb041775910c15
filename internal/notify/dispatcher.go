package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// sendTimeout bounds a single delivery attempt.
const sendTimeout = 10 * time.Second

type envelope struct {
	to      string
	subject string
	body    string
}

// Dispatcher decouples notification delivery from the request path. Sends
// are queued on a buffered channel and delivered by a single background
// worker; a full queue or a failed send is logged and dropped, never
// blocking or failing the caller.
type Dispatcher struct {
	sink  Notifier
	queue chan envelope
	log   *zap.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewDispatcher starts a dispatcher with the given queue depth.
func NewDispatcher(sink Notifier, log *zap.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan envelope, buffer),
		log:   log,
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for env := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sink.Send(ctx, env.to, env.subject, env.body); err != nil {
			d.log.Warn("notification send failed",
				zap.String("to", env.to),
				zap.String("subject", env.subject),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Enqueue queues a notification for background delivery. It never blocks:
// when the queue is full the notification is dropped with a log line.
func (d *Dispatcher) Enqueue(to, subject, body string) {
	select {
	case d.queue <- envelope{to: to, subject: subject, body: body}:
	default:
		d.log.Warn("notification queue full, dropping",
			zap.String("to", to),
			zap.String("subject", subject),
		)
	}
}

// Close stops accepting notifications and waits for queued ones to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
