package myqueue

import (
	"context"
)

// Task asks the queue to call back WebhookURLPath of this service
type Task struct {
	UID            string
	WebhookURLPath string
	Payload        []byte
}

// New returns a cloudtasks queue on Google Cloud and a fake elsewhere
var New func(c context.Context) (TaskQueuer, func(), error)

type TaskQueuer interface {
	Enqueue(c context.Context, task Task) error
}
