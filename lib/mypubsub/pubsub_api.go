package mypubsub

import "context"

type PubSub interface {
	Publish(c context.Context, topic string, data string) error
	CreateTopic(c context.Context, topic string) error
}

// New returns a Google Cloud pubsub client on Google Cloud and a discarding fake elsewhere
var New func(c context.Context) (PubSub, func(), error)
