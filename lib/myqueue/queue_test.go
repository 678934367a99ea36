package myqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueNames(t *testing.T) {
	queueName := composeQueueName("my-project", "europe-west1", "")
	assert.Equal(t, "projects/my-project/locations/europe-west1/queues/default", queueName)

	assert.Equal(t, "projects/p/locations/l/queues/outbox/tasks/abc",
		composeTaskName(composeQueueName("p", "l", "outbox"), "abc"))
}
