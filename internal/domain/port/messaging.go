package port

import "context"

// JobPublisher enqueues an analysis request for the worker pool.
type JobPublisher interface {
	PublishJob(ctx context.Context, msg []byte) error
}

type StatusPublisher interface {
	PublishStatus(ctx context.Context, msg []byte) error
}

type DLQPublisher interface {
	PublishToDLQ(ctx context.Context, msg []byte, reason string) error
}
