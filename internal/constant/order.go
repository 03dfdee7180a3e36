package constant

const (
	OrderStreamName           = "order"
	OrderStreamSubjectAll     = "order.*"
	OrderStreamSubjectCreated = "order.created"

	OrderWorkerQueueName  = "order_worker_queue"
	OrderWorkerQueueGroup = "order_worker_group"

	IdempotencyKeyPrefix = "processed_event"
)
