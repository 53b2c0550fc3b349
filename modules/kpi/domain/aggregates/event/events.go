package event

// Domain events published on the application bus.

type CreatedEvent struct {
	Result Event
}

type ConfirmedEvent struct {
	Result Event
}
