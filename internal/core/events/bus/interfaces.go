package bus

import "time"

// EventBus is an in-process pub/sub bus carrying interaction events from
// buttons, grab points and effects to whoever observes the session.
//
// Key characteristics:
// - Type-based fan-out: handlers subscribe by Event.Type(); WildcardType receives every type.
// - Optional topics: handlers can subscribe within a topic for isolation.
// - Synchronous delivery: Publish calls handlers on the caller goroutine, in subscription order.
// - Error aggregation: handler errors are joined and returned from Publish/PublishBatch.
// - Optional observability: metrics are produced only when observers are registered.
//
// Topics are logical groupings; the default topic is "". All methods are
// safe for concurrent use, handlers may subscribe or cancel while being
// delivered to.
type EventBus interface {
	// Publish delivers the event to the subscribers of event.Type() in the default topic.
	Publish(event Event) error
	// Subscribe registers a handler for an event type in the default topic.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is ignored.
	Unsubscribe(Subscription) error

	// PublishWithFilters drops the event without error if any filter rejects it.
	PublishWithFilters(event Event, filters ...EventFilter) error

	// CreateTopic declares a topic. Repeat declarations are idempotent.
	CreateTopic(name string, config TopicConfig) error
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	PublishToTopic(topic string, event Event) error

	// PublishBatch publishes events in order and aggregates their errors.
	PublishBatch(events ...Event) error

	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
	// GetMetrics returns a snapshot of the counters collected while observed.
	GetMetrics() EventBusMetrics
	// GetTopics returns known topics sorted by name.
	GetTopics() []TopicInfo
}

// Event is an immutable message transported by the bus.
//
// Fields:
// - ID: unique per event.
// - Type: routing key used to select handlers.
// - Source: name of the publishing component.
// - Time: simulation time in seconds when the event was raised.
// - Timestamp: wall-clock creation time.
// - Data: payload, one of the structs in events.go for interaction events.
type Event interface {
	ID() string
	Type() string
	Source() string
	Time() float64
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked per delivered event. Returned errors are
	// aggregated by the publisher.
	EventHandler func(event Event) error
	// EventFilter decides whether an event should be delivered.
	EventFilter func(event Event) bool
)

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	Topic() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// TopicConfig describes topic-level settings.
type TopicConfig struct {
	// Description is informational only.
	Description string
}

// EventBusObserver is notified about deliveries and errors.
type EventBusObserver interface {
	OnPublish(topic, eventType string, event Event)
	OnDelivered(topic, eventType string, handlers int, err error, duration time.Duration)
}

// EventBusMetrics is updated only when at least one observer is registered.
type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
}

type TopicInfo struct {
	Name        string
	Description string
	EventTypes  int
	Subs        int
}
