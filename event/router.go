package event

// Handler receives the trigger events it subscribes to
type Handler interface {
	// HandleEvent runs on the tick goroutine, before any Update of that tick
	HandleEvent(ev GameEvent)
	EventTypes() []EventType
}

// Router fans queued triggers out to subscribed engines
// Dispatch is single-threaded; subscribers of one type run in registration order
// and every subscriber sees an event before the next event is routed
type Router struct {
	handlers map[EventType][]Handler
	queue    *Queue
}

// NewRouter creates a router attached to the given queue
func NewRouter(queue *Queue) *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(handler Handler) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll drains the queue in arrival order, stamping each event with tick
func (r *Router) DispatchAll(tick uint64) int {
	events := r.queue.Consume()
	for _, ev := range events {
		ev.Tick = tick
		r.Dispatch(ev)
	}
	return len(events)
}

// Dispatch routes one event synchronously, bypassing the queue
func (r *Router) Dispatch(ev GameEvent) {
	for _, h := range r.handlers[ev.Type] {
		h.HandleEvent(ev)
	}
}

// HasHandlers reports whether anything subscribes to t
func (r *Router) HasHandlers(t EventType) bool {
	return len(r.handlers[t]) > 0
}

func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
