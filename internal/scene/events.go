package scene

type EventType string

const (
	EventSelectionCreated EventType = "selection:created"
	EventSelectionUpdated EventType = "selection:updated"
	EventSelectionCleared EventType = "selection:cleared"
	EventObjectAdded      EventType = "object:added"
	EventObjectModified   EventType = "object:modified"
	EventObjectRemoved    EventType = "object:removed"
)

// Event is delivered to listeners. Selected is the selection after the
// change; Targets holds the objects a structural event is about.
type Event struct {
	Type     EventType
	Selected []*Object
	Targets  []*Object
}

type Listener func(Event)

// Subscription identifies one registered listener.
type Subscription struct {
	typ EventType
	id  int
}

type subscriber struct {
	id int
	fn Listener
}

// On registers fn for events of type t. Listeners run in registration order.
func (c *Canvas) On(t EventType, fn Listener) Subscription {
	c.nextSub++
	c.listeners[t] = append(c.listeners[t], subscriber{id: c.nextSub, fn: fn})
	return Subscription{typ: t, id: c.nextSub}
}

// Off removes a listener. Removing an unknown subscription is a no-op.
func (c *Canvas) Off(sub Subscription) {
	subs := c.listeners[sub.typ]
	for i, s := range subs {
		if s.id == sub.id {
			c.listeners[sub.typ] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// ListenerCount returns how many listeners are registered for t.
func (c *Canvas) ListenerCount(t EventType) int {
	return len(c.listeners[t])
}

func (c *Canvas) fire(t EventType, targets []*Object) {
	subs := append([]subscriber(nil), c.listeners[t]...)
	if len(subs) == 0 {
		return
	}
	ev := Event{
		Type:     t,
		Selected: append([]*Object(nil), c.active...),
		Targets:  targets,
	}
	for _, s := range subs {
		s.fn(ev)
	}
}
