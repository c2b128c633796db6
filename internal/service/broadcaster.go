package service

// Broadcaster delivers room events to connected clients. The service calls
// it while the room is locked, in the order the room's versions were
// stored. Delivery is best effort: implementations queue and return, and
// drop what a slow receiver cannot take rather than wait for it.
type Broadcaster interface {
	Broadcast(roomCode, event string, payload any)
	SendToVisitor(roomCode, visitorID, event string, payload any)
}

// Broadcasters fans every event out to each member in order.
type Broadcasters []Broadcaster

func (bs Broadcasters) Broadcast(roomCode, event string, payload any) {
	for _, b := range bs {
		b.Broadcast(roomCode, event, payload)
	}
}

func (bs Broadcasters) SendToVisitor(roomCode, visitorID, event string, payload any) {
	for _, b := range bs {
		b.SendToVisitor(roomCode, visitorID, event, payload)
	}
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, string, any)             {}
func (nopBroadcaster) SendToVisitor(string, string, string, any) {}
