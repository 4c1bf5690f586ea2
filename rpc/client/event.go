package rpcclient

// eventKind tags the reactor's single event channel, mirroring the
// source proactor's event_type enumeration (submit/transport-complete/
// shutdown), dispatched here through a Go channel instead of an
// intrusive list guarded by a mutex and condition variable.
type eventKind uint8

const (
	eventSubmit eventKind = iota
	eventTransportDone
	eventShutdown
)

// event is the payload carried on Client.events. Only the fields
// relevant to kind are populated.
type event struct {
	kind eventKind

	msg *message // eventSubmit

	slot   int    // eventTransportDone: which pipeline slot finished
	gen    int    // eventTransportDone: the slot's generation when dispatched
	result Result // eventTransportDone
	err    error  // eventTransportDone: transport-level failure, if any
}
