package shared

// Actor is the opaque caller identity supplied by the external auth provider.
// The core only records it for attribution on ledger entries and history
// events; it never authenticates anyone itself.
type Actor struct {
	UID   string
	Email string
}

// SystemActor is used for actions initiated by the system rather than a user
var SystemActor = Actor{UID: "system", Email: ""}
