package entities

import "fmt"

// EngineCapability identifies which inference backend handles a request
type EngineCapability string

const (
	EngineRemote EngineCapability = "remote"
	EngineLocal  EngineCapability = "local"
)

// ParseEngineCapability validates a stored or user-supplied engine name
func ParseEngineCapability(s string) (EngineCapability, error) {
	switch EngineCapability(s) {
	case EngineRemote:
		return EngineRemote, nil
	case EngineLocal:
		return EngineLocal, nil
	default:
		return "", fmt.Errorf("unknown engine %q (expected %q or %q)", s, EngineRemote, EngineLocal)
	}
}

// EngineStatus reports readiness of both backends as derived state.
// Remote is ready iff a credential is configured; local is ready iff the
// on-device model is loaded into memory.
type EngineStatus struct {
	Selected    EngineCapability `json:"selected"`
	RemoteReady bool             `json:"remote_ready"`
	LocalReady  bool             `json:"local_ready"`
}
