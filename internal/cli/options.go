// Package cli wires configuration, stores and the engine for the gift
// commands.
package cli

// Options are the persistent flags shared by all commands.
type Options struct {
	// Dir is the project directory; relative store paths resolve against it.
	Dir        string
	ConfigPath string
	SessionID  string
	Debug      bool
}

// DefaultSessionID is used when --session is not given.
const DefaultSessionID = "default"

func (o Options) sessionID() string {
	if o.SessionID == "" {
		return DefaultSessionID
	}
	return o.SessionID
}
