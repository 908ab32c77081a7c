package cli

import (
	"encoding/json"
	"strings"
)

// ParsePayload reads a command line payload. JSON documents are decoded;
// anything else is passed on as a plain string, so `CHANGELANGUAGE en`
// needs no quoting.
func ParsePayload(arg string) any {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return arg
	}
	return v
}
