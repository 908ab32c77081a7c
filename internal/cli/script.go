package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/session"
	"gopkg.in/yaml.v3"
)

// Script is a YAML list of actions applied in order by `gift apply`.
//
//	session: traffic-light
//	actions:
//	  - type: NEWAUTOMATON
//	    payload: {name: light}
//	  - type: ADDNODE
//	    payload: {automatonId: 1}
type Script struct {
	// Session overrides --session when set.
	Session string         `yaml:"session"`
	Actions []ScriptAction `yaml:"actions"`
}

type ScriptAction struct {
	Type    string `yaml:"type"`
	Payload any    `yaml:"payload"`
}

// ErrEmptyScript is returned for scripts without actions.
var ErrEmptyScript = errors.New("script has no actions")

// LoadScript parses a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript parses script YAML.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if len(s.Actions) == 0 {
		return nil, ErrEmptyScript
	}
	for i, a := range s.Actions {
		if a.Type == "" {
			return nil, fmt.Errorf("action %d: missing type", i+1)
		}
	}
	return &s, nil
}

// Apply dispatches every action of the script to sessionID, creating the
// session if needed. It stops at the first rejected action; the actions
// before it stay applied.
func (s *Script) Apply(ctx context.Context, mgr *session.Manager, sessionID string) (*domain.Session, error) {
	sess, err := mgr.LoadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i, a := range s.Actions {
		next, err := mgr.Dispatch(ctx, sessionID, domain.Action{Type: a.Type, Payload: a.Payload})
		if err != nil {
			return sess, fmt.Errorf("action %d (%s): %w", i+1, a.Type, err)
		}
		sess = next
	}
	return sess, nil
}
