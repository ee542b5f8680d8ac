package client

import (
	"fmt"

	"github.com/clk-66/mrfxp/internal/protocol"
)

// Action identifies a dashboard interaction that talks to the service.
type Action string

const (
	ActionOpenSettings  Action = "page-settings"
	ActionOpenSites     Action = "page-sites"
	ActionOpenTransfers Action = "page-sections"
	ActionAddSection    Action = "add-section"
	ActionEditSite      Action = "edit-site"
)

type command struct {
	event     string
	reference string
}

// commands is the fixed action → (event, reference) table. The reference
// travels to the service and back so the reply reaches the page that asked.
var commands = map[Action]command{
	ActionOpenSettings:  {protocol.EventGetSections, protocol.RefInitSettingsPage},
	ActionOpenSites:     {protocol.EventGetSites, protocol.RefInitSitesPage},
	ActionOpenTransfers: {protocol.EventGetSites, protocol.RefInitTransfersPage},
	ActionAddSection:    {protocol.EventAddSection, ""},
	ActionEditSite:      {protocol.EventGetSections, protocol.RefInitEditSitePage},
}

// EnvelopeSender is the part of *Conn the command sender needs.
type EnvelopeSender interface {
	Send(env protocol.Envelope) error
}

// Sender turns dashboard actions into outbound envelopes.
// It does not validate payloads; callers reject bad input first.
type Sender struct {
	conn EnvelopeSender
}

func NewSender(conn EnvelopeSender) *Sender {
	return &Sender{conn: conn}
}

// Trigger builds the envelope for action carrying data and sends it.
func (s *Sender) Trigger(action Action, data any) error {
	env, err := Build(action, data)
	if err != nil {
		return err
	}
	return s.conn.Send(env)
}

// AddSection sends an AddSection command for name.
func (s *Sender) AddSection(name string) error {
	return s.Trigger(ActionAddSection, protocol.AddSectionData{Name: name})
}

// Build returns the envelope Trigger would send, without sending it.
func Build(action Action, data any) (protocol.Envelope, error) {
	cmd, ok := commands[action]
	if !ok {
		return protocol.Envelope{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return protocol.New(cmd.event, cmd.reference, data)
}

// Actions lists every known action.
func Actions() []Action {
	return []Action{ActionOpenSettings, ActionOpenSites, ActionOpenTransfers, ActionAddSection, ActionEditSite}
}
