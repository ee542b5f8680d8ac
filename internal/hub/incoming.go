package hub

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clk-66/mrfxp/internal/protocol"
	"github.com/clk-66/mrfxp/internal/store"
)

const storeTimeout = 5 * time.Second

// handleMessage decodes a raw frame and dispatches it on its Event.
// Called synchronously from readPump, so replies leave in request order.
func (c *Client) handleMessage(raw []byte) {
	env, err := protocol.Decode(raw)
	if err != nil {
		slog.Warn("ws bad message", "conn_id", c.ID, "err", err)
		return
	}

	if !c.limiter.Allow() {
		slog.Warn("ws command rate exceeded", "conn_id", c.ID, "event", env.Event)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	switch env.Event {
	case protocol.EventGetSites:
		c.handleGetSites(ctx, env)
	case protocol.EventGetSections:
		c.handleGetSections(ctx, env)
	case protocol.EventAddSection:
		c.handleAddSection(ctx, env)
	default:
		slog.Debug("ws unknown event", "event", env.Event, "conn_id", c.ID)
	}
}

// handleGetSites answers with every site, passwords masked, under the
// request's reference.
//
//	{"Event":"GetSites","Reference":"InitSitesPage","Data":{}}
func (c *Client) handleGetSites(ctx context.Context, env protocol.Envelope) {
	sites, err := c.hub.store.ListMaskedSites(ctx)
	if err != nil {
		slog.Error("list sites", "conn_id", c.ID, "err", err)
		return
	}
	c.reply(protocol.EventSetSites, env.Reference, sites)
}

// handleGetSections answers with every section under the request's reference.
//
//	{"Event":"GetSections","Reference":"InitSettingsPage","Data":{}}
func (c *Client) handleGetSections(ctx context.Context, env protocol.Envelope) {
	c.replySections(ctx, env.Reference)
}

// handleAddSection stores a new section and answers with the full list.
//
//	{"Event":"AddSection","Data":{"Name":"TV-X264"}}
func (c *Client) handleAddSection(ctx context.Context, env protocol.Envelope) {
	var payload protocol.AddSectionData
	if err := env.DecodeData(&payload); err != nil {
		slog.Warn("ws bad AddSection payload", "conn_id", c.ID, "err", err)
		return
	}

	sec, err := c.hub.store.AddSection(ctx, payload.Name)
	switch {
	case errors.Is(err, store.ErrEmptyName):
		slog.Warn("ws AddSection rejected: empty name", "conn_id", c.ID)
		return
	case errors.Is(err, store.ErrSectionExists):
		slog.Info("ws AddSection: section exists", "conn_id", c.ID, "name", payload.Name)
	case err != nil:
		slog.Error("add section", "conn_id", c.ID, "err", err)
		return
	default:
		slog.Info("section added", "conn_id", c.ID, "section_id", sec.ID, "name", sec.Name)
	}

	c.replySections(ctx, env.Reference)
}

func (c *Client) replySections(ctx context.Context, reference string) {
	sections, err := c.hub.store.ListSections(ctx)
	if err != nil {
		slog.Error("list sections", "conn_id", c.ID, "err", err)
		return
	}
	c.reply(protocol.EventSetSections, reference, sections)
}

func (c *Client) reply(event, reference string, data any) {
	env, err := protocol.New(event, reference, data)
	if err != nil {
		slog.Error("build reply", "event", event, "err", err)
		return
	}
	c.sendEnvelope(env)
}
