package coder

import (
	"encoding/base64"

	"github.com/idlkit/idlkit/internal/discriminator"
	"github.com/idlkit/idlkit/internal/encoding"
	"github.com/idlkit/idlkit/internal/idl"
	"github.com/idlkit/idlkit/internal/layout"
)

// Event is a decoded event: its name and its fields by name.
// Discriminator and Data are only populated for the permissive unknown
// placeholder.
type Event struct {
	Name string
	Data map[string]any

	Discriminator []byte
	Raw           []byte
}

// Events decodes base64 event payloads scraped from program logs.
type Events struct {
	permissive bool

	byDisc map[[discriminator.Size]byte]*eventEntry
}

type eventEntry struct {
	def    idl.Event
	disc   [discriminator.Size]byte
	layout *layout.Layout
}

func newEvents(schema *idl.IDL, resolver *layout.Resolver, permissive bool) *Events {
	ec := Events{
		permissive: permissive,
		byDisc:     make(map[[discriminator.Size]byte]*eventEntry, len(schema.Events)),
	}

	for i := range schema.Events {
		ev := schema.Events[i]
		entry := eventEntry{
			def:    ev,
			disc:   entityDiscriminator(ev.Discriminator, func() [discriminator.Size]byte { return discriminator.Event(ev.Name) }),
			layout: resolver.ResolveDef(idl.Def{Kind: idl.DefStruct, Fields: ev.Fields}),
		}
		ec.byDisc[entry.disc] = &entry
	}

	return &ec
}

// Decode base64-decodes the payload, looks the event up by its 8-byte
// prefix and decodes the remainder. It runs inside best-effort
// log-scanning loops, so every failure anywhere in the chain yields an
// absent result, never an error: one malformed log line must not abort
// the scan.
func (ec *Events) Decode(payload string) (*Event, bool) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	if len(data) < discriminator.Size {
		return nil, false
	}

	var disc [discriminator.Size]byte
	copy(disc[:], data)

	entry, ok := ec.byDisc[disc]
	if !ok {
		if ec.permissive {
			return &Event{
				Discriminator: disc[:],
				Raw:           data[discriminator.Size:],
			}, true
		}
		return nil, false
	}

	v, err := entry.layout.Decode(encoding.NewReader(data[discriminator.Size:]))
	if err != nil {
		return nil, false
	}

	return &Event{Name: entry.def.Name, Data: v.(map[string]any)}, true
}
