package gateway

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/zoobzio/mirror/internal/shared"
)

// Envelope is a gateway dispatch frame.
type Envelope struct {
	Op   int             `json:"op"`
	Seq  int64           `json:"s,omitempty"`
	Name string          `json:"t"`
	Data json.RawMessage `json:"d"`
}

var factories = map[string]func() Event{
	"READY":                         func() Event { return &Ready{} },
	"USER_UPDATE":                   func() Event { return &UserUpdate{} },
	"CHANNEL_CREATE":                func() Event { return &ChannelCreate{} },
	"CHANNEL_UPDATE":                func() Event { return &ChannelUpdate{} },
	"CHANNEL_DELETE":                func() Event { return &ChannelDelete{} },
	"CHANNEL_PINS_UPDATE":           func() Event { return &ChannelPinsUpdate{} },
	"GUILD_CREATE":                  func() Event { return &GuildCreate{} },
	"GUILD_UPDATE":                  func() Event { return &GuildUpdate{} },
	"GUILD_EMOJIS_UPDATE":           func() Event { return &GuildEmojisUpdate{} },
	"GUILD_STICKERS_UPDATE":         func() Event { return &GuildStickersUpdate{} },
	"INTEGRATION_CREATE":            func() Event { return &IntegrationCreate{} },
	"INTEGRATION_UPDATE":            func() Event { return &IntegrationUpdate{} },
	"INTEGRATION_DELETE":            func() Event { return &IntegrationDelete{} },
	"INTERACTION_CREATE":            func() Event { return &InteractionCreate{} },
	"GUILD_MEMBER_ADD":              func() Event { return &MemberAdd{} },
	"GUILD_MEMBERS_CHUNK":           func() Event { return &MemberChunk{} },
	"GUILD_MEMBER_REMOVE":           func() Event { return &MemberRemove{} },
	"GUILD_MEMBER_UPDATE":           func() Event { return &MemberUpdate{} },
	"MESSAGE_CREATE":                func() Event { return &MessageCreate{} },
	"MESSAGE_UPDATE":                func() Event { return &MessageUpdate{} },
	"MESSAGE_DELETE":                func() Event { return &MessageDelete{} },
	"MESSAGE_DELETE_BULK":           func() Event { return &MessageDeleteBulk{} },
	"PRESENCE_UPDATE":               func() Event { return &PresenceUpdate{} },
	"MESSAGE_REACTION_ADD":          func() Event { return &ReactionAdd{} },
	"MESSAGE_REACTION_REMOVE":       func() Event { return &ReactionRemove{} },
	"MESSAGE_REACTION_REMOVE_ALL":   func() Event { return &ReactionRemoveAll{} },
	"MESSAGE_REACTION_REMOVE_EMOJI": func() Event { return &ReactionRemoveEmoji{} },
	"GUILD_ROLE_CREATE":             func() Event { return &RoleCreate{} },
	"GUILD_ROLE_UPDATE":             func() Event { return &RoleUpdate{} },
	"GUILD_ROLE_DELETE":             func() Event { return &RoleDelete{} },
	"STAGE_INSTANCE_CREATE":         func() Event { return &StageInstanceCreate{} },
	"STAGE_INSTANCE_UPDATE":         func() Event { return &StageInstanceUpdate{} },
	"STAGE_INSTANCE_DELETE":         func() Event { return &StageInstanceDelete{} },
	"THREAD_CREATE":                 func() Event { return &ThreadCreate{} },
	"THREAD_UPDATE":                 func() Event { return &ThreadUpdate{} },
	"THREAD_DELETE":                 func() Event { return &ThreadDelete{} },
	"THREAD_LIST_SYNC":              func() Event { return &ThreadListSync{} },
	"VOICE_STATE_UPDATE":            func() Event { return &VoiceStateUpdate{} },
}

// Names returns every dispatch name Decode understands, sorted.
func Names() []string {
	names := make([]string, 0, len(factories)+1)
	for name := range factories {
		names = append(names, name)
	}
	names = append(names, "GUILD_DELETE")
	slices.Sort(names)
	return names
}

// Decode decodes the payload of the named dispatch. A GUILD_DELETE with
// unavailable set decodes to *UnavailableGuild, otherwise to *GuildDelete.
// Every returned event is a pointer.
func Decode(name string, data []byte) (Event, error) {
	if name == "GUILD_DELETE" {
		var g UnavailableGuild
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("gateway: decode %s: %w", name, err)
		}
		if g.Unavailable {
			return &g, nil
		}
		return &GuildDelete{ID: g.ID}, nil
	}

	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownEvent, name)
	}
	ev := factory()
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("gateway: decode %s: %w", name, err)
	}
	return ev, nil
}

// DecodeEnvelope decodes a dispatch frame and its payload.
func DecodeEnvelope(raw []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("gateway: decode envelope: %w", err)
	}
	return Decode(env.Name, env.Data)
}
