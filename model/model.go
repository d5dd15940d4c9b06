// Package model holds the cached representations stored by the default
// strategy. Nested collections of gateway payloads are stored under their
// own keys, so models keep only scalar fields and id references.
package model

import "github.com/zoobzio/mirror/gateway"

func ids(in []gateway.ID) []uint64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]uint64, len(in))
	for i, id := range in {
		out[i] = uint64(id)
	}
	return out
}

// CurrentUser is the connected bot user.
type CurrentUser struct {
	ID         uint64 `json:"id" msgpack:"id"`
	Username   string `json:"username" msgpack:"username"`
	GlobalName string `json:"global_name,omitempty" msgpack:"global_name,omitempty"`
	Avatar     string `json:"avatar,omitempty" msgpack:"avatar,omitempty"`
	Bot        bool   `json:"bot,omitempty" msgpack:"bot,omitempty"`
}

// NewCurrentUser converts a gateway user.
func NewCurrentUser(u gateway.User) CurrentUser {
	return CurrentUser{
		ID:         uint64(u.ID),
		Username:   u.Username,
		GlobalName: u.GlobalName,
		Avatar:     u.Avatar,
		Bot:        u.Bot,
	}
}

// UserID returns the id of the current user.
func (u *CurrentUser) UserID() uint64 { return u.ID }

// User is a cached user.
type User struct {
	ID            uint64 `json:"id" msgpack:"id"`
	Username      string `json:"username" msgpack:"username"`
	GlobalName    string `json:"global_name,omitempty" msgpack:"global_name,omitempty"`
	Discriminator string `json:"discriminator,omitempty" msgpack:"discriminator,omitempty"`
	Avatar        string `json:"avatar,omitempty" msgpack:"avatar,omitempty"`
	Bot           bool   `json:"bot,omitempty" msgpack:"bot,omitempty"`
	System        bool   `json:"system,omitempty" msgpack:"system,omitempty"`
}

// NewUser converts a gateway user.
func NewUser(u gateway.User) User {
	return User{
		ID:            uint64(u.ID),
		Username:      u.Username,
		GlobalName:    u.GlobalName,
		Discriminator: u.Discriminator,
		Avatar:        u.Avatar,
		Bot:           u.Bot,
		System:        u.System,
	}
}

// Channel is a cached channel or thread.
type Channel struct {
	ID               uint64 `json:"id" msgpack:"id"`
	GuildID          uint64 `json:"guild_id,omitempty" msgpack:"guild_id,omitempty"`
	Type             int    `json:"type" msgpack:"type"`
	Name             string `json:"name,omitempty" msgpack:"name,omitempty"`
	Topic            string `json:"topic,omitempty" msgpack:"topic,omitempty"`
	Position         int    `json:"position,omitempty" msgpack:"position,omitempty"`
	ParentID         uint64 `json:"parent_id,omitempty" msgpack:"parent_id,omitempty"`
	OwnerID          uint64 `json:"owner_id,omitempty" msgpack:"owner_id,omitempty"`
	LastMessageID    uint64 `json:"last_message_id,omitempty" msgpack:"last_message_id,omitempty"`
	NSFW             bool   `json:"nsfw,omitempty" msgpack:"nsfw,omitempty"`
	RateLimitPerUser int    `json:"rate_limit_per_user,omitempty" msgpack:"rate_limit_per_user,omitempty"`
	Bitrate          int    `json:"bitrate,omitempty" msgpack:"bitrate,omitempty"`
	UserLimit        int    `json:"user_limit,omitempty" msgpack:"user_limit,omitempty"`
}

// NewChannel converts a gateway channel.
func NewChannel(c gateway.Channel) Channel {
	return Channel{
		ID:               uint64(c.ID),
		GuildID:          uint64(c.GuildID),
		Type:             c.Type,
		Name:             c.Name,
		Topic:            c.Topic,
		Position:         c.Position,
		ParentID:         uint64(c.ParentID),
		OwnerID:          uint64(c.OwnerID),
		LastMessageID:    uint64(c.LastMessageID),
		NSFW:             c.NSFW,
		RateLimitPerUser: c.RateLimitPerUser,
		Bitrate:          c.Bitrate,
		UserLimit:        c.UserLimit,
	}
}

// Emoji is a cached guild emoji. The owning guild is carried by the
// composite value prefix.
type Emoji struct {
	ID            uint64   `json:"id" msgpack:"id"`
	Name          string   `json:"name" msgpack:"name"`
	Roles         []uint64 `json:"roles,omitempty" msgpack:"roles,omitempty"`
	UserID        uint64   `json:"user_id,omitempty" msgpack:"user_id,omitempty"`
	RequireColons bool     `json:"require_colons,omitempty" msgpack:"require_colons,omitempty"`
	Managed       bool     `json:"managed,omitempty" msgpack:"managed,omitempty"`
	Animated      bool     `json:"animated,omitempty" msgpack:"animated,omitempty"`
	Available     bool     `json:"available,omitempty" msgpack:"available,omitempty"`
}

// NewEmoji converts a gateway emoji.
func NewEmoji(e gateway.Emoji) Emoji {
	out := Emoji{
		ID:            uint64(e.ID),
		Name:          e.Name,
		Roles:         ids(e.Roles),
		RequireColons: e.RequireColons,
		Managed:       e.Managed,
		Animated:      e.Animated,
		Available:     e.Available,
	}
	if e.User != nil {
		out.UserID = uint64(e.User.ID)
	}
	return out
}

// Integration is a cached guild integration.
type Integration struct {
	ID          uint64 `json:"id" msgpack:"id"`
	GuildID     uint64 `json:"guild_id" msgpack:"guild_id"`
	Name        string `json:"name" msgpack:"name"`
	Type        string `json:"type" msgpack:"type"`
	Enabled     bool   `json:"enabled" msgpack:"enabled"`
	AccountID   string `json:"account_id,omitempty" msgpack:"account_id,omitempty"`
	AccountName string `json:"account_name,omitempty" msgpack:"account_name,omitempty"`
}

// NewIntegration converts a gateway integration of guildID.
func NewIntegration(guildID uint64, i gateway.Integration) Integration {
	return Integration{
		ID:          uint64(i.ID),
		GuildID:     guildID,
		Name:        i.Name,
		Type:        i.Type,
		Enabled:     i.Enabled,
		AccountID:   i.Account.ID,
		AccountName: i.Account.Name,
	}
}

// Presence is a cached presence.
type Presence struct {
	GuildID      uint64            `json:"guild_id" msgpack:"guild_id"`
	UserID       uint64            `json:"user_id" msgpack:"user_id"`
	Status       string            `json:"status" msgpack:"status"`
	Activities   []Activity        `json:"activities,omitempty" msgpack:"activities,omitempty"`
	ClientStatus map[string]string `json:"client_status,omitempty" msgpack:"client_status,omitempty"`
}

// Activity is one presence activity.
type Activity struct {
	Name string `json:"name" msgpack:"name"`
	Type int    `json:"type" msgpack:"type"`
	URL  string `json:"url,omitempty" msgpack:"url,omitempty"`
}

// NewPresence converts a gateway presence.
func NewPresence(p gateway.Presence) Presence {
	out := Presence{
		GuildID:      uint64(p.GuildID),
		UserID:       uint64(p.User.ID),
		Status:       p.Status,
		ClientStatus: p.ClientStatus,
	}
	for _, a := range p.Activities {
		out.Activities = append(out.Activities, Activity{Name: a.Name, Type: a.Type, URL: a.URL})
	}
	return out
}

// Role is a cached role.
type Role struct {
	ID          uint64 `json:"id" msgpack:"id"`
	GuildID     uint64 `json:"guild_id" msgpack:"guild_id"`
	Name        string `json:"name" msgpack:"name"`
	Color       int    `json:"color" msgpack:"color"`
	Hoist       bool   `json:"hoist" msgpack:"hoist"`
	Position    int    `json:"position" msgpack:"position"`
	Permissions string `json:"permissions" msgpack:"permissions"`
	Managed     bool   `json:"managed" msgpack:"managed"`
	Mentionable bool   `json:"mentionable" msgpack:"mentionable"`
}

// NewRole converts a gateway role of guildID.
func NewRole(guildID uint64, r gateway.Role) Role {
	return Role{
		ID:          uint64(r.ID),
		GuildID:     guildID,
		Name:        r.Name,
		Color:       r.Color,
		Hoist:       r.Hoist,
		Position:    r.Position,
		Permissions: r.Permissions,
		Managed:     r.Managed,
		Mentionable: r.Mentionable,
	}
}

// StageInstance is a cached stage instance.
type StageInstance struct {
	ID           uint64 `json:"id" msgpack:"id"`
	ChannelID    uint64 `json:"channel_id" msgpack:"channel_id"`
	Topic        string `json:"topic" msgpack:"topic"`
	PrivacyLevel int    `json:"privacy_level" msgpack:"privacy_level"`
}

// NewStageInstance converts a gateway stage instance.
func NewStageInstance(s gateway.StageInstance) StageInstance {
	return StageInstance{
		ID:           uint64(s.ID),
		ChannelID:    uint64(s.ChannelID),
		Topic:        s.Topic,
		PrivacyLevel: s.PrivacyLevel,
	}
}

// Sticker is a cached guild sticker.
type Sticker struct {
	ID          uint64 `json:"id" msgpack:"id"`
	Name        string `json:"name" msgpack:"name"`
	Description string `json:"description,omitempty" msgpack:"description,omitempty"`
	Tags        string `json:"tags,omitempty" msgpack:"tags,omitempty"`
	FormatType  int    `json:"format_type" msgpack:"format_type"`
	Available   bool   `json:"available,omitempty" msgpack:"available,omitempty"`
}

// NewSticker converts a gateway sticker.
func NewSticker(s gateway.Sticker) Sticker {
	return Sticker{
		ID:          uint64(s.ID),
		Name:        s.Name,
		Description: s.Description,
		Tags:        s.Tags,
		FormatType:  s.FormatType,
		Available:   s.Available,
	}
}

// ChannelVoiceState is the member of a channel voice-state set.
type ChannelVoiceState struct {
	GuildID uint64 `json:"guild_id" msgpack:"guild_id"`
	UserID  uint64 `json:"user_id" msgpack:"user_id"`
}
