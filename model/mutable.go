package model

import "github.com/zoobzio/mirror/gateway"

// Guild is a cached guild without its nested collections.
type Guild struct {
	ID          uint64   `json:"id" msgpack:"id"`
	Name        string   `json:"name" msgpack:"name"`
	Icon        string   `json:"icon,omitempty" msgpack:"icon,omitempty"`
	Banner      string   `json:"banner,omitempty" msgpack:"banner,omitempty"`
	Description string   `json:"description,omitempty" msgpack:"description,omitempty"`
	OwnerID     uint64   `json:"owner_id" msgpack:"owner_id"`
	Unavailable bool     `json:"unavailable,omitempty" msgpack:"unavailable,omitempty"`
	MemberCount int64    `json:"member_count,omitempty" msgpack:"member_count,omitempty"`
	Large       bool     `json:"large,omitempty" msgpack:"large,omitempty"`
	PremiumTier int      `json:"premium_tier,omitempty" msgpack:"premium_tier,omitempty"`
	Features    []string `json:"features,omitempty" msgpack:"features,omitempty"`
	JoinedAt    string   `json:"joined_at,omitempty" msgpack:"joined_at,omitempty"`
}

// NewGuild converts a gateway guild.
func NewGuild(g gateway.Guild) Guild {
	return Guild{
		ID:          uint64(g.ID),
		Name:        g.Name,
		Icon:        g.Icon,
		Banner:      g.Banner,
		Description: g.Description,
		OwnerID:     uint64(g.OwnerID),
		Unavailable: g.Unavailable,
		MemberCount: g.MemberCount,
		Large:       g.Large,
		PremiumTier: g.PremiumTier,
		Features:    g.Features,
		JoinedAt:    g.JoinedAt,
	}
}

// SetUnavailable marks the guild reachable or not.
func (g *Guild) SetUnavailable(v bool) { g.Unavailable = v }

// AdjustMemberCount adds delta to the member count, saturating at zero.
func (g *Guild) AdjustMemberCount(delta int64) {
	g.MemberCount += delta
	if g.MemberCount < 0 {
		g.MemberCount = 0
	}
}

// ApplyUpdate overwrites the fields carried by a GUILD_UPDATE.
func (g *Guild) ApplyUpdate(u gateway.GuildUpdate) {
	g.Name = u.Name
	g.Icon = u.Icon
	g.Banner = u.Banner
	g.Description = u.Description
	g.OwnerID = uint64(u.OwnerID)
	g.PremiumTier = u.PremiumTier
	g.Features = u.Features
}

// Member is a cached guild member. The user is stored under its own key.
type Member struct {
	GuildID                    uint64   `json:"guild_id" msgpack:"guild_id"`
	UserID                     uint64   `json:"user_id" msgpack:"user_id"`
	Nick                       string   `json:"nick,omitempty" msgpack:"nick,omitempty"`
	Avatar                     string   `json:"avatar,omitempty" msgpack:"avatar,omitempty"`
	Roles                      []uint64 `json:"roles,omitempty" msgpack:"roles,omitempty"`
	JoinedAt                   string   `json:"joined_at,omitempty" msgpack:"joined_at,omitempty"`
	PremiumSince               string   `json:"premium_since,omitempty" msgpack:"premium_since,omitempty"`
	Deaf                       bool     `json:"deaf,omitempty" msgpack:"deaf,omitempty"`
	Mute                       bool     `json:"mute,omitempty" msgpack:"mute,omitempty"`
	Pending                    bool     `json:"pending,omitempty" msgpack:"pending,omitempty"`
	CommunicationDisabledUntil string   `json:"communication_disabled_until,omitempty" msgpack:"communication_disabled_until,omitempty"`
}

// NewMember converts a gateway member of guildID.
func NewMember(guildID uint64, m gateway.Member) Member {
	return Member{
		GuildID:                    guildID,
		UserID:                     uint64(m.User.ID),
		Nick:                       m.Nick,
		Avatar:                     m.Avatar,
		Roles:                      ids(m.Roles),
		JoinedAt:                   m.JoinedAt,
		PremiumSince:               m.PremiumSince,
		Deaf:                       m.Deaf,
		Mute:                       m.Mute,
		Pending:                    m.Pending,
		CommunicationDisabledUntil: m.CommunicationDisabledUntil,
	}
}

// NewPartialMember converts a message or interaction member of userID.
func NewPartialMember(guildID, userID uint64, m gateway.PartialMember) Member {
	return Member{
		GuildID:  guildID,
		UserID:   userID,
		Nick:     m.Nick,
		Avatar:   m.Avatar,
		Roles:    ids(m.Roles),
		JoinedAt: m.JoinedAt,
		Deaf:     m.Deaf,
		Mute:     m.Mute,
	}
}

// ApplyUpdate overwrites the fields carried by a GUILD_MEMBER_UPDATE.
func (m *Member) ApplyUpdate(u gateway.MemberUpdate) {
	m.Roles = ids(u.Roles)
	m.Pending = u.Pending
	if u.JoinedAt != "" {
		m.JoinedAt = u.JoinedAt
	}
	if u.Nick != nil {
		m.Nick = *u.Nick
	}
	if u.Avatar != nil {
		m.Avatar = *u.Avatar
	}
	if u.PremiumSince != nil {
		m.PremiumSince = *u.PremiumSince
	}
	if u.Deaf != nil {
		m.Deaf = *u.Deaf
	}
	if u.Mute != nil {
		m.Mute = *u.Mute
	}
	if u.CommunicationDisabledUntil != nil {
		m.CommunicationDisabledUntil = *u.CommunicationDisabledUntil
	}
}

// Message is a cached message. The author is stored under its own key.
type Message struct {
	ID              uint64             `json:"id" msgpack:"id"`
	ChannelID       uint64             `json:"channel_id" msgpack:"channel_id"`
	GuildID         uint64             `json:"guild_id,omitempty" msgpack:"guild_id,omitempty"`
	AuthorID        uint64             `json:"author_id" msgpack:"author_id"`
	Content         string             `json:"content" msgpack:"content"`
	Timestamp       string             `json:"timestamp" msgpack:"timestamp"`
	EditedTimestamp string             `json:"edited_timestamp,omitempty" msgpack:"edited_timestamp,omitempty"`
	Pinned          bool               `json:"pinned,omitempty" msgpack:"pinned,omitempty"`
	Type            int                `json:"type" msgpack:"type"`
	Flags           int64              `json:"flags,omitempty" msgpack:"flags,omitempty"`
	Reactions       []gateway.Reaction `json:"reactions,omitempty" msgpack:"reactions,omitempty"`
}

// NewMessage converts a gateway message.
func NewMessage(m gateway.Message) Message {
	return Message{
		ID:              uint64(m.ID),
		ChannelID:       uint64(m.ChannelID),
		GuildID:         uint64(m.GuildID),
		AuthorID:        uint64(m.Author.ID),
		Content:         m.Content,
		Timestamp:       m.Timestamp,
		EditedTimestamp: m.EditedTimestamp,
		Pinned:          m.Pinned,
		Type:            m.Type,
		Flags:           m.Flags,
		Reactions:       m.Reactions,
	}
}

// GetReactions returns the aggregated reactions of the message.
func (m *Message) GetReactions() []gateway.Reaction { return m.Reactions }

// SetReactions replaces the aggregated reactions of the message.
func (m *Message) SetReactions(r []gateway.Reaction) { m.Reactions = r }

// ApplyUpdate overwrites the fields carried by a MESSAGE_UPDATE.
func (m *Message) ApplyUpdate(u gateway.MessageUpdate) {
	if u.Content != nil {
		m.Content = *u.Content
	}
	if u.EditedTimestamp != nil {
		m.EditedTimestamp = *u.EditedTimestamp
	}
	if u.Pinned != nil {
		m.Pinned = *u.Pinned
	}
	if u.Flags != nil {
		m.Flags = *u.Flags
	}
}

// VoiceState is a cached voice state of a user connected to a channel.
type VoiceState struct {
	GuildID    uint64 `json:"guild_id" msgpack:"guild_id"`
	ChannelID  uint64 `json:"channel_id" msgpack:"channel_id"`
	UserID     uint64 `json:"user_id" msgpack:"user_id"`
	SessionID  string `json:"session_id" msgpack:"session_id"`
	Deaf       bool   `json:"deaf,omitempty" msgpack:"deaf,omitempty"`
	Mute       bool   `json:"mute,omitempty" msgpack:"mute,omitempty"`
	SelfDeaf   bool   `json:"self_deaf,omitempty" msgpack:"self_deaf,omitempty"`
	SelfMute   bool   `json:"self_mute,omitempty" msgpack:"self_mute,omitempty"`
	SelfStream bool   `json:"self_stream,omitempty" msgpack:"self_stream,omitempty"`
	SelfVideo  bool   `json:"self_video,omitempty" msgpack:"self_video,omitempty"`
	Suppress   bool   `json:"suppress,omitempty" msgpack:"suppress,omitempty"`
}

// NewVoiceState converts a gateway voice state connected to channelID.
func NewVoiceState(guildID, channelID uint64, v gateway.VoiceState) VoiceState {
	return VoiceState{
		GuildID:    guildID,
		ChannelID:  channelID,
		UserID:     uint64(v.UserID),
		SessionID:  v.SessionID,
		Deaf:       v.Deaf,
		Mute:       v.Mute,
		SelfDeaf:   v.SelfDeaf,
		SelfMute:   v.SelfMute,
		SelfStream: v.SelfStream,
		SelfVideo:  v.SelfVideo,
		Suppress:   v.Suppress,
	}
}

// VoiceChannel returns the channel the user is connected to.
func (v *VoiceState) VoiceChannel() uint64 { return v.ChannelID }
