// Package gateway defines the dispatch payloads consumed by the cache and
// decodes them from their JSON envelopes.
package gateway

// User is a Discord user.
type User struct {
	ID            ID     `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name,omitempty"`
	Discriminator string `json:"discriminator,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Bot           bool   `json:"bot,omitempty"`
	System        bool   `json:"system,omitempty"`
	PublicFlags   int64  `json:"public_flags,omitempty"`
}

// Channel is a guild channel, thread or private channel.
type Channel struct {
	ID               ID     `json:"id"`
	Type             int    `json:"type"`
	GuildID          ID     `json:"guild_id,omitempty"`
	Name             string `json:"name,omitempty"`
	Topic            string `json:"topic,omitempty"`
	Position         int    `json:"position,omitempty"`
	ParentID         ID     `json:"parent_id,omitempty"`
	OwnerID          ID     `json:"owner_id,omitempty"`
	LastMessageID    ID     `json:"last_message_id,omitempty"`
	NSFW             bool   `json:"nsfw,omitempty"`
	RateLimitPerUser int    `json:"rate_limit_per_user,omitempty"`
	Bitrate          int    `json:"bitrate,omitempty"`
	UserLimit        int    `json:"user_limit,omitempty"`
}

// Emoji is a custom guild emoji.
type Emoji struct {
	ID            ID     `json:"id"`
	Name          string `json:"name"`
	Roles         []ID   `json:"roles,omitempty"`
	User          *User  `json:"user,omitempty"`
	RequireColons bool   `json:"require_colons,omitempty"`
	Managed       bool   `json:"managed,omitempty"`
	Animated      bool   `json:"animated,omitempty"`
	Available     bool   `json:"available,omitempty"`
}

// Role is a guild role.
type Role struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Hoist       bool   `json:"hoist"`
	Position    int    `json:"position"`
	Permissions string `json:"permissions"`
	Managed     bool   `json:"managed"`
	Mentionable bool   `json:"mentionable"`
}

// Sticker is a guild sticker.
type Sticker struct {
	ID          ID     `json:"id"`
	GuildID     ID     `json:"guild_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tags        string `json:"tags,omitempty"`
	FormatType  int    `json:"format_type"`
	Available   bool   `json:"available,omitempty"`
}

// Member is a guild member with its user.
type Member struct {
	User                       User   `json:"user"`
	Nick                       string `json:"nick,omitempty"`
	Avatar                     string `json:"avatar,omitempty"`
	Roles                      []ID   `json:"roles"`
	JoinedAt                   string `json:"joined_at"`
	PremiumSince               string `json:"premium_since,omitempty"`
	Deaf                       bool   `json:"deaf"`
	Mute                       bool   `json:"mute"`
	Pending                    bool   `json:"pending,omitempty"`
	CommunicationDisabledUntil string `json:"communication_disabled_until,omitempty"`
}

// PartialMember is a member attached to messages and interactions.
// The user is absent on messages and present on interactions.
type PartialMember struct {
	User        *User  `json:"user,omitempty"`
	Nick        string `json:"nick,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Roles       []ID   `json:"roles"`
	JoinedAt    string `json:"joined_at"`
	Deaf        bool   `json:"deaf"`
	Mute        bool   `json:"mute"`
	Permissions string `json:"permissions,omitempty"`
}

// Activity is one entry of a presence's activity list.
type Activity struct {
	Name string `json:"name"`
	Type int    `json:"type"`
	URL  string `json:"url,omitempty"`
}

// PresenceUser identifies the user a presence belongs to.
type PresenceUser struct {
	ID ID `json:"id"`
}

// Presence is a user's status in a guild.
type Presence struct {
	User         PresenceUser      `json:"user"`
	GuildID      ID                `json:"guild_id"`
	Status       string            `json:"status"`
	Activities   []Activity        `json:"activities,omitempty"`
	ClientStatus map[string]string `json:"client_status,omitempty"`
}

// VoiceState is a user's voice connection state. A zero ChannelID means
// the user left voice.
type VoiceState struct {
	GuildID    ID      `json:"guild_id,omitempty"`
	ChannelID  ID      `json:"channel_id,omitempty"`
	UserID     ID      `json:"user_id"`
	Member     *Member `json:"member,omitempty"`
	SessionID  string  `json:"session_id"`
	Deaf       bool    `json:"deaf"`
	Mute       bool    `json:"mute"`
	SelfDeaf   bool    `json:"self_deaf"`
	SelfMute   bool    `json:"self_mute"`
	SelfStream bool    `json:"self_stream,omitempty"`
	SelfVideo  bool    `json:"self_video"`
	Suppress   bool    `json:"suppress"`
}

// StageInstance is a live stage in a stage channel.
type StageInstance struct {
	ID           ID     `json:"id"`
	GuildID      ID     `json:"guild_id"`
	ChannelID    ID     `json:"channel_id"`
	Topic        string `json:"topic"`
	PrivacyLevel int    `json:"privacy_level"`
}

// IntegrationAccount is the external account behind an integration.
type IntegrationAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Integration is a guild integration.
type Integration struct {
	ID      ID                 `json:"id"`
	GuildID ID                 `json:"guild_id,omitempty"`
	Name    string             `json:"name"`
	Type    string             `json:"type"`
	Enabled bool               `json:"enabled"`
	Account IntegrationAccount `json:"account"`
}

// Guild is a full guild as delivered by GUILD_CREATE.
type Guild struct {
	ID             ID              `json:"id"`
	Name           string          `json:"name"`
	Icon           string          `json:"icon,omitempty"`
	Banner         string          `json:"banner,omitempty"`
	Description    string          `json:"description,omitempty"`
	OwnerID        ID              `json:"owner_id"`
	Unavailable    bool            `json:"unavailable,omitempty"`
	MemberCount    int64           `json:"member_count,omitempty"`
	Large          bool            `json:"large,omitempty"`
	PremiumTier    int             `json:"premium_tier,omitempty"`
	Features       []string        `json:"features,omitempty"`
	JoinedAt       string          `json:"joined_at,omitempty"`
	Channels       []Channel       `json:"channels,omitempty"`
	Threads        []Channel       `json:"threads,omitempty"`
	Emojis         []Emoji         `json:"emojis,omitempty"`
	Members        []Member        `json:"members,omitempty"`
	Presences      []Presence      `json:"presences,omitempty"`
	Roles          []Role          `json:"roles,omitempty"`
	Stickers       []Sticker       `json:"stickers,omitempty"`
	VoiceStates    []VoiceState    `json:"voice_states,omitempty"`
	StageInstances []StageInstance `json:"stage_instances,omitempty"`
}

// ReactionEmoji identifies the emoji of a reaction. Custom emojis carry an
// id; unicode emojis carry only a name.
type ReactionEmoji struct {
	ID       ID     `json:"id,omitempty"`
	Name     string `json:"name"`
	Animated bool   `json:"animated,omitempty"`
}

// Equal reports whether two reaction emojis are the same emoji: custom
// emojis compare by id, unicode emojis by name.
func (e ReactionEmoji) Equal(o ReactionEmoji) bool {
	switch {
	case !e.ID.IsZero() && !o.ID.IsZero():
		return e.ID == o.ID
	case e.ID.IsZero() && o.ID.IsZero():
		return e.Name == o.Name
	default:
		return false
	}
}

// Reaction is an aggregated reaction on a message.
type Reaction struct {
	Count int           `json:"count"`
	Me    bool          `json:"me"`
	Emoji ReactionEmoji `json:"emoji"`
}

// Message is a channel message.
type Message struct {
	ID              ID             `json:"id"`
	ChannelID       ID             `json:"channel_id"`
	GuildID         ID             `json:"guild_id,omitempty"`
	Author          User           `json:"author"`
	Member          *PartialMember `json:"member,omitempty"`
	Content         string         `json:"content"`
	Timestamp       string         `json:"timestamp"`
	EditedTimestamp string         `json:"edited_timestamp,omitempty"`
	TTS             bool           `json:"tts,omitempty"`
	MentionEveryone bool           `json:"mention_everyone,omitempty"`
	Pinned          bool           `json:"pinned,omitempty"`
	Type            int            `json:"type"`
	Flags           int64          `json:"flags,omitempty"`
	Reactions       []Reaction     `json:"reactions,omitempty"`
}
