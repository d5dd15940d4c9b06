package gateway

// Event is a decoded dispatch payload.
type Event interface {
	// EventName returns the dispatch name, e.g. MESSAGE_CREATE.
	EventName() string
}

// UnavailableGuild is a guild that is not reachable, either listed in READY
// or announced by a GUILD_DELETE with unavailable set.
type UnavailableGuild struct {
	ID          ID   `json:"id"`
	Unavailable bool `json:"unavailable"`
}

// Ready is sent after identifying.
type Ready struct {
	Version   int                `json:"v"`
	User      User               `json:"user"`
	Guilds    []UnavailableGuild `json:"guilds"`
	SessionID string             `json:"session_id"`
}

// UserUpdate carries the updated current user.
type UserUpdate struct {
	User
}

// ChannelCreate carries a created channel.
type ChannelCreate struct {
	Channel
}

// ChannelUpdate carries an updated channel.
type ChannelUpdate struct {
	Channel
}

// ChannelDelete carries a deleted channel.
type ChannelDelete struct {
	Channel
}

// ChannelPinsUpdate reports a pin change in a channel.
type ChannelPinsUpdate struct {
	GuildID          ID     `json:"guild_id,omitempty"`
	ChannelID        ID     `json:"channel_id"`
	LastPinTimestamp string `json:"last_pin_timestamp,omitempty"`
}

// GuildCreate carries a full guild, or an unavailable stub.
type GuildCreate struct {
	Guild
}

// GuildUpdate carries the changed top-level guild fields.
type GuildUpdate struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon,omitempty"`
	Banner      string   `json:"banner,omitempty"`
	Description string   `json:"description,omitempty"`
	OwnerID     ID       `json:"owner_id"`
	PremiumTier int      `json:"premium_tier,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// GuildDelete reports the bot left or was removed from a guild.
type GuildDelete struct {
	ID ID `json:"id"`
}

// GuildEmojisUpdate carries the full replacement emoji list of a guild.
type GuildEmojisUpdate struct {
	GuildID ID      `json:"guild_id"`
	Emojis  []Emoji `json:"emojis"`
}

// GuildStickersUpdate carries the full replacement sticker list of a guild.
type GuildStickersUpdate struct {
	GuildID  ID        `json:"guild_id"`
	Stickers []Sticker `json:"stickers"`
}

// IntegrationCreate carries a created integration.
type IntegrationCreate struct {
	Integration
}

// IntegrationUpdate carries an updated integration.
type IntegrationUpdate struct {
	Integration
}

// IntegrationDelete reports a removed integration.
type IntegrationDelete struct {
	ID            ID `json:"id"`
	GuildID       ID `json:"guild_id"`
	ApplicationID ID `json:"application_id,omitempty"`
}

// Resolved holds entities referenced by interaction options.
type Resolved struct {
	Users   map[string]User          `json:"users,omitempty"`
	Members map[string]PartialMember `json:"members,omitempty"`
}

// InteractionData is the payload of an application command interaction.
type InteractionData struct {
	ID       ID        `json:"id"`
	Name     string    `json:"name"`
	Type     int       `json:"type"`
	Resolved *Resolved `json:"resolved,omitempty"`
}

// InteractionCreate carries an interaction. In guilds the invoking user is
// in Member; in direct messages it is in User.
type InteractionCreate struct {
	ID        ID               `json:"id"`
	Type      int              `json:"type"`
	GuildID   ID               `json:"guild_id,omitempty"`
	ChannelID ID               `json:"channel_id,omitempty"`
	Member    *PartialMember   `json:"member,omitempty"`
	User      *User            `json:"user,omitempty"`
	Data      *InteractionData `json:"data,omitempty"`
}

// MemberAdd carries a member that joined a guild.
type MemberAdd struct {
	Member
	GuildID ID `json:"guild_id"`
}

// MemberChunk carries a chunk of members requested from the gateway.
type MemberChunk struct {
	GuildID    ID         `json:"guild_id"`
	Members    []Member   `json:"members"`
	ChunkIndex int        `json:"chunk_index"`
	ChunkCount int        `json:"chunk_count"`
	NotFound   []ID       `json:"not_found,omitempty"`
	Presences  []Presence `json:"presences,omitempty"`
	Nonce      string     `json:"nonce,omitempty"`
}

// MemberRemove reports a member that left a guild.
type MemberRemove struct {
	GuildID ID   `json:"guild_id"`
	User    User `json:"user"`
}

// MemberUpdate carries the changed fields of a member. Nil pointers mean
// the field was not sent.
type MemberUpdate struct {
	GuildID                    ID      `json:"guild_id"`
	User                       User    `json:"user"`
	Roles                      []ID    `json:"roles"`
	Nick                       *string `json:"nick,omitempty"`
	Avatar                     *string `json:"avatar,omitempty"`
	JoinedAt                   string  `json:"joined_at,omitempty"`
	PremiumSince               *string `json:"premium_since,omitempty"`
	Deaf                       *bool   `json:"deaf,omitempty"`
	Mute                       *bool   `json:"mute,omitempty"`
	Pending                    bool    `json:"pending,omitempty"`
	CommunicationDisabledUntil *string `json:"communication_disabled_until,omitempty"`
}

// MessageCreate carries a new message.
type MessageCreate struct {
	Message
}

// MessageUpdate carries the changed fields of a message. Nil pointers mean
// the field was not sent.
type MessageUpdate struct {
	ID              ID      `json:"id"`
	ChannelID       ID      `json:"channel_id"`
	GuildID         ID      `json:"guild_id,omitempty"`
	Content         *string `json:"content,omitempty"`
	EditedTimestamp *string `json:"edited_timestamp,omitempty"`
	Pinned          *bool   `json:"pinned,omitempty"`
	Flags           *int64  `json:"flags,omitempty"`
}

// MessageDelete reports a deleted message.
type MessageDelete struct {
	ID        ID `json:"id"`
	ChannelID ID `json:"channel_id"`
	GuildID   ID `json:"guild_id,omitempty"`
}

// MessageDeleteBulk reports several deleted messages in one channel.
type MessageDeleteBulk struct {
	IDs       []ID `json:"ids"`
	ChannelID ID   `json:"channel_id"`
	GuildID   ID   `json:"guild_id,omitempty"`
}

// PresenceUpdate carries a presence.
type PresenceUpdate struct {
	Presence
}

// ReactionAdd reports a user reacting to a message.
type ReactionAdd struct {
	UserID    ID            `json:"user_id"`
	ChannelID ID            `json:"channel_id"`
	MessageID ID            `json:"message_id"`
	GuildID   ID            `json:"guild_id,omitempty"`
	Member    *Member       `json:"member,omitempty"`
	Emoji     ReactionEmoji `json:"emoji"`
}

// ReactionRemove reports a user removing a reaction.
type ReactionRemove struct {
	UserID    ID            `json:"user_id"`
	ChannelID ID            `json:"channel_id"`
	MessageID ID            `json:"message_id"`
	GuildID   ID            `json:"guild_id,omitempty"`
	Emoji     ReactionEmoji `json:"emoji"`
}

// ReactionRemoveAll reports every reaction removed from a message.
type ReactionRemoveAll struct {
	ChannelID ID `json:"channel_id"`
	MessageID ID `json:"message_id"`
	GuildID   ID `json:"guild_id,omitempty"`
}

// ReactionRemoveEmoji reports every reaction of one emoji removed from a message.
type ReactionRemoveEmoji struct {
	ChannelID ID            `json:"channel_id"`
	MessageID ID            `json:"message_id"`
	GuildID   ID            `json:"guild_id,omitempty"`
	Emoji     ReactionEmoji `json:"emoji"`
}

// RoleCreate carries a created role.
type RoleCreate struct {
	GuildID ID   `json:"guild_id"`
	Role    Role `json:"role"`
}

// RoleUpdate carries an updated role.
type RoleUpdate struct {
	GuildID ID   `json:"guild_id"`
	Role    Role `json:"role"`
}

// RoleDelete reports a deleted role.
type RoleDelete struct {
	GuildID ID `json:"guild_id"`
	RoleID  ID `json:"role_id"`
}

// StageInstanceCreate carries a created stage instance.
type StageInstanceCreate struct {
	StageInstance
}

// StageInstanceUpdate carries an updated stage instance.
type StageInstanceUpdate struct {
	StageInstance
}

// StageInstanceDelete carries a deleted stage instance.
type StageInstanceDelete struct {
	StageInstance
}

// ThreadCreate carries a created thread.
type ThreadCreate struct {
	Channel
}

// ThreadUpdate carries an updated thread.
type ThreadUpdate struct {
	Channel
}

// ThreadDelete reports a deleted thread.
type ThreadDelete struct {
	ID       ID  `json:"id"`
	GuildID  ID  `json:"guild_id"`
	ParentID ID  `json:"parent_id,omitempty"`
	Type     int `json:"type"`
}

// ThreadListSync carries the active threads of a guild.
type ThreadListSync struct {
	GuildID    ID        `json:"guild_id"`
	ChannelIDs []ID      `json:"channel_ids,omitempty"`
	Threads    []Channel `json:"threads"`
}

// VoiceStateUpdate carries a voice state change.
type VoiceStateUpdate struct {
	VoiceState
}

func (Ready) EventName() string               { return "READY" }
func (UserUpdate) EventName() string          { return "USER_UPDATE" }
func (ChannelCreate) EventName() string       { return "CHANNEL_CREATE" }
func (ChannelUpdate) EventName() string       { return "CHANNEL_UPDATE" }
func (ChannelDelete) EventName() string       { return "CHANNEL_DELETE" }
func (ChannelPinsUpdate) EventName() string   { return "CHANNEL_PINS_UPDATE" }
func (GuildCreate) EventName() string         { return "GUILD_CREATE" }
func (GuildUpdate) EventName() string         { return "GUILD_UPDATE" }
func (GuildDelete) EventName() string         { return "GUILD_DELETE" }
func (UnavailableGuild) EventName() string    { return "GUILD_DELETE" }
func (GuildEmojisUpdate) EventName() string   { return "GUILD_EMOJIS_UPDATE" }
func (GuildStickersUpdate) EventName() string { return "GUILD_STICKERS_UPDATE" }
func (IntegrationCreate) EventName() string   { return "INTEGRATION_CREATE" }
func (IntegrationUpdate) EventName() string   { return "INTEGRATION_UPDATE" }
func (IntegrationDelete) EventName() string   { return "INTEGRATION_DELETE" }
func (InteractionCreate) EventName() string   { return "INTERACTION_CREATE" }
func (MemberAdd) EventName() string           { return "GUILD_MEMBER_ADD" }
func (MemberChunk) EventName() string         { return "GUILD_MEMBERS_CHUNK" }
func (MemberRemove) EventName() string        { return "GUILD_MEMBER_REMOVE" }
func (MemberUpdate) EventName() string        { return "GUILD_MEMBER_UPDATE" }
func (MessageCreate) EventName() string       { return "MESSAGE_CREATE" }
func (MessageUpdate) EventName() string       { return "MESSAGE_UPDATE" }
func (MessageDelete) EventName() string       { return "MESSAGE_DELETE" }
func (MessageDeleteBulk) EventName() string   { return "MESSAGE_DELETE_BULK" }
func (PresenceUpdate) EventName() string      { return "PRESENCE_UPDATE" }
func (ReactionAdd) EventName() string         { return "MESSAGE_REACTION_ADD" }
func (ReactionRemove) EventName() string      { return "MESSAGE_REACTION_REMOVE" }
func (ReactionRemoveAll) EventName() string   { return "MESSAGE_REACTION_REMOVE_ALL" }
func (ReactionRemoveEmoji) EventName() string { return "MESSAGE_REACTION_REMOVE_EMOJI" }
func (RoleCreate) EventName() string          { return "GUILD_ROLE_CREATE" }
func (RoleUpdate) EventName() string          { return "GUILD_ROLE_UPDATE" }
func (RoleDelete) EventName() string          { return "GUILD_ROLE_DELETE" }
func (StageInstanceCreate) EventName() string { return "STAGE_INSTANCE_CREATE" }
func (StageInstanceUpdate) EventName() string { return "STAGE_INSTANCE_UPDATE" }
func (StageInstanceDelete) EventName() string { return "STAGE_INSTANCE_DELETE" }
func (ThreadCreate) EventName() string        { return "THREAD_CREATE" }
func (ThreadUpdate) EventName() string        { return "THREAD_UPDATE" }
func (ThreadDelete) EventName() string        { return "THREAD_DELETE" }
func (ThreadListSync) EventName() string      { return "THREAD_LIST_SYNC" }
func (VoiceStateUpdate) EventName() string    { return "VOICE_STATE_UPDATE" }
