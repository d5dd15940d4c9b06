package mirror

import (
	"github.com/zoobzio/mirror/gateway"
	"github.com/zoobzio/mirror/model"
)

// Strategy decides what is stored for each cached entity kind. Conversions
// take the upstream payload and return the value handed to the codec.
// Swapping the strategy changes only the stored bytes; keys, batching,
// reconciliation and eviction are unaffected.
type Strategy interface {
	// Codec marshals every value produced by the strategy.
	Codec() Codec

	CurrentUser(u gateway.User) any
	User(u gateway.User) any
	Channel(c gateway.Channel) any
	Emoji(e gateway.Emoji) any
	Guild(g gateway.Guild) any
	Integration(guildID uint64, i gateway.Integration) any
	Member(guildID uint64, m gateway.Member) any
	PartialMember(guildID, userID uint64, m gateway.PartialMember) any
	Message(m gateway.Message) any
	Presence(p gateway.Presence) any
	Role(guildID uint64, r gateway.Role) any
	StageInstance(s gateway.StageInstance) any
	Sticker(s gateway.Sticker) any
	VoiceState(guildID, channelID uint64, v gateway.VoiceState) any
	ChannelVoiceState(guildID, userID uint64) any

	// Factories for kinds read back during read-modify-write flows.
	// Each returns a fresh pointer the codec can decode into.
	NewGuild() CachedGuild
	NewMember() CachedMember
	NewMessage() CachedMessage
	NewVoiceState() CachedVoiceState
	NewCurrentUser() CachedCurrentUser
}

// CachedGuild is a guild value that supports in-place updates.
type CachedGuild interface {
	SetUnavailable(bool)
	AdjustMemberCount(delta int64)
	ApplyUpdate(gateway.GuildUpdate)
}

// CachedMember is a member value that supports in-place updates.
type CachedMember interface {
	ApplyUpdate(gateway.MemberUpdate)
}

// CachedMessage is a message value whose reactions can be edited.
type CachedMessage interface {
	GetReactions() []gateway.Reaction
	SetReactions([]gateway.Reaction)
	ApplyUpdate(gateway.MessageUpdate)
}

// CachedVoiceState is a voice state value that knows its channel.
type CachedVoiceState interface {
	VoiceChannel() uint64
}

// CachedCurrentUser is a current user value that knows its id.
type CachedCurrentUser interface {
	UserID() uint64
}

// DefaultStrategy caches the model package representations with msgpack.
type DefaultStrategy struct {
	codec Codec
}

// NewDefaultStrategy creates a DefaultStrategy using c, or MsgpackCodec when c is nil.
func NewDefaultStrategy(c Codec) DefaultStrategy {
	if c == nil {
		c = MsgpackCodec{}
	}
	return DefaultStrategy{codec: c}
}

// Codec returns the strategy codec.
func (s DefaultStrategy) Codec() Codec {
	if s.codec == nil {
		return MsgpackCodec{}
	}
	return s.codec
}

func (DefaultStrategy) CurrentUser(u gateway.User) any { return model.NewCurrentUser(u) }
func (DefaultStrategy) User(u gateway.User) any        { return model.NewUser(u) }
func (DefaultStrategy) Channel(c gateway.Channel) any  { return model.NewChannel(c) }
func (DefaultStrategy) Emoji(e gateway.Emoji) any      { return model.NewEmoji(e) }
func (DefaultStrategy) Guild(g gateway.Guild) any      { return model.NewGuild(g) }
func (DefaultStrategy) Message(m gateway.Message) any  { return model.NewMessage(m) }
func (DefaultStrategy) Presence(p gateway.Presence) any {
	return model.NewPresence(p)
}
func (DefaultStrategy) StageInstance(s gateway.StageInstance) any {
	return model.NewStageInstance(s)
}
func (DefaultStrategy) Sticker(s gateway.Sticker) any { return model.NewSticker(s) }

func (DefaultStrategy) Integration(guildID uint64, i gateway.Integration) any {
	return model.NewIntegration(guildID, i)
}

func (DefaultStrategy) Member(guildID uint64, m gateway.Member) any {
	return model.NewMember(guildID, m)
}

func (DefaultStrategy) PartialMember(guildID, userID uint64, m gateway.PartialMember) any {
	return model.NewPartialMember(guildID, userID, m)
}

func (DefaultStrategy) Role(guildID uint64, r gateway.Role) any {
	return model.NewRole(guildID, r)
}

func (DefaultStrategy) VoiceState(guildID, channelID uint64, v gateway.VoiceState) any {
	return model.NewVoiceState(guildID, channelID, v)
}

func (DefaultStrategy) ChannelVoiceState(guildID, userID uint64) any {
	return model.ChannelVoiceState{GuildID: guildID, UserID: userID}
}

func (DefaultStrategy) NewGuild() CachedGuild             { return &model.Guild{} }
func (DefaultStrategy) NewMember() CachedMember           { return &model.Member{} }
func (DefaultStrategy) NewMessage() CachedMessage         { return &model.Message{} }
func (DefaultStrategy) NewVoiceState() CachedVoiceState   { return &model.VoiceState{} }
func (DefaultStrategy) NewCurrentUser() CachedCurrentUser { return &model.CurrentUser{} }

var _ Strategy = DefaultStrategy{}
