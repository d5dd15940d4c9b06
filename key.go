package mirror

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a logical key variant.
type Kind uint8

// Key kinds. The name of each kind is part of the on-the-wire contract.
const (
	KindCurrentUser Kind = iota
	KindChannel
	KindGuildChannels
	KindEmoji
	KindGuildEmojis
	KindIntegration
	KindGuildIntegrations
	KindUser
	KindUsers
	KindUserGuilds
	KindMember
	KindGuildMembers
	KindUnavailableGuilds
	KindGuild
	KindGuilds
	KindChannelMessages
	KindMessage
	KindGuildPresences
	KindPresence
	KindGuildRoles
	KindRole
	KindGuildStageInstances
	KindStageInstance
	KindGuildStickers
	KindSticker
	KindChannelVoiceStates
	KindGuildVoiceStates
	KindVoiceState
	kindCount
)

type kindSpec struct {
	name  string
	arity int
}

var kinds = [kindCount]kindSpec{
	KindCurrentUser:         {"CURRENT_USER", 0},
	KindChannel:             {"CHANNEL", 1},
	KindGuildChannels:       {"GUILD_CHANNELS", 1},
	KindEmoji:               {"EMOJI", 1},
	KindGuildEmojis:         {"GUILD_EMOJIS", 1},
	KindIntegration:         {"INTEGRATION", 2},
	KindGuildIntegrations:   {"GUILD_INTEGRATIONS", 1},
	KindUser:                {"USER", 1},
	KindUsers:               {"USERS", 0},
	KindUserGuilds:          {"USER_GUILDS", 1},
	KindMember:              {"MEMBER", 2},
	KindGuildMembers:        {"GUILD_MEMBERS", 1},
	KindUnavailableGuilds:   {"UNAVAILABLE_GUILDS", 0},
	KindGuild:               {"GUILD", 1},
	KindGuilds:              {"GUILDS", 0},
	KindChannelMessages:     {"CHANNEL_MESSAGES", 1},
	KindMessage:             {"MESSAGE", 1},
	KindGuildPresences:      {"GUILD_PRESENCES", 1},
	KindPresence:            {"PRESENCE", 2},
	KindGuildRoles:          {"GUILD_ROLES", 1},
	KindRole:                {"ROLE", 1},
	KindGuildStageInstances: {"GUILD_STAGE_INSTANCES", 1},
	KindStageInstance:       {"STAGE_INSTANCE", 1},
	KindGuildStickers:       {"GUILD_STICKERS", 1},
	KindSticker:             {"STICKER", 1},
	KindChannelVoiceStates:  {"VOICE_STATE_USER", 1},
	KindGuildVoiceStates:    {"GUILD_VOICE_STATES", 1},
	KindVoiceState:          {"VOICE_STATE", 2},
}

// String returns the uppercase name token of the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kinds[k].name
}

// Arity returns how many identifiers a key of this kind carries.
func (k Kind) Arity() int {
	if k >= kindCount {
		return 0
	}
	return kinds[k].arity
}

// Owned reports whether values stored under this kind carry an owner prefix
// (see EncodeOwned).
func (k Kind) Owned() bool {
	return k == KindEmoji || k == KindSticker || k == KindStageInstance
}

// Key is a logical store address: a kind plus zero, one or two identifiers.
// Keys are values; construct them with the per-kind constructors.
type Key struct {
	kind Kind
	ids  [2]uint64
}

// Kind returns the variant of the key.
func (k Key) Kind() Kind { return k.kind }

// IDs returns the identifiers carried by the key.
func (k Key) IDs() []uint64 {
	return k.ids[:k.kind.Arity()]
}

// AppendTo appends the encoded key to dst.
func (k Key) AppendTo(dst []byte) []byte {
	dst = append(dst, kinds[k.kind].name...)
	var buf [20]byte
	for _, id := range k.ids[:kinds[k.kind].arity] {
		dst = append(dst, ':')
		dst = append(dst, strconv.AppendUint(buf[:0], id, 10)...)
	}
	return dst
}

// Encode returns the wire form of the key: NAME, NAME:ID or NAME:ID:ID.
func (k Key) Encode() []byte {
	return k.AppendTo(make([]byte, 0, len(kinds[k.kind].name)+42))
}

// String returns the encoded key as a string.
func (k Key) String() string {
	return string(k.Encode())
}

// ParseKey decodes the wire form produced by Encode.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, ":")
	for kind := Kind(0); kind < kindCount; kind++ {
		if kinds[kind].name != parts[0] {
			continue
		}
		if len(parts)-1 != kinds[kind].arity {
			return Key{}, fmt.Errorf("mirror: key %q: %s takes %d ids", s, parts[0], kinds[kind].arity)
		}
		k := Key{kind: kind}
		for i, p := range parts[1:] {
			id, err := strconv.ParseUint(p, 10, 64)
			if err != nil {
				return Key{}, fmt.Errorf("mirror: key %q: %w", s, err)
			}
			k.ids[i] = id
		}
		return k, nil
	}
	return Key{}, fmt.Errorf("mirror: key %q: unknown kind", s)
}

func key0(kind Kind) Key              { return Key{kind: kind} }
func key1(kind Kind, a uint64) Key    { return Key{kind: kind, ids: [2]uint64{a}} }
func key2(kind Kind, a, b uint64) Key { return Key{kind: kind, ids: [2]uint64{a, b}} }

// CurrentUserKey addresses the connected bot user.
func CurrentUserKey() Key { return key0(KindCurrentUser) }

// ChannelKey addresses a channel or thread value.
func ChannelKey(channelID uint64) Key { return key1(KindChannel, channelID) }

// GuildChannelsKey addresses the set of channel ids in a guild.
func GuildChannelsKey(guildID uint64) Key { return key1(KindGuildChannels, guildID) }

// EmojiKey addresses an emoji value. The value is owner-prefixed with its guild id.
func EmojiKey(emojiID uint64) Key { return key1(KindEmoji, emojiID) }

// GuildEmojisKey addresses the set of emoji ids in a guild.
func GuildEmojisKey(guildID uint64) Key { return key1(KindGuildEmojis, guildID) }

// IntegrationKey addresses a guild integration value.
func IntegrationKey(guildID, integrationID uint64) Key {
	return key2(KindIntegration, guildID, integrationID)
}

// GuildIntegrationsKey addresses the set of integration ids in a guild.
func GuildIntegrationsKey(guildID uint64) Key { return key1(KindGuildIntegrations, guildID) }

// UserKey addresses a user value.
func UserKey(userID uint64) Key { return key1(KindUser, userID) }

// UsersKey addresses the set of all cached user ids.
func UsersKey() Key { return key0(KindUsers) }

// UserGuildsKey addresses the set of guild ids a user is known to be in.
func UserGuildsKey(userID uint64) Key { return key1(KindUserGuilds, userID) }

// MemberKey addresses a guild member value.
func MemberKey(guildID, userID uint64) Key { return key2(KindMember, guildID, userID) }

// GuildMembersKey addresses the set of member user ids in a guild.
func GuildMembersKey(guildID uint64) Key { return key1(KindGuildMembers, guildID) }

// UnavailableGuildsKey addresses the set of guild ids currently unavailable.
func UnavailableGuildsKey() Key { return key0(KindUnavailableGuilds) }

// GuildKey addresses a guild value.
func GuildKey(guildID uint64) Key { return key1(KindGuild, guildID) }

// GuildsKey addresses the set of all available guild ids.
func GuildsKey() Key { return key0(KindGuilds) }

// ChannelMessagesKey addresses the bounded list of message ids in a channel.
func ChannelMessagesKey(channelID uint64) Key { return key1(KindChannelMessages, channelID) }

// MessageKey addresses a message value.
func MessageKey(messageID uint64) Key { return key1(KindMessage, messageID) }

// GuildPresencesKey addresses the set of user ids with a presence in a guild.
func GuildPresencesKey(guildID uint64) Key { return key1(KindGuildPresences, guildID) }

// PresenceKey addresses a presence value.
func PresenceKey(guildID, userID uint64) Key { return key2(KindPresence, guildID, userID) }

// GuildRolesKey addresses the set of role ids in a guild.
func GuildRolesKey(guildID uint64) Key { return key1(KindGuildRoles, guildID) }

// RoleKey addresses a role value.
func RoleKey(roleID uint64) Key { return key1(KindRole, roleID) }

// GuildStageInstancesKey addresses the set of stage instance ids in a guild.
func GuildStageInstancesKey(guildID uint64) Key { return key1(KindGuildStageInstances, guildID) }

// StageInstanceKey addresses a stage instance value. The value is owner-prefixed.
func StageInstanceKey(stageID uint64) Key { return key1(KindStageInstance, stageID) }

// GuildStickersKey addresses the set of sticker ids in a guild.
func GuildStickersKey(guildID uint64) Key { return key1(KindGuildStickers, guildID) }

// StickerKey addresses a sticker value. The value is owner-prefixed.
func StickerKey(stickerID uint64) Key { return key1(KindSticker, stickerID) }

// ChannelVoiceStatesKey addresses the set of encoded (guild, user) pairs
// connected to a voice channel.
func ChannelVoiceStatesKey(channelID uint64) Key { return key1(KindChannelVoiceStates, channelID) }

// GuildVoiceStatesKey addresses the set of user ids connected to voice in a guild.
func GuildVoiceStatesKey(guildID uint64) Key { return key1(KindGuildVoiceStates, guildID) }

// VoiceStateKey addresses a voice state value.
func VoiceStateKey(guildID, userID uint64) Key { return key2(KindVoiceState, guildID, userID) }
