package mirror

import (
	"fmt"

	"github.com/zoobzio/mirror/gateway"
)

// dispatch routes an event to its synchronization logic. Events must be
// the pointer types produced by gateway.Decode.
func (u *update) dispatch(ev gateway.Event) error {
	switch e := ev.(type) {
	case *gateway.Ready:
		return u.ready(e)
	case *gateway.UserUpdate:
		return u.currentUser(e.User)

	case *gateway.ChannelCreate:
		return u.channelUpsert(e.Channel)
	case *gateway.ChannelUpdate:
		return u.channelUpsert(e.Channel)
	case *gateway.ChannelDelete:
		return u.channelDelete(uint64(e.GuildID), uint64(e.ID))
	case *gateway.ChannelPinsUpdate:
		return nil
	case *gateway.ThreadCreate:
		return u.channelUpsert(e.Channel)
	case *gateway.ThreadUpdate:
		return u.channelUpsert(e.Channel)
	case *gateway.ThreadDelete:
		return u.channelDelete(uint64(e.GuildID), uint64(e.ID))
	case *gateway.ThreadListSync:
		return u.threadListSync(e)

	case *gateway.GuildCreate:
		return u.guildCreate(e.Guild)
	case *gateway.GuildUpdate:
		return u.guildUpdate(e)
	case *gateway.GuildDelete:
		return u.uncacheGuild(uint64(e.ID), false)
	case *gateway.UnavailableGuild:
		return u.uncacheGuild(uint64(e.ID), true)
	case *gateway.GuildEmojisUpdate:
		if !u.wants(ResourceEmoji) {
			return nil
		}
		return u.cacheEmojis(uint64(e.GuildID), e.Emojis)
	case *gateway.GuildStickersUpdate:
		if !u.wants(ResourceSticker) {
			return nil
		}
		return u.cacheStickers(uint64(e.GuildID), e.Stickers)

	case *gateway.IntegrationCreate:
		return u.integrationUpsert(e.Integration)
	case *gateway.IntegrationUpdate:
		return u.integrationUpsert(e.Integration)
	case *gateway.IntegrationDelete:
		return u.integrationDelete(e)

	case *gateway.RoleCreate:
		return u.roleUpsert(uint64(e.GuildID), e.Role)
	case *gateway.RoleUpdate:
		return u.roleUpsert(uint64(e.GuildID), e.Role)
	case *gateway.RoleDelete:
		if u.wants(ResourceRole) {
			u.uncacheRole(uint64(e.GuildID), uint64(e.RoleID))
		}
		return nil

	case *gateway.StageInstanceCreate:
		return u.stageInstanceUpsert(e.StageInstance)
	case *gateway.StageInstanceUpdate:
		return u.stageInstanceUpsert(e.StageInstance)
	case *gateway.StageInstanceDelete:
		if u.wants(ResourceStageInstance) {
			u.uncacheStageInstance(uint64(e.GuildID), uint64(e.ID))
		}
		return nil

	case *gateway.InteractionCreate:
		return u.interactionCreate(e)
	case *gateway.MemberAdd:
		return u.memberAdd(e)
	case *gateway.MemberChunk:
		return u.memberChunk(e)
	case *gateway.MemberRemove:
		return u.memberRemove(e)
	case *gateway.MemberUpdate:
		return u.memberUpdate(e)
	case *gateway.PresenceUpdate:
		if !u.wants(ResourcePresence) {
			return nil
		}
		return u.cachePresence(e.Presence)

	case *gateway.MessageCreate:
		return u.messageCreate(e.Message)
	case *gateway.MessageUpdate:
		return u.messageUpdate(e)
	case *gateway.MessageDelete:
		if u.wants(ResourceMessage) {
			u.cache.messages.Remove(u.pipe, uint64(e.ChannelID), uint64(e.ID))
		}
		return nil
	case *gateway.MessageDeleteBulk:
		if u.wants(ResourceMessage) {
			for _, id := range e.IDs {
				u.cache.messages.Remove(u.pipe, uint64(e.ChannelID), uint64(id))
			}
		}
		return nil
	case *gateway.ReactionAdd:
		return u.reactionAdd(e)
	case *gateway.ReactionRemove:
		return u.reactionRemove(e)
	case *gateway.ReactionRemoveAll:
		return u.reactionRemoveAll(e)
	case *gateway.ReactionRemoveEmoji:
		return u.reactionRemoveEmoji(e)

	case *gateway.VoiceStateUpdate:
		return u.voiceStateUpdate(e.VoiceState)

	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
}

func (u *update) ready(e *gateway.Ready) error {
	if u.wants(ResourceGuild) {
		ids := make([]uint64, 0, len(e.Guilds))
		for _, g := range e.Guilds {
			ids = append(ids, uint64(g.ID))
		}
		u.pipe.SAdd(UnavailableGuildsKey(), ids...)
	}
	return u.currentUser(e.User)
}

func (u *update) currentUser(user gateway.User) error {
	if !u.wants(ResourceCurrentUser) {
		return nil
	}
	data, err := u.encode(u.strategy().CurrentUser(user))
	if err != nil {
		return err
	}
	u.pipe.Set(CurrentUserKey(), data)
	return nil
}

// dropIndex scans a membership set and queues removal of every id from the
// set along with the value each id addresses. It returns the removed ids.
func (u *update) dropIndex(set Key, value func(uint64) Key) ([]uint64, error) {
	ids, err := u.scan(set)
	if err != nil {
		return nil, err
	}
	keys := make([]Key, len(ids))
	for i, id := range ids {
		keys[i] = value(id)
	}
	u.pipe.SRem(set, ids...).Del(keys...)
	return ids, nil
}
