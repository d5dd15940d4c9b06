package mirror

import (
	"slices"

	"github.com/zoobzio/mirror/gateway"
)

func (u *update) channelUpsert(ch gateway.Channel) error {
	if !u.wants(ResourceChannel) {
		return nil
	}
	return u.cacheChannel(ch)
}

func (u *update) cacheChannel(ch gateway.Channel) error {
	data, err := u.encode(u.strategy().Channel(ch))
	if err != nil {
		return err
	}
	if !ch.GuildID.IsZero() {
		u.pipe.SAdd(GuildChannelsKey(uint64(ch.GuildID)), uint64(ch.ID))
	}
	u.pipe.Set(ChannelKey(uint64(ch.ID)), data)
	return nil
}

func (u *update) channelDelete(guildID, channelID uint64) error {
	if !u.wants(ResourceChannel) {
		return nil
	}
	u.uncacheChannel(guildID, channelID)
	if u.wants(ResourceMessage) {
		return u.dropMessages(channelID)
	}
	return nil
}

func (u *update) uncacheChannel(guildID, channelID uint64) {
	if guildID != 0 {
		u.pipe.SRem(GuildChannelsKey(guildID), channelID)
	}
	u.pipe.Del(ChannelKey(channelID))
}

func (u *update) threadListSync(e *gateway.ThreadListSync) error {
	if !u.wants(ResourceChannel) {
		return nil
	}
	for _, th := range e.Threads {
		if th.GuildID.IsZero() {
			th.GuildID = e.GuildID
		}
		if err := u.cacheChannel(th); err != nil {
			return err
		}
	}
	return nil
}

// dropMessages queues deletion of a channel's message list and every
// message value it references.
func (u *update) dropMessages(channelID uint64) error {
	conn, err := u.conn()
	if err != nil {
		return err
	}
	ids, err := u.cache.messages.Range(u.ctx, conn, channelID, 0, -1)
	if err != nil {
		return err
	}
	keys := make([]Key, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, MessageKey(id))
	}
	keys = append(keys, ChannelMessagesKey(channelID))
	u.pipe.Del(keys...)
	return nil
}

func (u *update) messageCreate(m gateway.Message) error {
	guildID := uint64(m.GuildID)

	if u.wants(ResourceUser) {
		if err := u.cacheUser(m.Author, guildID); err != nil {
			return err
		}
	}

	if u.wants(ResourceMember) && m.Member != nil && guildID != 0 {
		if err := u.cachePartialMember(guildID, uint64(m.Author.ID), *m.Member); err != nil {
			return err
		}
	}

	if !u.wants(ResourceMessage) {
		return nil
	}

	data, err := u.encode(u.strategy().Message(m))
	if err != nil {
		return err
	}
	conn, err := u.conn()
	if err != nil {
		return err
	}
	_, err = u.cache.messages.Insert(u.ctx, conn, u.pipe, uint64(m.ChannelID), uint64(m.ID), data)
	return err
}

func (u *update) messageUpdate(e *gateway.MessageUpdate) error {
	if !u.wants(ResourceMessage) {
		return nil
	}
	msg := u.strategy().NewMessage()
	found, err := u.load(MessageKey(uint64(e.ID)), msg)
	if err != nil || !found {
		return err
	}
	msg.ApplyUpdate(*e)
	return u.setMessage(uint64(e.ID), msg)
}

func (u *update) setMessage(id uint64, msg CachedMessage) error {
	data, err := u.encode(msg)
	if err != nil {
		return err
	}
	u.pipe.Set(MessageKey(id), data)
	return nil
}

// loadMessage reads a cached message for a reaction event. It returns nil
// when reactions are disabled or the message is not cached.
func (u *update) loadMessage(id gateway.ID) (CachedMessage, error) {
	if !u.wants(ResourceReaction) {
		return nil, nil
	}
	msg := u.strategy().NewMessage()
	found, err := u.load(MessageKey(uint64(id)), msg)
	if err != nil || !found {
		return nil, err
	}
	return msg, nil
}

// isCurrentUser reports whether userID is the cached current user.
func (u *update) isCurrentUser(userID gateway.ID) (bool, error) {
	cu := u.strategy().NewCurrentUser()
	found, err := u.load(CurrentUserKey(), cu)
	if err != nil || !found {
		return false, err
	}
	return cu.UserID() == uint64(userID), nil
}

func findReaction(reactions []gateway.Reaction, emoji gateway.ReactionEmoji) int {
	return slices.IndexFunc(reactions, func(r gateway.Reaction) bool {
		return r.Emoji.Equal(emoji)
	})
}

func (u *update) reactionAdd(e *gateway.ReactionAdd) error {
	msg, err := u.loadMessage(e.MessageID)
	if err != nil || msg == nil {
		return err
	}

	reactions := msg.GetReactions()
	if i := findReaction(reactions, e.Emoji); i >= 0 {
		if !reactions[i].Me {
			me, err := u.isCurrentUser(e.UserID)
			if err != nil {
				return err
			}
			reactions[i].Me = me
		}
		reactions[i].Count++
	} else {
		me, err := u.isCurrentUser(e.UserID)
		if err != nil {
			return err
		}
		reactions = append(reactions, gateway.Reaction{Count: 1, Me: me, Emoji: e.Emoji})
	}

	msg.SetReactions(reactions)
	return u.setMessage(uint64(e.MessageID), msg)
}

func (u *update) reactionRemove(e *gateway.ReactionRemove) error {
	msg, err := u.loadMessage(e.MessageID)
	if err != nil || msg == nil {
		return err
	}

	reactions := msg.GetReactions()
	i := findReaction(reactions, e.Emoji)
	if i < 0 {
		return nil
	}
	if reactions[i].Me {
		me, err := u.isCurrentUser(e.UserID)
		if err != nil {
			return err
		}
		if me {
			reactions[i].Me = false
		}
	}
	if reactions[i].Count > 1 {
		reactions[i].Count--
	} else {
		reactions = slices.Delete(reactions, i, i+1)
	}

	msg.SetReactions(reactions)
	return u.setMessage(uint64(e.MessageID), msg)
}

func (u *update) reactionRemoveAll(e *gateway.ReactionRemoveAll) error {
	msg, err := u.loadMessage(e.MessageID)
	if err != nil || msg == nil {
		return err
	}
	msg.SetReactions(nil)
	return u.setMessage(uint64(e.MessageID), msg)
}

func (u *update) reactionRemoveEmoji(e *gateway.ReactionRemoveEmoji) error {
	msg, err := u.loadMessage(e.MessageID)
	if err != nil || msg == nil {
		return err
	}
	reactions := msg.GetReactions()
	i := findReaction(reactions, e.Emoji)
	if i < 0 {
		return nil
	}
	msg.SetReactions(slices.Delete(reactions, i, i+1))
	return u.setMessage(uint64(e.MessageID), msg)
}
