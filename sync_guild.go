package mirror

import (
	"github.com/zoobzio/mirror/gateway"
)

func (u *update) guildCreate(g gateway.Guild) error {
	guildID := uint64(g.ID)

	if g.Unavailable {
		if u.wants(ResourceGuild) {
			u.pipe.SAdd(UnavailableGuildsKey(), guildID).
				SRem(GuildsKey(), guildID).
				Del(GuildKey(guildID))
		}
		return nil
	}

	if u.wants(ResourceChannel) {
		for _, list := range [][]gateway.Channel{g.Channels, g.Threads} {
			for _, ch := range list {
				ch.GuildID = g.ID
				if err := u.cacheChannel(ch); err != nil {
					return err
				}
			}
		}
	}

	if u.wants(ResourceEmoji) {
		if err := u.cacheEmojis(guildID, g.Emojis); err != nil {
			return err
		}
	}

	for _, m := range g.Members {
		if u.wants(ResourceUser) {
			if err := u.cacheUser(m.User, guildID); err != nil {
				return err
			}
		}
		if u.wants(ResourceMember) {
			if err := u.cacheMember(guildID, m); err != nil {
				return err
			}
		}
	}

	if u.wants(ResourcePresence) {
		for _, p := range g.Presences {
			p.GuildID = g.ID
			if err := u.cachePresence(p); err != nil {
				return err
			}
		}
	}

	if u.wants(ResourceRole) {
		for _, r := range g.Roles {
			if err := u.cacheRole(guildID, r); err != nil {
				return err
			}
		}
	}

	if u.wants(ResourceSticker) {
		if err := u.cacheStickers(guildID, g.Stickers); err != nil {
			return err
		}
	}

	if u.wants(ResourceVoiceState) {
		for _, vs := range g.VoiceStates {
			if vs.ChannelID.IsZero() {
				continue
			}
			if err := u.setVoiceState(guildID, uint64(vs.ChannelID), vs); err != nil {
				return err
			}
		}
	}

	if u.wants(ResourceStageInstance) {
		for _, s := range g.StageInstances {
			s.GuildID = g.ID
			if err := u.cacheStageInstance(s); err != nil {
				return err
			}
		}
	}

	if u.wants(ResourceGuild) {
		data, err := u.encode(u.strategy().Guild(g))
		if err != nil {
			return err
		}
		u.pipe.SRem(UnavailableGuildsKey(), guildID).
			SAdd(GuildsKey(), guildID).
			Set(GuildKey(guildID), data)
	}
	return nil
}

func (u *update) guildUpdate(e *gateway.GuildUpdate) error {
	if !u.wants(ResourceGuild) {
		return nil
	}
	return u.modifyGuild(uint64(e.ID), func(g CachedGuild) {
		g.ApplyUpdate(*e)
	})
}

// modifyGuild reads the cached guild, applies fn and queues the write.
// An uncached guild is left alone.
func (u *update) modifyGuild(guildID uint64, fn func(CachedGuild)) error {
	g := u.strategy().NewGuild()
	found, err := u.load(GuildKey(guildID), g)
	if err != nil || !found {
		return err
	}
	fn(g)
	data, err := u.encode(g)
	if err != nil {
		return err
	}
	u.pipe.Set(GuildKey(guildID), data)
	return nil
}

// uncacheGuild tears down a guild and every child index the cache mirrors.
// An unavailable guild keeps its value, flagged unavailable.
func (u *update) uncacheGuild(guildID uint64, unavailable bool) error {
	if u.wants(ResourceGuild) {
		if unavailable {
			err := u.modifyGuild(guildID, func(g CachedGuild) {
				g.SetUnavailable(true)
			})
			if err != nil {
				return err
			}
			u.pipe.SAdd(UnavailableGuildsKey(), guildID).SRem(GuildsKey(), guildID)
		} else {
			u.pipe.SRem(GuildsKey(), guildID).
				SRem(UnavailableGuildsKey(), guildID).
				Del(GuildKey(guildID))
		}
	}

	if u.cache.config.Resources&^ResourceGuild == 0 {
		return nil
	}

	if u.wants(ResourceChannel) {
		ids, err := u.dropIndex(GuildChannelsKey(guildID), ChannelKey)
		if err != nil {
			return err
		}
		if u.wants(ResourceMessage) {
			for _, id := range ids {
				if err := u.dropMessages(id); err != nil {
					return err
				}
			}
		}
	}

	drops := []struct {
		resource Resource
		set      Key
		value    func(uint64) Key
	}{
		{ResourceEmoji, GuildEmojisKey(guildID), EmojiKey},
		{ResourceRole, GuildRolesKey(guildID), RoleKey},
		{ResourceSticker, GuildStickersKey(guildID), StickerKey},
		{ResourceStageInstance, GuildStageInstancesKey(guildID), StageInstanceKey},
		{ResourceIntegration, GuildIntegrationsKey(guildID), func(id uint64) Key { return IntegrationKey(guildID, id) }},
		{ResourcePresence, GuildPresencesKey(guildID), func(id uint64) Key { return PresenceKey(guildID, id) }},
	}
	for _, d := range drops {
		if !u.wants(d.resource) {
			continue
		}
		if _, err := u.dropIndex(d.set, d.value); err != nil {
			return err
		}
	}

	if u.wants(ResourceMember) {
		ids, err := u.dropIndex(GuildMembersKey(guildID), func(id uint64) Key { return MemberKey(guildID, id) })
		if err != nil {
			return err
		}
		if u.wants(ResourceUser) {
			for _, id := range ids {
				u.pipe.SRem(UserGuildsKey(id), guildID)
			}
		}
	}

	if u.wants(ResourceVoiceState) {
		return u.dropVoiceStates(guildID)
	}
	return nil
}

func (u *update) emojiIndex(guildID uint64) SetIndex[gateway.Emoji] {
	return SetIndex[gateway.Emoji]{
		Set: GuildEmojisKey(guildID),
		ID:  func(e gateway.Emoji) uint64 { return uint64(e.ID) },
		Key: EmojiKey,
		Encode: func(e gateway.Emoji) ([]byte, error) {
			return u.encodeOwned(guildID, u.strategy().Emoji(e))
		},
	}
}

// cacheEmojis reconciles the guild emoji set against a full replacement list.
// Users attached to newly added emojis are cached too.
func (u *update) cacheEmojis(guildID uint64, emojis []gateway.Emoji) error {
	conn, err := u.conn()
	if err != nil {
		return err
	}
	d, err := Reconcile(u.ctx, conn, u.pipe, u.emojiIndex(guildID), emojis)
	if err != nil {
		return err
	}
	if u.wants(ResourceUser) {
		for _, e := range d.Additions {
			if e.User == nil {
				continue
			}
			if err := u.cacheUser(*e.User, guildID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (u *update) stickerIndex(guildID uint64) SetIndex[gateway.Sticker] {
	return SetIndex[gateway.Sticker]{
		Set: GuildStickersKey(guildID),
		ID:  func(s gateway.Sticker) uint64 { return uint64(s.ID) },
		Key: StickerKey,
		Encode: func(s gateway.Sticker) ([]byte, error) {
			return u.encodeOwned(guildID, u.strategy().Sticker(s))
		},
		Refresh: true,
	}
}

// cacheStickers reconciles the guild sticker set against a full replacement
// list, rewriting the values of stickers that stay.
func (u *update) cacheStickers(guildID uint64, stickers []gateway.Sticker) error {
	conn, err := u.conn()
	if err != nil {
		return err
	}
	_, err = Reconcile(u.ctx, conn, u.pipe, u.stickerIndex(guildID), stickers)
	return err
}

func (u *update) roleUpsert(guildID uint64, r gateway.Role) error {
	if !u.wants(ResourceRole) {
		return nil
	}
	return u.cacheRole(guildID, r)
}

func (u *update) cacheRole(guildID uint64, r gateway.Role) error {
	data, err := u.encode(u.strategy().Role(guildID, r))
	if err != nil {
		return err
	}
	u.pipe.SAdd(GuildRolesKey(guildID), uint64(r.ID)).Set(RoleKey(uint64(r.ID)), data)
	return nil
}

func (u *update) uncacheRole(guildID, roleID uint64) {
	u.pipe.SRem(GuildRolesKey(guildID), roleID).Del(RoleKey(roleID))
}

func (u *update) integrationUpsert(i gateway.Integration) error {
	if !u.wants(ResourceIntegration) || i.GuildID.IsZero() {
		return nil
	}
	guildID := uint64(i.GuildID)
	data, err := u.encode(u.strategy().Integration(guildID, i))
	if err != nil {
		return err
	}
	u.pipe.SAdd(GuildIntegrationsKey(guildID), uint64(i.ID)).
		Set(IntegrationKey(guildID, uint64(i.ID)), data)
	return nil
}

func (u *update) integrationDelete(e *gateway.IntegrationDelete) error {
	if !u.wants(ResourceIntegration) {
		return nil
	}
	guildID := uint64(e.GuildID)
	u.pipe.SRem(GuildIntegrationsKey(guildID), uint64(e.ID)).
		Del(IntegrationKey(guildID, uint64(e.ID)))
	return nil
}

func (u *update) stageInstanceUpsert(s gateway.StageInstance) error {
	if !u.wants(ResourceStageInstance) {
		return nil
	}
	return u.cacheStageInstance(s)
}

func (u *update) cacheStageInstance(s gateway.StageInstance) error {
	guildID := uint64(s.GuildID)
	data, err := u.encodeOwned(guildID, u.strategy().StageInstance(s))
	if err != nil {
		return err
	}
	u.pipe.SAdd(GuildStageInstancesKey(guildID), uint64(s.ID)).
		Set(StageInstanceKey(uint64(s.ID)), data)
	return nil
}

func (u *update) uncacheStageInstance(guildID, stageID uint64) {
	u.pipe.SRem(GuildStageInstancesKey(guildID), stageID).Del(StageInstanceKey(stageID))
}
