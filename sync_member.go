package mirror

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/zoobzio/mirror/gateway"
)

// cacheUser stores a user and, when guildID is set, records the guild in
// the user's guild set.
func (u *update) cacheUser(user gateway.User, guildID uint64) error {
	data, err := u.encode(u.strategy().User(user))
	if err != nil {
		return err
	}
	userID := uint64(user.ID)
	if guildID != 0 {
		u.pipe.SAdd(UserGuildsKey(userID), guildID)
	}
	u.pipe.SAdd(UsersKey(), userID).Set(UserKey(userID), data)
	return nil
}

// uncacheUser drops guildID from the user's guild set. The user value goes
// only when no other guild references it.
func (u *update) uncacheUser(userID, guildID uint64) error {
	conn, err := u.conn()
	if err != nil {
		return err
	}
	var guilds int64
	if err := NewPipe().SCard(UserGuildsKey(userID)).Query(u.ctx, conn, Into(&guilds, Int)); err != nil {
		return err
	}
	u.pipe.SRem(UserGuildsKey(userID), guildID)
	if guilds <= 1 {
		u.pipe.SRem(UsersKey(), userID).Del(UserKey(userID))
	}
	return nil
}

// cacheUsersIfAbsent caches each user not yet in the user set. Membership
// is read in one batch before anything is queued.
func (u *update) cacheUsersIfAbsent(users []gateway.User, guildID uint64) error {
	if len(users) == 0 {
		return nil
	}
	conn, err := u.conn()
	if err != nil {
		return err
	}
	check := NewPipe()
	present := make([]bool, len(users))
	targets := make([]Target, len(users))
	for i, user := range users {
		check.SIsMember(UsersKey(), uint64(user.ID))
		targets[i] = Into(&present[i], Bool)
	}
	if err := check.Query(u.ctx, conn, targets...); err != nil {
		return err
	}
	for i, user := range users {
		if present[i] {
			continue
		}
		if err := u.cacheUser(user, guildID); err != nil {
			return err
		}
	}
	return nil
}

func (u *update) cacheMember(guildID uint64, m gateway.Member) error {
	userID := uint64(m.User.ID)
	data, err := u.encode(u.strategy().Member(guildID, m))
	if err != nil {
		return err
	}
	u.pipe.SAdd(GuildMembersKey(guildID), userID).Set(MemberKey(guildID, userID), data)
	return nil
}

func (u *update) cachePartialMember(guildID, userID uint64, m gateway.PartialMember) error {
	data, err := u.encode(u.strategy().PartialMember(guildID, userID, m))
	if err != nil {
		return err
	}
	u.pipe.SAdd(GuildMembersKey(guildID), userID).Set(MemberKey(guildID, userID), data)
	return nil
}

func (u *update) uncacheMember(guildID, userID uint64) {
	u.pipe.SRem(GuildMembersKey(guildID), userID).Del(MemberKey(guildID, userID))
}

func (u *update) cachePresence(p gateway.Presence) error {
	data, err := u.encode(u.strategy().Presence(p))
	if err != nil {
		return err
	}
	guildID, userID := uint64(p.GuildID), uint64(p.User.ID)
	u.pipe.SAdd(GuildPresencesKey(guildID), userID).Set(PresenceKey(guildID, userID), data)
	return nil
}

func (u *update) adjustMemberCount(guildID uint64, delta int64) error {
	if !u.wants(ResourceGuild) {
		return nil
	}
	return u.modifyGuild(guildID, func(g CachedGuild) {
		g.AdjustMemberCount(delta)
	})
}

func (u *update) memberAdd(e *gateway.MemberAdd) error {
	guildID := uint64(e.GuildID)
	if err := u.adjustMemberCount(guildID, 1); err != nil {
		return err
	}
	if u.wants(ResourceUser) {
		if err := u.cacheUser(e.User, guildID); err != nil {
			return err
		}
	}
	if u.wants(ResourceMember) {
		return u.cacheMember(guildID, e.Member)
	}
	return nil
}

func (u *update) memberChunk(e *gateway.MemberChunk) error {
	if len(e.Members) == 0 {
		return nil
	}
	guildID := uint64(e.GuildID)
	for _, m := range e.Members {
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
		for _, p := range e.Presences {
			p.GuildID = e.GuildID
			if err := u.cachePresence(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (u *update) memberRemove(e *gateway.MemberRemove) error {
	guildID, userID := uint64(e.GuildID), uint64(e.User.ID)
	if err := u.adjustMemberCount(guildID, -1); err != nil {
		return err
	}
	if u.wants(ResourceUser) {
		if err := u.uncacheUser(userID, guildID); err != nil {
			return err
		}
	}
	if u.wants(ResourceMember) {
		u.uncacheMember(guildID, userID)
	}
	return nil
}

func (u *update) memberUpdate(e *gateway.MemberUpdate) error {
	guildID, userID := uint64(e.GuildID), uint64(e.User.ID)
	if u.wants(ResourceMember) {
		m := u.strategy().NewMember()
		found, err := u.load(MemberKey(guildID, userID), m)
		if err != nil {
			return err
		}
		if found {
			m.ApplyUpdate(*e)
			data, err := u.encode(m)
			if err != nil {
				return err
			}
			u.pipe.Set(MemberKey(guildID, userID), data)
		}
	}
	if u.wants(ResourceUser) {
		return u.cacheUser(e.User, guildID)
	}
	return nil
}

func (u *update) interactionCreate(e *gateway.InteractionCreate) error {
	guildID := uint64(e.GuildID)

	if e.Member != nil && e.Member.User != nil {
		if u.wants(ResourceMember) && guildID != 0 {
			if err := u.cachePartialMember(guildID, uint64(e.Member.User.ID), *e.Member); err != nil {
				return err
			}
		}
		if u.wants(ResourceUser) {
			if err := u.cacheUser(*e.Member.User, guildID); err != nil {
				return err
			}
		}
	}

	if e.User != nil && u.wants(ResourceUser) {
		if err := u.cacheUser(*e.User, guildID); err != nil {
			return err
		}
	}

	if e.Data == nil || e.Data.Resolved == nil {
		return nil
	}
	resolved := e.Data.Resolved

	if u.wants(ResourceUser) {
		users := make([]gateway.User, 0, len(resolved.Users))
		for _, user := range resolved.Users {
			users = append(users, user)
		}
		slices.SortFunc(users, func(a, b gateway.User) int { return cmp.Compare(a.ID, b.ID) })
		if err := u.cacheUsersIfAbsent(users, guildID); err != nil {
			return err
		}
	}

	if !u.wants(ResourceMember) || guildID == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(resolved.Members))
	for raw := range resolved.Members {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return parseError("invalid resolved member id", raw)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		m := resolved.Members[strconv.FormatUint(id, 10)]
		if err := u.cachePartialMember(guildID, id, m); err != nil {
			return err
		}
	}
	return nil
}
