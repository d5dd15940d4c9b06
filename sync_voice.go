package mirror

import (
	"github.com/zoobzio/mirror/gateway"
)

func (u *update) voiceStateUpdate(vs gateway.VoiceState) error {
	if u.wants(ResourceVoiceState) && !vs.GuildID.IsZero() {
		if err := u.cacheVoiceState(uint64(vs.GuildID), vs); err != nil {
			return err
		}
	}
	if u.wants(ResourceMember) && vs.Member != nil && !vs.GuildID.IsZero() {
		return u.cacheMember(uint64(vs.GuildID), *vs.Member)
	}
	return nil
}

// cacheVoiceState moves a user between channel voice sets. The previous
// state is read first so a channel switch leaves no stale entry behind.
func (u *update) cacheVoiceState(guildID uint64, vs gateway.VoiceState) error {
	userID := uint64(vs.UserID)

	prev := u.strategy().NewVoiceState()
	found, err := u.load(VoiceStateKey(guildID, userID), prev)
	if err != nil {
		return err
	}
	if found {
		member, err := u.channelVoiceState(guildID, userID)
		if err != nil {
			return err
		}
		u.pipe.SRemBytes(ChannelVoiceStatesKey(prev.VoiceChannel()), member)
	}

	if !vs.ChannelID.IsZero() {
		return u.setVoiceState(guildID, uint64(vs.ChannelID), vs)
	}
	u.pipe.SRem(GuildVoiceStatesKey(guildID), userID).Del(VoiceStateKey(guildID, userID))
	return nil
}

func (u *update) setVoiceState(guildID, channelID uint64, vs gateway.VoiceState) error {
	userID := uint64(vs.UserID)
	data, err := u.encode(u.strategy().VoiceState(guildID, channelID, vs))
	if err != nil {
		return err
	}
	member, err := u.channelVoiceState(guildID, userID)
	if err != nil {
		return err
	}
	u.pipe.Set(VoiceStateKey(guildID, userID), data).
		SAdd(GuildVoiceStatesKey(guildID), userID).
		SAddBytes(ChannelVoiceStatesKey(channelID), member)
	return nil
}

func (u *update) channelVoiceState(guildID, userID uint64) ([]byte, error) {
	return u.encode(u.strategy().ChannelVoiceState(guildID, userID))
}

// dropVoiceStates removes every voice state of a guild along with the
// channel set entries that point at them.
func (u *update) dropVoiceStates(guildID uint64) error {
	ids, err := u.scan(GuildVoiceStatesKey(guildID))
	if err != nil {
		return err
	}
	keys := make([]Key, len(ids))
	for i, userID := range ids {
		keys[i] = VoiceStateKey(guildID, userID)
	}
	values, err := u.fetch(keys)
	if err != nil {
		return err
	}
	for i, userID := range ids {
		if data := values[i]; data != nil {
			vs := u.strategy().NewVoiceState()
			if err := u.decode(*data, vs); err != nil {
				return err
			}
			member, err := u.channelVoiceState(guildID, userID)
			if err != nil {
				return err
			}
			u.pipe.SRemBytes(ChannelVoiceStatesKey(vs.VoiceChannel()), member)
		}
		u.pipe.Del(keys[i])
	}
	u.pipe.SRem(GuildVoiceStatesKey(guildID), ids...)
	return nil
}
