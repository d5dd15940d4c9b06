package gateway

// Owner returns the id whose events must be applied in order relative to
// each other: the guild when the event belongs to one, otherwise the
// channel. ok is false for events that touch state shared across owners,
// such as READY and USER_UPDATE.
func Owner(ev Event) (id ID, ok bool) {
	switch e := ev.(type) {
	case *Ready, *UserUpdate:
		return 0, false
	case *GuildCreate:
		return e.ID, true
	case *GuildUpdate:
		return e.ID, true
	case *GuildDelete:
		return e.ID, true
	case *UnavailableGuild:
		return e.ID, true
	case *GuildEmojisUpdate:
		return e.GuildID, true
	case *GuildStickersUpdate:
		return e.GuildID, true
	case *ChannelCreate:
		return channelOwner(e.GuildID, e.ID)
	case *ChannelUpdate:
		return channelOwner(e.GuildID, e.ID)
	case *ChannelDelete:
		return channelOwner(e.GuildID, e.ID)
	case *ChannelPinsUpdate:
		return channelOwner(e.GuildID, e.ChannelID)
	case *ThreadCreate:
		return channelOwner(e.GuildID, e.ID)
	case *ThreadUpdate:
		return channelOwner(e.GuildID, e.ID)
	case *ThreadDelete:
		return channelOwner(e.GuildID, e.ID)
	case *ThreadListSync:
		return e.GuildID, true
	case *IntegrationCreate:
		return e.GuildID, e.GuildID != 0
	case *IntegrationUpdate:
		return e.GuildID, e.GuildID != 0
	case *IntegrationDelete:
		return e.GuildID, true
	case *InteractionCreate:
		return channelOwner(e.GuildID, e.ChannelID)
	case *MemberAdd:
		return e.GuildID, true
	case *MemberChunk:
		return e.GuildID, true
	case *MemberRemove:
		return e.GuildID, true
	case *MemberUpdate:
		return e.GuildID, true
	case *MessageCreate:
		return channelOwner(e.GuildID, e.ChannelID)
	case *MessageUpdate:
		return channelOwner(e.GuildID, e.ChannelID)
	case *MessageDelete:
		return channelOwner(e.GuildID, e.ChannelID)
	case *MessageDeleteBulk:
		return channelOwner(e.GuildID, e.ChannelID)
	case *PresenceUpdate:
		return e.GuildID, e.GuildID != 0
	case *ReactionAdd:
		return channelOwner(e.GuildID, e.ChannelID)
	case *ReactionRemove:
		return channelOwner(e.GuildID, e.ChannelID)
	case *ReactionRemoveAll:
		return channelOwner(e.GuildID, e.ChannelID)
	case *ReactionRemoveEmoji:
		return channelOwner(e.GuildID, e.ChannelID)
	case *RoleCreate:
		return e.GuildID, true
	case *RoleUpdate:
		return e.GuildID, true
	case *RoleDelete:
		return e.GuildID, true
	case *StageInstanceCreate:
		return e.GuildID, true
	case *StageInstanceUpdate:
		return e.GuildID, true
	case *StageInstanceDelete:
		return e.GuildID, true
	case *VoiceStateUpdate:
		return e.GuildID, e.GuildID != 0
	}
	return 0, false
}

func channelOwner(guildID, channelID ID) (ID, bool) {
	if guildID != 0 {
		return guildID, true
	}
	return channelID, channelID != 0
}
