package mirror

import (
	"slices"
	"testing"

	"github.com/zoobzio/mirror/gateway"
	"github.com/zoobzio/mirror/model"
)

func voice(guildID, channelID, userID uint64) *gateway.VoiceStateUpdate {
	return &gateway.VoiceStateUpdate{VoiceState: gateway.VoiceState{
		GuildID:   gateway.ID(guildID),
		ChannelID: gateway.ID(channelID),
		UserID:    gateway.ID(userID),
		SessionID: "s",
	}}
}

func TestVoiceStateUpdate(t *testing.T) {
	cache, store := newTestCache(t)

	t.Run("join", func(t *testing.T) {
		apply(t, cache, voice(1, 10, 100))
		vs, ok := decodeAt[model.VoiceState](t, store, VoiceStateKey(1, 100))
		if !ok || vs.ChannelID != 10 {
			t.Errorf("unexpected voice state: %+v", vs)
		}
		if got := setOf(store, GuildVoiceStatesKey(1)); !slices.Equal(got, idStrings(100)) {
			t.Errorf("unexpected guild voice set: %v", got)
		}
		members := setOf(store, ChannelVoiceStatesKey(10))
		if len(members) != 1 {
			t.Fatalf("expected one channel voice entry, got %v", members)
		}
		var cvs model.ChannelVoiceState
		if err := (MsgpackCodec{}).Decode([]byte(members[0]), &cvs); err != nil || cvs.UserID != 100 || cvs.GuildID != 1 {
			t.Errorf("unexpected channel voice entry: %+v %v", cvs, err)
		}
	})

	t.Run("switch", func(t *testing.T) {
		apply(t, cache, voice(1, 20, 100))
		if len(setOf(store, ChannelVoiceStatesKey(10))) != 0 {
			t.Error("the previous channel should lose the user")
		}
		if len(setOf(store, ChannelVoiceStatesKey(20))) != 1 {
			t.Error("the new channel should gain the user")
		}
	})

	t.Run("leave", func(t *testing.T) {
		apply(t, cache, voice(1, 0, 100))
		if hasKey(store, VoiceStateKey(1, 100)) {
			t.Error("voice state should be deleted")
		}
		if len(setOf(store, GuildVoiceStatesKey(1))) != 0 || len(setOf(store, ChannelVoiceStatesKey(20))) != 0 {
			t.Error("voice indices should be empty")
		}
	})
}

func TestVoiceStateUpdate_Member(t *testing.T) {
	cache, store := newTestCache(t)
	ev := voice(1, 10, 100)
	ev.Member = &gateway.Member{User: gateway.User{ID: 100}, Nick: "speaker"}
	apply(t, cache, ev)

	if m, ok := decodeAt[model.Member](t, store, MemberKey(1, 100)); !ok || m.Nick != "speaker" {
		t.Errorf("attached member should be cached, got %+v", m)
	}
}

func TestVoiceStateUpdate_NoGuild(t *testing.T) {
	cache, store := newTestCache(t)
	apply(t, cache, voice(0, 10, 100))
	if len(store.Batches()) != 0 {
		t.Errorf("voice states without a guild should be ignored, got %v", store.Commands())
	}
}
