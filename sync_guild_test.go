package mirror

import (
	"slices"
	"strings"
	"testing"

	"github.com/zoobzio/mirror/gateway"
	"github.com/zoobzio/mirror/internal/memstore"
	"github.com/zoobzio/mirror/model"
)

func setOf(store *memstore.Store, k Key) []string {
	return store.Set(k.String())
}

func fullGuild() gateway.Guild {
	return gateway.Guild{
		ID:          1,
		Name:        "guild",
		MemberCount: 2,
		Channels:    []gateway.Channel{{ID: 10, Name: "general"}},
		Threads:     []gateway.Channel{{ID: 11, Name: "thread"}},
		Emojis:      []gateway.Emoji{{ID: 20, Name: "wave", User: &gateway.User{ID: 102}}},
		Members: []gateway.Member{
			{User: gateway.User{ID: 100, Username: "a"}},
			{User: gateway.User{ID: 101, Username: "b"}},
		},
		Presences:      []gateway.Presence{{User: gateway.PresenceUser{ID: 100}, Status: "online"}},
		Roles:          []gateway.Role{{ID: 30, Name: "admin"}},
		Stickers:       []gateway.Sticker{{ID: 40, Name: "s"}},
		VoiceStates:    []gateway.VoiceState{{UserID: 100, ChannelID: 10}, {UserID: 101}},
		StageInstances: []gateway.StageInstance{{ID: 50, ChannelID: 10, Topic: "talk"}},
	}
}

func TestGuildCreate(t *testing.T) {
	cache, store := newTestCache(t)
	apply(t, cache, &gateway.GuildCreate{Guild: fullGuild()})

	g, ok := decodeAt[model.Guild](t, store, GuildKey(1))
	if !ok || g.Name != "guild" || g.MemberCount != 2 {
		t.Errorf("unexpected guild: %+v", g)
	}

	sets := []struct {
		key  Key
		want []string
	}{
		{GuildsKey(), idStrings(1)},
		{UnavailableGuildsKey(), nil},
		{GuildChannelsKey(1), idStrings(10, 11)},
		{GuildEmojisKey(1), idStrings(20)},
		{UsersKey(), idStrings(100, 101, 102)},
		{UserGuildsKey(100), idStrings(1)},
		{GuildMembersKey(1), idStrings(100, 101)},
		{GuildPresencesKey(1), idStrings(100)},
		{GuildRolesKey(1), idStrings(30)},
		{GuildStickersKey(1), idStrings(40)},
		{GuildVoiceStatesKey(1), idStrings(100)},
		{GuildStageInstancesKey(1), idStrings(50)},
	}
	for _, s := range sets {
		t.Run(s.key.String(), func(t *testing.T) {
			if got := setOf(store, s.key); !slices.Equal(got, s.want) {
				t.Errorf("got %v, want %v", got, s.want)
			}
		})
	}

	if ch, _ := decodeAt[model.Channel](t, store, ChannelKey(11)); ch.GuildID != 1 {
		t.Errorf("threads should inherit the guild id, got %+v", ch)
	}
	if p, _ := decodeAt[model.Presence](t, store, PresenceKey(1, 100)); p.GuildID != 1 || p.Status != "online" {
		t.Errorf("unexpected presence: %+v", p)
	}
	for _, k := range []Key{EmojiKey(20), StickerKey(40), StageInstanceKey(50)} {
		o, ok := decodeOwnedAt[map[string]any](t, store, k)
		if !ok || o.OwnerID != 1 {
			t.Errorf("%s: expected owner 1, got %+v", k, o)
		}
	}
	if got := setOf(store, ChannelVoiceStatesKey(10)); len(got) != 1 {
		t.Errorf("expected one channel voice entry, got %v", got)
	}
	if hasKey(store, VoiceStateKey(1, 101)) {
		t.Error("voice states without a channel should be skipped")
	}
}

func TestGuildCreate_Unavailable(t *testing.T) {
	cache, store := newTestCache(t)
	apply(t, cache,
		&gateway.GuildCreate{Guild: gateway.Guild{ID: 1, Name: "guild"}},
		&gateway.GuildCreate{Guild: gateway.Guild{ID: 1, Unavailable: true}},
	)
	if got := setOf(store, UnavailableGuildsKey()); !slices.Equal(got, idStrings(1)) {
		t.Errorf("unexpected unavailable set: %v", got)
	}
	if len(setOf(store, GuildsKey())) != 0 || hasKey(store, GuildKey(1)) {
		t.Error("unavailable guild should leave the guild set and value")
	}
}

func TestGuildCreate_Reconciles(t *testing.T) {
	cache, store := newTestCache(t)
	g := fullGuild()
	apply(t, cache, &gateway.GuildCreate{Guild: g})

	g.Emojis = []gateway.Emoji{{ID: 21, Name: "new"}}
	g.Stickers = nil
	apply(t, cache, &gateway.GuildCreate{Guild: g})

	if got := setOf(store, GuildEmojisKey(1)); !slices.Equal(got, idStrings(21)) {
		t.Errorf("unexpected emojis: %v", got)
	}
	if hasKey(store, EmojiKey(20)) {
		t.Error("removed emoji value should be deleted")
	}
	if len(setOf(store, GuildStickersKey(1))) != 0 || hasKey(store, StickerKey(40)) {
		t.Error("an empty sticker list should remove every sticker")
	}
}

func TestGuildUpdate(t *testing.T) {
	cache, store := newTestCache(t)
	seedGuild(t, store, model.Guild{ID: 1, Name: "old", MemberCount: 5})

	apply(t, cache,
		&gateway.GuildUpdate{ID: 1, Name: "new"},
		&gateway.GuildUpdate{ID: 2, Name: "uncached"},
	)

	g, _ := decodeAt[model.Guild](t, store, GuildKey(1))
	if g.Name != "new" || g.MemberCount != 5 {
		t.Errorf("update should keep untouched fields, got %+v", g)
	}
	if hasKey(store, GuildKey(2)) {
		t.Error("an uncached guild should not be created by an update")
	}
}

func TestGuildDelete(t *testing.T) {
	cache, store := newTestCache(t)
	apply(t, cache,
		&gateway.GuildCreate{Guild: fullGuild()},
		&gateway.MessageCreate{Message: gateway.Message{ID: 60, ChannelID: 10, GuildID: 1, Author: gateway.User{ID: 100}}},
		&gateway.IntegrationCreate{Integration: gateway.Integration{ID: 70, GuildID: 1}},
		&gateway.GuildDelete{ID: 1},
	)

	for _, k := range []Key{
		GuildKey(1), ChannelKey(10), ChannelKey(11), EmojiKey(20), RoleKey(30),
		StickerKey(40), StageInstanceKey(50), MessageKey(60), ChannelMessagesKey(10),
		MemberKey(1, 100), PresenceKey(1, 100), IntegrationKey(1, 70), VoiceStateKey(1, 100),
	} {
		if hasKey(store, k) {
			t.Errorf("%s should be deleted", k)
		}
	}
	for _, k := range []Key{
		GuildsKey(), GuildChannelsKey(1), GuildEmojisKey(1), GuildMembersKey(1),
		GuildRolesKey(1), GuildStickersKey(1), GuildStageInstancesKey(1),
		GuildIntegrationsKey(1), GuildPresencesKey(1), GuildVoiceStatesKey(1),
		ChannelVoiceStatesKey(10), UserGuildsKey(100),
	} {
		if got := setOf(store, k); len(got) != 0 {
			t.Errorf("%s should be empty, got %v", k, got)
		}
	}
	// Users outlive the guild.
	if !hasKey(store, UserKey(100)) {
		t.Error("user values should be kept")
	}
}

func TestGuildDelete_VoiceStatesReadOnce(t *testing.T) {
	cache, store := newTestCache(t)
	g := gateway.Guild{ID: 1, Name: "guild", VoiceStates: []gateway.VoiceState{
		{UserID: 100, ChannelID: 10},
		{UserID: 101, ChannelID: 10},
		{UserID: 102, ChannelID: 12},
	}}
	apply(t, cache, &gateway.GuildCreate{Guild: g})
	before := len(store.Batches())

	apply(t, cache, &gateway.GuildDelete{ID: 1})

	var gets, mgets int
	for _, b := range store.Batches()[before:] {
		for _, cmd := range b.Commands {
			switch cmd.Name {
			case "GET":
				if strings.HasPrefix(string(cmd.Args[0].([]byte)), "VOICE_STATE:") {
					gets++
				}
			case "MGET":
				mgets++
			}
		}
	}
	if gets != 0 || mgets != 1 {
		t.Errorf("expected one MGET and no per-state GET, got %d MGET and %d GET", mgets, gets)
	}
	for _, k := range []Key{ChannelVoiceStatesKey(10), ChannelVoiceStatesKey(12), GuildVoiceStatesKey(1)} {
		if got := setOf(store, k); len(got) != 0 {
			t.Errorf("%s should be empty, got %v", k, got)
		}
	}
	for _, id := range []uint64{100, 101, 102} {
		if hasKey(store, VoiceStateKey(1, id)) {
			t.Errorf("voice state %d should be deleted", id)
		}
	}
}

func TestGuildDelete_Unavailable(t *testing.T) {
	cache, store := newTestCache(t)
	apply(t, cache,
		&gateway.GuildCreate{Guild: fullGuild()},
		&gateway.UnavailableGuild{ID: 1, Unavailable: true},
	)

	g, ok := decodeAt[model.Guild](t, store, GuildKey(1))
	if !ok || !g.Unavailable || g.Name != "guild" {
		t.Errorf("guild value should be kept and flagged, got %+v", g)
	}
	if got := setOf(store, UnavailableGuildsKey()); !slices.Equal(got, idStrings(1)) {
		t.Errorf("unexpected unavailable set: %v", got)
	}
	if len(setOf(store, GuildsKey())) != 0 {
		t.Error("guild should leave the available set")
	}
	if hasKey(store, ChannelKey(10)) {
		t.Error("children should be torn down")
	}
}

func TestGuildDelete_GuildOnly(t *testing.T) {
	cache, store := newTestCache(t, withResources(ResourceGuild))
	store.SeedSet(GuildChannelsKey(1).String(), "10")
	apply(t, cache, &gateway.GuildDelete{ID: 1})

	for _, name := range store.Commands() {
		if name == "SSCAN" {
			t.Fatal("guild-only caches should not scan child sets")
		}
	}
}

func TestGuildEmojisUpdate(t *testing.T) {
	cache, store := newTestCache(t)
	apply(t, cache,
		&gateway.GuildEmojisUpdate{GuildID: 1, Emojis: []gateway.Emoji{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}},
		&gateway.GuildEmojisUpdate{GuildID: 1, Emojis: []gateway.Emoji{{ID: 2, Name: "b2"}, {ID: 3, Name: "c"}}},
	)

	if got := setOf(store, GuildEmojisKey(1)); !slices.Equal(got, idStrings(2, 3)) {
		t.Errorf("unexpected set: %v", got)
	}
	e, _ := decodeOwnedAt[model.Emoji](t, store, EmojiKey(2))
	if e.Value.Name != "b" {
		t.Errorf("unchanged emojis should not be rewritten, got %q", e.Value.Name)
	}
}

func TestGuildEmojisUpdate_Repeated(t *testing.T) {
	cache, store := newTestCache(t)
	emojis := func(ids ...gateway.ID) *gateway.GuildEmojisUpdate {
		e := &gateway.GuildEmojisUpdate{GuildID: 1}
		for _, id := range ids {
			e.Emojis = append(e.Emojis, gateway.Emoji{ID: id, Name: "e"})
		}
		return e
	}
	apply(t, cache, emojis(1, 2, 3), emojis(2, 3, 4))
	if got := setOf(store, GuildEmojisKey(1)); !slices.Equal(got, idStrings(2, 3, 4)) {
		t.Fatalf("unexpected set: %v", got)
	}
	if hasKey(store, EmojiKey(1)) {
		t.Error("emoji 1 should be deleted")
	}

	before := len(store.Batches())
	apply(t, cache, emojis(2, 3, 4))
	batches := store.Batches()[before:]
	if len(batches) != 1 {
		t.Fatalf("expected only the scan batch, got %d batches", len(batches))
	}
	for _, cmd := range batches[0].Commands {
		if cmd.Name != "SSCAN" {
			t.Errorf("unexpected %s in repeated update", cmd.Name)
		}
	}
	if got := setOf(store, GuildEmojisKey(1)); !slices.Equal(got, idStrings(2, 3, 4)) {
		t.Errorf("set changed on repeat: %v", got)
	}
}

func TestGuildStickersUpdate(t *testing.T) {
	cache, store := newTestCache(t)
	apply(t, cache,
		&gateway.GuildStickersUpdate{GuildID: 1, Stickers: []gateway.Sticker{{ID: 1, Name: "a"}}},
		&gateway.GuildStickersUpdate{GuildID: 1, Stickers: []gateway.Sticker{{ID: 1, Name: "a2"}}},
	)
	s, _ := decodeOwnedAt[model.Sticker](t, store, StickerKey(1))
	if s.OwnerID != 1 || s.Value.Name != "a2" {
		t.Errorf("stickers that stay should be refreshed, got %+v", s)
	}
}

func TestRoles(t *testing.T) {
	cache, store := newTestCache(t)
	apply(t, cache,
		&gateway.RoleCreate{GuildID: 1, Role: gateway.Role{ID: 5, Name: "a"}},
		&gateway.RoleUpdate{GuildID: 1, Role: gateway.Role{ID: 5, Name: "b"}},
		&gateway.RoleCreate{GuildID: 1, Role: gateway.Role{ID: 6}},
	)
	r, _ := decodeAt[model.Role](t, store, RoleKey(5))
	if r.Name != "b" || r.GuildID != 1 {
		t.Errorf("unexpected role: %+v", r)
	}

	apply(t, cache, &gateway.RoleDelete{GuildID: 1, RoleID: 5})
	if got := setOf(store, GuildRolesKey(1)); !slices.Equal(got, idStrings(6)) {
		t.Errorf("unexpected role set: %v", got)
	}
	if hasKey(store, RoleKey(5)) {
		t.Error("deleted role value should be gone")
	}
}

func TestIntegrations(t *testing.T) {
	cache, store := newTestCache(t)
	apply(t, cache,
		&gateway.IntegrationCreate{Integration: gateway.Integration{ID: 5, GuildID: 1, Name: "a"}},
		&gateway.IntegrationUpdate{Integration: gateway.Integration{ID: 5, GuildID: 1, Name: "b"}},
		&gateway.IntegrationCreate{Integration: gateway.Integration{ID: 6}},
	)
	i, _ := decodeAt[model.Integration](t, store, IntegrationKey(1, 5))
	if i.Name != "b" {
		t.Errorf("unexpected integration: %+v", i)
	}
	if got := setOf(store, GuildIntegrationsKey(1)); !slices.Equal(got, idStrings(5)) {
		t.Errorf("integrations without a guild should be ignored, got %v", got)
	}

	apply(t, cache, &gateway.IntegrationDelete{ID: 5, GuildID: 1})
	if hasKey(store, IntegrationKey(1, 5)) || len(setOf(store, GuildIntegrationsKey(1))) != 0 {
		t.Error("integration should be removed")
	}
}

func TestStageInstances(t *testing.T) {
	cache, store := newTestCache(t)
	apply(t, cache,
		&gateway.StageInstanceCreate{StageInstance: gateway.StageInstance{ID: 5, GuildID: 1, Topic: "a"}},
		&gateway.StageInstanceUpdate{StageInstance: gateway.StageInstance{ID: 5, GuildID: 1, Topic: "b"}},
	)
	s, _ := decodeOwnedAt[model.StageInstance](t, store, StageInstanceKey(5))
	if s.OwnerID != 1 || s.Value.Topic != "b" {
		t.Errorf("unexpected stage instance: %+v", s)
	}

	apply(t, cache, &gateway.StageInstanceDelete{StageInstance: gateway.StageInstance{ID: 5, GuildID: 1}})
	if hasKey(store, StageInstanceKey(5)) || len(setOf(store, GuildStageInstancesKey(1))) != 0 {
		t.Error("stage instance should be removed")
	}
}

func TestReady(t *testing.T) {
	cache, store := newTestCache(t)
	apply(t, cache, &gateway.Ready{
		User:   gateway.User{ID: 9, Username: "bot"},
		Guilds: []gateway.UnavailableGuild{{ID: 1, Unavailable: true}, {ID: 2, Unavailable: true}},
	})

	if got := setOf(store, UnavailableGuildsKey()); !slices.Equal(got, idStrings(1, 2)) {
		t.Errorf("unexpected unavailable set: %v", got)
	}
	cu, ok := decodeAt[model.CurrentUser](t, store, CurrentUserKey())
	if !ok || cu.ID != 9 || cu.Username != "bot" {
		t.Errorf("unexpected current user: %+v", cu)
	}

	apply(t, cache, &gateway.UserUpdate{User: gateway.User{ID: 9, Username: "renamed"}})
	cu, _ = decodeAt[model.CurrentUser](t, store, CurrentUserKey())
	if cu.Username != "renamed" {
		t.Errorf("USER_UPDATE should replace the current user, got %+v", cu)
	}
}
