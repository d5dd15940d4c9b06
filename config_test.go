package mirror

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Resources != ResourceAll || !cfg.Atomic || cfg.MessageCacheSize != 100 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero cache size", Config{Resources: ResourceAll, MessageCacheSize: 0}},
		{"negative cache size", Config{Resources: ResourceAll, MessageCacheSize: -1}},
		{"unknown resource bits", Config{Resources: ResourceAll + 1, MessageCacheSize: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	t.Run("no resources is valid", func(t *testing.T) {
		if err := (Config{MessageCacheSize: 1}).Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestResource(t *testing.T) {
	r := ResourceGuild | ResourceChannel
	if !r.Has(ResourceGuild) || r.Has(ResourceGuild|ResourceMember) {
		t.Error("Has should require every bit")
	}
	if !r.HasAny(ResourceGuild|ResourceMember) || r.HasAny(ResourceMember) {
		t.Error("HasAny should require some bit")
	}
	if r.String() != "channel,guild" {
		t.Errorf("String() = %q", r.String())
	}
	if Resource(0).String() != "none" {
		t.Errorf("zero String() = %q", Resource(0).String())
	}
	if got := (ResourceSticker << 1).String(); got != "0x4000" {
		t.Errorf("unknown bits String() = %q", got)
	}
}

func TestParseResources(t *testing.T) {
	tests := []struct {
		in   string
		want Resource
	}{
		{"all", ResourceAll},
		{"", 0},
		{"none", 0},
		{"guild, Channel", ResourceGuild | ResourceChannel},
		{"user_current,voice_state", ResourceCurrentUser | ResourceVoiceState},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseResources(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseResources(%q) = %v, %v", tt.in, got, err)
			}
		})
	}

	t.Run("round trip", func(t *testing.T) {
		got, err := ParseResources(ResourceAll.String())
		if err != nil || got != ResourceAll {
			t.Errorf("round trip = %v, %v", got, err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := ParseResources("guild,bogus"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
