package mirror

import (
	"fmt"
	"math/bits"
	"strings"
)

// Resource is a bitmask of entity categories to mirror.
type Resource uint64

// Resource categories.
const (
	ResourceChannel Resource = 1 << iota
	ResourceEmoji
	ResourceGuild
	ResourceMember
	ResourceMessage
	ResourcePresence
	ResourceReaction
	ResourceRole
	ResourceCurrentUser
	ResourceUser
	ResourceVoiceState
	ResourceStageInstance
	ResourceIntegration
	ResourceSticker

	// ResourceAll enables every category.
	ResourceAll = ResourceSticker<<1 - 1
)

var resourceNames = [...]string{
	"channel",
	"emoji",
	"guild",
	"member",
	"message",
	"presence",
	"reaction",
	"role",
	"user_current",
	"user",
	"voice_state",
	"stage_instance",
	"integration",
	"sticker",
}

// Has reports whether every bit of other is set in r.
func (r Resource) Has(other Resource) bool {
	return r&other == other
}

// HasAny reports whether any bit of other is set in r.
func (r Resource) HasAny(other Resource) bool {
	return r&other != 0
}

// String returns the comma-separated category names of r.
func (r Resource) String() string {
	if r == 0 {
		return "none"
	}
	var names []string
	for v := r & ResourceAll; v != 0; v &= v - 1 {
		names = append(names, resourceNames[bits.TrailingZeros64(uint64(v))])
	}
	if extra := r &^ ResourceAll; extra != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint64(extra)))
	}
	return strings.Join(names, ",")
}

// ParseResources parses a comma-separated list of category names.
// "all" enables every category; "none" or an empty string enables none.
func ParseResources(s string) (Resource, error) {
	var r Resource
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		switch name {
		case "", "none":
			continue
		case "all":
			r |= ResourceAll
			continue
		}
		found := false
		for i, n := range resourceNames {
			if n == name {
				r |= 1 << i
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: unknown resource %q", ErrInvalidConfig, name)
		}
	}
	return r, nil
}
