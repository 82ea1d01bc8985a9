package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultAvatarURL builds the ui-avatars URL used when registration supplies
// no avatar of its own.
func DefaultAvatarURL(firstName, lastName string) string {
	name := strings.TrimSpace(firstName + " " + lastName)
	return fmt.Sprintf(
		"https://ui-avatars.com/api/?name=%s&background=0D8ABC&color=fff&size=128",
		url.QueryEscape(name),
	)
}
