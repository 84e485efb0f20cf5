package config

// Group names a set of keys whose changes are announced together.
type Group string

const (
	// GroupLyrics covers settings that change how lyrics are converted.
	GroupLyrics Group = "lyrics"
	// GroupDesktopOverlay covers settings of the desktop lyrics overlay.
	GroupDesktopOverlay Group = "desktop-overlay"
)

var groupMembers = map[Group][]string{
	GroupLyrics: {
		KeyLangsOrder,
		KeyLrcMsDigitCount,
		KeyAddEndTimestampLine,
		KeyLastRefLineTimeSty,
		KeyLrcTagInfoSrc,
	},
	GroupDesktopOverlay: {
		KeyDesktopFontFamily,
		KeyDesktopPlayedColors,
		KeyDesktopUnplayedColors,
		KeyDesktopDefaultLangs,
		KeyDesktopRefreshRate,
		KeyDesktopLangsOrder,
	},
}

// Groups lists every change group.
func Groups() []Group {
	return []Group{GroupLyrics, GroupDesktopOverlay}
}

// Members returns the keys that belong to g.
func (g Group) Members() []string {
	members := groupMembers[g]
	out := make([]string, len(members))
	copy(out, members)
	return out
}

// GroupsFor returns every group containing key.
func GroupsFor(key string) []Group {
	var out []Group
	for _, g := range Groups() {
		for _, member := range groupMembers[g] {
			if member == key {
				out = append(out, g)
				break
			}
		}
	}
	return out
}
