package library

import "time"

const (
	SourceName      = "STOVE"
	PlatformWindows = "pc_windows"
	StorePageLink   = "Store Page"
)

// Settings are the user's import preferences.
type Settings struct {
	ConnectAccount  bool
	ImportMetadata  bool
	ImportTags      bool
	// AllowAdultGames skips the store's age gate when rendering pages.
	AllowAdultGames bool
}

// DefaultSettings matches a fresh install: nothing imported until the account
// is connected, metadata and tags enabled once it is.
func DefaultSettings() Settings {
	return Settings{ImportMetadata: true, ImportTags: true}
}

// Link is a named URL attached to a game.
type Link struct {
	Name string
	URL  string
}

// GameMetadata is what the host catalog receives for one game.
type GameMetadata struct {
	GameID          string
	Name            string
	Source          string
	Links           []Link
	Platforms       []string
	PlaytimeSeconds int64
	LastActivity    time.Time
	ReleaseDate     time.Time

	Description string
	Developers  []string
	Publishers  []string
	Genres      []string
	Tags        []string
	IconURL     string
	CoverURL    string
}

// StorePageURL returns the first link named StorePageLink.
func (g GameMetadata) StorePageURL() string {
	for _, l := range g.Links {
		if l.Name == StorePageLink {
			return l.URL
		}
	}
	return ""
}

// Severity grades a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

// Notification is a user-facing message. Adding a notification with an ID
// already shown replaces it.
type Notification struct {
	ID       string
	Text     string
	Severity Severity
}

// Notifier is the host's notification area.
type Notifier interface {
	Add(n Notification)
	Remove(id string)
}
