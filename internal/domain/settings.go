package domain

import "time"

// Named sub-configs stored in the remote unified config blob. Each type is
// explicit about its fields and carries its own default-merge, applied on
// every load, instead of duck-typing arbitrary nested maps.

type PasswordExpiryUnit string

const (
	ExpiryDay       PasswordExpiryUnit = "day"
	ExpiryWeek      PasswordExpiryUnit = "week"
	ExpiryMonth     PasswordExpiryUnit = "month"
	ExpiryYear      PasswordExpiryUnit = "year"
	ExpiryPermanent PasswordExpiryUnit = "permanent"
)

// PasswordExpiry is the validity window of the write credential.
type PasswordExpiry struct {
	Value int                `json:"value"`
	Unit  PasswordExpiryUnit `json:"unit"`
}

// DefaultPasswordExpiry is one week.
func DefaultPasswordExpiry() PasswordExpiry {
	return PasswordExpiry{Value: 1, Unit: ExpiryWeek}
}

// Normalize fills zero values with the default window and rejects unknown
// units by falling back to it.
func (p PasswordExpiry) Normalize() PasswordExpiry {
	switch p.Unit {
	case ExpiryDay, ExpiryWeek, ExpiryMonth, ExpiryYear, ExpiryPermanent:
	default:
		return DefaultPasswordExpiry()
	}
	if p.Unit != ExpiryPermanent && p.Value <= 0 {
		return DefaultPasswordExpiry()
	}
	return p
}

// Window converts the expiry into a duration. ok is false for permanent
// credentials, which never expire.
func (p PasswordExpiry) Window() (d time.Duration, ok bool) {
	switch p.Unit {
	case ExpiryDay:
		return time.Duration(p.Value) * 24 * time.Hour, true
	case ExpiryWeek:
		return time.Duration(p.Value) * 7 * 24 * time.Hour, true
	case ExpiryMonth:
		return time.Duration(p.Value) * 30 * 24 * time.Hour, true
	case ExpiryYear:
		return time.Duration(p.Value) * 365 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// WebsiteConfig holds site-wide settings, currently just the credential
// expiry window.
type WebsiteConfig struct {
	PasswordExpiry PasswordExpiry `json:"passwordExpiry"`
}

// MergeWebsiteConfig applies defaults to a loaded website config.
func MergeWebsiteConfig(c WebsiteConfig) WebsiteConfig {
	c.PasswordExpiry = c.PasswordExpiry.Normalize()
	return c
}

type SearchMode string

const (
	SearchInternal SearchMode = "internal"
	SearchExternal SearchMode = "external"
)

// ExternalSearchSource is one configurable external search engine.
type ExternalSearchSource struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Icon      string `json:"icon,omitempty"`
	Enabled   bool   `json:"enabled"`
	CreatedAt int64  `json:"createdAt"`
}

// SearchConfig selects internal filtering or an external engine.
type SearchConfig struct {
	Mode            SearchMode             `json:"mode"`
	ExternalSources []ExternalSearchSource `json:"externalSources"`
	SelectedSource  *ExternalSearchSource  `json:"selectedSource,omitempty"`
}

// MergeSearchConfig applies defaults to a loaded search config.
func MergeSearchConfig(c SearchConfig) SearchConfig {
	if c.Mode != SearchInternal && c.Mode != SearchExternal {
		c.Mode = SearchInternal
	}
	if c.ExternalSources == nil {
		c.ExternalSources = []ExternalSearchSource{}
	}
	return c
}

// MastodonConfig drives the timeline ticker widget.
type MastodonConfig struct {
	Enabled        bool   `json:"enabled"`
	Instance       string `json:"instance"`
	Username       string `json:"username"`
	Limit          int    `json:"limit"`
	ExcludeReplies bool   `json:"exclude_replies"`
	ExcludeReblogs bool   `json:"exclude_reblogs"`
	Pinned         bool   `json:"pinned"`
}

// MergeMastodonConfig applies defaults to a loaded mastodon config.
func MergeMastodonConfig(c MastodonConfig) MastodonConfig {
	if c.Limit <= 0 {
		c.Limit = 10
	}
	return c
}

// WeatherConfig drives the weather widget.
type WeatherConfig struct {
	Enabled  bool   `json:"enabled"`
	APIHost  string `json:"apiHost"`
	APIKey   string `json:"apiKey"`
	Location string `json:"location"`
	Unit     string `json:"unit"`
}

// MergeWeatherConfig applies defaults to a loaded weather config.
func MergeWeatherConfig(c WeatherConfig) WeatherConfig {
	if c.Unit != "celsius" && c.Unit != "fahrenheit" {
		c.Unit = "celsius"
	}
	return c
}
