package store

const (
	// KeyLinks holds the full link collection as one JSON blob.
	KeyLinks = "cloudnav:links"
	// KeyCategories holds the full category set as one JSON blob.
	KeyCategories = "cloudnav:categories"

	keyPrefixConfig  = "cloudnav:config:"
	keyPrefixToken   = "cloudnav:token:"
	keyPrefixFavicon = "cloudnav:favicon:"
	keyPrefixBackup  = "cloudnav:backup:"
)

// ConfigKey returns the key for a named sub-config blob.
func ConfigKey(name string) string {
	return keyPrefixConfig + name
}

// TokenKey returns the key for a session token. Token entries carry a
// TTL matching the configured credential expiry.
func TokenKey(token string) string {
	return keyPrefixToken + token
}

// FaviconKey returns the key for a cached favicon, by host.
func FaviconKey(host string) string {
	return keyPrefixFavicon + host
}

// BackupKey returns the key for a periodic backup snapshot.
func BackupKey(stamp string) string {
	return keyPrefixBackup + stamp
}
