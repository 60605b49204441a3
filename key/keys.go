// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Booru Provider - these keys configure the tag-based API and its HTML listing fallback.
const (
	BooruAPIURL        = "providers.booru.api_url"
	BooruSiteURL       = "providers.booru.site_url"
	BooruAPIKey        = "providers.booru.api_key"
	BooruUserID        = "providers.booru.user_id"
	BooruAuthenticated = "providers.booru.authenticated"
	BooruPageLimit     = "providers.booru.page_limit"
	BooruInterval      = "providers.booru.interval_ms"
	BooruHTMLInterval  = "providers.booru-html.interval_ms"
)

// Generic Scrapers - these keys tune the web image search engines.
const (
	BingInterval        = "providers.bing.interval_ms"
	BingMaxOffset       = "providers.bing.max_offset"
	DuckDuckGoInterval  = "providers.ddg.interval_ms"
	YandexInterval      = "providers.yandex.interval_ms"
	YandexMaxResults    = "providers.yandex.max_results"
	YandexExcludedHosts = "providers.yandex.exclude_hosts"
)

// Network - these keys govern the shared transport retry and timeout policy.
const (
	NetworkTimeout     = "network.timeout_seconds"
	NetworkMaxAttempts = "network.max_attempts"
	NetworkCooldown    = "network.cooldown_seconds"
	NetworkUserAgent   = "network.user_agent"
)

// Sessions - these keys bound the number and lifetime of live search sessions.
const (
	SessionMax       = "session.max"
	SessionTTL       = "session.ttl_minutes"
	SessionBatchSize = "session.batch_size"
)

// Resolution - these keys size the resolved-URL cache.
const (
	ResolveCacheSize = "resolve.cache_size"
)

// Search Interaction - these keys define the history and suggestion behaviour.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored   = "cli.colored"
	IconsVariant = "icons.variant"
)

// Interval returns the throttle interval key of the provider with the given id.
func Interval(providerID string) string {
	return "providers." + providerID + ".interval_ms"
}
