package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/imgscout/imgscout/color"
	"github.com/imgscout/imgscout/constant"
	"github.com/imgscout/imgscout/key"
	"github.com/imgscout/imgscout/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const masked = "********"

// Field is one registered setting.
type Field struct {
	Key         string
	Value       any
	Description string
	// Secret fields are never printed in clear text.
	Secret bool
}

// Pretty renders the field as a colored description card.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable bound to this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// Current returns the live value, masked for secrets.
func (f *Field) Current() any {
	v := viper.Get(f.Key)
	if f.Secret && fmt.Sprint(v) != "" {
		return masked
	}
	return v
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Secret      bool   `json:"secret,omitempty"`
	}{
		Key:         f.Key,
		Value:       f.Current(),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
		Secret:      f.Secret,
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds every registered field by key.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func register(f Field) {
	if _, exists := Default[f.Key]; exists {
		panic("duplicate config key: " + f.Key)
	}
	Default[f.Key] = f
	EnvExposed = append(EnvExposed, f.Key)
}

func init() {
	field := func(k string, v any, desc string) {
		register(Field{Key: k, Value: v, Description: desc})
	}
	secret := func(k string, desc string) {
		register(Field{Key: k, Value: "", Description: desc, Secret: true})
	}

	field(key.BooruAPIURL, "https://api.rule34.xxx", "Base URL of the booru JSON API")
	field(key.BooruSiteURL, "https://rule34.xxx", "Base URL of the booru website.\nUsed for post links, the HTML listing and view page resolution")
	secret(key.BooruAPIKey, "Booru API key.\nFalls back to the system keyring, see \"imgscout auth set\"")
	secret(key.BooruUserID, "Booru account id paired with the API key")
	field(key.BooruAuthenticated, false, "Refuse to start booru searches without credentials")
	field(key.BooruPageLimit, 20, "Posts requested per booru API page")
	field(key.BooruInterval, 1100, "Minimum milliseconds between booru API requests.\n1.1x the documented 1 request/second limit")
	field(key.BooruHTMLInterval, 1100, "Minimum milliseconds between booru website requests")

	field(key.BingInterval, 500, "Minimum milliseconds between Bing requests")
	field(key.BingMaxOffset, 1000, "Bing result offset after which pagination stops")
	field(key.DuckDuckGoInterval, 1000, "Minimum milliseconds between DuckDuckGo requests")
	field(key.YandexInterval, 1000, "Minimum milliseconds between Yandex requests")
	field(key.YandexMaxResults, 30, "Maximum number of Yandex results")
	field(key.YandexExcludedHosts, []string{"avatars.mds.yandex.net"}, "Hosts whose URLs are never treated as Yandex results")

	field(key.NetworkTimeout, 15, "Per-request timeout in seconds")
	field(key.NetworkMaxAttempts, 3, "Attempts per request, the first one included")
	field(key.NetworkCooldown, 5, "Seconds to wait after a 429 Too Many Requests response")
	field(key.NetworkUserAgent, constant.UserAgent, "User-Agent header sent to providers")

	field(key.SessionMax, 256, "Maximum number of live search sessions")
	field(key.SessionTTL, 30, "Minutes an idle search session is kept")
	field(key.SessionBatchSize, constant.DefaultBatchSize, "Results per batch when no count is given")

	field(key.ResolveCacheSize, 512, "Resolved view pages kept in memory")

	field(key.SearchShowQuerySuggestions, true, "Suggest queries from search history")

	field(key.LogsWrite, false, "Write logs")
	field(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	field(key.LogsJson, false, "Use json format for logs")

	field(key.CliColored, true, "Enable colored CLI output")
	field(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, nerd, plain")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"blue":     style.Fg(color.Blue),
	"purple":   style.Fg(color.Purple),
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl .Current }}
{{ blue "Default:" }} {{ hl .Value }}
{{ blue "Type:" }}    {{ typename .Value }}`))
