package source

// Name tags which provider produced an item.
type Name string

const (
	TagBooru     Name = "TagBooru"
	TagBooruHTML Name = "TagBooru-HTML"
	Bing         Name = "Bing"
	DuckDuckGo   Name = "DuckDuckGo"
	Yandex       Name = "Yandex"
)

func (n Name) String() string {
	return string(n)
}

// Item is a normalized search result.
//
// When NeedsResolution is true ImageRef is a view page on the provider's
// own site and must be resolved before it can be downloaded.
type Item struct {
	ImageRef        string `json:"image" jsonschema:"description=Direct image URL or a view page that needs resolution"`
	ThumbnailRef    string `json:"thumbnail" jsonschema:"description=Preview image URL"`
	Title           string `json:"title"`
	SourceName      Name   `json:"source" jsonschema:"enum=TagBooru,enum=TagBooru-HTML,enum=Bing,enum=DuckDuckGo,enum=Yandex"`
	OriginURL       string `json:"url" jsonschema:"description=Page the result was found on"`
	NeedsResolution bool   `json:"needs_resolution"`
}

// Resolved returns a copy pointing at the direct asset URL.
func (i Item) Resolved(direct string) Item {
	i.ImageRef = direct
	i.NeedsResolution = false
	return i
}

func (i Item) String() string {
	return i.Title + " (" + i.ImageRef + ")"
}
