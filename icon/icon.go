// Package icon renders status symbols in the variant the user picked.
package icon

import (
	"github.com/imgscout/imgscout/key"
	"github.com/spf13/viper"
)

const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// Icon identifies a symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Image
	Link
	Search
	Key
)

type iconDef struct {
	emoji string
	nerd  string
	plain string
}

func (d iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

var icons = map[Icon]iconDef{
	Success: {emoji: "🎉", nerd: "", plain: "✓"},
	Fail:    {emoji: "💀", nerd: "", plain: "✗"},
	Image:   {emoji: "🖼️", nerd: "", plain: "*"},
	Link:    {emoji: "🔗", nerd: "", plain: "->"},
	Search:  {emoji: "🔍", nerd: "", plain: "?"},
	Key:     {emoji: "🔑", nerd: "", plain: "#"},
}

// Get returns the symbol for i in the configured variant.
func Get(i Icon) string {
	return icons[i].get()
}
