// Package rtconfig loads the runtime's own tuning knobs from a TOML file,
// the way internal/tqw loads TQW world files: unmarshal straight into a
// plain struct with BurntSushi/toml, apply defaults for anything the file
// omits. Unlike tqw, there's no manifest-inclusion chain here — one file,
// one set of defaults.
package rtconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Options are the per-run defaults a host applies to a Lexer/Parser pair
// before starting a parse (§6 "Configurable options").
type Options struct {
	// BuildParseTree mirrors Parser.BuildParseTree.
	BuildParseTree bool `toml:"build_parse_tree"`

	// TrimParseTree mirrors Parser.TrimParseTree.
	TrimParseTree bool `toml:"trim_parse_tree"`

	// Trace mirrors Parser.SetTrace.
	Trace bool `toml:"trace"`

	// CopyText mirrors CommonTokenFactory.CopyText.
	CopyText bool `toml:"copy_text"`

	// DefaultChannel is the channel rtsample.Run tunes its
	// CommonTokenStream to (§3 "reserved channels"). HiddenChannel is
	// decoded from the file, but nothing in this module reads it.
	DefaultChannel int `toml:"default_channel"`
	HiddenChannel  int `toml:"hidden_channel"`

	// DisableSingleTokenInsertion and DisableSingleTokenDeletion are
	// decoded from the file, but nothing in this module reads them:
	// DefaultErrorStrategy always tries both recovery primitives (§4.4).
	DisableSingleTokenInsertion bool `toml:"disable_single_token_insertion"`
	DisableSingleTokenDeletion  bool `toml:"disable_single_token_deletion"`
}

// Defaults returns the option set a bare Parser/Lexer pair already assumes
// (NewParser's BuildParseTree=true, NewCommonTokenFactory(false), the
// reserved channel numbers from §3).
func Defaults() Options {
	return Options{
		BuildParseTree: true,
		TrimParseTree:  false,
		Trace:          false,
		CopyText:       false,
		DefaultChannel: 0,
		HiddenChannel:  1,
	}
}

// Load reads path as a TOML file and overlays it onto Defaults(). A missing
// file is not an error — it just means "use the defaults" — but a malformed
// one is.
func Load(path string) (Options, error) {
	opts := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("rtconfig: read %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), &opts); err != nil {
		return opts, fmt.Errorf("rtconfig: parse %s: %w", path, err)
	}

	return opts, nil
}
