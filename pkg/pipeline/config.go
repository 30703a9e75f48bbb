package pipeline

import (
	"github.com/BurntSushi/toml"

	"github.com/syntree/syntree/pkg/errors"
)

// LoadOptions reads pipeline options from a TOML config file.
//
// Example:
//
//	document = "(S (NP we) (VP left))"
//	formats = ["svg", "png"]
//	background = "#fffff8"
//
//	[layout]
//	font_size = 16
//	align_leaves = true
//	arrow_style = "curved"
//
//	[[annotations.arrows]]
//	source = "t1"
//	target = "wh1"
//
// Options present in the file are validated the same way as
// programmatic options; unknown keys are rejected so typos fail loudly.
func LoadOptions(path string) (Options, error) {
	var opts Options
	meta, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Options{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown config key %q in %s", undecoded[0].String(), path)
	}
	return opts, nil
}
