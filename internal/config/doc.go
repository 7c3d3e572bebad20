// Package config loads split layout profiles and watches them for edits.
//
// A profile is a TOML or YAML file with a single [split] table:
//
//	[split]
//	relative = "editor"   # or "win" (with winid)
//	position = "bottom"
//	size = "30%"          # or 20, or {height = 12}
//	enter = true
//	namespace = "myplugin"
//
//	[split.buffer_options]
//	filetype = "help"
//
//	[split.window_options]
//	number = false
//
// Unknown keys are rejected. Profile.Options builds the options for a new
// split and Profile.Request the layout update for a live one. Watcher reloads
// a profile whenever the file changes on disk.
package config
