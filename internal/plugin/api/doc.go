// Package api exposes the split panel to Lua plugins.
//
// Plugins reach everything through the "ks" module:
//
//	local ks = require("ks")
//	local panel = ks.split.new({ position = "bottom", size = "30%" })
//	panel:mount()
//	panel:map("n", "q", function() panel:hide() end)
//	panel:on("BufEnter", function(ev) print(ev.buf) end)
//
//   - ks.split: create panels; each panel is a userdata with lifecycle,
//     layout, keymap and event methods.
//   - ks.editor: the few editor queries scripts need (current window,
//     window size, scheduling).
//
// Each module implements Module and is injected through a Registry, which
// also installs the ks loader.
package api
