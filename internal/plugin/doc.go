// Package plugin runs a Lua plugin against an editor host.
//
// A plugin is a single .lua file or a directory holding init.lua. Loading
// runs the entry point with the ks modules preloaded:
//
//	local ks = require("ks")
//	local panel
//
//	function setup(config)
//	  panel = ks.split.new({ position = config.position or "bottom", size = "30%" })
//	end
//
//	function activate()
//	  panel:mount()
//	end
//
//	function deactivate()
//	  panel:unmount()
//	end
//
// setup, activate and deactivate are optional. Splits a plugin leaves mounted
// are unmounted when it is deactivated.
package plugin
