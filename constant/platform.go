package constant

// PlayerBinary is the executable the mpv primitive launches.
const PlayerBinary = "mpv"

// InstallHints maps a runtime.GOOS value to the command that installs the player.
var InstallHints = map[string]string{
	"darwin":  "brew install mpv",
	"linux":   "sudo apt install mpv",
	"windows": "scoop install mpv",
	"android": "pkg install mpv",
	"freebsd": "pkg install mpv",
}
