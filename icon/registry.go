package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Mark
	Link
	Search
	Play
	Pause
	Stalled
	Ended
	Volume
	Mute
	Captions
	Seek
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "\uf00d",
		plain:   "X",
		kaomoji: "(╯°□°)╯",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "\uf00c",
		plain:   "OK",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "\uf110",
		plain:   "...",
		kaomoji: "(・_・ヾ",
		squares: "🟦",
	},
	Mark: {
		emoji:   "▪️",
		nerd:    "\uf111",
		plain:   "*",
		kaomoji: "☆",
		squares: "▪",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "\uf0c1",
		plain:   "->",
		kaomoji: "(＾▽＾)っ",
		squares: "🟪",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "\uf002",
		plain:   "?",
		kaomoji: "(・・ )?",
		squares: "🟨",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "\uf04b",
		plain:   ">",
		kaomoji: "ヽ(・∀・)ﾉ",
		squares: "🟩",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "\uf04c",
		plain:   "||",
		kaomoji: "(－_－) zzZ",
		squares: "🟨",
	},
	Stalled: {
		emoji:   "🐌",
		nerd:    "\uf017",
		plain:   "~",
		kaomoji: "(´･_･`)",
		squares: "🟧",
	},
	Ended: {
		emoji:   "🏁",
		nerd:    "\uf11e",
		plain:   "#",
		kaomoji: "(￣▽￣)ノ",
		squares: "⬛",
	},
	Volume: {
		emoji:   "🔊",
		nerd:    "\uf028",
		plain:   "vol",
		kaomoji: "(°o°)",
		squares: "🟦",
	},
	Mute: {
		emoji:   "🔇",
		nerd:    "\uf026",
		plain:   "mute",
		kaomoji: "(￣ー￣)",
		squares: "⬜",
	},
	Captions: {
		emoji:   "💬",
		nerd:    "\uf20a",
		plain:   "cc",
		kaomoji: "(・ω・)っ",
		squares: "🟪",
	},
	Seek: {
		emoji:   "⏩",
		nerd:    "\uf050",
		plain:   ">>",
		kaomoji: "ε=ε=┌( >_<)┘",
		squares: "🟦",
	},
}
