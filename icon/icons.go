package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Warn
	Progress
	Cache
	Provider
	Key
	Link
	Video
	Audio
	Subtitle
	Lock
)

// Renderings in variant order: emoji, nerd, plain, kaomoji, squares.
var icons = map[Icon]glyphs{
	Fail:     {"💀", "\uf00d", "x", "(×﹏×)", "🟥"},
	Success:  {"🎉", "\uf00c", "✓", "(ᵔ◡ᵔ)", "🟩"},
	Warn:     {"⚠️", "\uf071", "!", "(・_・ヾ", "🟨"},
	Progress: {"👾", "\uf110", "~", "(・・ )?", "🟪"},
	Cache:    {"📦", "\uf187", "#", "[¬º-°]¬", "🟫"},
	Provider: {"📺", "\uf26c", "*", "(⌐■_■)", "🟦"},
	Key:      {"🔑", "\uf084", "k", "( ˘▽˘)っ", "🟧"},
	Link:     {"🔗", "\uf0c1", "@", "(っ˘ڡ˘ς)", "⬜"},
	Video:    {"🎞️", "\uf03d", "V", "(◕‿◕)", "🟦"},
	Audio:    {"🔊", "\uf028", "A", "♪(´▽｀)", "🟩"},
	Subtitle: {"💬", "\uf27a", "S", "(｀・ω・´)", "🟨"},
	Lock:     {"🔒", "\uf023", "L", "(¬_¬)", "⬛"},
}
