package ignore

// DefaultPatterns lists entries that never belong in an asset manifest.
// Plain names match any path component; patterns with glob characters match the base name.
var DefaultPatterns = []string{
	// Version control
	".git",
	".svn",
	".hg",

	// OS metadata
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",
	"__MACOSX",

	// Incomplete transfers
	"*.part",
	"*.crdownload",
	"*.tmp",
	"~$*",
}
