package paths

import (
	"mime"
	"path"
	"strings"
)

// pageExtensions are served as rendered pages regardless of what the host's
// mime database says about them.
var pageExtensions = map[string]bool{
	".htm":   true,
	".html":  true,
	".xhtml": true,
	".shtml": true,
	".php":   true,
	".asp":   true,
	".aspx":  true,
	".jsp":   true,
	".cfm":   true,
}

// extraTypes fills gaps in Go's builtin table so guesses don't depend on
// the host's /etc/mime.types.
var extraTypes = map[string]string{
	".bmp":   "image/bmp",
	".ico":   "image/vnd.microsoft.icon",
	".tif":   "image/tiff",
	".tiff":  "image/tiff",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".eot":   "application/vnd.ms-fontobject",
	".mp3":   "audio/mpeg",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
	".txt":   "text/plain",
	".zip":   "application/zip",
}

func init() {
	for ext, typ := range extraTypes {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// GuessType returns the media type implied by p's extension, without
// parameters, or "" when the extension is unknown.
func GuessType(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return ""
	}
	if pageExtensions[ext] {
		return "text/html"
	}

	typ := mime.TypeByExtension(ext)
	if typ == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return typ
	}
	return mediaType
}

// IsImage reports whether p names an image.
func IsImage(p string) bool {
	return strings.HasPrefix(GuessType(p), "image/")
}

// IsPage reports whether p names an HTML page or has no recognisable type.
func IsPage(p string) bool {
	typ := GuessType(p)
	return typ == "" || typ == "text/html"
}
