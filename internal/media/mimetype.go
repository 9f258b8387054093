package media

import (
	"path/filepath"
	"strings"
)

// static extension to mimetype table. Non-image types are listed so they are reported by name when rejected.
var extensionTypes = map[string]string{
	".apng": "image/apng",
	".avif": "image/avif",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".heic": "image/heic",
	".heif": "image/heif",
	".ico":  "image/vnd.microsoft.icon",
	".jfif": "image/jpeg",
	".jpe":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".jxl":  "image/jxl",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",

	".csv":  "text/csv",
	".htm":  "text/html",
	".html": "text/html",
	".json": "application/json",
	".m4a":  "audio/mp4",
	".md":   "text/markdown",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".ogg":  "audio/ogg",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".wav":  "audio/wav",
	".webm": "video/webm",
	".zip":  "application/zip",
}

// MimeTypeForPath returns the mimetype for a path's extension (case-insensitive), or empty string if the extension is unknown.
func MimeTypeForPath(path string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(path))]
}
