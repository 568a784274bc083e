package util

import (
	"path"
	"strings"
)

// FileStem returns the base name of an uploaded file without directories or extension.
// Client-supplied names may use either slash style; an empty result means nothing usable.
func FileStem(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	stem := strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" || strings.Trim(stem, ".") == "" {
		return ""
	}
	return stem
}
