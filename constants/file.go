package constants

import (
	"path/filepath"
	"strings"
)

// TableFormats holds the supported reference-table file formats.
var TableFormats = []string{"CSV", "XLSX", "JSON"}

const (
	FormatCSV  = "CSV"
	FormatXLSX = "XLSX"
	FormatJSON = "JSON"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to a table format, or "" if unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "csv", "txt":
		return FormatCSV
	case "xlsx", "xls":
		return FormatXLSX
	case "json":
		return FormatJSON
	default:
		return ""
	}
}

// FormatForPath maps a file path to a table format by its extension.
func FormatForPath(path string) string {
	return MapExtToFormat(filepath.Ext(path))
}
