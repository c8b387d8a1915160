package constants

import "strings"

// AllowedExtensions holds the upload extensions accepted for report verification.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"xls":  {},
	"xlsx": {},
	"xlsm": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether the extension is in the allowed set.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// IsPDFExt reports whether the extension names a PDF document.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == "pdf"
}

// IsExcelExt reports whether the extension names a spreadsheet workbook.
func IsExcelExt(ext string) bool {
	switch NormalizeExt(ext) {
	case "xls", "xlsx", "xlsm":
		return true
	}
	return false
}
