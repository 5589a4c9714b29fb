package model

import (
	"path/filepath"
	"strings"
)

// extension → type tag mapping applied at upload time. Unmapped extensions
// fall through to FileTypeOther.
var extensionTypes = map[string]FileType{
	".pdf":  FileTypePDF,
	".xlsx": FileTypeExcel,
	".xls":  FileTypeExcel,
	".py":   FileTypePython,
	".java": FileTypeJava,
	".pptx": FileTypePowerPoint,
	".ppt":  FileTypePowerPoint,
}

// FileTypeFromName derives the document type tag from a file name's
// extension, case-insensitively.
func FileTypeFromName(name string) FileType {
	ext := strings.ToLower(filepath.Ext(name))
	if ft, ok := extensionTypes[ext]; ok {
		return ft
	}
	return FileTypeOther
}

// TitleFromName derives a human-readable default title by stripping the
// extension from the file name.
func TitleFromName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
