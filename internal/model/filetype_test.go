package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileTypeFromName(t *testing.T) {
	tests := []struct {
		name string
		file string
		want FileType
	}{
		{"pdf", "syllabus.pdf", FileTypePDF},
		{"uppercase extension", "NOTES.PDF", FileTypePDF},
		{"xlsx", "grades.xlsx", FileTypeExcel},
		{"xls", "grades.xls", FileTypeExcel},
		{"python", "lab1.py", FileTypePython},
		{"java", "Main.java", FileTypeJava},
		{"pptx", "lecture.pptx", FileTypePowerPoint},
		{"ppt", "lecture.ppt", FileTypePowerPoint},
		{"unmapped extension", "essay.docx", FileTypeOther},
		{"no extension", "README", FileTypeOther},
		{"dotfile", ".gitignore", FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileTypeFromName(tt.file))
		})
	}
}

func TestTitleFromName(t *testing.T) {
	assert.Equal(t, "syllabus", TitleFromName("syllabus.pdf"))
	assert.Equal(t, "lab1.backup", TitleFromName("lab1.backup.py"))
	assert.Equal(t, "README", TitleFromName("README"))
}
