package filetype

import "strings"

// Type is the preview category of a catalog entry.
type Type string

const (
	PDF         Type = "pdf"
	Video       Type = "video"
	Audio       Type = "audio"
	Table       Type = "table"
	Text        Type = "text"
	Spreadsheet Type = "spreadsheet"
	Data        Type = "data"
	File        Type = "file"
)

// All lists every category in display order.
var All = []Type{PDF, Video, Audio, Table, Text, Spreadsheet, Data, File}

// ExtensionToType maps lowercase file extensions (without dot) to preview categories.
var ExtensionToType = map[string]Type{
	"pdf": PDF,
	"mp4": Video, "avi": Video, "mov": Video, "webm": Video,
	"m4a": Audio, "mp3": Audio, "wav": Audio,
	"csv": Table, "tsv": Table,
	"txt": Text, "log": Text,
	"xls": Spreadsheet, "xlsx": Spreadsheet,
	"dat": Data, "opt": Data,
}

// Detect returns the preview category for a path based on the text after its last dot.
// Unknown or missing extensions map to File.
func Detect(path string) Type {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return File
	}
	if t, ok := ExtensionToType[strings.ToLower(path[idx+1:])]; ok {
		return t
	}
	return File
}

// Parse converts a user-supplied category name into a Type.
func Parse(name string) (Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range All {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// IsReference reports whether the category is embedded by reference instead of fetched.
func (t Type) IsReference() bool {
	return t == PDF || t == Video || t == Audio
}
