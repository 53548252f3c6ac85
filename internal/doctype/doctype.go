// Package doctype classifies files into the document kinds docnav knows
// how to open.
package doctype

import (
	"strings"
)

type Kind string

const (
	PDF        Kind = "pdf"
	Image      Kind = "image"
	Text       Kind = "text"
	Word       Kind = "word"
	Excel      Kind = "excel"
	PowerPoint Kind = "powerpoint"
	Other      Kind = "other"
)

var extensions = map[Kind][]string{
	PDF:        {"pdf"},
	Image:      {"png", "jpg", "jpeg", "gif", "bmp", "webp"},
	Text:       {"txt", "csv", "md", "json", "xml", "html", "css", "js", "ts"},
	Word:       {"doc", "docx"},
	Excel:      {"xls", "xlsx"},
	PowerPoint: {"ppt", "pptx", "pps", "ppsx", "pot", "potx", "pptm", "potm", "ppsm"},
}

var byExtension = func() map[string]Kind {
	m := map[string]Kind{}
	for kind, exts := range extensions {
		for _, ext := range exts {
			m[ext] = kind
		}
	}
	return m
}()

// Kinds lists every kind, Other last.
func Kinds() []Kind {
	return []Kind{PDF, Image, Text, Word, Excel, PowerPoint, Other}
}

// Extensions returns the lower-case extensions (without dot) of a kind.
func Extensions(kind Kind) []string {
	return append([]string(nil), extensions[kind]...)
}

// Classify maps a file name or path to its kind by extension. Separators of
// both styles are honoured so Windows paths classify the same on any OS.
func Classify(name string) Kind {
	ext := Ext(name)
	if ext == "" {
		return Other
	}
	if kind, ok := byExtension[ext]; ok {
		return kind
	}
	return Other
}

// Ext returns the lower-case extension of the last path segment of name,
// without the dot.
func Ext(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}

func (k Kind) String() string { return string(k) }

// InPanel reports whether documents of this kind are rendered by the host
// editor instead of an external application.
func (k Kind) InPanel() bool {
	switch k {
	case PDF, Image, Text:
		return true
	}
	return false
}
