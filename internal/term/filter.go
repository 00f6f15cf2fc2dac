package term

import (
	"path/filepath"
	"strings"
)

// Filter restricts which files a picker offers.
type Filter struct {
	Description string
	Extensions  []string
}

var (
	// TextFiles matches plain text files.
	TextFiles = Filter{Description: "Text Files", Extensions: []string{".txt"}}

	// WAVFiles matches WAV audio files.
	WAVFiles = Filter{Description: "WAV Files", Extensions: []string{".wav"}}
)

// FilterFor returns a filter for a single extension such as ".mp3".
func FilterFor(ext string) Filter {
	switch strings.ToLower(ext) {
	case ".txt":
		return TextFiles
	case ".wav":
		return WAVFiles
	}
	return Filter{
		Description: strings.ToUpper(strings.TrimPrefix(ext, ".")) + " Files",
		Extensions:  []string{ext},
	}
}

// Match reports whether path has one of the filter's extensions. An empty
// filter matches everything.
func (f Filter) Match(path string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range f.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// String renders the filter like "Text Files (*.txt)".
func (f Filter) String() string {
	if len(f.Extensions) == 0 {
		return f.Description
	}
	globs := make([]string, len(f.Extensions))
	for i, e := range f.Extensions {
		globs[i] = "*" + e
	}
	return f.Description + " (" + strings.Join(globs, ", ") + ")"
}
