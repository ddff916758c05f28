package formatex

import (
	"encoding/base64"
	"fmt"
	"os"
)

// FileEntry is a companion file attached to a compilation or conversion.
// Content is always base64-encoded on the wire.
type FileEntry struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// FileFromBytes builds an attachment from raw file contents.
// The name is sent to the server verbatim and may contain a relative path
// (e.g. "refs/main.bib").
func FileFromBytes(name string, data []byte) FileEntry {
	return FileEntry{
		Name:    name,
		Content: base64.StdEncoding.EncodeToString(data),
	}
}

// FileFromPath builds an attachment by reading a local file.
func FileFromPath(name, path string) (FileEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileEntry{}, fmt.Errorf("failed to read attachment: %w", err)
	}
	return FileFromBytes(name, data), nil
}

// FileFromEncoded builds an attachment from content that is already
// base64-encoded. The content is passed through unchanged.
func FileFromEncoded(name, encoded string) FileEntry {
	return FileEntry{
		Name:    name,
		Content: encoded,
	}
}
