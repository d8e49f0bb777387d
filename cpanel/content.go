package cpanel

import (
	"encoding/json"
	"errors"
	"fmt"
)

// UAPI function names used by this package.
const (
	endpointVersion         = "Version"
	endpointListFiles       = "Fileman/list_files"
	endpointGetFileContent  = "Fileman/get_file_content"
	endpointSaveFileContent = "Fileman/save_file_content"
)

// ContentShape names the layout in which get_file_content returned the file.
type ContentShape int

const (
	// ShapeFlat is {"data": {"content": "..."}}.
	ShapeFlat ContentShape = iota + 1
	// ShapeNested is {"data": {"file": {"content": "..."}}}.
	ShapeNested
)

func (s ContentShape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeNested:
		return "nested"
	}
	return "unknown"
}

// FileContent is the decoded result of get_file_content. Servers have been
// seen answering in either shape, so both are accepted and recorded.
type FileContent struct {
	Shape   ContentShape
	Content string
}

var errNoContent = errors.New("response carries no file content")

type fileContentData struct {
	Content *string `json:"content"`
	File    *struct {
		Content *string `json:"content"`
	} `json:"file"`
}

func decodeFileContent(raw json.RawMessage) (FileContent, error) {
	if len(raw) == 0 {
		return FileContent{}, errNoContent
	}
	var d fileContentData
	if err := json.Unmarshal(raw, &d); err != nil {
		return FileContent{}, fmt.Errorf("decode file content: %w", err)
	}
	switch {
	case d.Content != nil:
		return FileContent{Shape: ShapeFlat, Content: *d.Content}, nil
	case d.File != nil && d.File.Content != nil:
		return FileContent{Shape: ShapeNested, Content: *d.File.Content}, nil
	}
	return FileContent{}, errNoContent
}
