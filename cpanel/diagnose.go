package cpanel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// VersionCheck is the outcome of the UAPI Version call.
type VersionCheck struct {
	Status int    `json:"status"`
	Data   string `json:"data"`
}

// ListFilesCheck is the outcome of listing the base directory.
type ListFilesCheck struct {
	Status    int `json:"status"`
	FileCount int `json:"file_count"`
}

// FileContentCheck is the outcome of reading the probe file.
type FileContentCheck struct {
	Status     int  `json:"status"`
	HasContent bool `json:"has_content"`
}

// Report aggregates the three connectivity checks.
type Report struct {
	Version     VersionCheck     `json:"version"`
	ListFiles   ListFilesCheck   `json:"list_files"`
	FileContent FileContentCheck `json:"file_content"`
}

// Diagnose runs the version, directory listing and file read checks in order
// and stops at the first call that fails at the transport or HTTP level.
// A remote status other than 1 is reported in the Report, not as an error.
func (c *Client) Diagnose(ctx context.Context, probeFile string) (Report, error) {
	var r Report

	c.logger.Infof("cpanel: diagnose %s as %s (dir %s)", c.cfg.BaseURL, c.cfg.Username, c.cfg.Directory)

	resp, err := c.Execute(ctx, http.MethodGet, endpointVersion, nil)
	if err != nil {
		return r, fmt.Errorf("version check: %w", err)
	}
	r.Version = VersionCheck{Status: resp.Status, Data: "Version check passed"}

	params := url.Values{}
	params.Set("dir", c.cfg.Directory)
	params.Set("show_hidden", "0")
	resp, err = c.Execute(ctx, http.MethodGet, endpointListFiles, params)
	if err != nil {
		return r, fmt.Errorf("list files check: %w", err)
	}
	r.ListFiles = ListFilesCheck{Status: resp.Status, FileCount: countEntries(resp.Data)}

	params = url.Values{}
	params.Set("dir", c.cfg.Directory)
	params.Set("file", probeFile)
	resp, err = c.Execute(ctx, http.MethodGet, endpointGetFileContent, params)
	if err != nil {
		return r, fmt.Errorf("file content check: %w", err)
	}
	r.FileContent = FileContentCheck{Status: resp.Status, HasContent: resp.HasData()}

	return r, nil
}

// countEntries returns the length of data when it is a JSON array, else 0.
func countEntries(data json.RawMessage) int {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0
	}
	return len(entries)
}
