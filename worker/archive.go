package worker

import (
	"cctareport.com/engine/export"
	"path"
)

const (
	ReportFileName    = "report.json"
	ReportContentType = "application/json"
)

type archiveFile struct {
	key         string
	contentType string
	data        []byte
}

func archiveKey(reportID string, name string) string {
	return path.Join("reports", reportID, name)
}

func workbookKey(reportID string) string {
	return archiveKey(reportID, export.FileName)
}
