// Package storage publishes finished reports into a year/month folder tree
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Supported storage providers
const (
	ProviderGCS   = "gcs"
	ProviderLocal = "local"
	ProviderNone  = "none"
)

// XLSXContentType is the MIME type of uploaded reports
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FolderStore is a remote tree of folders and files. EnsureFolder must be
// idempotent: asking twice for the same folder returns the same ID.
type FolderStore interface {
	EnsureFolder(ctx context.Context, name, parentID string) (string, error)
	Upload(ctx context.Context, data []byte, filename, folderID string) (string, error)
}

// Error reports a failed storage operation
type Error struct {
	Op     string
	Target string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %q failed: %v", e.Op, e.Target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthFolder names the folder of a month, e.g. "03_Marzo"
func MonthFolder(t time.Time) string {
	return fmt.Sprintf("%02d_%s", int(t.Month()), monthNames[t.Month()-1])
}

// ReportFileName names a report generated at t
func ReportFileName(t time.Time) string {
	return fmt.Sprintf("Analisis_Compras_%s.xlsx", t.Format("20060102_150405"))
}

// Published describes an uploaded report
type Published struct {
	FolderID string
	FileName string
	URI      string
}

// Publish uploads a report under root/yyyy/MM_Mes/, creating the folders
// that do not exist yet
func Publish(ctx context.Context, store FolderStore, root string, now time.Time, data []byte) (*Published, error) {
	parent := ""
	for _, name := range []string{strings.TrimSpace(root), now.Format("2006"), MonthFolder(now)} {
		if name == "" {
			continue
		}
		id, err := store.EnsureFolder(ctx, name, parent)
		if err != nil {
			return nil, err
		}
		parent = id
	}

	filename := ReportFileName(now)
	uri, err := store.Upload(ctx, data, filename, parent)
	if err != nil {
		return nil, err
	}
	return &Published{FolderID: parent, FileName: filename, URI: uri}, nil
}

func joinID(parentID, name string) string {
	if parentID == "" {
		return name
	}
	return strings.TrimSuffix(parentID, "/") + "/" + name
}
