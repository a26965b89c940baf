package domain

// Report statuses shown on the dashboard
const (
	ReportStatusNormal         = "Normal"
	ReportStatusReviewRequired = "Review Required"
)

// MaxRecentReports caps the recent-report collection
const MaxRecentReports = 5

// DefaultMimeType is used when the picker reports no MIME type
const DefaultMimeType = "application/octet-stream"

// UploadedFile is a health report copied into app-managed storage.
// JSON names match the records written by the mobile app.
type UploadedFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // MIME type
	URI  string `json:"uri"`  // file store location
	Date string `json:"date"` // YYYY-MM-DD
	Size int64  `json:"size"` // bytes
}

// RecentReport is the capped, display-only summary of an upload.
// FileID links back to the UploadedFile it was created from.
type RecentReport struct {
	FileID string `json:"fileId,omitempty"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// PushRecentReport puts r in front and keeps at most MaxRecentReports entries.
func PushRecentReport(reports []RecentReport, r RecentReport) []RecentReport {
	out := make([]RecentReport, 0, MaxRecentReports)
	out = append(out, r)
	for _, existing := range reports {
		if len(out) == MaxRecentReports {
			break
		}
		out = append(out, existing)
	}
	return out
}

// PruneRecentReports drops every entry that belongs to fileID.
func PruneRecentReports(reports []RecentReport, fileID string) []RecentReport {
	out := make([]RecentReport, 0, len(reports))
	for _, r := range reports {
		if r.FileID == fileID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FindFile returns the index of id in files, or -1.
func FindFile(files []UploadedFile, id string) int {
	for i, f := range files {
		if f.ID == id {
			return i
		}
	}
	return -1
}
