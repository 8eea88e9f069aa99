package models

// ResourceStatus is the moderation lifecycle state of a resource.
type ResourceStatus string

const (
	StatusPending  ResourceStatus = "pending"
	StatusApproved ResourceStatus = "approved"
)

// Resource is a submitted learning artifact tagged by subject and semester.
// Resources are created server-side with status pending and mutated
// server-side on approval; the client only ever replaces whole cached lists.
type Resource struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Subject      string         `json:"subject"`
	Semester     int            `json:"semester"`
	Tags         []string       `json:"tags"`
	FileURL      *string        `json:"file_url"`
	ContentURL   *string        `json:"content_url"`
	UploadedBy   string         `json:"uploaded_by"`
	UploaderName string         `json:"uploader_name"`
	Status       ResourceStatus `json:"status"`
	ApprovedBy   *string        `json:"approved_by,omitempty"`
}

// Filter narrows which resources are queried. Absent fields are omitted
// from the query entirely rather than encoded as sentinel values.
type Filter struct {
	Semester *int
	Subject  string
}

// Clone returns a copy that does not alias the semester pointer.
func (f Filter) Clone() Filter {
	if f.Semester == nil {
		return f
	}
	sem := *f.Semester
	return Filter{Semester: &sem, Subject: f.Subject}
}

// ViewMode selects the query path and which mutation affordances apply.
type ViewMode string

const (
	// ModeExplore lists approved resources through the general listing path.
	ModeExplore ViewMode = "explore"
	// ModePending lists pending resources through the dedicated pending path
	// and enables approval actions.
	ModePending ViewMode = "pending"
)

// CreateResourceRequest is the payload sent to POST /resources. Uploader
// attribution is stamped from the submitting identity, never caller-supplied.
type CreateResourceRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Subject      string   `json:"subject"`
	Semester     int      `json:"semester"`
	Tags         []string `json:"tags"`
	FileURL      *string  `json:"file_url"`
	ContentURL   *string  `json:"content_url"`
	UploadedBy   string   `json:"uploaded_by"`
	UploaderName string   `json:"uploader_name"`
}

// ApproveRequest is the payload sent to POST /resources/{id}/approve.
type ApproveRequest struct {
	ApprovedBy string `json:"approved_by"`
}
