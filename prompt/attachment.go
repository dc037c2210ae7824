package prompt

// AttachmentType is the coarse classification tag of an uploaded file.
type AttachmentType string

const (
	TypeAudio    AttachmentType = "audio"
	TypeVideo    AttachmentType = "video"
	TypeImage    AttachmentType = "image"
	TypeText     AttachmentType = "text"
	TypePDF      AttachmentType = "pdf"
	TypeDocument AttachmentType = "document"
	TypeOther    AttachmentType = "other"
)

// AttachmentStatus is the per-attachment lifecycle state. The machine is
// linear: a record is created in StatusProcessing and moves to exactly one
// of StatusDone or StatusError. StatusPending is declared for deferred
// processing but is not entered by the current flow.
type AttachmentStatus string

const (
	StatusPending    AttachmentStatus = "pending"
	StatusProcessing AttachmentStatus = "processing"
	StatusDone       AttachmentStatus = "done"
	StatusError      AttachmentStatus = "error"
)

// Attachment is a user-supplied file plus its derived analysis text and
// processing status. It is owned by exactly one Prompt.
type Attachment struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Type         AttachmentType   `json:"type"`
	MIMEType     string           `json:"mimeType"`
	Content      []byte           `json:"content,omitempty"`
	Analysis     string           `json:"analysis,omitempty"`
	Status       AttachmentStatus `json:"status"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
}

// Terminal reports whether the attachment reached done or error.
func (a Attachment) Terminal() bool {
	return a.Status == StatusDone || a.Status == StatusError
}
