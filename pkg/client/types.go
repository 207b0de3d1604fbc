package client

import "time"

type User struct {
	ID               uint   `json:"id"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	ClearanceLevel   string `json:"clearanceLevel"`
	OrganizationName string `json:"organizationName"`
	Enabled          bool   `json:"enabled"`
}

// CaseMatter holds the optional structured details of a legal matter.
// Every field is free text; absent fields are omitted on the wire.
type CaseMatter struct {
	CaseType          string `json:"caseType,omitempty"`
	MatterType        string `json:"matterType,omitempty"`
	Stage             string `json:"stage,omitempty"`
	CourtLevel        string `json:"courtLevel,omitempty"`
	CourtName         string `json:"courtName,omitempty"`
	State             string `json:"state,omitempty"`
	District          string `json:"district,omitempty"`
	CaseNumber        string `json:"caseNumber,omitempty"`
	JudgeName         string `json:"judgeName,omitempty"`
	ClientName        string `json:"clientName,omitempty"`
	OpposingPartyName string `json:"opposingPartyName,omitempty"`
	AssignedAdvocate  string `json:"assignedAdvocate,omitempty"`
	FilingDate        string `json:"filingDate,omitempty"`
	RegistrationDate  string `json:"registrationDate,omitempty"`
}

type Case struct {
	ID                 uint        `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Status             string      `json:"status"`
	SensitivityLevel   string      `json:"sensitivityLevel"`
	OwnerEmail         string      `json:"ownerEmail"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
	Matter             *CaseMatter `json:"matter,omitempty"`
	AllowedTransitions []string    `json:"allowedTransitions"`
}

type Comment struct {
	ID               uint      `json:"id"`
	AuthorEmail      string    `json:"authorEmail"`
	Content          string    `json:"content"`
	SensitivityLevel string    `json:"sensitivityLevel"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Document struct {
	ID               uint      `json:"id"`
	FileName         string    `json:"fileName"`
	FileType         string    `json:"fileType"`
	FileSize         int64     `json:"fileSize"`
	SensitivityLevel string    `json:"sensitivityLevel"`
	UploadedBy       string    `json:"uploadedBy"`
	UploadedAt       time.Time `json:"uploadedAt"`
	DocumentGroupID  string    `json:"documentGroupId"`
	Version          int       `json:"version"`
	Active           bool      `json:"active"`
	FileHash         string    `json:"fileHash"`
}

type DocumentGroup struct {
	DocumentGroupID string     `json:"documentGroupId"`
	Versions        []Document `json:"versions"`
}

type Event struct {
	ID          uint       `json:"id"`
	EventType   string     `json:"eventType"`
	Description string     `json:"description"`
	EventDate   time.Time  `json:"eventDate"`
	NextDate    *time.Time `json:"nextDate,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Party struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	AdvocateName string `json:"advocateName,omitempty"`
	ContactInfo  string `json:"contactInfo,omitempty"`
	Address      string `json:"address,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type Assignment struct {
	ID         uint      `json:"id"`
	UserEmail  string    `json:"userEmail"`
	Role       string    `json:"role"`
	AssignedAt time.Time `json:"assignedAt"`
}

type Invite struct {
	ID             uint       `json:"id"`
	Email          string     `json:"email"`
	Token          string     `json:"token"`
	Role           string     `json:"role"`
	ClearanceLevel string     `json:"clearanceLevel"`
	Status         string     `json:"status"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	RegisteredAt   *time.Time `json:"registeredAt,omitempty"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
	TerminatedAt   *time.Time `json:"terminatedAt,omitempty"`
}

type AuditLog struct {
	ID         uint      `json:"id"`
	ActorEmail string    `json:"actorEmail"`
	Action     string    `json:"action"`
	TargetType string    `json:"targetType"`
	TargetID   uint      `json:"targetId"`
	OldValue   string    `json:"oldValue,omitempty"`
	NewValue   string    `json:"newValue,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Page is the server's pagination envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Size          int   `json:"size"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organizationName"`
}

type AcceptInviteRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateCaseRequest struct {
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	SensitivityLevel string      `json:"sensitivityLevel"`
	Matter           *CaseMatter `json:"matter,omitempty"`
}

type UpdateCaseRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Matter      *CaseMatter `json:"matter,omitempty"`
}

type AddCommentRequest struct {
	Content          string `json:"content"`
	SensitivityLevel string `json:"sensitivityLevel"`
}

type AddEventRequest struct {
	EventType   string     `json:"eventType"`
	Description string     `json:"description"`
	EventDate   time.Time  `json:"eventDate"`
	NextDate    *time.Time `json:"nextDate,omitempty"`
}

type PartyRequest struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	AdvocateName string `json:"advocateName"`
	ContactInfo  string `json:"contactInfo"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
}

type AddAssignmentRequest struct {
	UserEmail string `json:"userEmail"`
	Role      string `json:"role"`
}

type CreateInviteRequest struct {
	Email          string `json:"email"`
	Role           string `json:"role"`
	ClearanceLevel string `json:"clearanceLevel"`
}
