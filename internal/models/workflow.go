package models

// Stage is the position of a workflow in the consent pipeline
type Stage string

const (
	StageInvited    Stage = "invited"
	StageInterested Stage = "interested"
	StageConsented  Stage = "consented"
	StageRecorded   Stage = "recorded"
	StageReviewed   Stage = "reviewed"
	StagePublished  Stage = "published"
	StageWithdrawn  Stage = "withdrawn"
)

// InvitationMethods lists the accepted invitation channels
var InvitationMethods = []string{"email", "phone", "in_person", "social_media", "postal_mail", "other"}

// RecordingMethods lists the accepted story recording methods
var RecordingMethods = []string{"audio", "video", "written", "interview", "self_recorded"}

// CampaignWorkflow represents the CAMPAIGN_WORKFLOW table
type CampaignWorkflow struct {
	ID                  string  `db:"ID" json:"id"`
	TenantID            string  `db:"TENANT_ID" json:"tenantId"`
	CampaignID          *string `db:"CAMPAIGN_ID" json:"campaignId,omitempty"`
	StorytellerID       string  `db:"STORYTELLER_ID" json:"storytellerId"`
	StoryID             *string `db:"STORY_ID" json:"storyId,omitempty"`
	Stage               Stage   `db:"STAGE" json:"stage"`
	StageChangedAt      int64   `db:"STAGE_CHANGED_AT" json:"stageChangedAt"`
	PreviousStage       *Stage  `db:"PREVIOUS_STAGE" json:"previousStage,omitempty"`
	InvitationSentAt    *int64  `db:"INVITATION_SENT_AT" json:"invitationSentAt,omitempty"`
	InvitationMethod    *string `db:"INVITATION_METHOD" json:"invitationMethod,omitempty"`
	FirstResponseAt     *int64  `db:"FIRST_RESPONSE_AT" json:"firstResponseAt,omitempty"`
	ConsentGrantedAt    *int64  `db:"CONSENT_GRANTED_AT" json:"consentGrantedAt,omitempty"`
	ConsentFormURL      *string `db:"CONSENT_FORM_URL" json:"consentFormUrl,omitempty"`
	ConsentVerifiedBy   *string `db:"CONSENT_VERIFIED_BY" json:"consentVerifiedBy,omitempty"`
	StoryRecordedAt     *int64  `db:"STORY_RECORDED_AT" json:"storyRecordedAt,omitempty"`
	RecordingLocation   *string `db:"RECORDING_LOCATION" json:"recordingLocation,omitempty"`
	RecordingMethod     *string `db:"RECORDING_METHOD" json:"recordingMethod,omitempty"`
	ReviewedAt          *int64  `db:"REVIEWED_AT" json:"reviewedAt,omitempty"`
	ReviewedBy          *string `db:"REVIEWED_BY" json:"reviewedBy,omitempty"`
	ElderReviewRequired bool    `db:"ELDER_REVIEW_REQUIRED" json:"elderReviewRequired"`
	ElderReviewedAt     *int64  `db:"ELDER_REVIEWED_AT" json:"elderReviewedAt,omitempty"`
	ElderReviewedBy     *string `db:"ELDER_REVIEWED_BY" json:"elderReviewedBy,omitempty"`
	ElderApproved       *bool   `db:"ELDER_APPROVED" json:"elderApproved,omitempty"`
	PublishedAt         *int64  `db:"PUBLISHED_AT" json:"publishedAt,omitempty"`
	WithdrawnAt         *int64  `db:"WITHDRAWN_AT" json:"withdrawnAt,omitempty"`
	WithdrawalReason    *string `db:"WITHDRAWAL_REASON" json:"withdrawalReason,omitempty"`
	WithdrawalHandledBy *string `db:"WITHDRAWAL_HANDLED_BY" json:"withdrawalHandledBy,omitempty"`
	Notes               *string `db:"NOTES" json:"notes,omitempty"`
	Metadata            JSONMap `db:"METADATA" json:"metadata"`
	FollowUpRequired    bool    `db:"FOLLOW_UP_REQUIRED" json:"followUpRequired"`
	FollowUpDate        *int64  `db:"FOLLOW_UP_DATE" json:"followUpDate,omitempty"`
	FollowUpNotes       *string `db:"FOLLOW_UP_NOTES" json:"followUpNotes,omitempty"`
	CreatedBy           *string `db:"CREATED_BY" json:"createdBy,omitempty"`
	CreatedTime         int64   `db:"CREATED_TIME" json:"createdTime"`
	UpdatedTime         int64   `db:"UPDATED_TIME" json:"updatedTime"`
}

// StageTransition represents the WORKFLOW_STAGE_AUDIT table
type StageTransition struct {
	ID         string  `db:"STAGE_AUDIT_ID" json:"id"`
	WorkflowID string  `db:"WORKFLOW_ID" json:"workflowId"`
	TenantID   string  `db:"TENANT_ID" json:"tenantId"`
	FromStage  *Stage  `db:"FROM_STAGE" json:"fromStage,omitempty"`
	ToStage    Stage   `db:"TO_STAGE" json:"toStage"`
	ActionTime int64   `db:"ACTION_TIME" json:"actionTime"`
	ActionBy   *string `db:"ACTION_BY" json:"actionBy,omitempty"`
	Reason     *string `db:"REASON" json:"reason,omitempty"`
}

// WorkflowFilter narrows workflow queries. Nil fields are not applied.
type WorkflowFilter struct {
	CampaignID          *string
	StorytellerID       *string
	Stage               *Stage
	ElderReviewRequired *bool
}

// TrackInvitationRequest is the payload for creating a workflow
type TrackInvitationRequest struct {
	StorytellerID       string                 `json:"storytellerId" binding:"required"`
	CampaignID          *string                `json:"campaignId,omitempty"`
	InvitationMethod    string                 `json:"invitationMethod" binding:"required"`
	Notes               *string                `json:"notes,omitempty"`
	Metadata            map[string]interface{} `json:"metadata,omitempty"`
	ElderReviewRequired *bool                  `json:"elderReviewRequired,omitempty"`
}

// RecordConsentRequest is the payload for granting consent
type RecordConsentRequest struct {
	ConsentFormURL *string `json:"consentFormUrl,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// AdvanceStageRequest is the payload for a general stage transition
type AdvanceStageRequest struct {
	Stage  string  `json:"stage" binding:"required"`
	Notes  *string `json:"notes,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

// BulkAdvanceRequest is the payload for advancing many workflows to one stage
type BulkAdvanceRequest struct {
	WorkflowIDs []string `json:"workflowIds" binding:"required,min=1"`
	Stage       string   `json:"stage" binding:"required"`
	Notes       *string  `json:"notes,omitempty"`
	Reason      *string  `json:"reason,omitempty"`
}

// BulkAdvanceResult reports the outcome of one item of a bulk advance
type BulkAdvanceResult struct {
	WorkflowID string            `json:"workflowId"`
	Success    bool              `json:"success"`
	Workflow   *CampaignWorkflow `json:"workflow,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// LinkStoryRequest is the payload for attaching a story
type LinkStoryRequest struct {
	StoryID           string  `json:"storyId" binding:"required"`
	RecordingLocation *string `json:"recordingLocation,omitempty"`
	RecordingMethod   *string `json:"recordingMethod,omitempty"`
}

// ElderReviewRequest is the payload for recording an Elder review
type ElderReviewRequest struct {
	Approved *bool   `json:"approved" binding:"required"`
	Notes    *string `json:"notes,omitempty"`
}

// WithdrawRequest is the payload for withdrawing consent
type WithdrawRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FollowUpRequest is the payload for scheduling a follow up
type FollowUpRequest struct {
	Date  int64   `json:"date" binding:"required"`
	Notes *string `json:"notes,omitempty"`
}

// MetadataRequest replaces a workflow's metadata
type MetadataRequest struct {
	Metadata map[string]interface{} `json:"metadata" binding:"required"`
}

// WorkflowSummary holds per-stage counts for a set of workflows
type WorkflowSummary struct {
	Total              int `json:"total"`
	Invited            int `json:"invited"`
	Interested         int `json:"interested"`
	Consented          int `json:"consented"`
	Recorded           int `json:"recorded"`
	Reviewed           int `json:"reviewed"`
	Published          int `json:"published"`
	Withdrawn          int `json:"withdrawn"`
	ConversionRate     int `json:"conversionRate"`
	PendingElderReview int `json:"pendingElderReview"`
	FollowUpsNeeded    int `json:"followUpsNeeded"`
}

// PendingConsentItem is one entry of the pending consent queue
type PendingConsentItem struct {
	WorkflowID          string  `json:"workflowId"`
	CampaignID          *string `json:"campaignId,omitempty"`
	StorytellerID       string  `json:"storytellerId"`
	Stage               Stage   `json:"stage"`
	StageChangedAt      int64   `json:"stageChangedAt"`
	DaysInStage         int     `json:"daysInStage"`
	ElderReviewRequired bool    `json:"elderReviewRequired"`
	FollowUpRequired    bool    `json:"followUpRequired"`
	FollowUpDate        *int64  `json:"followUpDate,omitempty"`
	PriorityScore       float64 `json:"priorityScore"`
}

// ConversionFunnel holds reach counts and stage to stage conversion percentages
type ConversionFunnel struct {
	Invited               int `json:"invited"`
	Interested            int `json:"interested"`
	Consented             int `json:"consented"`
	Recorded              int `json:"recorded"`
	Reviewed              int `json:"reviewed"`
	Published             int `json:"published"`
	Withdrawn             int `json:"withdrawn"`
	InvitedToInterested   int `json:"invitedToInterested"`
	InterestedToConsented int `json:"interestedToConsented"`
	ConsentedToRecorded   int `json:"consentedToRecorded"`
	RecordedToPublished   int `json:"recordedToPublished"`
	OverallConversion     int `json:"overallConversion"`
}
