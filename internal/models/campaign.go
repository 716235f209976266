package models

// CampaignType enumerates the kinds of campaign
type CampaignType string

const (
	CampaignTypeTourStop          CampaignType = "tour_stop"
	CampaignTypeCommunityOutreach CampaignType = "community_outreach"
	CampaignTypePartnership       CampaignType = "partnership"
	CampaignTypeCollectionDrive   CampaignType = "collection_drive"
	CampaignTypeExhibition        CampaignType = "exhibition"
	CampaignTypeOther             CampaignType = "other"
)

// CampaignStatus enumerates campaign lifecycle states. Moves between them are caller directed.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusArchived  CampaignStatus = "archived"
)

// CampaignTypes lists every accepted campaign type
var CampaignTypes = []CampaignType{
	CampaignTypeTourStop,
	CampaignTypeCommunityOutreach,
	CampaignTypePartnership,
	CampaignTypeCollectionDrive,
	CampaignTypeExhibition,
	CampaignTypeOther,
}

// CampaignStatuses lists every accepted campaign status
var CampaignStatuses = []CampaignStatus{
	CampaignStatusDraft,
	CampaignStatusActive,
	CampaignStatusPaused,
	CampaignStatusCompleted,
	CampaignStatusArchived,
}

// IsValid reports whether t is a known campaign type
func (t CampaignType) IsValid() bool {
	for _, known := range CampaignTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known campaign status
func (s CampaignStatus) IsValid() bool {
	for _, known := range CampaignStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Campaign represents the CAMPAIGN table
type Campaign struct {
	ID                      string         `db:"ID" json:"id"`
	TenantID                string         `db:"TENANT_ID" json:"tenantId"`
	OrganizationID          *string        `db:"ORGANIZATION_ID" json:"organizationId,omitempty"`
	Name                    string         `db:"NAME" json:"name"`
	Slug                    string         `db:"SLUG" json:"slug"`
	Description             *string        `db:"DESCRIPTION" json:"description,omitempty"`
	Tagline                 *string        `db:"TAGLINE" json:"tagline,omitempty"`
	Type                    CampaignType   `db:"CAMPAIGN_TYPE" json:"campaignType"`
	Status                  CampaignStatus `db:"STATUS" json:"status"`
	StartDate               *int64         `db:"START_DATE" json:"startDate,omitempty"`
	EndDate                 *int64         `db:"END_DATE" json:"endDate,omitempty"`
	LocationText            *string        `db:"LOCATION_TEXT" json:"locationText,omitempty"`
	City                    *string        `db:"CITY" json:"city,omitempty"`
	StateProvince           *string        `db:"STATE_PROVINCE" json:"stateProvince,omitempty"`
	Country                 *string        `db:"COUNTRY" json:"country,omitempty"`
	Latitude                *float64       `db:"LATITUDE" json:"latitude,omitempty"`
	Longitude               *float64       `db:"LONGITUDE" json:"longitude,omitempty"`
	StorytellerTarget       *int           `db:"STORYTELLER_TARGET" json:"storytellerTarget,omitempty"`
	StoryTarget             *int           `db:"STORY_TARGET" json:"storyTarget,omitempty"`
	EngagementTarget        *int           `db:"ENGAGEMENT_TARGET" json:"engagementTarget,omitempty"`
	ParticipantCount        int            `db:"PARTICIPANT_COUNT" json:"participantCount"`
	StoryCount              int            `db:"STORY_COUNT" json:"storyCount"`
	WorkflowCount           int            `db:"WORKFLOW_COUNT" json:"workflowCount"`
	EngagementMetrics       JSONMap        `db:"ENGAGEMENT_METRICS" json:"engagementMetrics"`
	RequiresConsentWorkflow bool           `db:"REQUIRES_CONSENT_WORKFLOW" json:"requiresConsentWorkflow"`
	RequiresElderReview     bool           `db:"REQUIRES_ELDER_REVIEW" json:"requiresElderReview"`
	CulturalProtocols       *string        `db:"CULTURAL_PROTOCOLS" json:"culturalProtocols,omitempty"`
	TraditionalTerritory    *string        `db:"TRADITIONAL_TERRITORY" json:"traditionalTerritory,omitempty"`
	IsPublic                bool           `db:"IS_PUBLIC" json:"isPublic"`
	IsFeatured              bool           `db:"IS_FEATURED" json:"isFeatured"`
	AllowSelfRegistration   bool           `db:"ALLOW_SELF_REGISTRATION" json:"allowSelfRegistration"`
	Metadata                JSONMap        `db:"METADATA" json:"metadata"`
	CreatedBy               *string        `db:"CREATED_BY" json:"createdBy,omitempty"`
	CreatedTime             int64          `db:"CREATED_TIME" json:"createdTime"`
	UpdatedTime             int64          `db:"UPDATED_TIME" json:"updatedTime"`
}

// CampaignCounts are the live counts rolled up from a campaign's workflows
type CampaignCounts struct {
	ParticipantCount int `json:"participantCount"`
	StoryCount       int `json:"storyCount"`
	WorkflowCount    int `json:"workflowCount"`
}

// CampaignFilter narrows campaign listings. Empty fields are not applied.
type CampaignFilter struct {
	Statuses []CampaignStatus
	Type     *CampaignType
	Featured *bool
	Public   *bool
	Limit    int
	Offset   int
}

// CreateCampaignRequest is the payload for creating a campaign
type CreateCampaignRequest struct {
	Name                    string                 `json:"name" binding:"required"`
	OrganizationID          *string                `json:"organizationId,omitempty"`
	Description             *string                `json:"description,omitempty"`
	Tagline                 *string                `json:"tagline,omitempty"`
	Type                    *CampaignType          `json:"campaignType,omitempty"`
	Status                  *CampaignStatus        `json:"status,omitempty"`
	StartDate               *int64                 `json:"startDate,omitempty"`
	EndDate                 *int64                 `json:"endDate,omitempty"`
	LocationText            *string                `json:"locationText,omitempty"`
	City                    *string                `json:"city,omitempty"`
	StateProvince           *string                `json:"stateProvince,omitempty"`
	Country                 *string                `json:"country,omitempty"`
	Latitude                *float64               `json:"latitude,omitempty"`
	Longitude               *float64               `json:"longitude,omitempty"`
	StorytellerTarget       *int                   `json:"storytellerTarget,omitempty"`
	StoryTarget             *int                   `json:"storyTarget,omitempty"`
	EngagementTarget        *int                   `json:"engagementTarget,omitempty"`
	RequiresConsentWorkflow *bool                  `json:"requiresConsentWorkflow,omitempty"`
	RequiresElderReview     *bool                  `json:"requiresElderReview,omitempty"`
	CulturalProtocols       *string                `json:"culturalProtocols,omitempty"`
	TraditionalTerritory    *string                `json:"traditionalTerritory,omitempty"`
	IsPublic                *bool                  `json:"isPublic,omitempty"`
	IsFeatured              *bool                  `json:"isFeatured,omitempty"`
	AllowSelfRegistration   *bool                  `json:"allowSelfRegistration,omitempty"`
	Metadata                map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateCampaignRequest is a partial update. Slug and counts are not updatable.
type UpdateCampaignRequest struct {
	Name                    *string                `json:"name,omitempty"`
	OrganizationID          *string                `json:"organizationId,omitempty"`
	Description             *string                `json:"description,omitempty"`
	Tagline                 *string                `json:"tagline,omitempty"`
	Type                    *CampaignType          `json:"campaignType,omitempty"`
	Status                  *CampaignStatus        `json:"status,omitempty"`
	StartDate               *int64                 `json:"startDate,omitempty"`
	EndDate                 *int64                 `json:"endDate,omitempty"`
	LocationText            *string                `json:"locationText,omitempty"`
	City                    *string                `json:"city,omitempty"`
	StateProvince           *string                `json:"stateProvince,omitempty"`
	Country                 *string                `json:"country,omitempty"`
	Latitude                *float64               `json:"latitude,omitempty"`
	Longitude               *float64               `json:"longitude,omitempty"`
	StorytellerTarget       *int                   `json:"storytellerTarget,omitempty"`
	StoryTarget             *int                   `json:"storyTarget,omitempty"`
	EngagementTarget        *int                   `json:"engagementTarget,omitempty"`
	RequiresConsentWorkflow *bool                  `json:"requiresConsentWorkflow,omitempty"`
	RequiresElderReview     *bool                  `json:"requiresElderReview,omitempty"`
	CulturalProtocols       *string                `json:"culturalProtocols,omitempty"`
	TraditionalTerritory    *string                `json:"traditionalTerritory,omitempty"`
	IsPublic                *bool                  `json:"isPublic,omitempty"`
	IsFeatured              *bool                  `json:"isFeatured,omitempty"`
	AllowSelfRegistration   *bool                  `json:"allowSelfRegistration,omitempty"`
	Metadata                map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateCampaignStatusRequest is the payload for a status change
type UpdateCampaignStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// EngagementMetricsRequest merges keys into a campaign's engagement metrics
type EngagementMetricsRequest struct {
	Metrics map[string]interface{} `json:"metrics" binding:"required"`
}

// CampaignDetails bundles a campaign with the summary of its workflows
type CampaignDetails struct {
	Campaign        *Campaign        `json:"campaign"`
	WorkflowSummary *WorkflowSummary `json:"workflowSummary"`
}

// CampaignProgress reports a campaign's progress against its targets
type CampaignProgress struct {
	CampaignID           string `json:"campaignId"`
	StorytellerProgress  *int   `json:"storytellerProgress"`
	StoryProgress        *int   `json:"storyProgress"`
	WorkflowProgress     *int   `json:"workflowProgress"`
	DaysElapsed          *int   `json:"daysElapsed"`
	DaysRemaining        *int   `json:"daysRemaining"`
	CompletionPercentage int    `json:"completionPercentage"`
}

// CampaignStatistics reports aggregate workflow statistics for a campaign
type CampaignStatistics struct {
	CampaignID        string `json:"campaignId"`
	TotalWorkflows    int    `json:"totalWorkflows"`
	TotalStories      int    `json:"totalStories"`
	TotalParticipants int    `json:"totalParticipants"`
	PublishedStories  int    `json:"publishedStories"`
	PendingReview     int    `json:"pendingReview"`
	ConversionRate    int    `json:"conversionRate"`
	AvgDaysToPublish  *int   `json:"avgDaysToPublish"`
}
