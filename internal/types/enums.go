package types

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Project categories
const (
	CategoryWebDevelopment = "web-development"
	CategoryMobileApp      = "mobile-app"
	CategoryUIUXDesign     = "ui-ux-design"
	CategoryBranding       = "branding"
	CategoryEcommerce      = "ecommerce"
	CategoryOther          = "other"
)

// Project status values
const (
	ProjectDraft     = "draft"
	ProjectPublished = "published"
	ProjectArchived  = "archived"
)

// Contact status values
const (
	ContactNew        = "new"
	ContactInProgress = "in-progress"
	ContactResponded  = "responded"
	ContactClosed     = "closed"
	ContactSpam       = "spam"
)

// Contact priority values
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Contact project types. The inquiry form accepts two more than the portfolio.
const (
	ProjectTypeDigitalMarketing = "digital-marketing"
	ProjectTypeConsultation     = "consultation"
)

// Contact budget ranges
const (
	Budget5kUnder     = "under-5k"
	Budget5kTo10k     = "5k-10k"
	Budget10kTo25k    = "10k-25k"
	Budget25kTo50k    = "25k-50k"
	BudgetOver50k     = "over-50k"
	BudgetUnspecified = "not-specified"
)

// Contact timelines
const (
	TimelineASAP        = "asap"
	TimelineOneMonth    = "1-month"
	TimelineTwoToThree  = "2-3-months"
	TimelineThreeToSix  = "3-6-months"
	TimelineFlexible    = "flexible"
	TimelineUnspecified = "not-specified"
)

// Contact sources
const (
	SourceWebsite     = "website"
	SourceReferral    = "referral"
	SourceSocialMedia = "social-media"
	SourceGoogle      = "google"
	SourceOther       = "other"
)

// Note types accepted by the contact note endpoint
const (
	NoteInternal = "internal"
	NoteClient   = "client"
)

// Valid values for validation
var ValidRoles = []string{RoleUser, RoleAdmin}

var ValidProjectCategories = []string{
	CategoryWebDevelopment, CategoryMobileApp, CategoryUIUXDesign,
	CategoryBranding, CategoryEcommerce, CategoryOther,
}

var ValidProjectStatuses = []string{ProjectDraft, ProjectPublished, ProjectArchived}

var ValidContactStatuses = []string{
	ContactNew, ContactInProgress, ContactResponded, ContactClosed, ContactSpam,
}

var ValidPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

var ValidProjectTypes = []string{
	CategoryWebDevelopment, CategoryMobileApp, CategoryUIUXDesign, CategoryBranding,
	CategoryEcommerce, ProjectTypeDigitalMarketing, ProjectTypeConsultation, CategoryOther,
}

var ValidBudgets = []string{
	Budget5kUnder, Budget5kTo10k, Budget10kTo25k, Budget25kTo50k, BudgetOver50k, BudgetUnspecified,
}

var ValidTimelines = []string{
	TimelineASAP, TimelineOneMonth, TimelineTwoToThree, TimelineThreeToSix, TimelineFlexible, TimelineUnspecified,
}

var ValidSources = []string{SourceWebsite, SourceReferral, SourceSocialMedia, SourceGoogle, SourceOther}

// IsValid reports whether value is one of valid.
func IsValid(value string, valid []string) bool {
	for _, v := range valid {
		if v == value {
			return true
		}
	}
	return false
}
