// internal/models/profile.go
package models

// ProfileAttribute names one answerable field of a UserProfile. Its string
// form is the JSON field name.
type ProfileAttribute string

const (
	AttrBusinessType     ProfileAttribute = "businessType"
	AttrIndustry         ProfileAttribute = "industry"
	AttrCompanySize      ProfileAttribute = "companySize"
	AttrDesignPreference ProfileAttribute = "designPreference"
	AttrColorPreference  ProfileAttribute = "colorPreference"
	AttrTargetAudience   ProfileAttribute = "targetAudience"
	AttrInvoiceFrequency ProfileAttribute = "invoiceFrequency"
	AttrBudget           ProfileAttribute = "budget"
	AttrExperience       ProfileAttribute = "experience"
	AttrGoals            ProfileAttribute = "goals"
)

// SingularAttributes is the fixed evaluation order of the single-valued
// profile attributes.
var SingularAttributes = []ProfileAttribute{
	AttrBusinessType,
	AttrIndustry,
	AttrCompanySize,
	AttrDesignPreference,
	AttrColorPreference,
	AttrTargetAudience,
	AttrInvoiceFrequency,
	AttrBudget,
	AttrExperience,
}

type BusinessType string

const (
	BusinessFreelancer    BusinessType = "freelancer"
	BusinessSmallBusiness BusinessType = "small-business"
	BusinessAgency        BusinessType = "agency"
	BusinessConsultant    BusinessType = "consultant"
	BusinessEcommerce     BusinessType = "ecommerce"
	BusinessNonprofit     BusinessType = "nonprofit"
)

type Industry string

const (
	IndustryDesign       Industry = "design"
	IndustryTechnology   Industry = "technology"
	IndustryConsulting   Industry = "consulting"
	IndustryMarketing    Industry = "marketing"
	IndustryConstruction Industry = "construction"
	IndustryHealthcare   Industry = "healthcare"
	IndustryLegal        Industry = "legal"
	IndustryRetail       Industry = "retail"
	IndustryOther        Industry = "other"
)

type CompanySize string

const (
	SizeSolo   CompanySize = "solo"
	SizeSmall  CompanySize = "small"
	SizeMedium CompanySize = "medium"
	SizeLarge  CompanySize = "large"
)

type DesignPreference string

const (
	DesignModern   DesignPreference = "modern"
	DesignClassic  DesignPreference = "classic"
	DesignMinimal  DesignPreference = "minimal"
	DesignCreative DesignPreference = "creative"
)

type ColorPreference string

const (
	ColorNeutral    ColorPreference = "neutral"
	ColorColorful   ColorPreference = "colorful"
	ColorMonochrome ColorPreference = "monochrome"
	ColorBranded    ColorPreference = "branded"
)

type TargetAudience string

const (
	AudienceClients    TargetAudience = "clients"
	AudienceBusinesses TargetAudience = "businesses"
	AudienceConsumers  TargetAudience = "consumers"
	AudienceGovernment TargetAudience = "government"
)

type InvoiceFrequency string

const (
	FrequencyWeekly       InvoiceFrequency = "weekly"
	FrequencyMonthly      InvoiceFrequency = "monthly"
	FrequencyProjectBased InvoiceFrequency = "project-based"
	FrequencyOccasional   InvoiceFrequency = "occasional"
)

type Budget string

const (
	BudgetCostConscious Budget = "cost-conscious"
	BudgetBalanced      Budget = "balanced"
	BudgetValueFocused  Budget = "value-focused"
	BudgetPremium       Budget = "premium"
)

type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceExpert       Experience = "expert"
)

type Goal string

const (
	GoalLookProfessional Goal = "look-professional"
	GoalStandOut         Goal = "stand-out"
	GoalSaveTime         Goal = "save-time"
	GoalGetPaidFaster    Goal = "get-paid-faster"
	GoalBuildBrand       Goal = "build-brand"
	GoalStayOrganized    Goal = "stay-organized"
)

// UserProfile describes a business for template recommendation. An empty
// field means the question has not been answered yet.
type UserProfile struct {
	BusinessType     BusinessType     `json:"businessType,omitempty"`
	Industry         Industry         `json:"industry,omitempty"`
	CompanySize      CompanySize      `json:"companySize,omitempty"`
	DesignPreference DesignPreference `json:"designPreference,omitempty"`
	ColorPreference  ColorPreference  `json:"colorPreference,omitempty"`
	TargetAudience   TargetAudience   `json:"targetAudience,omitempty"`
	InvoiceFrequency InvoiceFrequency `json:"invoiceFrequency,omitempty"`
	Budget           Budget           `json:"budget,omitempty"`
	Experience       Experience       `json:"experience,omitempty"`
	Goals            []Goal           `json:"goals,omitempty"`
}

// Value returns the canonical string of a singular attribute, or "" for
// goals and unknown attributes.
func (p UserProfile) Value(attr ProfileAttribute) string {
	switch attr {
	case AttrBusinessType:
		return string(p.BusinessType)
	case AttrIndustry:
		return string(p.Industry)
	case AttrCompanySize:
		return string(p.CompanySize)
	case AttrDesignPreference:
		return string(p.DesignPreference)
	case AttrColorPreference:
		return string(p.ColorPreference)
	case AttrTargetAudience:
		return string(p.TargetAudience)
	case AttrInvoiceFrequency:
		return string(p.InvoiceFrequency)
	case AttrBudget:
		return string(p.Budget)
	case AttrExperience:
		return string(p.Experience)
	}
	return ""
}

// Answered reports whether attr has a value.
func (p UserProfile) Answered(attr ProfileAttribute) bool {
	if attr == AttrGoals {
		return len(p.Goals) > 0
	}
	return p.Value(attr) != ""
}

// Missing lists the singular attributes that are still empty, in evaluation order.
func (p UserProfile) Missing() []ProfileAttribute {
	var out []ProfileAttribute
	for _, attr := range SingularAttributes {
		if !p.Answered(attr) {
			out = append(out, attr)
		}
	}
	return out
}
