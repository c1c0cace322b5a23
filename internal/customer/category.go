package customer

import "strings"

// ServiceCategory groups providers by the kind of subscription they bill for.
// The category drives policy thresholds and priority weighting.
type ServiceCategory string

const (
	CategoryTelecom   ServiceCategory = "telecom"
	CategoryUtilities ServiceCategory = "utilities"
	CategoryEducation ServiceCategory = "education"
)

// providerCategories is a static lookup of known billing providers. Unrecognized
// providers fall back to telecom, the least urgent band.
var providerCategories = map[string]ServiceCategory{
	"voltgrid energy":    CategoryUtilities,
	"cityflow water":     CategoryUtilities,
	"metrogas":           CategoryUtilities,
	"northgrid power":    CategoryUtilities,
	"brightpath academy": CategoryEducation,
	"lexa learning":      CategoryEducation,
	"campuswise":         CategoryEducation,
	"airwave mobile":     CategoryTelecom,
	"linknet telecom":    CategoryTelecom,
	"streamcast":         CategoryTelecom,
}

// ResolveServiceCategory maps a provider name to its service category.
func ResolveServiceCategory(provider string) ServiceCategory {
	if cat, ok := providerCategories[strings.ToLower(strings.TrimSpace(provider))]; ok {
		return cat
	}
	return CategoryTelecom
}
