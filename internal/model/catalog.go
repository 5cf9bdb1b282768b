package model

// ServiceCatalogEntry is static reference data describing a known
// subscription service. Loaded once at startup, immutable at runtime.
type ServiceCatalogEntry struct {
	Key         string
	DisplayName string
	Category    string
	// Domains the service sends billing mail from. A sender containing one
	// of these is a trusted match.
	Domains []string
	// Keywords matched case-insensitively in subject, body or sender.
	Keywords []string
	// Regions the entry applies to; empty means global.
	Regions []string
}

// AppliesTo reports whether the entry is usable for the given region.
func (e *ServiceCatalogEntry) AppliesTo(region string) bool {
	if len(e.Regions) == 0 {
		return true
	}
	for _, r := range e.Regions {
		if r == region {
			return true
		}
	}
	return false
}
