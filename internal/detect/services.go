package detect

import (
	"strings"

	"github.com/recurhq/recur/internal/lexicon"
	"github.com/recurhq/recur/internal/model"
)

// Confidence boost contributions per match quality.
const (
	catalogBoost       = 0.15
	trustedDomainBoost = 0.20
	genericDomainBoost = 0.05
)

// freemailDomains never identify a service: a receipt relayed from a personal
// address tells us nothing about the biller.
var freemailDomains = []string{
	"gmail.com", "googlemail.com", "outlook.com", "hotmail.com",
	"yahoo.com", "icloud.com", "proton.me", "protonmail.com",
}

// IdentifyService matches the message against the service catalog, walking
// entries in order so the most distinctive keywords win. When nothing in the
// catalog matches, a narrow fallback derives the service from the sender
// domain; payment-processor domains are excluded from that fallback since
// they only prove a payment happened, not which subscription it was for.
func IdentifyService(subjectLower, senderLower, bodyLower string, loc Locale) (model.ServiceMatch, bool) {
	senderDomain := domainOf(senderLower)

	for i := range lexicon.ServiceCatalog {
		entry := &lexicon.ServiceCatalog[i]
		if !entry.AppliesTo(loc.Region) {
			continue
		}

		domainMatch := false
		for _, d := range entry.Domains {
			if senderDomain == d || strings.HasSuffix(senderDomain, "."+d) {
				domainMatch = true
				break
			}
		}

		keywordMatch := false
		for _, kw := range entry.Keywords {
			if strings.Contains(subjectLower, kw) || strings.Contains(bodyLower, kw) || strings.Contains(senderLower, kw) {
				keywordMatch = true
				break
			}
		}

		if !domainMatch && !keywordMatch {
			continue
		}

		// A processor sender needs the product keyword, not just its own
		// domain appearing somewhere in the footer.
		if isPaymentProcessor(senderDomain) && !keywordMatch {
			continue
		}

		boost := catalogBoost
		if domainMatch {
			boost += trustedDomainBoost
		}
		return model.ServiceMatch{
			Name:          entry.DisplayName,
			Category:      entry.Category,
			TrustedDomain: domainMatch,
			Boost:         boost,
		}, true
	}

	// Generic fallback: name the service after the sender domain.
	if senderDomain == "" || isPaymentProcessor(senderDomain) || isFreemail(senderDomain) {
		return model.ServiceMatch{}, false
	}
	base := baseDomainName(senderDomain)
	if base == "" {
		return model.ServiceMatch{}, false
	}
	return model.ServiceMatch{
		Name:     strings.ToUpper(base[:1]) + base[1:],
		Category: "Other",
		Boost:    genericDomainBoost,
	}, true
}

func isPaymentProcessor(domain string) bool {
	for _, p := range lexicon.PaymentProcessors {
		if domain == p || strings.HasSuffix(domain, "."+p) {
			return true
		}
	}
	return false
}

func isFreemail(domain string) bool {
	for _, f := range freemailDomains {
		if domain == f {
			return true
		}
	}
	return false
}

// domainOf extracts the domain part of an address like
// "Billing <billing@netflix.com>" or "billing@netflix.com".
func domainOf(sender string) string {
	addr := sender
	if i := strings.LastIndex(addr, "<"); i >= 0 {
		addr = addr[i+1:]
		addr = strings.TrimSuffix(strings.TrimSpace(addr), ">")
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(addr[at+1:]), ">")
}

// baseDomainName strips the TLD and any mail-ish subdomain from a domain,
// leaving the organization name.
func baseDomainName(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return ""
	}
	base := parts[len(parts)-2]
	// domains like example.co.uk
	if len(parts) >= 3 && (base == "co" || base == "com" || base == "ne") {
		base = parts[len(parts)-3]
	}
	return base
}
