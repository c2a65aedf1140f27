package context

import (
	"strings"

	"repogenome/internal/genome"
)

// domainKeywords maps a domain slug to the words that imply it, grounded
// on the original's _extract_domains_from_goal keyword table.
var domainKeywords = map[string][]string{
	"auth":     {"authentication", "auth", "login", "session"},
	"security": {"security", "secure", "crypto", "encryption"},
	"api":      {"api", "endpoint", "route", "rest"},
	"database": {"database", "db", "sql", "query"},
	"user":     {"user", "users", "account", "profile"},
	"payment":  {"payment", "billing", "invoice", "transaction"},
}

// resolveScope maps a goal string to a Scope, following the original's
// pattern-matched intents (refactor/add/fix/understand) rather than a
// free-form NLP classifier, for the same determinism reason the query
// router stays keyword-based.
func resolveScope(g *genome.Genome, goal string) Scope {
	lower := strings.ToLower(goal)

	switch {
	case strings.Contains(lower, "refactor"):
		return Scope{Domains: extractDomains(g, lower), IncludeFlows: true, IncludeHistory: true, PreferRecent: true}
	case strings.Contains(lower, "add") || strings.Contains(lower, "implement") || strings.Contains(lower, "feature"):
		return Scope{Domains: extractDomains(g, lower), IncludeFlows: true, IncludeContract: true}
	case strings.Contains(lower, "fix") || strings.Contains(lower, "bug"):
		return Scope{Domains: extractDomains(g, lower), IncludeFlows: true, IncludeHistory: true, PreferRecent: true}
	case strings.Contains(lower, "understand") || strings.Contains(lower, "architecture"):
		return Scope{Domains: g.Summary.CoreDomains}
	default:
		return Scope{Domains: extractDomains(g, lower)}
	}
}

func extractDomains(g *genome.Genome, goalLower string) []string {
	var domains []string
	seen := map[string]bool{}

	for _, domain := range g.Summary.CoreDomains {
		if strings.Contains(goalLower, strings.ToLower(domain)) && !seen[strings.ToLower(domain)] {
			domains = append(domains, strings.ToLower(domain))
			seen[strings.ToLower(domain)] = true
		}
	}

	for domain, keywords := range domainKeywords {
		if seen[domain] {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(goalLower, kw) {
				domains = append(domains, domain)
				seen[domain] = true
				break
			}
		}
	}
	return domains
}
