package lexicon

import "strings"

// SearchQueries returns the bounded set of mailbox search expressions a scan
// issues. Keyword queries cover each supported language's receipt terms;
// sender queries cover the catalog's trusted domains. The gatherer dedupes
// message ids across queries, so overlap is fine.
func SearchQueries() []string {
	queries := []string{
		// English receipt terms dominate volume, split into two queries to
		// stay under provider query-length limits.
		`subject:(receipt OR invoice OR "payment confirmation")`,
		`subject:("your subscription" OR "subscription renewed" OR membership) "payment"`,
		`"amount charged" subscription`,

		// French, Spanish, German.
		`subject:(reçu OR facture OR "confirmation de paiement") abonnement`,
		`subject:(recibo OR factura OR "confirmación de pago") suscripción`,
		`subject:(rechnung OR zahlungsbestätigung) (abo OR abonnement)`,

		// Japanese, Arabic.
		`subject:(領収書 OR 請求書 OR お支払い)`,
		`subject:(فاتورة OR إيصال OR "تأكيد الدفع")`,
	}

	// Trusted-domain senders, batched to keep the query count bounded
	// regardless of catalog growth.
	const domainsPerQuery = 6
	var domains []string
	for _, entry := range ServiceCatalog {
		domains = append(domains, entry.Domains...)
	}
	for i := 0; i < len(domains); i += domainsPerQuery {
		end := i + domainsPerQuery
		if end > len(domains) {
			end = len(domains)
		}
		q := "from:(" + strings.Join(domains[i:end], " OR ") + ")"
		queries = append(queries, q)
	}

	return queries
}
