package lexicon

import "github.com/recurhq/recur/internal/model"

// ServiceCatalog is the static table of known subscription services.
// Order encodes match priority: the most distinctive keywords come first so
// a generic name never shadows a more specific entry. Loaded once, never
// mutated.
var ServiceCatalog = []model.ServiceCatalogEntry{
	{
		Key:         "netflix",
		DisplayName: "Netflix",
		Category:    "Streaming",
		Domains:     []string{"netflix.com"},
		Keywords:    []string{"netflix"},
	},
	{
		Key:         "spotify",
		DisplayName: "Spotify",
		Category:    "Music",
		Domains:     []string{"spotify.com"},
		Keywords:    []string{"spotify"},
	},
	{
		Key:         "disney-plus",
		DisplayName: "Disney+",
		Category:    "Streaming",
		Domains:     []string{"disneyplus.com", "disney.com"},
		Keywords:    []string{"disney+", "disney plus"},
	},
	{
		Key:         "youtube-premium",
		DisplayName: "YouTube Premium",
		Category:    "Streaming",
		Domains:     []string{"youtube.com"},
		Keywords:    []string{"youtube premium", "youtube music premium"},
	},
	{
		Key:         "amazon-prime",
		DisplayName: "Amazon Prime",
		Category:    "Shopping",
		Domains:     []string{"amazon.com", "amazon.fr", "amazon.de", "amazon.es", "amazon.co.jp"},
		Keywords:    []string{"amazon prime", "prime video", "prime membership"},
	},
	{
		Key:         "apple",
		DisplayName: "Apple Services",
		Category:    "Software",
		Domains:     []string{"apple.com", "itunes.com"},
		Keywords:    []string{"icloud+", "icloud storage", "apple music", "apple tv+", "apple one"},
	},
	{
		Key:         "adobe",
		DisplayName: "Adobe Creative Cloud",
		Category:    "Software",
		Domains:     []string{"adobe.com"},
		Keywords:    []string{"creative cloud", "adobe"},
	},
	{
		Key:         "microsoft-365",
		DisplayName: "Microsoft 365",
		Category:    "Software",
		Domains:     []string{"microsoft.com"},
		Keywords:    []string{"microsoft 365", "office 365", "xbox game pass"},
	},
	{
		Key:         "openai",
		DisplayName: "ChatGPT Plus",
		Category:    "Software",
		Domains:     []string{"openai.com"},
		Keywords:    []string{"chatgpt plus", "openai"},
	},
	{
		Key:         "dropbox",
		DisplayName: "Dropbox",
		Category:    "Storage",
		Domains:     []string{"dropbox.com"},
		Keywords:    []string{"dropbox"},
	},
	{
		Key:         "notion",
		DisplayName: "Notion",
		Category:    "Productivity",
		Domains:     []string{"notion.so", "makenotion.com"},
		Keywords:    []string{"notion"},
	},
	{
		Key:         "canva",
		DisplayName: "Canva Pro",
		Category:    "Design",
		Domains:     []string{"canva.com"},
		Keywords:    []string{"canva pro", "canva"},
	},
	{
		Key:         "audible",
		DisplayName: "Audible",
		Category:    "Books",
		Domains:     []string{"audible.com", "audible.fr", "audible.de"},
		Keywords:    []string{"audible"},
	},
	{
		Key:         "hbo-max",
		DisplayName: "Max",
		Category:    "Streaming",
		Domains:     []string{"hbomax.com", "max.com"},
		Keywords:    []string{"hbo max", "max subscription"},
	},
	{
		Key:         "deezer",
		DisplayName: "Deezer",
		Category:    "Music",
		Domains:     []string{"deezer.com"},
		Keywords:    []string{"deezer"},
		Regions:     []string{"FR", "MA", "DE", "ES"},
	},
	{
		Key:         "shahid",
		DisplayName: "Shahid VIP",
		Category:    "Streaming",
		Domains:     []string{"shahid.net"},
		Keywords:    []string{"shahid"},
		Regions:     []string{"MA", "SA"},
	},
	{
		Key:         "crunchyroll",
		DisplayName: "Crunchyroll",
		Category:    "Streaming",
		Domains:     []string{"crunchyroll.com"},
		Keywords:    []string{"crunchyroll"},
	},
	{
		Key:         "nintendo",
		DisplayName: "Nintendo Switch Online",
		Category:    "Gaming",
		Domains:     []string{"nintendo.com", "nintendo.co.jp"},
		Keywords:    []string{"nintendo switch online"},
	},
}

// PaymentProcessors are gateways whose domain alone proves only that a
// payment happened, not which service it was for. A processor sender needs a
// corroborating product keyword from the catalog before it can identify a
// service.
var PaymentProcessors = []string{
	"paypal.com",
	"stripe.com",
	"paddle.com",
	"braintreepayments.com",
	"squareup.com",
}
