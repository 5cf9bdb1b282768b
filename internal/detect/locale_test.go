package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		language string
		region   string
	}{
		{
			name:     "arabic with dirham resolves to morocco",
			text:     "فاتورة الاشتراك 150 درهم تأكيد الدفع",
			language: "ar",
			region:   "MA",
		},
		{
			name:     "arabic with riyal resolves to saudi arabia",
			text:     "إيصال الدفع 37 ريال",
			language: "ar",
			region:   "SA",
		},
		{
			name:     "japanese script",
			text:     "お支払いが完了しました 合計 ¥1,200",
			language: "ja",
			region:   "JP",
		},
		{
			name:     "french billing nouns",
			text:     "Votre facture Netflix: prélèvement de 13,49 €",
			language: "fr",
			region:   "FR",
		},
		{
			name:     "french with swiss franc hint",
			text:     "Facture mensuelle: CHF 12.90 prélevés",
			language: "fr",
			region:   "CH",
		},
		{
			name:     "spanish anchors",
			text:     "Recibo de tu suscripción: pago realizado de 9,99 €",
			language: "es",
			region:   "ES",
		},
		{
			name:     "german anchors",
			text:     "Ihre Rechnung: Betrag 11,99 € wurde abgebucht",
			language: "de",
			region:   "DE",
		},
		{
			name:     "plain english defaults to US",
			text:     "Payment receipt: your subscription renewed for $15.99",
			language: "en",
			region:   "US",
		},
		{
			name:     "english with pound sign",
			text:     "Receipt: you were charged £7.99 for your plan",
			language: "en",
			region:   "GB",
		},
		{
			name:     "empty text falls back",
			text:     "",
			language: "en",
			region:   "US",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := DetectLocale(tt.text)
			assert.Equal(t, tt.language, loc.Language)
			assert.Equal(t, tt.region, loc.Region)
		})
	}
}
