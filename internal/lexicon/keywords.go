// Package lexicon holds the static, language-keyed reference data the
// detection pipeline runs on: keyword tables, currency patterns, the service
// catalog and the search query set. Pure data, safe for concurrent reads.
package lexicon

// Supported language codes. A message that matches none of them falls back
// to English.
const (
	LangEnglish  = "en"
	LangFrench   = "fr"
	LangSpanish  = "es"
	LangGerman   = "de"
	LangJapanese = "ja"
	LangArabic   = "ar"
)

// DefaultLanguage and DefaultRegion are used when no anchor matches.
const (
	DefaultLanguage = LangEnglish
	DefaultRegion   = "US"
)

// ReceiptKeywords are phrases indicating a payment confirmation or receipt.
// At least one must appear in subject or body for a message to pass the
// receipt gate.
var ReceiptKeywords = map[string][]string{
	LangEnglish: {
		"receipt", "payment confirmation", "payment received", "invoice",
		"your payment", "payment successful", "order confirmation", "billed",
		"thank you for your payment", "transaction confirmation",
	},
	LangFrench: {
		"reçu", "confirmation de paiement", "facture", "votre paiement",
		"paiement effectué", "paiement reçu", "avis de prélèvement",
	},
	LangSpanish: {
		"recibo", "confirmación de pago", "factura", "su pago",
		"pago realizado", "pago recibido", "comprobante",
	},
	LangGerman: {
		"quittung", "zahlungsbestätigung", "rechnung", "ihre zahlung",
		"zahlung erhalten", "zahlungsbeleg",
	},
	LangJapanese: {
		"領収書", "お支払い", "請求書", "決済完了", "ご請求", "支払い完了",
	},
	LangArabic: {
		"إيصال", "تأكيد الدفع", "فاتورة", "دفعتك", "تم الدفع", "إشعار الدفع",
	},
}

// FinancialKeywords indicate an actual monetary transaction took place.
// These also serve as the context phrases for amount extraction.
var FinancialKeywords = map[string][]string{
	LangEnglish: {
		"amount", "total", "charged", "paid", "payment", "price", "billed",
		"subtotal", "amount due", "amount paid",
	},
	LangFrench: {
		"montant", "total", "débité", "payé", "paiement", "prix", "prélevé",
		"somme",
	},
	LangSpanish: {
		"importe", "total", "cargado", "pagado", "pago", "precio", "cobrado",
	},
	LangGerman: {
		"betrag", "gesamt", "abgebucht", "bezahlt", "zahlung", "preis",
		"summe",
	},
	LangJapanese: {
		"金額", "合計", "請求額", "支払", "料金", "税込",
	},
	LangArabic: {
		"مبلغ", "المجموع", "الإجمالي", "دفع", "سعر", "تم خصم", "قيمة",
	},
}

// SubscriptionKeywords are recurring-billing terms. At least one must be
// present for the subscription-context gate.
var SubscriptionKeywords = map[string][]string{
	LangEnglish: {
		"subscription", "membership", "plan", "renewal", "renewed",
		"recurring", "monthly", "yearly", "annual", "auto-renew",
	},
	LangFrench: {
		"abonnement", "adhésion", "forfait", "renouvellement", "renouvelé",
		"mensuel", "annuel", "récurrent",
	},
	LangSpanish: {
		"suscripción", "membresía", "plan", "renovación", "renovado",
		"mensual", "anual", "recurrente",
	},
	LangGerman: {
		"abonnement", "abo", "mitgliedschaft", "tarif", "verlängerung",
		"monatlich", "jährlich",
	},
	LangJapanese: {
		"サブスクリプション", "定期購読", "プラン", "更新", "月額", "年額", "会員",
	},
	LangArabic: {
		"اشتراك", "عضوية", "خطة", "تجديد", "شهري", "سنوي",
	},
}

// Exclusions are hard rejection phrases. Any hit rejects the message before
// positive signals are even considered: onboarding, marketing, shipping,
// refunds and uncharged trials are the dominant false-positive sources.
var Exclusions = map[string][]string{
	LangEnglish: {
		"welcome to", "getting started", "verify your email", "confirm your email",
		"password reset", "reset your password", "security alert",
		"has shipped", "out for delivery", "your order has been shipped",
		"tracking number", "refund issued", "your refund", "money back",
		"start your free trial", "try it free", "free trial started",
		"unsubscribe from our newsletter", "special offer", "limited time offer",
		"don't miss out", "flash sale", "% off", "coupon",
	},
	LangFrench: {
		"bienvenue sur", "bienvenue chez", "premiers pas", "vérifiez votre adresse",
		"réinitialisation du mot de passe", "réinitialiser votre mot de passe",
		"a été expédié", "en cours de livraison", "numéro de suivi",
		"remboursement effectué", "votre remboursement",
		"essai gratuit commencé", "commencez votre essai gratuit",
		"offre spéciale", "offre limitée", "vente flash", "% de réduction",
	},
	LangSpanish: {
		"bienvenido a", "primeros pasos", "verifica tu correo",
		"restablecer contraseña", "restablecimiento de contraseña",
		"ha sido enviado", "en camino", "número de seguimiento",
		"reembolso realizado", "tu reembolso",
		"prueba gratis", "comienza tu prueba gratuita",
		"oferta especial", "oferta limitada", "% de descuento",
	},
	LangGerman: {
		"willkommen bei", "erste schritte", "bestätigen sie ihre e-mail",
		"passwort zurücksetzen", "wurde versandt", "sendungsverfolgung",
		"rückerstattung", "kostenlose testversion gestartet",
		"sonderangebot", "befristetes angebot", "% rabatt",
	},
	LangJapanese: {
		"ようこそ", "メールアドレスの確認", "パスワードの再設定",
		"発送しました", "配達中", "追跡番号", "返金", "無料トライアル開始",
		"特別オファー", "期間限定", "クーポン",
	},
	LangArabic: {
		"مرحبا بك", "أهلا بك", "تأكيد بريدك", "إعادة تعيين كلمة المرور",
		"تم الشحن", "رقم التتبع", "استرداد", "تجربة مجانية",
		"عرض خاص", "عرض محدود", "كود خصم",
	},
}

// TrialKeywords mark a receipt as belonging to a trial period. They differ
// from the trial exclusions above: here a charge was confirmed, the trial
// phrase only refines the status.
var TrialKeywords = map[string][]string{
	LangEnglish:  {"trial period", "trial ends", "during your trial", "trial subscription"},
	LangFrench:   {"période d'essai", "fin de l'essai", "pendant votre essai"},
	LangSpanish:  {"período de prueba", "fin de la prueba", "durante tu prueba"},
	LangGerman:   {"testzeitraum", "testphase", "während ihrer testversion"},
	LangJapanese: {"トライアル期間", "お試し期間"},
	LangArabic:   {"فترة التجربة", "انتهاء التجربة"},
}

// CancelKeywords mark a cancellation confirmation.
var CancelKeywords = map[string][]string{
	LangEnglish:  {"subscription cancelled", "subscription canceled", "has been cancelled", "has been canceled", "cancellation confirmed"},
	LangFrench:   {"abonnement annulé", "a été annulé", "annulation confirmée", "résiliation confirmée"},
	LangSpanish:  {"suscripción cancelada", "ha sido cancelada", "cancelación confirmada"},
	LangGerman:   {"abonnement gekündigt", "wurde gekündigt", "kündigung bestätigt"},
	LangJapanese: {"解約が完了", "キャンセルされました", "解約手続き完了"},
	LangArabic:   {"تم إلغاء الاشتراك", "تأكيد الإلغاء"},
}

// Anchors are highly language-specific billing nouns used by the locale
// detector when no script range settles the question. Ordered most
// distinctive first; the shared Latin-script languages need words that do
// not collide (French and German both use "abonnement", so it anchors
// neither).
var Anchors = map[string][]string{
	LangFrench:  {"prélèvement", "facture", "paiement", "renouvellement", "reçu de"},
	LangSpanish: {"suscripción", "factura de", "pago realizado", "recibo de", "renovación"},
	LangGerman:  {"rechnung", "zahlungsbestätigung", "abbuchung", "kündigung", "betrag"},
}

// Keywords returns the table for lang, falling back to English when the
// language has no table of its own.
func Keywords(table map[string][]string, lang string) []string {
	if words, ok := table[lang]; ok {
		return words
	}
	return table[LangEnglish]
}
