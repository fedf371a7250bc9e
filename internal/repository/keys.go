package repository

// Key namespaces in the key-value store. Keys are plain strings so they
// remain inspectable with standard tooling.
const (
	usageKeyPrefix      = "usage:"
	licenseKeyPrefix    = "license:"
	emailKeyPrefix      = "email:"
	orderKeyPrefix      = "order:"
	statsDailyPrefix    = "stats:daily:"
	webhookDedupePrefix = "webhook:order:"
)

func usageKey(identifier string) string { return usageKeyPrefix + identifier }
func licenseKey(key string) string      { return licenseKeyPrefix + key }
func emailKey(email string) string      { return emailKeyPrefix + email }
func orderKey(orderID string) string    { return orderKeyPrefix + orderID }
func statsDailyKey(date string) string  { return statsDailyPrefix + date }
func webhookDedupeKey(id string) string { return webhookDedupePrefix + id }
