package config

// StripeConfig mirrors the SHOP_STRIPE settings of the shop.
// APIVersion is compared against the version pinned by the SDK, SubscriptionPlan
// enables the subscription step when set and BackendURL overrides the API base URL.
type StripeConfig struct {
	APIKey              string `yaml:"api_key" mapstructure:"api_key"`
	APIVersion          string `yaml:"api_version" mapstructure:"api_version"`
	PurchaseDescription string `yaml:"purchase_description" mapstructure:"purchase_description"`
	SubscriptionPlan    string `yaml:"subscription_plan" mapstructure:"subscription_plan"`
	BackendURL          string `yaml:"backend_url" mapstructure:"backend_url"`
}
