package config

// ServiceConfig describes the shop front. ThankYouURL is where the client lands
// after a purchase; "{number}" is replaced with the order number.
type ServiceConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	ClientURL   string `yaml:"client_url" mapstructure:"client_url"`
	ThankYouURL string `yaml:"thank_you_url" mapstructure:"thank_you_url"`
}

type JWTConfig struct {
	Secret string `yaml:"secret" mapstructure:"secret"`
}
