package sandbox

// Config is a configuration for the sandbox application
type Config struct {
	HTTPAddr string
	// Credentials the sandbox accepts; requests signed with anything else
	// get a provider-style error response.
	MerchantID     string
	MerchantKey    string
	MerchantSecret string
	// BaseURL is the externally visible base URL used in BankURL links.
	// When empty, links are derived from the incoming request host.
	BaseURL string
	// Salt feeds the return-URL transaction checksums.
	Salt string
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:       "localhost:9090",
		MerchantID:     "1",
		MerchantKey:    "test-key",
		MerchantSecret: "test-secret",
		Salt:           "test-salt",
	}
}
