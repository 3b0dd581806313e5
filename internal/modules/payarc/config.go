package payarc

const (
	liveBaseURL    = "https://api.payarc.net/v1"
	sandboxBaseURL = "https://testapi.payarc.net/v1"
)

type Config struct {
	Sandbox     bool
	BearerToken string

	// StatementDescriptor is the merchant name shown on card statements.
	// Sent with every charge when set.
	StatementDescriptor string

	// APIBase overrides the sandbox/live URL selection (tests).
	APIBase string
}

func (c Config) BaseURL() string {
	if c.APIBase != "" {
		return c.APIBase
	}
	if c.Sandbox {
		return sandboxBaseURL
	}
	return liveBaseURL
}
