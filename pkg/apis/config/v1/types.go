package v1

// BugzillaConfig holds the connection settings for one Bugzilla
// instance.
type BugzillaConfig struct {
	// URL is the XML-RPC endpoint, e.g. https://bugzilla.example.com/xmlrpc.cgi
	URL string `yaml:"url"`

	Username string `yaml:"username,omitempty"`

	// Password may instead come from the BUGZILLA_PASSWORD environment
	// variable, which takes precedence over the file.
	Password string `yaml:"password,omitempty"`

	// Multicall controls whether bug lookups are aggregated into a
	// single system.multicall round trip (the default). Disabling it is
	// somewhat faster per call, but any missing or unreadable bug then
	// faults the entire lookup instead of leaving an empty slot.
	Multicall *bool `yaml:"multicall,omitempty"`

	// SSLVerify can be set to false for instances with self-signed
	// certificates.
	SSLVerify *bool `yaml:"sslVerify,omitempty"`
}
