package flags

import (
	"github.com/spf13/pflag"

	configv1 "github.com/openshift-eng/bugzilla-client/pkg/apis/config/v1"
	"github.com/openshift-eng/bugzilla-client/pkg/bugzilla"
)

// BugzillaFlags holds the connection settings for a Bugzilla instance.
// Values set here override whatever the config file provided.
type BugzillaFlags struct {
	URL       string
	Username  string
	Password  string
	Multicall bool
}

func NewBugzillaFlags() *BugzillaFlags {
	return &BugzillaFlags{
		Multicall: true,
	}
}

func (f *BugzillaFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.URL,
		"url",
		f.URL,
		"Bugzilla XML-RPC endpoint, e.g. https://bugzilla.example.com/xmlrpc.cgi")
	fs.StringVar(&f.Username, "user", f.Username, "Bugzilla account name")
	fs.StringVar(&f.Password, "password", f.Password,
		"Bugzilla account password (prefer the BUGZILLA_PASSWORD environment variable)")
	fs.BoolVar(&f.Multicall, "multicall", f.Multicall,
		"batch bug lookups into a single round trip")
}

// Apply overlays explicitly set flag values onto a loaded config.
func (f *BugzillaFlags) Apply(cfg *configv1.BugzillaConfig) {
	if f.URL != "" {
		cfg.URL = f.URL
	}
	if f.Username != "" {
		cfg.Username = f.Username
	}
	if f.Password != "" {
		cfg.Password = f.Password
	}
	if cfg.Multicall == nil {
		multicall := f.Multicall
		cfg.Multicall = &multicall
	}
}

// GetBugzillaClient connects a client from the merged config.
func (f *BugzillaFlags) GetBugzillaClient(cfg *configv1.BugzillaConfig) (*bugzilla.Client, error) {
	f.Apply(cfg)
	return bugzilla.New(cfg)
}
