package configflags

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	v1 "github.com/openshift-eng/bugzilla-client/pkg/apis/config/v1"
)

// ConfigFlags holds the location of the client configuration file.
type ConfigFlags struct {
	Path string
}

func NewConfigFlags() *ConfigFlags {
	return &ConfigFlags{}
}

func (f *ConfigFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path,
		"config",
		f.Path,
		"Configuration file with the Bugzilla endpoint and credentials")
}

// GetConfig loads the YAML config file, when one was given. The
// BUGZILLA_PASSWORD environment variable wins over the file so
// credentials can stay out of it.
func (f *ConfigFlags) GetConfig() (*v1.BugzillaConfig, error) {
	var config v1.BugzillaConfig

	if f.Path != "" {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, errors.WithMessage(err, "could not load config")
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, errors.WithMessage(err, "couldn't unmarshal config")
		}
	}

	if password := os.Getenv("BUGZILLA_PASSWORD"); password != "" {
		config.Password = password
	}

	return &config, nil
}
