package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	bugzillav1 "github.com/openshift-eng/bugzilla-client/pkg/apis/bugzilla/v1"
	"github.com/openshift-eng/bugzilla-client/pkg/bugzilla"
	"github.com/openshift-eng/bugzilla-client/pkg/flags"
	"github.com/openshift-eng/bugzilla-client/pkg/flags/configflags"
	"github.com/openshift-eng/bugzilla-client/pkg/util"
)

type QueryFlags struct {
	BugzillaFlags *flags.BugzillaFlags
	ConfigFlags   *configflags.ConfigFlags

	Product       string
	Component     string
	Status        []string
	CC            string
	AssignedTo    string
	Reporter      string
	FixedIn       []string
	Flag          []string
	Boolean       []string
	IncludeFields []string
	OpenOnly      bool
	Raw           bool
}

func NewQueryFlags() *QueryFlags {
	return &QueryFlags{
		BugzillaFlags: flags.NewBugzillaFlags(),
		ConfigFlags:   configflags.NewConfigFlags(),
	}
}

func (f *QueryFlags) BindFlags(fs *pflag.FlagSet) {
	f.BugzillaFlags.BindFlags(fs)
	f.ConfigFlags.BindFlags(fs)

	fs.StringVar(&f.Product, "product", f.Product, "product name filter")
	fs.StringVar(&f.Component, "component", f.Component, "component filter, comma-separated")
	fs.StringSliceVar(&f.Status, "status", f.Status, "bug status filter")
	fs.StringVar(&f.CC, "cc", f.CC, "email filter on the CC role")
	fs.StringVar(&f.AssignedTo, "assigned-to", f.AssignedTo, "email filter on the assignee role")
	fs.StringVar(&f.Reporter, "reporter", f.Reporter, "email filter on the reporter role")
	fs.StringArrayVar(&f.FixedIn, "fixed-in", f.FixedIn, "boolean chart on the fixed-in version, repeatable")
	fs.StringArrayVar(&f.Flag, "flag", f.Flag, "boolean chart on flag names, repeatable")
	fs.StringArrayVar(&f.Boolean, "boolean", f.Boolean, "raw boolean chart expression (field-type[-value] tokens), repeatable")
	fs.StringSliceVar(&f.IncludeFields, "include-fields", f.IncludeFields, "fields to return per bug; legacy names are translated")
	fs.BoolVar(&f.OpenOnly, "open-only", f.OpenOnly, "drop bugs that are already resolved")
	fs.BoolVar(&f.Raw, "raw", f.Raw, "print the raw field maps instead of the typed view")
}

func (f *QueryFlags) Kwargs() map[string]interface{} {
	kwargs := map[string]interface{}{}
	if f.Product != "" {
		kwargs["product"] = f.Product
	}
	if f.Component != "" {
		kwargs["component"] = f.Component
	}
	if len(f.Status) > 0 {
		kwargs["status"] = f.Status
	}
	if f.CC != "" {
		kwargs["cc"] = f.CC
	}
	if f.AssignedTo != "" {
		kwargs["assigned_to"] = f.AssignedTo
	}
	if f.Reporter != "" {
		kwargs["reporter"] = f.Reporter
	}
	if len(f.FixedIn) > 0 {
		kwargs["fixed_in"] = f.FixedIn
	}
	if len(f.Flag) > 0 {
		kwargs["flag"] = f.Flag
	}
	if len(f.Boolean) > 0 {
		kwargs["boolean_query"] = f.Boolean
	}
	if len(f.IncludeFields) > 0 {
		kwargs["include_fields"] = f.IncludeFields
	}
	return kwargs
}

func NewQueryCommand() *cobra.Command {
	f := NewQueryFlags()

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Search for bugs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(f.ConfigFlags, f.BugzillaFlags)
			if err != nil {
				return err
			}
			defer client.Close()

			query, err := client.BuildQuery(f.Kwargs())
			if err != nil {
				return err
			}

			result, err := client.Query(query)
			if err != nil {
				return errors.WithMessage(err, "query failed")
			}
			log.Infof("%d bugs matched", len(result.Bugs))

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")

			if f.Raw {
				return encoder.Encode(result.Bugs)
			}

			bugs, err := bugzilla.DecodeBugs(result.Bugs)
			if err != nil {
				return err
			}
			if f.OpenOnly {
				open := make([]bugzillav1.Bug, 0, len(bugs))
				for _, bug := range bugs {
					if util.IsOpenStatus(bug.Status) {
						open = append(open, bug)
					}
				}
				bugs = open
			}
			return encoder.Encode(bugs)
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}

func newClient(configFlags *configflags.ConfigFlags, bugzillaFlags *flags.BugzillaFlags) (*bugzilla.Client, error) {
	cfg, err := configFlags.GetConfig()
	if err != nil {
		return nil, err
	}
	return bugzillaFlags.GetBugzillaClient(cfg)
}
