package main

import (
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/openshift-eng/bugzilla-client/pkg/bugzilla"
	"github.com/openshift-eng/bugzilla-client/pkg/flags"
	"github.com/openshift-eng/bugzilla-client/pkg/flags/configflags"
)

type ModifyFlags struct {
	BugzillaFlags *flags.BugzillaFlags
	ConfigFlags   *configflags.ConfigFlags

	Status     string
	Close      string
	DupeOf     int
	FixedIn    string
	AssignedTo string

	AddCC    []string
	RemoveCC []string

	Blocked    []int
	DependsOn  []int
	DepsAction string

	Whiteboard     string
	WhiteboardName string
	WhiteboardEdit string
	Comment        string
	PrivateComment bool
}

func NewModifyFlags() *ModifyFlags {
	return &ModifyFlags{
		BugzillaFlags:  flags.NewBugzillaFlags(),
		ConfigFlags:    configflags.NewConfigFlags(),
		WhiteboardName: "status",
		WhiteboardEdit: "overwrite",
	}
}

func (f *ModifyFlags) BindFlags(fs *pflag.FlagSet) {
	f.BugzillaFlags.BindFlags(fs)
	f.ConfigFlags.BindFlags(fs)

	fs.StringVar(&f.Status, "status", f.Status, "set the bug status")
	fs.StringVar(&f.Close, "close", f.Close, "close the bug with this resolution")
	fs.IntVar(&f.DupeOf, "dupe-of", f.DupeOf, "close as a duplicate of this bug id")
	fs.StringVar(&f.FixedIn, "fixed-in", f.FixedIn, "record the fixed-in version when closing")
	fs.StringVar(&f.AssignedTo, "assigned-to", f.AssignedTo, "reassign the bug")
	fs.StringSliceVar(&f.AddCC, "cc-add", f.AddCC, "addresses to add to the CC list")
	fs.StringSliceVar(&f.RemoveCC, "cc-remove", f.RemoveCC, "addresses to remove from the CC list")
	fs.IntSliceVar(&f.Blocked, "blocked", f.Blocked, "bug ids for the blocks edit")
	fs.IntSliceVar(&f.DependsOn, "depends-on", f.DependsOn, "bug ids for the depends_on edit")
	fs.StringVar(&f.DepsAction, "deps-action", f.DepsAction, "dependency edit action: add, delete or set")
	fs.StringVar(&f.Whiteboard, "whiteboard", f.Whiteboard, "whiteboard text to apply")
	fs.StringVar(&f.WhiteboardName, "which-whiteboard", f.WhiteboardName, "whiteboard variant: status, qa, devel, internal")
	fs.StringVar(&f.WhiteboardEdit, "whiteboard-action", f.WhiteboardEdit, "whiteboard edit action: overwrite, append or prepend")
	fs.StringVar(&f.Comment, "comment", f.Comment, "comment to attach to the change")
	fs.BoolVar(&f.PrivateComment, "private", f.PrivateComment, "mark the attached comment private")
}

// applyTo runs every edit the flags asked for against one bug. At least
// one edit must have been requested.
func (f *ModifyFlags) applyTo(client *bugzilla.Client, id int) error {
	edited := false

	switch {
	case f.Close != "":
		if _, err := client.CloseBug(id, f.Close, f.DupeOf, f.FixedIn, f.Comment, f.PrivateComment); err != nil {
			return err
		}
		edited = true
	case f.Status != "":
		if _, err := client.SetStatus(id, f.Status, f.Comment, f.PrivateComment); err != nil {
			return err
		}
		edited = true
	}

	if f.AssignedTo != "" {
		if _, err := client.SetAssignee(id, bugzilla.AssigneeFields{AssignedTo: f.AssignedTo}); err != nil {
			return err
		}
		edited = true
	}

	if len(f.AddCC) > 0 {
		if err := client.UpdateCC(id, f.AddCC, "add", f.Comment); err != nil {
			return err
		}
		edited = true
	}
	if len(f.RemoveCC) > 0 {
		if err := client.UpdateCC(id, f.RemoveCC, "delete", f.Comment); err != nil {
			return err
		}
		edited = true
	}

	if f.DepsAction != "" {
		if err := client.UpdateDeps(id, f.Blocked, f.DependsOn, f.DepsAction); err != nil {
			return err
		}
		edited = true
	}

	if f.Whiteboard != "" {
		if err := client.UpdateWhiteboard(id, f.Whiteboard, f.WhiteboardName, f.WhiteboardEdit, f.Comment, f.PrivateComment); err != nil {
			return err
		}
		edited = true
	}

	if !edited {
		if f.Comment == "" {
			return errors.New("nothing to do: no edit flags given")
		}
		if _, err := client.AddComment([]int{id}, f.Comment, f.PrivateComment); err != nil {
			return err
		}
	}
	return nil
}

func NewModifyCommand() *cobra.Command {
	f := NewModifyFlags()

	cmd := &cobra.Command{
		Use:   "modify BUGID...",
		Short: "Update fields on one or more bugs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return errors.Errorf("not a bug id: %q", arg)
				}
				ids = append(ids, id)
			}

			client, err := newClient(f.ConfigFlags, f.BugzillaFlags)
			if err != nil {
				return err
			}
			defer client.Close()

			for _, id := range ids {
				if err := f.applyTo(client, id); err != nil {
					return errors.WithMessagef(err, "modifying bug %d", id)
				}
				log.Infof("updated bug %d", id)
			}
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
