package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tgienger/crm/internal/models"
	"github.com/tgienger/crm/internal/report"
)

// NewCustomersCommand creates the customers command group.
func NewCustomersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer", "c"},
		Short:   "Manage customers",
	}

	cmd.AddCommand(newCustomersListCommand(rootOpts))
	cmd.AddCommand(newCustomersAddCommand(rootOpts))
	cmd.AddCommand(newCustomersUpdateCommand(rootOpts))
	cmd.AddCommand(newCustomersDeleteCommand(rootOpts))
	return cmd
}

func newCustomersListCommand(rootOpts *RootOptions) *cobra.Command {
	var query, status, tag string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List customers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := report.CustomerFilter{Query: query, Tag: tag}
			if status != "" {
				st, err := parseCustomerStatus(status)
				if err != nil {
					return usageError(err)
				}
				filter.Status = st
			}

			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			customers := report.FilterCustomers(e.store.Customers().List(), filter)
			return newFormatter(rootOpts, cmd).Success(customers, func(w io.Writer) error {
				return writeCustomers(w, customers)
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "search name, email and company")
	cmd.Flags().StringVar(&status, "status", "", "only customers with this status")
	cmd.Flags().StringVar(&tag, "tag", "", "only customers with this tag")
	return cmd
}

type customerFlags struct {
	name, email, phone, company, tags, status, notes, avatar string
}

func (f *customerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "full name")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&f.company, "company", "", "company name")
	cmd.Flags().StringVar(&f.tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVar(&f.status, "status", "", "lead, active or inactive")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&f.avatar, "avatar", "", "avatar URL")
}

func newCustomersAddCommand(rootOpts *RootOptions) *cobra.Command {
	var f customerFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := models.CustomerDraft{
				Name:    f.name,
				Email:   f.email,
				Phone:   f.phone,
				Company: f.company,
				Tags:    parseTags(f.tags),
				Notes:   f.notes,
				Avatar:  f.avatar,
			}
			if f.status != "" {
				st, err := parseCustomerStatus(f.status)
				if err != nil {
					return usageError(err)
				}
				draft.Status = st
			}
			if err := draft.Validate(); err != nil {
				return usageError(err)
			}

			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			c, err := e.store.Customers().Add(draft)
			if err != nil {
				return WrapExitError(ExitFailure, "add customer", err)
			}
			return newFormatter(rootOpts, cmd).Success(c, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added customer %s (%s)\n", c.Name, c.ID)
				return err
			})
		},
	}

	f.register(cmd)
	return cmd
}

func newCustomersUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var f customerFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a customer; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := f.patch(cmd)
			if err != nil {
				return usageError(err)
			}

			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			c, ok, err := e.store.Customers().Update(args[0], patch)
			if err != nil {
				return WrapExitError(ExitFailure, "update customer", err)
			}
			if !ok {
				return notFound("customer", args[0])
			}
			return newFormatter(rootOpts, cmd).Success(c, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated customer %s (%s)\n", c.Name, c.ID)
				return err
			})
		},
	}

	f.register(cmd)
	return cmd
}

// patch builds a patch from the flags the user actually set.
func (f *customerFlags) patch(cmd *cobra.Command) (models.CustomerPatch, error) {
	var p models.CustomerPatch
	changed := cmd.Flags().Changed

	if changed("name") {
		p.Name = &f.name
	}
	if changed("email") {
		p.Email = &f.email
	}
	if changed("phone") {
		p.Phone = &f.phone
	}
	if changed("company") {
		p.Company = &f.company
	}
	if changed("tags") {
		tags := parseTags(f.tags)
		p.Tags = &tags
	}
	if changed("status") {
		st, err := parseCustomerStatus(f.status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	if changed("notes") {
		p.Notes = &f.notes
	}
	if changed("avatar") {
		p.Avatar = &f.avatar
	}
	return p, p.Validate()
}

// CustomerDeleteResult reports a deleted customer and how many of its
// tasks went with it.
type CustomerDeleteResult struct {
	Deleted string `json:"deleted"`
	Tasks   int    `json:"tasks"`
}

func newCustomersDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a customer and all of its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			tasks := len(e.store.Tasks().ListByCustomer(args[0]))
			ok, err := e.store.Customers().Delete(args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "delete customer", err)
			}
			if !ok {
				return notFound("customer", args[0])
			}
			result := CustomerDeleteResult{Deleted: args[0], Tasks: tasks}
			return newFormatter(rootOpts, cmd).Success(result, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted customer %s and %d task(s)\n", args[0], tasks)
				return err
			})
		},
	}
	return cmd
}

func writeCustomers(w io.Writer, customers []models.Customer) error {
	if len(customers) == 0 {
		_, err := fmt.Fprintln(w, "No customers found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tEMAIL\tSTATUS\tTAGS")
	for _, c := range customers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, c.Company, c.Email, c.Status, strings.Join(c.Tags, ", "))
	}
	return tw.Flush()
}
