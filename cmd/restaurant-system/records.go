package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"restaurant-admin/internal/client"
	"restaurant-admin/internal/domain"
)

type recordsOptions struct {
	*rootOptions
	apiURL string
}

func newRecordsCmd(root *rootOptions) *cobra.Command {
	opts := &recordsOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage resource records through the REST API",
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", "", "API base URL (overrides console.api_base_url)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <resource>",
			Short: "List every record of a resource",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, c, err := opts.open(args[0])
				if err != nil {
					return err
				}
				recs, err := c.List(cmd.Context(), s.Name)
				if err != nil {
					return err
				}
				return printTable(cmd.OutOrStdout(), s, recs)
			},
		},
		&cobra.Command{
			Use:   "get <resource> <id>",
			Short: "Show one record",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, c, err := opts.open(args[0])
				if err != nil {
					return err
				}
				rec, err := c.Get(cmd.Context(), s.Name, args[1])
				if err != nil {
					return err
				}
				return printRecord(cmd.OutOrStdout(), s, rec)
			},
		},
		&cobra.Command{
			Use:   "create <resource> field=value...",
			Short: "Create a record",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, c, err := opts.open(args[0])
				if err != nil {
					return err
				}
				body, err := parseAssignments(s, args[1:])
				if err != nil {
					return err
				}
				rec, err := c.Create(cmd.Context(), s.Name, body)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), green("created"), s.Singular, rec.ID(s.IDField))
				return nil
			},
		},
		&cobra.Command{
			Use:   "update <resource> <id> field=value...",
			Short: "Replace a record; fields left out are cleared",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, c, err := opts.open(args[0])
				if err != nil {
					return err
				}
				body, err := parseAssignments(s, args[2:])
				if err != nil {
					return err
				}
				if _, err := c.Update(cmd.Context(), s.Name, args[1], body); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), green("updated"), s.Singular, args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <resource> <id>",
			Short: "Delete a record",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, c, err := opts.open(args[0])
				if err != nil {
					return err
				}
				if err := c.Remove(cmd.Context(), s.Name, args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), green("deleted"), s.Singular, args[1])
				return nil
			},
		},
	)
	return cmd
}

func (o *recordsOptions) open(resource string) (domain.Schema, *client.Client, error) {
	s, ok := domain.LookupSchema(resource)
	if !ok {
		return domain.Schema{}, nil, fmt.Errorf("%w: %s", domain.ErrUnknownResource, resource)
	}
	base := o.apiURL
	if base == "" {
		cfg, err := o.load()
		if err != nil {
			return domain.Schema{}, nil, err
		}
		base = cfg.Console.APIBaseURL
	}
	c, err := client.New(base)
	return s, c, err
}

// parseAssignments turns name=value arguments into a request body using the
// same coercion as the console form.
func parseAssignments(s domain.Schema, args []string) (domain.Record, error) {
	body := make(domain.Record, len(args))
	for _, a := range args {
		name, raw, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("expected field=value, got %q", a)
		}
		f, ok := s.Field(name)
		if !ok {
			return nil, fmt.Errorf("%s has no field %q", s.Name, name)
		}
		body[f.Name] = f.Coerce(raw)
	}
	return body, nil
}

func columns(s domain.Schema) []domain.Field {
	out := make([]domain.Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Kind != domain.KindPassword {
			out = append(out, f)
		}
	}
	return out
}

func printTable(w io.Writer, s domain.Schema, recs []domain.Record) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "Nenhum registro encontrado.")
		return err
	}
	cols := columns(s)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	head := []string{strings.ToUpper(s.IDField)}
	for _, f := range cols {
		head = append(head, strings.ToUpper(f.Name))
	}
	fmt.Fprintln(tw, strings.Join(head, "\t"))
	for _, r := range recs {
		row := []string{r.ID(s.IDField)}
		for _, f := range cols {
			row = append(row, domain.FormatValue(r[f.Name]))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func printRecord(w io.Writer, s domain.Schema, rec domain.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s:\t%s\n", s.IDField, rec.ID(s.IDField))
	for _, f := range columns(s) {
		fmt.Fprintf(tw, "%s:\t%s\n", f.Label, domain.FormatValue(rec[f.Name]))
	}
	return tw.Flush()
}
