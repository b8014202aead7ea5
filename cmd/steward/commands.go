package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xraph/steward"
	"github.com/xraph/steward/assignment"
)

var errTenantFlag = errors.New("--tenant is required")

// scoped pins the tenant and a fresh request memo for one command.
func (c *cli) scoped(ctx context.Context) (context.Context, error) {
	if c.tenant == "" {
		return nil, errTenantFlag
	}
	return steward.WithRequestMemo(steward.WithTenant(ctx, c.tenant)), nil
}

// emit writes v as indented JSON, or calls text for the human form.
func (c *cli) emit(w io.Writer, v any, text func(io.Writer)) error {
	if c.output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func (c *cli) userFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.user, "user", "u", "", "user to evaluate")
	_ = cmd.MarkFlagRequired("user")
}

func (c *cli) classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show a user's role classification and effective permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := c.scoped(cmd.Context())
			if err != nil {
				return err
			}
			eng := c.rt.engine
			cls, err := eng.Classify(ctx, c.user)
			if err != nil {
				return err
			}
			doc, err := eng.EffectivePermissions(ctx, c.user)
			if err != nil {
				return err
			}
			out := map[string]any{"user_id": c.user, "classification": cls, "permissions": doc}
			return c.emit(cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintf(w, "user:  %s\nkind:  %s\nrole:  %s\n", c.user, cls.Kind, cls.Name)
				b, _ := json.Marshal(doc)
				fmt.Fprintf(w, "perms: %s\n", b)
			})
		},
	}
	c.userFlag(cmd)
	return cmd
}

func (c *cli) scopeCmd() *cobra.Command {
	var resource string
	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Show a user's view scope over a resource type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := c.scoped(cmd.Context())
			if err != nil {
				return err
			}
			s, err := c.rt.engine.Scope(ctx, c.user, resource)
			if err != nil {
				return err
			}
			out := map[string]any{"user_id": c.user, "resource_type": resource, "scope": s}
			return c.emit(cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintln(w, s)
			})
		},
	}
	c.userFlag(cmd)
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "resource type")
	_ = cmd.MarkFlagRequired("resource")
	return cmd
}

func (c *cli) filterCmd() *cobra.Command {
	var (
		resources []string
		column    string
		dollar    bool
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Build visibility filters and their SQL predicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := c.scoped(cmd.Context())
			if err != nil {
				return err
			}
			filters, err := c.rt.engine.BuildFilters(ctx, c.user, resources...)
			if err != nil {
				return err
			}
			ph := steward.Question
			if dollar {
				ph = steward.Dollar
			}

			type row struct {
				Filter steward.Filter `json:"filter"`
				SQL    string         `json:"sql"`
				Args   []any          `json:"args,omitempty"`
			}
			out := make(map[string]row, len(filters))
			for _, rt := range resources {
				f := filters[rt]
				clause, args := f.SQL(column, ph, 1)
				out[rt] = row{Filter: f, SQL: clause, Args: args}
			}
			return c.emit(cmd.OutOrStdout(), out, func(w io.Writer) {
				for _, rt := range resources {
					r := out[rt]
					clause := r.SQL
					if clause == "" {
						clause = "(no predicate)"
					}
					fmt.Fprintf(w, "%-14s %-28s %s %v\n", rt, r.Filter, clause, r.Args)
				}
			})
		},
	}
	c.userFlag(cmd)
	cmd.Flags().StringSliceVarP(&resources, "resource", "r", nil, "resource types (repeatable or comma separated)")
	cmd.Flags().StringVar(&column, "column", "created_by_user", "owner column used in the SQL predicate")
	cmd.Flags().BoolVar(&dollar, "dollar", false, "render $n placeholders")
	_ = cmd.MarkFlagRequired("resource")
	return cmd
}

func (c *cli) canCmd() *cobra.Command {
	var resource, action string
	cmd := &cobra.Command{
		Use:   "can",
		Short: "Check whether a user may perform an action on a resource type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := c.scoped(cmd.Context())
			if err != nil {
				return err
			}
			g, err := c.rt.engine.CanPerform(ctx, c.user, resource, action)
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), g, func(w io.Writer) {
				if g.Scoped {
					fmt.Fprintf(w, "allowed=%t scope=%s\n", g.Allowed, g.Scope)
					return
				}
				fmt.Fprintf(w, "allowed=%t\n", g.Allowed)
			})
		},
	}
	c.userFlag(cmd)
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "resource type")
	cmd.Flags().StringVarP(&action, "action", "a", "", "action key")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func (c *cli) accessCmd() *cobra.Command {
	var resource, recordID, owner, level string
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Check whether a user can reach one record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := c.scoped(cmd.Context())
			if err != nil {
				return err
			}
			lvl := assignment.AccessLevel(strings.ToLower(level))
			if lvl.Rank() == 0 {
				return fmt.Errorf("--level must be read, write or full, got %q", level)
			}
			ok, err := c.rt.engine.CanAccessResource(ctx, c.user,
				steward.Resource{Type: resource, ID: recordID, OwnerID: owner}, lvl)
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), map[string]bool{"allowed": ok}, func(w io.Writer) {
				fmt.Fprintf(w, "allowed=%t\n", ok)
			})
		},
	}
	c.userFlag(cmd)
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "resource type")
	cmd.Flags().StringVar(&recordID, "id", "", "record id")
	cmd.Flags().StringVar(&owner, "owner", "", "record owner")
	cmd.Flags().StringVar(&level, "level", string(assignment.AccessRead), "required level: read|write|full")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func (c *cli) teamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "List a supervisor's team, the supervisor included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := c.scoped(cmd.Context())
			if err != nil {
				return err
			}
			members, err := c.rt.engine.ResolveTeam(ctx, c.user)
			if err != nil {
				return err
			}
			out := map[string]any{"supervisor_id": c.user, "members": members}
			return c.emit(cmd.OutOrStdout(), out, func(w io.Writer) {
				for _, m := range members {
					fmt.Fprintln(w, m)
				}
			})
		},
	}
	c.userFlag(cmd)
	return cmd
}

func (c *cli) explainCmd() *cobra.Command {
	var resource string
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain how a user's scope over a resource type was decided",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := c.scoped(cmd.Context())
			if err != nil {
				return err
			}
			ex, err := c.rt.engine.Explain(ctx, c.user, resource)
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), ex, func(w io.Writer) { printExplanation(w, ex) })
		},
	}
	c.userFlag(cmd)
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "resource type")
	_ = cmd.MarkFlagRequired("resource")
	return cmd
}

func printExplanation(w io.Writer, ex *steward.Explanation) {
	fmt.Fprintf(w, "tenant:         %s\n", ex.TenantID)
	fmt.Fprintf(w, "user:           %s (%s)\n", ex.UserID, ex.Principal)
	fmt.Fprintf(w, "role:           %q active=%t\n", ex.RoleName, ex.RoleActive)
	fmt.Fprintf(w, "classification: %s\n", ex.Classification.Kind)
	for _, nm := range ex.NearMisses {
		fmt.Fprintf(w, "  near miss:    %+v\n", nm)
	}
	if ex.BaselineError != "" {
		fmt.Fprintf(w, "baseline:       unusable (%s)\n", ex.BaselineError)
	}
	if ex.OverrideError != "" {
		fmt.Fprintf(w, "override:       unusable (%s)\n", ex.OverrideError)
	}
	fmt.Fprintf(w, "resource:       %s\n", ex.ResourceType)
	fmt.Fprintf(w, "scope:          %s (%s)\n", ex.Scope, ex.Reason)
	fmt.Fprintf(w, "filter:         %s\n", ex.Filter)
	for _, n := range ex.Notes {
		fmt.Fprintf(w, "note:           %s\n", n)
	}
}
