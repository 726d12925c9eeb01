package cli

import (
	"fmt"

	"resumeforge/internal/catalog"
	"resumeforge/internal/common"
	"resumeforge/internal/errors"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// pickRole asks the user to choose one of roles
var pickRole = func(roles []string) (string, error) {
	prompt := promptui.Select{
		Label: "Target role",
		Items: roles,
		Size:  len(roles),
	}
	_, role, err := prompt.Run()
	return role, err
}

func newSuggestCmd() *cobra.Command {
	var (
		cmdConfig common.CommandConfig
		list      bool
		industry  string
	)

	cmd := &cobra.Command{
		Use:   "suggest [role]",
		Short: "Show content suggestions for a role or keywords for an industry",
		Long: `Show summary lines, skills and achievement examples for a target role.
Use --industry for an industry's keyword list and --list for the known roles
and industries. Without arguments a role is picked interactively.`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareOutput(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := getLoggerFromContext(cmd.Context())
			if err != nil {
				return err
			}
			data, err := suggestion(args, list, industry)
			if err != nil {
				return err
			}
			return common.NewOutputHandlerWithWriter(logger, cmdConfig.Stdout).HandleOutput(data, cmdConfig)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return catalog.Roles(), cobra.ShellCompDirectiveNoFileComp
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List known roles and industries")
	cmd.Flags().StringVarP(&industry, "industry", "i", "", "Show keywords for an industry")
	cmd.MarkFlagsMutuallyExclusive("list", "industry")

	_ = cmd.RegisterFlagCompletionFunc("industry", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return catalog.Industries(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// suggestion resolves the catalog entry the flags and arguments ask for
func suggestion(args []string, list bool, industry string) (any, error) {
	switch {
	case list:
		return catalog.Index(), nil
	case industry != "":
		keywords, ok := catalog.Keywords(industry)
		if !ok {
			return nil, errors.NewNotFoundError(errors.ErrCodeUnknownIndustry,
				fmt.Sprintf("Unknown industry: %s", industry)).
				WithContext("supported", catalog.Industries())
		}
		return keywords, nil
	}

	var role string
	if len(args) == 1 {
		role = args[0]
	} else {
		picked, err := pickRole(catalog.Roles())
		if err != nil {
			return nil, fmt.Errorf("role selection failed: %w", err)
		}
		role = picked
	}

	suggestions, ok := catalog.Lookup(role)
	if !ok {
		return nil, errors.NewNotFoundError(errors.ErrCodeUnknownRole,
			fmt.Sprintf("Unknown role: %s", role)).
			WithContext("supported", catalog.Roles())
	}
	return suggestions, nil
}
