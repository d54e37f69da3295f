package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRulesCmd creates the rules command, which validates the
// configuration and lists the configured series rules in match order.
func NewRulesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List and validate the configured series rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := setup(opts, nil, false)
			if err != nil {
				return err
			}

			if len(cfg.Series) == 0 {
				fmt.Println("No series configured.")
				return nil
			}

			fmt.Printf("%d series rule(s), in match order:\n", len(cfg.Series))
			for i, rule := range cfg.Series {
				fmt.Printf("%3d. %s\n", i+1, rule.Name)
				fmt.Printf("     pattern:     %s\n", rule.Regex)
				if rule.Replace != "" {
					fmt.Printf("     replace:     %s\n", rule.Replace)
				}
				if rule.Destination != "" {
					fmt.Printf("     destination: %s\n", rule.Destination)
				}
			}
			fmt.Println("Configuration is valid.")
			return nil
		},
	}
}
