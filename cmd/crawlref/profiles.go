package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jongio/crawlref/cliout"
	"github.com/jongio/crawlref/config"
)

func newProfilesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List or create extraction profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := config.Load(a.configDir)
			if err != nil {
				return err
			}
			list := make([]config.Profile, 0, len(profiles.Profiles))
			for _, name := range profiles.Names() {
				p, err := profiles.Get(name)
				if err != nil {
					return err
				}
				list = append(list, p)
			}
			return cliout.Print(list, func() {
				rows := make([]cliout.TableRow, 0, len(list))
				for _, p := range list {
					name := p.Name
					if name == a.profile.Name {
						name += " *"
					}
					rows = append(rows, cliout.TableRow{
						"Name":     name,
						"Encoding": p.Encoding,
						"Relative": strconv.FormatBool(p.Relative),
						"Emails":   strconv.FormatBool(p.Emails),
						"Workers":  strconv.Itoa(p.Workers),
						"Cache":    p.CacheDir,
					})
				}
				cliout.Table([]string{"Name", "Encoding", "Relative", "Emails", "Workers", "Cache"}, rows)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the built-in profiles to .crawlref/profiles.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveSample(a.configDir); err != nil {
				return err
			}
			cliout.Success("Wrote %s", config.Path(a.configDir))
			return nil
		},
	})
	return cmd
}
