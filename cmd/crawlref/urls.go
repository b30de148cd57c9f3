package main

import (
	"github.com/spf13/cobra"

	"github.com/jongio/crawlref/cliout"
	"github.com/jongio/crawlref/domainutil"
	"github.com/jongio/crawlref/urlutil"
)

type urlPair struct {
	Input string `json:"input"`
	URL   string `json:"url"`
}

func newNormalizeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize URL...",
		Short: "Print URLs with default ports and leading ../ segments removed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]urlPair, 0, len(args))
			for _, arg := range args {
				u, err := urlutil.Parse(arg, a.profile.Encoding)
				if err != nil {
					return err
				}
				out = append(out, urlPair{Input: arg, URL: u.Normalize().String()})
			}
			return cliout.Print(out, func() {
				for _, p := range out {
					cliout.Plain("%s", p.URL)
				}
			})
		},
	}
}

func newJoinCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "join BASE REF",
		Short: "Resolve REF against BASE the way a browser follows a link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := urlutil.ParseBase(args[0], a.profile.Encoding)
			if err != nil {
				return err
			}
			joined, err := base.Join(args[1])
			if err != nil {
				return err
			}
			out := urlPair{Input: args[1], URL: joined.String()}
			return cliout.Print(out, func() { cliout.Plain("%s", out.URL) })
		},
	}
}

type domainInfo struct {
	Input           string `json:"input"`
	Domain          string `json:"domain"`
	RootDomain      string `json:"rootDomain"`
	EffectiveDomain string `json:"effectiveDomain"`
}

func newRootDomainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rootdomain URL...",
		Short: "Print the registrable root domain of each URL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]domainInfo, 0, len(args))
			for _, arg := range args {
				u, err := urlutil.Parse(arg, "")
				if err != nil {
					return err
				}
				out = append(out, domainInfo{
					Input:           arg,
					Domain:          u.Domain(),
					RootDomain:      u.RootDomain(),
					EffectiveDomain: domainutil.EffectiveDomain(u.Domain()),
				})
			}
			return cliout.Print(out, func() {
				rows := make([]cliout.TableRow, 0, len(out))
				for _, d := range out {
					rows = append(rows, cliout.TableRow{
						"Domain":    d.Domain,
						"Root":      d.RootDomain,
						"Effective": d.EffectiveDomain,
					})
				}
				cliout.Table([]string{"Domain", "Root", "Effective"}, rows)
			})
		},
	}
}

func newDirectoriesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "directories URL",
		Short: "Print the directory of URL and each of its parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := urlutil.Parse(args[0], a.profile.Encoding)
			if err != nil {
				return err
			}
			dirs := u.Directories()
			out := make([]string, len(dirs))
			for i, d := range dirs {
				out[i] = d.String()
			}
			return cliout.Print(out, func() {
				for _, d := range out {
					cliout.Plain("%s", d)
				}
			})
		},
	}
}
