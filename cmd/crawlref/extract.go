package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jongio/crawlref/batch"
	"github.com/jongio/crawlref/cache"
	"github.com/jongio/crawlref/cliout"
	"github.com/jongio/crawlref/config"
	"github.com/jongio/crawlref/refextract"
	"github.com/jongio/crawlref/version"
)

const stdinID = "-"

type extractFlags struct {
	base        string
	encoding    string
	swf         bool
	relative    bool
	emails      bool
	emailDomain string
	workers     int
	rateLimit   int
	noCache     bool
}

type documentOutput struct {
	ID         string                 `json:"id"`
	Error      string                 `json:"error,omitempty"`
	Cached     bool                   `json:"cached,omitempty"`
	References *refextract.References `json:"references,omitempty"`
}

type extractOutput struct {
	Profile   string           `json:"profile"`
	Documents []documentOutput `json:"documents"`
	Unique    []string         `json:"unique"`
}

func newExtractCommand(a *app) *cobra.Command {
	f := &extractFlags{}
	cmd := &cobra.Command{
		Use:   "extract [files...]",
		Short: "Extract URLs and email addresses from documents",
		Long: `Extract runs the regex reference passes over each file, or over stdin when
no files are given, and prints the normalized URLs and email addresses found.
Several files are extracted in parallel. Without --base only absolute URLs
and email addresses are collected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := a.profile
			applyExtractFlags(cmd.Flags(), f, &profile)
			return runExtract(cmd, profile, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.base, "base", "", "URL the documents were fetched from; enables relative paths")
	flags.StringVar(&f.encoding, "encoding", "", "Document charset (default from profile)")
	flags.BoolVar(&f.swf, "swf", false, "Treat documents as Flash movies")
	flags.BoolVar(&f.relative, "relative", true, "Match relative paths")
	flags.BoolVar(&f.emails, "emails", true, "Collect email addresses")
	flags.StringVar(&f.emailDomain, "email-domain", "", "Keep only addresses at this domain")
	flags.IntVar(&f.workers, "workers", 0, "Documents extracted in parallel (default from profile)")
	flags.IntVar(&f.rateLimit, "rate-limit", 0, "Documents started per second (default from profile)")
	flags.BoolVar(&f.noCache, "no-cache", false, "Ignore the profile's result cache")
	return cmd
}

// applyExtractFlags copies explicitly set flags over the profile.
func applyExtractFlags(flags *pflag.FlagSet, f *extractFlags, p *config.Profile) {
	flags.Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "encoding":
			p.Encoding = f.encoding
		case "relative":
			p.Relative = f.relative
		case "emails":
			p.Emails = f.emails
		case "email-domain":
			p.EmailDomain = f.emailDomain
		case "workers":
			p.Workers = f.workers
		case "rate-limit":
			p.RateLimit = f.rateLimit
		case "no-cache":
			if f.noCache {
				p.CacheDir = ""
			}
		}
	})
}

func runExtract(cmd *cobra.Command, p config.Profile, f *extractFlags, files []string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	docs, err := readDocuments(cmd.InOrStdin(), files, f)
	if err != nil {
		return err
	}

	opts := batch.Options{
		Workers:   p.Workers,
		Encoding:  p.Encoding,
		Extractor: refextract.New(p.ExtractorOptions()...),
		RateLimit: p.RateLimit,
	}
	if cacheOpts, ok := p.CacheOptions(version.Version); ok {
		opts.Cache = cache.NewManager(cacheOpts)
	}

	results, runErr := batch.NewRunner(opts).Run(cmd.Context(), docs)

	out := extractOutput{Profile: p.Name, Documents: make([]documentOutput, len(results))}
	seen := batch.NewSeen()
	failed := 0
	for i, res := range results {
		doc := documentOutput{ID: res.ID, Cached: res.Cached, References: res.References}
		if res.Err != nil {
			doc.Error = res.Err.Error()
			failed++
		}
		if res.References != nil {
			res.References.Emails = res.References.EmailsFor(p.EmailDomain)
			seen.Filter(res.References.URLs().URLs())
		}
		out.Documents[i] = doc
	}
	out.Unique = make([]string, 0, seen.Len())
	for _, u := range seen.URLs() {
		out.Unique = append(out.Unique, u.String())
	}

	if err := cliout.Print(out, func() { printExtract(out, len(files) > 1) }); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func readDocuments(stdin io.Reader, files []string, f *extractFlags) ([]batch.Document, error) {
	newDoc := func(id string, body []byte) batch.Document {
		return batch.Document{ID: id, Base: f.base, Body: body, SWF: f.swf}
	}

	if len(files) == 0 {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []batch.Document{newDoc(stdinID, body)}, nil
	}

	docs := make([]batch.Document, 0, len(files))
	for _, path := range files {
		// #nosec G304 -- paths are supplied by the user on the command line
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		docs = append(docs, newDoc(path, body))
	}
	return docs, nil
}

func printExtract(out extractOutput, multi bool) {
	for _, doc := range out.Documents {
		if multi {
			cliout.Header(doc.ID)
		}
		if doc.Error != "" {
			cliout.Error("%s", doc.Error)
			continue
		}
		refs := doc.References
		printURLs("Structural", refs.Structural.Strings())
		printURLs("Regex", refs.Regex.Strings())
		if len(refs.Emails) > 0 {
			cliout.Section("Emails", len(refs.Emails))
			for _, e := range refs.Emails {
				cliout.Bullet("%s", e)
			}
		}
		if doc.Cached {
			cliout.Hint("from cache")
		}
	}
	if multi {
		cliout.Newline()
		cliout.Success("%d unique references across %d documents", len(out.Unique), len(out.Documents))
	}
}

func printURLs(title string, urls []string) {
	if len(urls) == 0 {
		return
	}
	cliout.Section(title, len(urls))
	for _, u := range urls {
		cliout.Bullet("%s", cliout.URL(u))
	}
}
