package main

import (
	"context"
	"fmt"
	"os"

	"docnav/internal/dispatcher"
	"docnav/internal/doctype"
	"docnav/internal/launcher"
	"docnav/internal/links"
	"docnav/internal/locator"
	"docnav/internal/reference"
	"docnav/internal/resolver"

	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify NAME...",
		Short: "Print the document kind of each file name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", doctype.Classify(name), name)
			}
			return nil
		},
	}
}

func variantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants REF",
		Short: "Print the normalized forms a reference is matched under",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range reference.Normalize(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func parseLocatorFlag(s string) (*locator.Locator, error) {
	if s == "" {
		return nil, nil
	}
	loc, ok := locator.Parse(s)
	if !ok {
		return nil, fmt.Errorf("%q is not a locator", s)
	}
	return &loc, nil
}

func resolveCmd() *cobra.Command {
	var originalURL string
	var total int
	var explicit string

	cmd := &cobra.Command{
		Use:   "resolve REF",
		Short: "Print the kind and locator a reference resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := parseLocatorFlag(explicit)
			if err != nil {
				return err
			}
			ref := reference.Parse(args[0])
			out := struct {
				Kind    doctype.Kind     `json:"kind"`
				Locator *locator.Locator `json:"locator"`
			}{Kind: doctype.Classify(ref.Path)}

			if resolved, ok := resolver.Resolve(resolver.Request{
				Reference:   ref,
				Explicit:    loc,
				OriginalURL: originalURL,
				Total:       total,
			}); ok {
				out.Locator = &resolved
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&originalURL, "original-url", "", "URL the reference was taken from")
	cmd.Flags().IntVar(&total, "total", 0, "Page or slide count to clamp to")
	cmd.Flags().StringVarP(&explicit, "locator", "l", "", "Explicit locator, e.g. page=3")

	return cmd
}

func openCmd() *cobra.Command {
	var explicit string
	var originalURL string
	var launch bool
	var platform string

	cmd := &cobra.Command{
		Use:   "open REF",
		Short: "Decide how to open a reference and optionally launch it",
		Long: `Print the dispatch decision for REF as JSON. With --launch, documents
that open externally are started with the configured application or the
system default. Pdf and image jumps are recorded in the state directory so
a viewer can pick them up with "jumps consume".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loc, err := parseLocatorFlag(explicit)
			if err != nil {
				return err
			}

			jumps, err := openJumps(cfg)
			if err != nil {
				return err
			}
			defer jumps.Close()

			cwd, _ := os.Getwd()
			opts := []dispatcher.Option{
				dispatcher.WithBaseDir(cwd),
				dispatcher.WithRecorder(doctype.PDF, jumps),
			}
			if platform != "" {
				opts = append(opts, dispatcher.WithPlatform(platform))
			}
			d := dispatcher.New(dispatcher.Apps{
				Word:       cfg.WordApp,
				Excel:      cfg.ExcelApp,
				PowerPoint: cfg.PowerPointApp,
				External:   cfg.ExternalApps,
			}, opts...)

			dec, err := d.Dispatch(args[0], loc, dispatcher.Options{OriginalURL: originalURL})
			if err != nil {
				return err
			}
			if dec.Notice != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), dec.Notice)
			}
			if launch && dec.Action == dispatcher.OpenExternally {
				if err := launcher.New().Launch(dec.Command, dec.Reference.Path); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), dec)
		},
	}

	cmd.Flags().StringVarP(&explicit, "locator", "l", "", "Explicit locator, e.g. slide=4")
	cmd.Flags().StringVar(&originalURL, "original-url", "", "URL the reference was taken from")
	cmd.Flags().BoolVar(&launch, "launch", false, "Start external applications")
	cmd.Flags().StringVar(&platform, "platform", "", "Command conventions to use (windows, darwin, linux)")

	return cmd
}

func linksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "links DIR",
		Short: "List document links in the markdown files under DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			entries, err := links.Report(context.Background(), args[0], cfg.LinkExtensions)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
}
