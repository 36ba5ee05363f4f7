package main

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/pipeline"
)

// errReported marks failures already written to stdout
var errReported = errors.New("parse failed")

// parseFailedOutput mirrors the HTTP 422 body
type parseFailedOutput struct {
	OK    bool                     `json:"ok"`
	Error *domain.ParseFailedError `json:"error"`
}

type classifyOutput struct {
	Vendor     domain.VendorInfo `json:"vendor"`
	Confidence float64           `json:"confidence"`
}

type docFlags struct {
	objectKey string
	accountID string
	mediaType string
	output    string
}

func (f *docFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.objectKey, "object-key", "", "correlation key (default: the file path)")
	cmd.Flags().StringVar(&f.accountID, "account-id", "", "owning account")
	cmd.Flags().StringVar(&f.mediaType, "media-type", "", "document media type (default: from the file extension)")
	cmd.Flags().StringVarP(&f.output, "output", "o", formatJSON, "output format: json or yaml")
}

// readDocument loads FILE, or stdin when FILE is "-".
func (f *docFlags) readDocument(cmd *cobra.Command, path string) (domain.RawDocument, error) {
	var (
		payload []byte
		err     error
	)
	if path == "-" {
		payload, err = io.ReadAll(cmd.InOrStdin())
	} else {
		payload, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("read %s: %w", path, err)
	}

	mediaType := f.mediaType
	if mediaType == "" {
		mediaType = mime.TypeByExtension(filepath.Ext(path))
	}
	if mediaType == "" {
		mediaType = "text/html"
	}
	objectKey := f.objectKey
	if objectKey == "" {
		objectKey = path
	}
	return domain.NewRawDocument(payload, mediaType, objectKey, f.accountID), nil
}

func newParseCmd(opts *rootOptions) *cobra.Command {
	flags := &docFlags{}
	cmd := &cobra.Command{
		Use:     "parse FILE",
		GroupID: "local",
		Short:   "Parse a credit report file and print the NormalizedReport",
		Long: `Parse runs the full pipeline on a local file ("-" reads stdin) and prints
the NormalizedReport. Documents that cannot be parsed print the structured
failure and exit non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := flags.readDocument(cmd, args[0])
			if err != nil {
				return err
			}

			p := pipeline.New(pipeline.Config{Policy: opts.cfg.Policy, Logger: opts.logger})
			report, err := p.Run(doc)
			if pf, ok := domain.AsParseFailed(err); ok {
				if werr := writeOutput(cmd.OutOrStdout(), flags.output, parseFailedOutput{Error: pf}); werr != nil {
					return werr
				}
				cmd.SilenceErrors = true
				return errReported
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), flags.output, report)
		},
	}
	flags.register(cmd)
	return cmd
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	flags := &docFlags{}
	cmd := &cobra.Command{
		Use:     "classify FILE",
		GroupID: "local",
		Short:   "Report which vendor profile a file matches",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := flags.readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			c := pipeline.New(pipeline.Config{Policy: opts.cfg.Policy, Logger: opts.logger}).Classify(doc)
			return writeOutput(cmd.OutOrStdout(), flags.output, classifyOutput{Vendor: c.Vendor, Confidence: c.Confidence})
		},
	}
	flags.register(cmd)
	return cmd
}

func newVendorsCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "vendors",
		GroupID: "local",
		Short:   "List registered vendor profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vendors := pipeline.New(pipeline.Config{Policy: opts.cfg.Policy, Logger: opts.logger}).Vendors()
			return writeOutput(cmd.OutOrStdout(), output, vendors)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "output format: json or yaml")
	return cmd
}
