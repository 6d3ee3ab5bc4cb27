package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"Unpic"

	"github.com/spf13/cobra"
)

// unpic rewrites image CDN URLs from the command line.
//
// Usage:
//
//	unpic transform --width 300 --height 200 https://cdn.shopify.com/s/files/1/a.jpg
//	unpic parse https://res.cloudinary.com/demo/image/upload/w_300/sample.jpg
//	unpic canonical "/_next/image?url=https%3A%2F%2Fcdn.shopify.com%2Fa.jpg&w=640"
//	unpic html --width 800 --fallback ipx page.html
//	unpic serve --addr :8080
//
// Defaults are read from the IMAGE_CDN_* environment variables.
func main() {
	if os.Getenv("IMAGE_CDN_DEBUG") == "true" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	transformer, err := unpic.NewTransformer(unpic.ConfigFromEnv())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := newRootCommand(transformer).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(service unpic.Service) *cobra.Command {
	root := &cobra.Command{
		Use:          "unpic",
		Short:        "Rewrite image CDN URLs",
		SilenceUsage: true,
	}
	root.AddCommand(
		newTransformCommand(service),
		newParseCommand(service),
		newCanonicalCommand(service),
		newServeCommand(service),
	)
	if rewriter, ok := service.(htmlRewriter); ok {
		root.AddCommand(newHTMLCommand(rewriter))
	}
	return root
}

type transformFlags struct {
	cdn      string
	fallback string
	width    string
	height   string
	format   string
	quality  string
	params   []string
	options  []string
}

func newTransformCommand(service unpic.Service) *cobra.Command {
	var flags transformFlags
	command := &cobra.Command{
		Use:   "transform url",
		Short: "Rewrite an image URL with new operations",
		Long: `
Rewrites the image URL with the given operations. The CDN is detected
from the URL unless --cdn is given. --fallback names the CDN used for
URLs that are not recognized.

Prints nothing when no CDN applies.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			out, err := service.TransformURL(req)
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintln(command.OutOrStdout(), out)
			}
			return nil
		},
	}
	f := command.Flags()
	f.StringVar(&flags.cdn, "cdn", "", "CDN to use instead of detecting it")
	f.StringVar(&flags.fallback, "fallback", "", "CDN to use when none is detected")
	f.StringVarP(&flags.width, "width", "w", "", "Target width")
	f.StringVarP(&flags.height, "height", "H", "", "Target height")
	f.StringVarP(&flags.format, "format", "f", "", "Output format")
	f.StringVarP(&flags.quality, "quality", "q", "", "Output quality")
	f.StringArrayVarP(&flags.params, "param", "p", nil, "Extra operation as key=value (repeatable)")
	f.StringArrayVarP(&flags.options, "option", "o", nil, "Provider option as key=value (repeatable)")
	return command
}

func (f transformFlags) request(raw string) (unpic.Request, error) {
	req := unpic.Request{
		URL: raw,
		Operations: unpic.Operations{
			Width:   unpic.ParseValue(f.width),
			Height:  unpic.ParseValue(f.height),
			Format:  f.format,
			Quality: unpic.ParseValue(f.quality),
		},
	}

	var err error
	if req.CDN, err = cdnFlag("cdn", f.cdn); err != nil {
		return unpic.Request{}, err
	}
	if req.Fallback, err = cdnFlag("fallback", f.fallback); err != nil {
		return unpic.Request{}, err
	}

	for _, p := range f.params {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return unpic.Request{}, fmt.Errorf("invalid --param %q: expected key=value", p)
		}
		req.Operations.Set(key, unpic.ParseValue(value))
	}

	if len(f.options) > 0 {
		target := req.CDN
		if target == "" {
			target = req.Fallback
		}
		if target == "" {
			return unpic.Request{}, fmt.Errorf("--option needs --cdn or --fallback")
		}
		opts := unpic.Options{}
		for _, o := range f.options {
			key, value, ok := strings.Cut(o, "=")
			if !ok || key == "" {
				return unpic.Request{}, fmt.Errorf("invalid --option %q: expected key=value", o)
			}
			opts[key] = value
		}
		req.ProviderOptions = map[unpic.ImageCDN]unpic.Options{target: opts}
	}
	return req, nil
}

type htmlRewriter interface {
	RewriteHTML(r io.Reader, w io.Writer, req unpic.Request) (unpic.RewriteResult, error)
}

func newHTMLCommand(rewriter htmlRewriter) *cobra.Command {
	var flags transformFlags
	command := &cobra.Command{
		Use:   "html [file]",
		Short: "Rewrite the image URLs in an HTML document",
		Long: `
Rewrites the src and srcset of every image in the HTML document read
from file, or from standard input, and prints the document. Width and
density descriptors in srcset scale the requested size.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			req, err := flags.request("")
			if err != nil {
				return err
			}

			in := command.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			result, err := rewriter.RewriteHTML(in, command.OutOrStdout(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(command.ErrOrStderr(), "rewrote %d image URLs, skipped %d\n", result.Rewritten, result.Skipped)
			return nil
		},
	}
	f := command.Flags()
	f.StringVar(&flags.fallback, "fallback", "", "CDN to use for images on no known CDN")
	f.StringVarP(&flags.width, "width", "w", "", "Target width")
	f.StringVarP(&flags.height, "height", "H", "", "Target height")
	f.StringVarP(&flags.format, "format", "f", "", "Output format")
	f.StringVarP(&flags.quality, "quality", "q", "", "Output quality")
	f.StringArrayVarP(&flags.params, "param", "p", nil, "Extra operation as key=value (repeatable)")
	f.StringArrayVarP(&flags.options, "option", "o", nil, "Option for the fallback CDN as key=value (repeatable)")
	return command
}

func newParseCommand(service unpic.Service) *cobra.Command {
	var cdnName string
	command := &cobra.Command{
		Use:   "parse url",
		Short: "Print the source image and operations of a CDN URL as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			c, err := cdnFlag("cdn", cdnName)
			if err != nil {
				return err
			}
			parsed, ok := service.ParseURL(args[0], c)
			if !ok {
				return fmt.Errorf("%w: %s", unpic.ErrUnrecognizedURL, args[0])
			}

			operations := map[string]string{}
			for _, p := range parsed.Operations.Params() {
				operations[p.Key] = p.Value.String()
			}
			return writeJSON(command, map[string]any{
				"cdn":        parsed.CDN,
				"src":        parsed.Src,
				"operations": operations,
				"options":    parsed.Options,
			})
		},
	}
	command.Flags().StringVar(&cdnName, "cdn", "", "CDN to parse with instead of detecting it")
	return command
}

func newCanonicalCommand(service unpic.Service) *cobra.Command {
	var defaultName string
	command := &cobra.Command{
		Use:   "canonical url",
		Short: "Print the CDN and URL that actually serve an image as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			c, err := cdnFlag("default", defaultName)
			if err != nil {
				return err
			}
			d, ok := service.CanonicalCDNForURL(args[0], c)
			if !ok {
				return fmt.Errorf("%w: %s", unpic.ErrUnrecognizedURL, args[0])
			}
			return writeJSON(command, map[string]any{
				"cdn": d.CDN,
				"url": d.URL,
			})
		},
	}
	command.Flags().StringVar(&defaultName, "default", "", "CDN to assume when none is detected")
	return command
}

func cdnFlag(name, value string) (unpic.ImageCDN, error) {
	if value == "" {
		return "", nil
	}
	c, ok := unpic.ParseCDN(value)
	if !ok {
		return "", fmt.Errorf("invalid --%s %q: unsupported CDN", name, value)
	}
	return c, nil
}

func writeJSON(command *cobra.Command, v any) error {
	enc := json.NewEncoder(command.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
