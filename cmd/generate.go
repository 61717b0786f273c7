package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"vibecap/internal/model/caption"
	"vibecap/internal/session"
)

var generateFlags struct {
	captionFlags
	file string
	url  string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a caption for an image",
	Long: `Generate a caption from a local image (--file) or an image url (--url).
The caption is printed to stdout; the base_caption needed by "refresh"
is printed to stderr (or included in --json output).`,
	Example: `  vibecap generate --file beach.jpg --vibe romantic -d "sunset with my love"
  vibecap generate --url https://example.com/cat.png --vibe happy --copy`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateFlags.register(generateCmd)
	flags := generateCmd.Flags()
	flags.StringVarP(&generateFlags.file, "file", "f", "", "local image file")
	flags.StringVarP(&generateFlags.url, "url", "u", "", "image url")
	generateCmd.MarkFlagsMutuallyExclusive("file", "url")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := commandContext(cmd)
	defer stop()

	if generateFlags.file == "" && generateFlags.url == "" {
		return errors.New("one of --file or --url is required")
	}

	events, err := generateFlags.inputs()
	if err != nil {
		return err
	}

	if generateFlags.file != "" {
		file, err := readImageFile(generateFlags.file, GetConfig().Caption.MaxUploadBytes)
		if err != nil {
			return err
		}
		events = append(events,
			session.SelectUploadMethod{Method: caption.UploadMethodFile},
			session.SelectFile{File: file},
		)
	} else {
		events = append(events,
			session.SelectUploadMethod{Method: caption.UploadMethodURL},
			session.SetImageURL{URL: generateFlags.url},
		)
	}

	local, err := newLocalSession(ctx, GetConfig())
	if err != nil {
		return err
	}
	defer local.Close()

	if err := local.apply(ctx, events...); err != nil {
		return err
	}

	st, err := local.svc.Generate(ctx, local.id)
	if err != nil {
		return err
	}
	return local.finish(ctx, st, &generateFlags.captionFlags, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
