package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vibecap/internal/model/caption"
	"vibecap/internal/session"
)

var refreshFlags struct {
	captionFlags
	token string
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Get a new caption for a previously generated one",
	Long: `Ask the caption service for another caption based on the base_caption
returned by "generate". The vibe and description may change between refreshes.`,
	Example: `  vibecap refresh --token "$BASE_CAPTION" --vibe adventurous`,
	Args:    cobra.NoArgs,
	RunE:    runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshFlags.register(refreshCmd)
	refreshCmd.Flags().StringVarP(&refreshFlags.token, "token", "t", "", "base_caption printed by generate (env: VIBECAP_BASE_CAPTION)")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx, stop := commandContext(cmd)
	defer stop()

	token := refreshFlags.token
	if token == "" {
		token = viper.GetString("base_caption")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("--token is required, run generate first")
	}

	events, err := refreshFlags.inputs()
	if err != nil {
		return err
	}
	events = append(events, session.ResumeToken{Token: caption.NewSessionToken(token)})

	local, err := newLocalSession(ctx, GetConfig())
	if err != nil {
		return err
	}
	defer local.Close()

	if err := local.apply(ctx, events...); err != nil {
		return err
	}

	st, err := local.svc.Refresh(ctx, local.id)
	if err != nil {
		return err
	}
	return local.finish(ctx, st, &refreshFlags.captionFlags, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
