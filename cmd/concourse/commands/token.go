package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/concourse-client/internal/auth"
	"github.com/fivetwenty-io/concourse-client/internal/constants"
)

// TokenInfo describes the session of a target.
type TokenInfo struct {
	Target        string    `json:"target"         yaml:"target"`
	TokenType     string    `json:"token_type"     yaml:"token_type"`
	ExpiresAt     time.Time `json:"expires_at"     yaml:"expires_at"`
	ExpiresIn     string    `json:"expires_in"     yaml:"expires_in"`
	ServerVersion string    `json:"server_version" yaml:"server_version"`
	Flow          string    `json:"flow"           yaml:"flow"`
	CSRF          bool      `json:"csrf"           yaml:"csrf"`
	Refreshable   bool      `json:"refreshable"    yaml:"refreshable"`
}

func newTokenInfo(target string, state *auth.State, refreshable bool, now time.Time) (*TokenInfo, error) {
	flow, err := auth.SelectFlow(state.ServerVersion)
	if err != nil {
		return nil, err
	}

	csrf, err := auth.UsesCSRF(state.ServerVersion)
	if err != nil {
		return nil, err
	}

	token := state.Token()

	return &TokenInfo{
		Target:        target,
		TokenType:     token.Type(),
		ExpiresAt:     token.Expiry.UTC(),
		ExpiresIn:     token.Expiry.Sub(now).Truncate(time.Second).String(),
		ServerVersion: state.ServerVersion,
		Flow:          flow.String(),
		CSRF:          csrf,
		Refreshable:   refreshable,
	}, nil
}

// NewTokenCommand creates the token command.
func NewTokenCommand() *cobra.Command {
	var (
		refresh   bool
		valueOnly bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Show the session token of a target",
		Long: `Show the token type, expiry, server version and whether an X-Csrf-Token
header is sent. An expiring session is refreshed first when the password was saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			if s.manager == nil {
				return constants.ErrNoSession
			}

			if refresh {
				err = s.manager.RefreshToken(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to refresh token: %w", err)
				}
			}

			state, err := s.state(cmd.Context())
			if err != nil {
				return err
			}

			if valueOnly {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), state.AccessToken)

				return nil
			}

			info, err := newTokenInfo(s.name, state, s.target.Password != "", time.Now())
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), outputFormat(), info, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("Target", info.Target)
				_ = table.Append("Token Type", info.TokenType)
				_ = table.Append("Expires At", info.ExpiresAt.Format(time.RFC3339))
				_ = table.Append("Expires In", info.ExpiresIn)
				_ = table.Append("Server Version", info.ServerVersion)
				_ = table.Append("Flow", info.Flow)
				_ = table.Append("CSRF Header", strconv.FormatBool(info.CSRF))
				_ = table.Append("Auto Refresh", strconv.FormatBool(info.Refreshable))
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "force a new token (requires a saved password)")
	cmd.Flags().BoolVar(&valueOnly, "value", false, "print only the access token")

	return cmd
}
