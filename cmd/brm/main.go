package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "boardroom/internal/cli"
	"boardroom/internal/config"
	"boardroom/internal/game"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "brm",
		Short:        "Boardroom CLI game client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "API base URL")

	root.AddCommand(
		newNewCmd(&apiBase),
		newUseCmd(),
		newLeaveCmd(),
		newStateCmd(&apiBase),
		newHandCmd(&apiBase),
		newPortfolioCmd(&apiBase),
		newBuyCmd(&apiBase),
		newSellCmd(&apiBase),
		newPlayCmd(&apiBase),
		newRightsCmd(&apiBase),
		newSkipCmd(&apiBase),
		newEndCmd(&apiBase),
		newExclusionCmd(&apiBase),
		newExcludeCmd(&apiBase),
		newNextCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func cmdContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func requireSession() (cl.Session, error) {
	return cl.LoadSession()
}

func newNewCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "new <player> [player...]",
		Short: "Create a game and sit down as the first player",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			g, err := newClient(apiBase).CreateGame(ctx, args)
			if err != nil {
				return err
			}
			printSuccess("Game %s created.", g.ID)
			for _, p := range g.Players {
				printNeutral("  %-12s %s", p.Name, p.ID)
			}
			if err := cl.SaveSession(cl.Session{
				GameID:     g.ID,
				PlayerID:   g.Players[0].ID,
				PlayerName: g.Players[0].Name,
			}); err != nil {
				return err
			}
			printNeutral("Playing as %s. Others join with `brm use %s <player-id>`.", g.Players[0].Name, g.ID)
			return nil
		},
	}
}

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <game-id> <player-id>",
		Short: "Attach this terminal to a game seat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.SaveSession(cl.Session{GameID: args[0], PlayerID: args[1]}); err != nil {
				return err
			}
			printSuccess("Session saved.")
			return nil
		},
	}
}

func newLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Forget the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.ClearSession()
		},
	}
}

func newStateCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the game board",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			g, err := newClient(apiBase).GetGame(ctx, sess.GameID)
			if err != nil {
				return err
			}
			printGame(g, sess.PlayerID)
			return nil
		},
	}
}

func newHandCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "hand",
		Short: "Show your cards for this round",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			g, err := newClient(apiBase).GetGame(ctx, sess.GameID)
			if err != nil {
				return err
			}
			for _, p := range g.Players {
				if p.ID == sess.PlayerID {
					printHand(p)
					return nil
				}
			}
			return fmt.Errorf("player %s not in game", sess.PlayerID)
		},
	}
}

func newPortfolioCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Show cash, holdings and P/L",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			view, err := newClient(apiBase).Portfolio(ctx, sess.GameID, sess.PlayerID)
			if err != nil {
				return err
			}
			printPortfolio(view)
			return nil
		},
	}
}

func tradeCmd(apiBase *string, action game.ActionType, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			res, err := newClient(apiBase).Action(ctx, sess.GameID, sess.PlayerID, game.ActionRequest{
				Type:     action,
				Symbol:   strings.ToUpper(args[0]),
				Quantity: qty,
			})
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		},
	}
}

func newBuyCmd(apiBase *string) *cobra.Command {
	return tradeCmd(apiBase, game.ActionBuy, "buy <symbol> <quantity>", "Buy shares at the market price")
}

func newSellCmd(apiBase *string) *cobra.Command {
	return tradeCmd(apiBase, game.ActionSell, "sell <symbol> <quantity>", "Sell shares at the market price")
}

func newPlayCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play <card-id> <symbol>",
		Short: "Play a corporate-action card on a stock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			res, err := newClient(apiBase).Action(ctx, sess.GameID, sess.PlayerID, game.ActionRequest{
				Type:              game.ActionPlayCorporate,
				CorporateActionID: args[0],
				Symbol:            strings.ToUpper(args[1]),
			})
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		},
	}
}

func newRightsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rights <card-id> <quantity>",
		Short: "Exercise an active rights issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			res, err := newClient(apiBase).Action(ctx, sess.GameID, sess.PlayerID, game.ActionRequest{
				Type:              game.ActionExerciseRights,
				CorporateActionID: args[0],
				Quantity:          qty,
			})
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		},
	}
}

func newSkipCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "skip",
		Short: "Skip your action this turn",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			res, err := newClient(apiBase).Action(ctx, sess.GameID, sess.PlayerID, game.ActionRequest{Type: game.ActionSkip})
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		},
	}
}

func newEndCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End your turn",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).EndTurn(ctx, sess.GameID, sess.PlayerID)
			if err != nil {
				return err
			}
			switch {
			case out.GameOver:
				printSuccess("Game over!")
			case out.ExclusionStarted:
				printWarn("Round ended. Leadership exclusion phase started; see `brm exclusion`.")
			case out.RoundEnded:
				printSuccess("Round ended.")
			default:
				printNeutral("Turn ended.")
			}
			return nil
		},
	}
}

func newExclusionCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "exclusion",
		Short: "Show the leadership-exclusion phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			view, err := newClient(apiBase).ExclusionState(ctx, sess.GameID)
			if err != nil {
				return err
			}
			printExclusion(view)
			return nil
		},
	}
}

func newExcludeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "exclude <event-id>",
		Short: "Veto an event as the current leader",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			if err := newClient(apiBase).ExcludeEvent(ctx, sess.GameID, sess.PlayerID, args[0]); err != nil {
				return err
			}
			printSuccess("Event excluded.")
			return nil
		},
	}
}

func newNextCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Finish your leader turn in the exclusion phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).NextLeader(ctx, sess.GameID, sess.PlayerID)
			if err != nil {
				return err
			}
			if out.RoundEnded {
				printSuccess("Exclusion phase complete, round finalized.")
			} else {
				printNeutral("Next leader's turn.")
			}
			if out.GameOver {
				printSuccess("Game over!")
			}
			return nil
		},
	}
}
