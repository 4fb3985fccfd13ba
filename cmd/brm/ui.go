package main

import (
	"fmt"

	"boardroom/internal/game"

	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(format string, args ...any) {
	success.Printf(format+"\n", args...)
}

func printWarn(format string, args ...any) {
	warn.Printf(format+"\n", args...)
}

func printNeutral(format string, args ...any) {
	neutral.Printf(format+"\n", args...)
}

func printResult(res game.ActionResult) {
	if res.Success {
		printSuccess("%s", res.Message)
	} else {
		danger.Printf("%s\n", res.Message)
	}
	for _, toast := range res.Toasts {
		printNeutral("  %s", toast)
	}
}

func printGame(g *game.Game, selfID string) {
	accent.Printf("Round %d/%d  turn %d/%d\n", g.CurrentRound, g.MaxRounds, g.CurrentTurnInRound, g.TurnsPerRound)
	if g.IsComplete {
		printSuccess("Game complete.")
	} else {
		current := g.Players[g.CurrentPlayerIndex]
		marker := ""
		if current.ID == selfID {
			marker = "  <- you"
		}
		printNeutral("Current player: %s%s", current.Name, marker)
	}
	if g.LeadershipExclusion != nil && g.LeadershipExclusion.Phase == game.ExclusionPhaseActive {
		printWarn("Leadership exclusion in progress.")
	}

	fmt.Println()
	accent.Println("Stocks")
	for _, s := range g.Stocks {
		leader := ""
		if s.ChairmanID != "" {
			leader = "  chair:" + shortID(g, s.ChairmanID)
		}
		if s.DirectorID != "" {
			leader += "  dir:" + shortID(g, s.DirectorID)
		}
		printNeutral("  %-8s %10.2f  avail %6d/%d%s", s.Symbol, s.Price, s.AvailableQuantity, s.TotalQuantity, leader)
	}

	fmt.Println()
	accent.Println("Players")
	for _, p := range g.Players {
		printNeutral("  %-12s cash %12.2f  holdings %d", p.Name, p.Cash, len(p.Portfolio))
	}
}

func shortID(g *game.Game, playerID string) string {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p.Name
		}
	}
	if len(playerID) > 8 {
		return playerID[:8]
	}
	return playerID
}

func printHand(p *game.Player) {
	accent.Println("Events")
	if len(p.Events) == 0 {
		printNeutral("  (none)")
	}
	for _, ev := range p.Events {
		status := ""
		if ev.ExcludedBy != "" {
			status = "  EXCLUDED"
		}
		printNeutral("  %s  %-10s %-8s impact %+.2f  stocks %v%s", ev.ID, ev.Type, ev.Severity, ev.Impact, ev.AffectedStocks, status)
	}

	fmt.Println()
	accent.Println("Corporate actions")
	if len(p.CorporateActions) == 0 {
		printNeutral("  (none)")
	}
	for _, ca := range p.CorporateActions {
		detail := ""
		switch ca.Type {
		case game.ActionDividend:
			detail = fmt.Sprintf("%.0f%%", ca.Dividend.Percentage*100)
		case game.ActionBonusIssue:
			detail = fmt.Sprintf("%d per %d", ca.BonusIssue.Ratio, ca.BonusIssue.BaseShares)
		case game.ActionRightIssue:
			detail = fmt.Sprintf("%.0f%% off, %s", ca.RightsIssue.DiscountPercent, ca.RightsIssue.Status)
		}
		played := ""
		if ca.Played {
			played = fmt.Sprintf("  played on %s", ca.Symbol)
		}
		printNeutral("  %s  %-12s %s%s", ca.ID, ca.Type, detail, played)
	}
}

func printPortfolio(view game.PortfolioView) {
	accent.Printf("%s\n", view.Name)
	printNeutral("  cash      %12.2f", view.Cash)
	printNeutral("  holdings  %12.2f", view.HoldValue)
	printNeutral("  net worth %12.2f", view.NetWorth)
	fmt.Println()
	for _, h := range view.Holdings {
		line := neutral
		if h.ProfitLoss > 0 {
			line = success
		} else if h.ProfitLoss < 0 {
			line = danger
		}
		line.Printf("  %-8s %6d @ %8.2f  now %8.2f  P/L %+10.2f (%+.1f%%)\n",
			h.Symbol, h.Quantity, h.AverageCost, h.CurrentPrice, h.ProfitLoss, h.ProfitLossPct)
	}
}

func printExclusion(view game.ExclusionView) {
	accent.Printf("Exclusion phase: %s\n", view.Phase)
	printNeutral("  leaders:   %v", view.LeaderIDs)
	printNeutral("  completed: %v", view.Completed)
	if view.CurrentLeaderID != "" {
		printWarn("  current leader: %s", view.CurrentLeaderID)
	}
	if len(view.Excludable) > 0 {
		fmt.Println()
		accent.Println("Excludable events")
		for _, ev := range view.Excludable {
			printNeutral("  %s  %-10s impact %+.2f  stocks %v", ev.ID, ev.Type, ev.Impact, ev.AffectedStocks)
		}
	}
}
