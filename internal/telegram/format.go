package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yourusername/betpulse/internal/models"
)

const disclaimer = "<i>Not financial advice. Bet responsibly.</i>"

var sportTitles = map[string]string{
	models.SportCS2: "CS2",
	models.SportKHL: "KHL",
}

// SportTitle returns the display name for a sport code.
func SportTitle(sport string) string {
	if title, ok := sportTitles[sport]; ok {
		return title
	}
	return strings.ToUpper(sport)
}

// FormatSignalMessage renders a signal as an HTML Bot API message.
func FormatSignalMessage(match *models.Match, sig *models.Signal, withDisclaimer bool) string {
	team := match.Team1
	if sig.Outcome == models.OutcomeTeam2 {
		team = match.Team2
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s signal</b>\n\n", SportTitle(sig.Sport))
	fmt.Fprintf(&b, "%s vs %s\n", html.EscapeString(match.Team1), html.EscapeString(match.Team2))
	if match.Tournament != "" {
		fmt.Fprintf(&b, "%s\n", html.EscapeString(match.Tournament))
	}
	fmt.Fprintf(&b, "Starts: %s\n\n", match.ScheduledAt.UTC().Format("02.01.2006 15:04 MST"))
	fmt.Fprintf(&b, "Pick: <b>%s</b>\n", html.EscapeString(team))
	fmt.Fprintf(&b, "Confidence: %.0f%%\n", sig.Confidence*100)
	if sig.Outcome == models.OutcomeTeam1 && match.OddsTeam1 != nil {
		fmt.Fprintf(&b, "Odds: %s\n", match.OddsTeam1.StringFixed(2))
	} else if sig.Outcome == models.OutcomeTeam2 && match.OddsTeam2 != nil {
		fmt.Fprintf(&b, "Odds: %s\n", match.OddsTeam2.StringFixed(2))
	}
	if sig.Explanation != "" {
		fmt.Fprintf(&b, "\n%s\n", html.EscapeString(sig.Explanation))
	}
	if withDisclaimer {
		fmt.Fprintf(&b, "\n%s", disclaimer)
	}

	return b.String()
}

// FormatDailySummary renders the end-of-day recap for one channel.
func FormatDailySummary(date time.Time, stats []*models.SportStatistic, totalToday int, avgConfidence float64) string {
	var b strings.Builder
	b.WriteString("<b>Daily summary</b>\n\n")
	fmt.Fprintf(&b, "Date: %s\n", date.UTC().Format("02.01.2006"))
	fmt.Fprintf(&b, "Signals today: %d\n", totalToday)
	if totalToday > 0 {
		fmt.Fprintf(&b, "Average confidence: %.0f%%\n", avgConfidence*100)
	}

	for _, st := range stats {
		if st.Settled() == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n<b>%s</b>: %dW-%dL-%dP (%.0f%% win rate, ROI %s)",
			SportTitle(st.Sport), st.Wins, st.Losses, st.Pushes, st.GetWinRate(), st.NetROI.StringFixed(2))
	}

	b.WriteString("\n\n<i>Live signals continue tomorrow.</i>")
	return b.String()
}
