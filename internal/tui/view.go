package tui

import (
	"fmt"
	"strings"

	"github.com/rshade/ecoshopper/internal/ecoscore"
	"github.com/rshade/ecoshopper/internal/shop"
)

// levelIcon mirrors the emoji used in score explanations.
func levelIcon(l ecoscore.Level) string {
	switch l {
	case ecoscore.LevelHigh:
		return "🌿"
	case ecoscore.LevelModerate:
		return "💛"
	default:
		return "🔴"
	}
}

// RenderScore renders "<icon> <score>" in the tier colour.
func RenderScore(st Styles, r ecoscore.Result) string {
	return st.Level(r.Level).Render(fmt.Sprintf("%s %d", levelIcon(r.Level), r.Score))
}

// RenderDetail renders the product detail pane.
func RenderDetail(st Styles, v shop.ProductView, width int) string {
	var b strings.Builder

	b.WriteString(st.Title.Render(v.Product.Name))
	b.WriteString(fmt.Sprintf("  $%.2f\n", v.Product.Price))
	b.WriteString(st.Subtle.Render(v.Product.Description))
	b.WriteString("\n\n")

	b.WriteString("EcoScore: " + RenderScore(st, v.Result) + "\n")
	b.WriteString(v.Result.Explanation + "\n\n")

	b.WriteString(fmt.Sprintf("Brand:          %s (%d/100)\n", v.Product.Brand, v.BrandScore))
	b.WriteString(fmt.Sprintf("Recyclability:  %d%%\n", v.Result.RecyclabilityRating))
	b.WriteString(fmt.Sprintf("Carbon:         %s CO2\n", ecoscore.FormatKg(v.Result.CarbonFootprint)))
	if !v.Equivalency.IsEmpty {
		b.WriteString(st.Subtle.Render("                " + v.Equivalency.DisplayText))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(st.Status.Render("💡 " + v.Insight))

	if len(v.Alternatives) > 0 {
		b.WriteString("\n\nGreener alternatives:\n")
		for _, alt := range v.Alternatives {
			b.WriteString(fmt.Sprintf("  • %s  %s  $%.2f\n", alt.Name,
				st.Level(ecoscore.LevelFor(alt.EcoScore)).Render(fmt.Sprintf("%d", alt.EcoScore)), alt.Price))
		}
	}

	return st.Box.Width(max(width-borderPadding, 0)).Render(strings.TrimRight(b.String(), "\n"))
}

// RenderDanger renders the interstitial shown before a low-scoring product.
func RenderDanger(st Styles, v shop.ProductView, width int) string {
	var b strings.Builder
	b.WriteString(st.Level(ecoscore.LevelLow).Render("⚠️  ECO WARNING"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s scored %d. Concerns:\n", v.Product.Name, v.Result.Score))
	for _, reason := range v.Result.DangerReasons {
		b.WriteString("  • " + reason + "\n")
	}
	if len(v.Alternatives) > 0 {
		b.WriteString("\nConsider instead:\n")
		for _, alt := range v.Alternatives {
			b.WriteString(fmt.Sprintf("  • %s (EcoScore %d)\n", alt.Name, alt.EcoScore))
		}
	}
	b.WriteString("\n")
	b.WriteString(st.Help.Render("y: view anyway • n/esc: back"))

	return st.WarningBox.Width(max(width-borderPadding, 0)).Render(b.String())
}

// RenderFooter renders the cart and points summary line.
func RenderFooter(st Styles, cart shop.CartSummary, points int, badge string) string {
	return st.Subtle.Render(fmt.Sprintf("🛒 %d items  $%.2f   •   %d green points   •   %s",
		cart.Items, cart.Total, points, badge))
}

// RenderHelp renders the key bindings for a state.
func RenderHelp(st Styles, state ViewState) string {
	var keys string
	switch state {
	case ViewStateDetail:
		keys = "a: add to cart • +/-: rate score • t: theme • esc: back • q: quit"
	case ViewStateDanger:
		keys = "y: view anyway • n/esc: back • q: quit"
	default:
		keys = "↑/↓: move • enter: details • a: add to cart • /: filter • t: theme • q: quit"
	}
	return st.Help.Render(keys)
}
