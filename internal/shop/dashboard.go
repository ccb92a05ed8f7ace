package shop

import (
	"math"

	"github.com/rshade/ecoshopper/internal/session"
)

// Achievement is one milestone on eco-qualifying views.
type Achievement struct {
	Icon     string `json:"icon"`
	Name     string `json:"name"`
	Goal     int    `json:"goal"`
	Unlocked bool   `json:"unlocked"`
}

// BadgeProgress tracks the way to the next badge. Next is zero once the top
// badge is reached.
type BadgeProgress struct {
	Current int     `json:"current"`
	Next    int     `json:"next"`
	Percent float64 `json:"percent"`
}

// Dashboard is the stats screen.
type Dashboard struct {
	Stats         session.UserStats `json:"stats"`
	EcoPercentage int               `json:"eco_percentage"`
	Progress      BadgeProgress     `json:"progress"`
	Achievements  []Achievement     `json:"achievements"`
	Theme         session.Theme     `json:"theme"`
	EcoPreference int               `json:"eco_preference"`
}

const ecoBeginnerGoal = 3

// Dashboard summarises the session's gamification state.
func (s *Shop) Dashboard() Dashboard {
	snap := s.store.Snapshot()
	return BuildDashboard(snap.Stats, snap.Theme, snap.EcoPreference)
}

// BuildDashboard derives the dashboard from raw stats.
func BuildDashboard(stats session.UserStats, theme session.Theme, preference int) Dashboard {
	eco := stats.EcoProductsViewed
	d := Dashboard{
		Stats:         stats,
		Progress:      badgeProgress(eco),
		Theme:         theme,
		EcoPreference: preference,
		Achievements: []Achievement{
			{Icon: "🌱", Name: "Eco Beginner", Goal: ecoBeginnerGoal},
			{Icon: "🌿", Name: "Green Hero", Goal: session.GreenHeroThreshold},
			{Icon: "🌎", Name: "Planet Saver", Goal: session.PlanetSaverThreshold},
		},
	}
	if stats.ProductsViewed > 0 {
		d.EcoPercentage = int(math.Round(float64(eco) / float64(stats.ProductsViewed) * 100))
	}
	for i := range d.Achievements {
		d.Achievements[i].Unlocked = eco >= d.Achievements[i].Goal
	}
	return d
}

func badgeProgress(eco int) BadgeProgress {
	const (
		hero   = session.GreenHeroThreshold
		planet = session.PlanetSaverThreshold
	)
	switch {
	case eco >= planet:
		return BadgeProgress{Current: planet, Percent: 100}
	case eco >= hero:
		return BadgeProgress{Current: eco, Next: planet, Percent: float64(eco-hero) / float64(planet-hero) * 100}
	default:
		return BadgeProgress{Current: eco, Next: hero, Percent: float64(eco) / float64(hero) * 100}
	}
}
