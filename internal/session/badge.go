package session

// Badge labels by tier.
const (
	BadgePlanetSaver = "🌎 Planet Saver"
	BadgeGreenHero   = "🌿 Green Hero"
	BadgeEcoBeginner = "🌱 Eco Beginner"
)

// Badge thresholds on eco-qualifying views.
const (
	PlanetSaverThreshold = 25
	GreenHeroThreshold   = 10
)

// BadgeFor returns the badge earned after ecoViews eco-qualifying views.
func BadgeFor(ecoViews int) string {
	switch {
	case ecoViews >= PlanetSaverThreshold:
		return BadgePlanetSaver
	case ecoViews >= GreenHeroThreshold:
		return BadgeGreenHero
	default:
		return BadgeEcoBeginner
	}
}
