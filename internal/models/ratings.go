package models

// Ordinal rating choice sets. Each category ranges from "none" (✘) to five
// repetitions of its symbol. Submitted ratings must be one of these exact
// values.
var (
	CoffeeRatingChoices = ratingScale("☕")
	FoodRatingChoices   = ratingScale("🥐")
	WifiRatingChoices   = ratingScale("📡")
	PowerOutletChoices  = ratingScale("🔌")
)

func ratingScale(symbol string) []string {
	choices := []string{"✘"}
	level := ""
	for i := 0; i < 5; i++ {
		level += symbol
		choices = append(choices, level)
	}
	return choices
}
