package verse

// Mood is a preset mood label offered by pickers.
type Mood struct {
	Name  string
	Emoji string
}

// DefaultMoods returns the preset moods in display order.
func DefaultMoods() []Mood {
	return []Mood{
		{Name: "anxious", Emoji: "😟"},
		{Name: "grateful", Emoji: "🙏"},
		{Name: "joyful", Emoji: "😊"},
		{Name: "lonely", Emoji: "😔"},
		{Name: "weary", Emoji: "😩"},
		{Name: "hopeful", Emoji: "🌅"},
		{Name: "afraid", Emoji: "😨"},
		{Name: "peaceful", Emoji: "🕊"},
		{Name: "grieving", Emoji: "💧"},
		{Name: "confused", Emoji: "😕"},
	}
}

// MoodNames returns the preset mood labels.
func MoodNames() []string {
	moods := DefaultMoods()
	names := make([]string, len(moods))
	for i, m := range moods {
		names[i] = m.Name
	}
	return names
}
