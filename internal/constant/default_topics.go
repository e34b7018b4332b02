package constant

type DefaultTopic struct {
	Title    string
	Category string
}

// DefaultTopics seed a new owner's dashboard. They are created without content.
var DefaultTopics = []DefaultTopic{
	{Title: "Tell Me About Yourself", Category: "Behavioral"},
	{Title: "Most Challenging Project", Category: "Behavioral"},
	{Title: "System Design Fundamentals", Category: "System Design"},
	{Title: "Data Structures and Algorithms", Category: "Coding"},
}

type CategoryStyle struct {
	Icon  string
	Color string
}

var categoryStyles = map[string]CategoryStyle{
	"Behavioral":    {Icon: "user", Color: "#F59E0B"},
	"System Design": {Icon: "server", Color: "#3B82F6"},
	"Coding":        {Icon: "code", Color: "#10B981"},
	"Messaging":     {Icon: "radio", Color: "#8B5CF6"},
	"Databases":     {Icon: "database", Color: "#EF4444"},
	"Cloud":         {Icon: "cloud", Color: "#0EA5E9"},
}

var defaultCategoryStyle = CategoryStyle{Icon: "book-open", Color: "#6366F1"}

const DefaultCategory = "General"

// StyleFor returns the icon and color for a category, falling back to the general style.
func StyleFor(category string) CategoryStyle {
	if s, ok := categoryStyles[category]; ok {
		return s
	}
	return defaultCategoryStyle
}
