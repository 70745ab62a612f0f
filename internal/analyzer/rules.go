package analyzer

import (
	"github.com/benvon/smart-notes/internal/models"
)

// CategoryRule scores one category from keyword and pattern evidence.
// Pattern hits count 1.5x a keyword hit: a structural match (an email regex,
// a time of day) is stronger evidence than a bare keyword.
type CategoryRule struct {
	Category models.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
	Patterns []string        `yaml:"patterns"`
	Weight   float64         `yaml:"weight"`
}

// EntityRule is a named list of extraction patterns for one entity kind.
// Patterns with a capture group contribute group 1 (marker phrase stripped),
// patterns without contribute the whole match.
type EntityRule struct {
	Kind     string   `yaml:"kind"`
	Patterns []string `yaml:"patterns"`
}

// TagRule adds a fixed contextual tag when its pattern matches
type TagRule struct {
	Tag     string `yaml:"tag"`
	Pattern string `yaml:"pattern"`
}

// PriorityRules holds the phrase lists used for priority scoring.
// High phrases count double; medium and low count single.
type PriorityRules struct {
	High   []string `yaml:"high"`
	Medium []string `yaml:"medium"`
	Low    []string `yaml:"low"`
}

// Rules is the complete analyzer rule set. It is plain data so the rule
// tables can be inspected, overridden from YAML, and tested in isolation
// from the scoring algorithm.
type Rules struct {
	Categories    []CategoryRule `yaml:"categories"`
	Entities      []EntityRule   `yaml:"entities"`
	Priority      PriorityRules  `yaml:"priority"`
	Tags          []TagRule      `yaml:"tags"`
	Stopwords     []string       `yaml:"stopwords"`
	NameStopwords []string       `yaml:"name_stopwords"`
}

// Entity kinds, in extraction order.
const (
	KindDates     = "dates"
	KindEmails    = "emails"
	KindPhones    = "phones"
	KindPeople    = "people"
	KindTasks     = "tasks"
	KindLocations = "locations"
)

const (
	emailPattern = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`
	phonePattern = `\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`
)

// DefaultRules returns the built-in rule set. Category order is the
// tie-break order for classification: the first category reaching the
// maximum score wins.
func DefaultRules() *Rules {
	return &Rules{
		Categories: []CategoryRule{
			{
				Category: models.CategoryMeeting,
				Keywords: []string{"meeting", "agenda", "attendees", "call", "standup", "sync", "discussion", "conference"},
				Patterns: []string{
					`(?i)\bmeeting\s+with\s+\w+`,
					`\b\d{1,2}:\d{2}\s*(?:[ap]m)?\b`,
				},
				Weight: 1.0,
			},
			{
				Category: models.CategoryTask,
				Keywords: []string{"todo", "deadline", "due", "complete", "finish", "submit", "checklist"},
				Patterns: []string{
					`(?i)\b(?:need to|must|should)\s+\w+`,
				},
				Weight: 1.2,
			},
			{
				Category: models.CategoryIdea,
				Keywords: []string{"idea", "brainstorm", "concept", "innovation", "prototype", "possibility"},
				Patterns: []string{
					`(?i)\bwhat\s+if\b`,
					`(?i)\bidea:`,
				},
				Weight: 0.8,
			},
			{
				Category: models.CategoryContact,
				Keywords: []string{"contact", "reach"},
				Patterns: []string{
					emailPattern,
					`\+?1?[-.\s]?` + phonePattern,
				},
				Weight: 1.1,
			},
			{
				Category: models.CategoryProject,
				Keywords: []string{"project", "milestone", "sprint", "roadmap", "launch", "release"},
				Patterns: []string{
					`(?i)\bproject\s+plan\b`,
					`(?i)\bphase\s+\d+\b`,
				},
				Weight: 0.9,
			},
			{
				Category: models.CategoryFinance,
				Keywords: []string{"budget", "invoice", "payment", "expense", "cost", "salary"},
				Patterns: []string{
					`\$\d[\d,]*(?:\.\d{2})?`,
				},
				Weight: 1.0,
			},
		},
		Entities: []EntityRule{
			{
				Kind: KindDates,
				Patterns: []string{
					`\b\d{1,2}/\d{1,2}/\d{2,4}\b`,
					`\b\d{1,2}-\d{1,2}-\d{2,4}\b`,
					`(?i)\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`,
					`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}\b`,
					`(?i)\b(?:today|tomorrow|tonight|next week|next month|this week|this weekend)\b`,
				},
			},
			{
				Kind:     KindEmails,
				Patterns: []string{emailPattern},
			},
			{
				Kind: KindPhones,
				Patterns: []string{
					`\+1[-.\s]?` + phonePattern,
					phonePattern,
				},
			},
			{
				Kind: KindPeople,
				Patterns: []string{
					`\b(?:Dr|Mr|Mrs|Ms|Prof)\.\s[A-Z][a-z]+\b`,
				},
			},
			{
				Kind: KindTasks,
				Patterns: []string{
					`(?i)(?:todo|task|action):\s*([^\n]+)`,
					`(?i)\b(?:need to|have to|must|should)\s+([^.!?\n]+)`,
				},
			},
			{
				Kind: KindLocations,
				Patterns: []string{
					`\b\d+\s+[A-Z][a-z]+\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Way|Court|Ct)\b`,
					`\b[A-Z][a-z]+(?:\s[A-Z][a-z]+)?,\s*[A-Z]{2}\b`,
					`(?i)\b(?:conference\s+)?(?:room|office|building)\s+[A-Za-z0-9]+\b`,
				},
			},
		},
		Priority: PriorityRules{
			High: []string{
				"urgent", "asap", "critical", "emergency", "immediately", "right away",
				"top priority", "high priority", "crucial", "vital", "must do",
				"cannot wait", "can't wait", "drop everything", "time sensitive",
				"overdue", "final notice", "last chance", "due today", "due tomorrow",
				"blocking", "showstopper", "escalate", "severe", "pressing",
			},
			Medium: []string{
				"soon", "this week", "upcoming", "important", "needs attention",
				"follow up", "pending", "in progress", "scheduled", "reminder",
				"next steps", "should do", "coming up", "on deck", "review needed",
				"waiting on", "check in", "before friday", "by end of week",
				"this month",
			},
			Low: []string{
				"someday", "eventually", "when possible", "no rush", "low priority",
				"nice to have", "optional", "backlog", "whenever", "at leisure",
				"maybe later", "down the road", "long term", "on hold", "wish list",
				"if time permits", "casual", "leisure", "weekend read", "fun idea",
				"explore later", "not urgent", "can wait", "low stakes",
			},
		},
		Tags: []TagRule{
			{Tag: "urgent", Pattern: `(?i)\b(?:urgent|asap|critical)\b`},
			{Tag: "recurring", Pattern: `(?i)\b(?:weekly|daily|monthly)\b`},
			{Tag: "follow-up", Pattern: `(?i)\b(?:follow\s*up|check\s*in)\b`},
			{Tag: "research", Pattern: `(?i)\b(?:research|investigate|look into)\b`},
		},
		// Capitalized words that start sentences or label things but are
		// never the first word of a person's name. Name runs are trimmed
		// from the left against this list before pairing.
		NameStopwords: []string{
			"The", "This", "That", "Call", "Email", "Meet", "Meeting", "Contact",
			"Please", "Remember", "Schedule", "Urgent", "Todo", "Task", "Action",
			"Note", "Visit", "Ask", "Tell", "Send", "Review", "Follow", "Check",
			"Update", "Need", "Must", "Should", "With", "From", "Dear", "Hello",
			"Project", "Budget", "Invoice", "Room", "Conference", "Office",
			"Building", "Location", "Company", "Organization", "Name",
			"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
			"Sunday", "January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		Stopwords: []string{
			"the", "and", "for", "are", "but", "not", "you", "all", "can", "had",
			"her", "was", "one", "our", "out", "has", "him", "his", "how", "now",
			"see", "two", "way", "who", "did", "its", "let", "put", "say", "she",
			"too", "use", "get", "about", "with", "this", "that", "have", "from",
			"they", "will", "would", "there", "their", "what", "been", "were",
			"when", "which", "them", "than", "then", "some", "could", "should",
			"just", "like", "also", "into", "only", "over", "very", "after",
			"before", "because", "your", "more", "other", "these", "going",
		},
	}
}
