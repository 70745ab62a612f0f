package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/benvon/smart-notes/internal/models"
)

// Analyzer classifies note text and extracts structured entities using the
// compiled rule set. It is stateless and safe for concurrent use; Analyze is
// a pure function of its input.
type Analyzer struct {
	rules *Rules

	categories []compiledCategory
	entities   []compiledEntity
	high       []*regexp.Regexp
	medium     []*regexp.Regexp
	low        []*regexp.Regexp
	tagRules   []compiledTagRule
	stopwords  map[string]struct{}
	nameStops  map[string]struct{}

	ctxHigh   *regexp.Regexp
	ctxMedium *regexp.Regexp
	ctxLow    *regexp.Regexp
	exclaims  *regexp.Regexp
	questions *regexp.Regexp
	capsWord  *regexp.Regexp
	wordToken *regexp.Regexp
	followUp  *regexp.Regexp
	research  *regexp.Regexp
}

type compiledCategory struct {
	rule     CategoryRule
	keywords []*regexp.Regexp
	patterns []*regexp.Regexp
}

type compiledEntity struct {
	kind     string
	patterns []*regexp.Regexp
}

type compiledTagRule struct {
	tag     string
	pattern *regexp.Regexp
}

// New creates an analyzer with the built-in rule set
func New() *Analyzer {
	a, err := NewWithRules(DefaultRules())
	if err != nil {
		// The built-in rules are compiled at startup; a failure here is a
		// programming error, same contract as regexp.MustCompile.
		panic(fmt.Sprintf("analyzer: invalid built-in rules: %v", err))
	}
	return a
}

// NewWithRules creates an analyzer from the given rule set, compiling all
// keyword and pattern expressions. Returns an error for invalid patterns,
// which can occur when rules are loaded from a user-supplied override file.
func NewWithRules(rules *Rules) (*Analyzer, error) {
	a := &Analyzer{
		rules:     rules,
		stopwords: make(map[string]struct{}, len(rules.Stopwords)),
		nameStops: make(map[string]struct{}, len(rules.NameStopwords)),

		ctxHigh:   regexp.MustCompile(`(?i)\b(?:today|now|immediately|asap|right\s+away)\b`),
		ctxMedium: regexp.MustCompile(`(?i)\b(?:tomorrow|this\s+week|soon)\b`),
		ctxLow:    regexp.MustCompile(`(?i)\b(?:next\s+week|next\s+month|someday|later)\b`),
		exclaims:  regexp.MustCompile(`!{2,}`),
		questions: regexp.MustCompile(`\?{2,}`),
		capsWord:  regexp.MustCompile(`\b[A-Z]{3,}\b`),
		wordToken: regexp.MustCompile(`[a-z]{3,}`),
		followUp:  regexp.MustCompile(`(?i)\b(?:follow\s*up|check\s*in)\b`),
		research:  regexp.MustCompile(`(?i)\b(?:research|investigate|look into)\b`),
	}

	for _, cr := range rules.Categories {
		cc := compiledCategory{rule: cr}
		for _, kw := range cr.Keywords {
			re, err := regexp.Compile(keywordPattern(kw))
			if err != nil {
				return nil, fmt.Errorf("category %s keyword %q: %w", cr.Category, kw, err)
			}
			cc.keywords = append(cc.keywords, re)
		}
		for _, p := range cr.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("category %s pattern %q: %w", cr.Category, p, err)
			}
			cc.patterns = append(cc.patterns, re)
		}
		a.categories = append(a.categories, cc)
	}

	for _, er := range rules.Entities {
		ce := compiledEntity{kind: er.Kind}
		for _, p := range er.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("entity kind %s pattern %q: %w", er.Kind, p, err)
			}
			ce.patterns = append(ce.patterns, re)
		}
		a.entities = append(a.entities, ce)
	}

	var err error
	if a.high, err = compilePhrases(rules.Priority.High); err != nil {
		return nil, fmt.Errorf("high priority phrases: %w", err)
	}
	if a.medium, err = compilePhrases(rules.Priority.Medium); err != nil {
		return nil, fmt.Errorf("medium priority phrases: %w", err)
	}
	if a.low, err = compilePhrases(rules.Priority.Low); err != nil {
		return nil, fmt.Errorf("low priority phrases: %w", err)
	}

	for _, tr := range rules.Tags {
		re, err := regexp.Compile(tr.Pattern)
		if err != nil {
			return nil, fmt.Errorf("tag rule %s: %w", tr.Tag, err)
		}
		a.tagRules = append(a.tagRules, compiledTagRule{tag: tr.Tag, pattern: re})
	}

	for _, w := range rules.Stopwords {
		a.stopwords[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range rules.NameStopwords {
		a.nameStops[w] = struct{}{}
	}

	return a, nil
}

// Rules returns the rule set this analyzer was built from
func (a *Analyzer) Rules() *Rules {
	return a.rules
}

// Analyze classifies the note content and extracts entities, tags, priority,
// insights and suggested action labels. It never fails for string input;
// content that matches nothing yields the General category with the fixed
// 0.5 confidence sentinel and empty collections.
func (a *Analyzer) Analyze(content string) *models.AnalysisResult {
	entities := a.extractEntities(content)
	category, confidence := a.classify(content)
	priority := a.determinePriority(content)

	return &models.AnalysisResult{
		Category:         category,
		Confidence:       confidence,
		Tags:             a.generateTags(content, category),
		Entities:         entities,
		Priority:         priority,
		Insights:         a.buildInsights(content, category, priority, entities),
		SuggestedActions: a.suggestActions(content, category, entities),
	}
}

// confidenceFloor is the minimum normalized score required to keep a
// classified category; below it the result falls back to General.
const confidenceFloor = 0.3

// generalConfidence is the fixed sentinel reported with the General category
const generalConfidence = 0.5

func (a *Analyzer) classify(content string) (models.Category, float64) {
	bestIdx := -1
	bestScore := 0.0

	for i, cc := range a.categories {
		score := 0.0
		for _, re := range cc.keywords {
			score += float64(countMatches(re, content)) * cc.rule.Weight
		}
		for _, re := range cc.patterns {
			score += float64(countMatches(re, content)) * cc.rule.Weight * 1.5
		}
		// Strict comparison keeps the first category in declaration order
		// as the winner on ties.
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	confidence := bestScore / 3
	if confidence > 1 {
		confidence = 1
	}
	if bestIdx < 0 || confidence < confidenceFloor {
		return models.CategoryGeneral, generalConfidence
	}
	return a.categories[bestIdx].rule.Category, confidence
}

func countMatches(re *regexp.Regexp, s string) int {
	return len(re.FindAllStringIndex(s, -1))
}

func keywordPattern(keyword string) string {
	return `(?i)\b` + regexp.QuoteMeta(keyword) + `\b`
}

// phrasePattern matches a phrase case-insensitively with runs of whitespace
// between its words.
func phrasePattern(phrase string) string {
	return `(?i)\b` + strings.ReplaceAll(regexp.QuoteMeta(phrase), " ", `\s+`) + `\b`
}

func compilePhrases(phrases []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		re, err := regexp.Compile(phrasePattern(p))
		if err != nil {
			return nil, fmt.Errorf("phrase %q: %w", p, err)
		}
		res = append(res, re)
	}
	return res, nil
}
