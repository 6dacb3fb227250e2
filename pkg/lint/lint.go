package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/pkg/errors"
	"github.com/withsy/sitekit/pkg/content"
	"github.com/withsy/sitekit/pkg/logger"
)

type ValidatorSeverity int

const (
	ValidatorSeverityWarning ValidatorSeverity = iota
	ValidatorSeverityCritical
)

func (s ValidatorSeverity) String() string {
	if s == ValidatorSeverityCritical {
		return "critical"
	}
	return "warning"
}

type Level string

const (
	LevelCollection Level = "collection"
	LevelDocument   Level = "document"
)

type (
	CollectionValidator func(ctx context.Context, all []*content.Set, set *content.Set) ([]*Issue, error)
	DocumentValidator   func(ctx context.Context, set *content.Set, doc *content.Document) ([]*Issue, error)
)

// Issue is a single finding. Path is set for every issue, Document only when
// the file could be parsed.
type Issue struct {
	Document    *content.Document
	Path        string
	Description string
	Context     []string
}

type Rule interface {
	Name() string
	Validate(ctx context.Context, all []*content.Set, set *content.Set) ([]*Issue, error)
	ValidateDocument(ctx context.Context, set *content.Set, doc *content.Document) ([]*Issue, error)
	GetApplicableLevels() []Level
	GetSeverity() ValidatorSeverity
}

type SimpleRule struct {
	Identifier        string
	Validator         CollectionValidator
	DocumentValidator DocumentValidator
	ApplicableLevels  []Level
	Severity          ValidatorSeverity
}

func (g *SimpleRule) Validate(ctx context.Context, all []*content.Set, set *content.Set) ([]*Issue, error) {
	if g.Validator == nil {
		return []*Issue{}, errors.Errorf("the rule '%s' cannot be used to validate collections", g.Identifier)
	}

	return g.Validator(ctx, all, set)
}

func (g *SimpleRule) ValidateDocument(ctx context.Context, set *content.Set, doc *content.Document) ([]*Issue, error) {
	if g.DocumentValidator == nil {
		return []*Issue{}, errors.Errorf("the rule '%s' cannot be used to validate documents", g.Identifier)
	}

	return g.DocumentValidator(ctx, set, doc)
}

func (g *SimpleRule) Name() string {
	return g.Identifier
}

func (g *SimpleRule) GetApplicableLevels() []Level {
	return g.ApplicableLevels
}

func (g *SimpleRule) GetSeverity() ValidatorSeverity {
	return g.Severity
}

type Linter struct {
	rules  []Rule
	logger logger.Logger
}

func NewLinter(rules []Rule, logger logger.Logger) *Linter {
	return &Linter{
		rules:  rules,
		logger: logger,
	}
}

// Lint runs every rule over the discovered sets. Results keep the order of
// the sets.
func (l *Linter) Lint(ctx context.Context, sets []*content.Set) (*AnalysisResult, error) {
	result := &AnalysisResult{}

	for _, set := range sets {
		l.logger.Debugf("linting collection '%s' with %d documents", set.Collection.Name, len(set.Documents))

		collectionResult, err := RunLintRulesOnCollection(ctx, sets, set, l.rules)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to lint collection '%s'", set.Collection.Name)
		}
		result.Collections = append(result.Collections, collectionResult)
	}

	return result, nil
}

func RunLintRulesOnCollection(ctx context.Context, all []*content.Set, set *content.Set, rules []Rule) (*CollectionIssues, error) {
	collectionResult := &CollectionIssues{
		Collection: set.Collection,
		Documents:  len(set.Documents) + len(set.Broken),
		Issues:     make(map[Rule][]*Issue),
	}

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		levels := rule.GetApplicableLevels()
		if slices.Contains(levels, LevelCollection) {
			issues, err := rule.Validate(ctx, all, set)
			if err != nil {
				return nil, err
			}
			if len(issues) > 0 {
				collectionResult.Issues[rule] = append(collectionResult.Issues[rule], issues...)
			}
		} else if slices.Contains(levels, LevelDocument) {
			for _, doc := range set.Documents {
				issues, err := rule.ValidateDocument(ctx, set, doc)
				if err != nil {
					return nil, err
				}
				if len(issues) > 0 {
					collectionResult.Issues[rule] = append(collectionResult.Issues[rule], issues...)
				}
			}
		}
	}

	return collectionResult, nil
}

type AnalysisResult struct {
	Collections []*CollectionIssues
}

func (p *AnalysisResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Collections)
}

// ErrorCount returns the number of errors found in an analysis result.
func (p *AnalysisResult) ErrorCount() int {
	return p.count(ValidatorSeverityCritical)
}

// WarningCount returns the number of warnings, a.k.a non-critical issues found in an analysis result.
func (p *AnalysisResult) WarningCount() int {
	return p.count(ValidatorSeverityWarning)
}

func (p *AnalysisResult) count(severity ValidatorSeverity) int {
	count := 0
	for _, collectionIssues := range p.Collections {
		for rule, issues := range collectionIssues.Issues {
			if rule.GetSeverity() == severity {
				count += len(issues)
			}
		}
	}

	return count
}

type CollectionIssues struct {
	Collection *content.Collection
	Documents  int
	Issues     map[Rule][]*Issue
}

// RuleIssue pairs an issue with the rule that raised it.
type RuleIssue struct {
	Rule  Rule
	Issue *Issue
}

// ByPath groups the issues per file, both sorted for stable output.
func (p *CollectionIssues) ByPath() ([]string, map[string][]RuleIssue) {
	grouped := make(map[string][]RuleIssue)
	for rule, issues := range p.Issues {
		for _, issue := range issues {
			grouped[issue.Path] = append(grouped[issue.Path], RuleIssue{Rule: rule, Issue: issue})
		}
	}

	paths := make([]string, 0, len(grouped))
	for path, issues := range grouped {
		paths = append(paths, path)
		sort.SliceStable(issues, func(i, j int) bool {
			if issues[i].Rule.GetSeverity() != issues[j].Rule.GetSeverity() {
				return issues[i].Rule.GetSeverity() > issues[j].Rule.GetSeverity()
			}
			if issues[i].Rule.Name() != issues[j].Rule.Name() {
				return issues[i].Rule.Name() < issues[j].Rule.Name()
			}
			return issues[i].Issue.Description < issues[j].Issue.Description
		})
	}
	sort.Strings(paths)

	return paths, grouped
}

func (p *CollectionIssues) MarshalJSON() ([]byte, error) {
	type IssueSummary struct {
		Rule        string   `json:"rule"`
		Description string   `json:"description"`
		Context     []string `json:"context"`
		Severity    string   `json:"severity"`
	}

	paths, grouped := p.ByPath()
	issuesByPath := make(map[string][]*IssueSummary, len(paths))
	for _, path := range paths {
		for _, ri := range grouped[path] {
			ctx := make([]string, 0, len(ri.Issue.Context))
			if ri.Issue.Context != nil {
				ctx = ri.Issue.Context
			}

			issuesByPath[path] = append(issuesByPath[path], &IssueSummary{
				Rule:        ri.Rule.Name(),
				Description: ri.Issue.Description,
				Context:     ctx,
				Severity:    ri.Rule.GetSeverity().String(),
			})
		}
	}

	return json.Marshal(struct {
		Collection string                     `json:"collection"`
		Documents  int                        `json:"documents"`
		Issues     map[string][]*IssueSummary `json:"issues"`
	}{
		Collection: p.Collection.Name,
		Documents:  p.Documents,
		Issues:     issuesByPath,
	})
}

func (p *CollectionIssues) String() string {
	return fmt.Sprintf("%s (%d documents)", p.Collection.Name, p.Documents)
}
