package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/xlab/treeprint"
)

type Printer struct {
	Out io.Writer
}

var (
	faint             = color.New(color.Faint).SprintFunc()
	successPrinter    = color.New(color.FgGreen)
	collectionPrinter = color.New(color.FgBlue, color.Bold).SprintFunc()
	documentPrinter   = color.New(color.FgWhite, color.Bold).SprintFunc()
	issuePrinter      = color.New(color.FgRed).SprintFunc()
	warningPrinter    = color.New(color.FgYellow).SprintFunc()
	summaryPrinter    = color.New(color.FgRed, color.Bold)
)

func (l *Printer) PrintIssues(analysis *AnalysisResult) {
	for _, collectionIssues := range analysis.Collections {
		l.printCollectionSummary(collectionIssues)
	}

	l.printTotals(analysis)
}

func (l *Printer) PrintJSON(analysis *AnalysisResult) error {
	jsonRes, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to convert lint result to JSON")
	}

	fmt.Fprintln(l.Out, string(jsonRes))
	return nil
}

func (l *Printer) printCollectionSummary(collectionIssues *CollectionIssues) {
	c := collectionIssues.Collection
	tree := treeprint.NewWithRoot(fmt.Sprintf("%s %s",
		collectionPrinter("Collection: "+c.Name),
		faint(fmt.Sprintf("(%s, %d documents)", c.Loader.String(), collectionIssues.Documents)),
	))

	paths, grouped := collectionIssues.ByPath()
	if len(paths) == 0 {
		tree.AddNode(successPrinter.Sprint("No issues found"))
	}

	for _, path := range paths {
		branch := tree.AddBranch(documentPrinter(filepath.ToSlash(path)))
		for _, ri := range grouped[path] {
			pp := issuePrinter
			if ri.Rule.GetSeverity() == ValidatorSeverityWarning {
				pp = warningPrinter
			}

			line := fmt.Sprintf("%s %s", pp(ri.Issue.Description), faint("("+ri.Rule.Name()+")"))
			if len(ri.Issue.Context) == 0 {
				branch.AddNode(line)
				continue
			}

			issueBranch := branch.AddBranch(line)
			for _, row := range ri.Issue.Context {
				issueBranch.AddNode(pp(row))
			}
		}
	}

	fmt.Fprintln(l.Out)
	fmt.Fprint(l.Out, tree.String())
}

func (l *Printer) printTotals(analysis *AnalysisResult) {
	documents := 0
	for _, c := range analysis.Collections {
		documents += c.Documents
	}

	errorCount := analysis.ErrorCount()
	warningCount := analysis.WarningCount()

	fmt.Fprintln(l.Out)
	summary := fmt.Sprintf("Checked %s in %s", plural(documents, "document"), plural(len(analysis.Collections), "collection"))
	if errorCount == 0 && warningCount == 0 {
		successPrinter.Fprintf(l.Out, "✓ %s, no issues found.\n", summary)
		return
	}

	parts := make([]string, 0, 2)
	if errorCount > 0 {
		parts = append(parts, plural(errorCount, "error"))
	}
	if warningCount > 0 {
		parts = append(parts, plural(warningCount, "warning"))
	}

	if errorCount == 0 {
		fmt.Fprintln(l.Out, warningPrinter(fmt.Sprintf("%s, found %s.", summary, strings.Join(parts, " and "))))
		return
	}

	summaryPrinter.Fprintf(l.Out, "✘ %s, found %s.\n", summary, strings.Join(parts, " and "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
