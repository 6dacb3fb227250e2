package jinja

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nikolalohinski/gonja/v2"
	"github.com/nikolalohinski/gonja/v2/exec"
	"github.com/pkg/errors"
	"github.com/withsy/sitekit/pkg/date"
	"gopkg.in/yaml.v3"
)

var Filters *exec.FilterSet

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

func init() { //nolint:gochecknoinits
	Filters = gonja.DefaultEnvironment.Filters

	for name, fn := range map[string]exec.FilterFunction{
		"add_days":    addDays,
		"date_format": formatDate,
		"slugify":     slugify,
		"yaml_quote":  yamlQuote,
	} {
		if err := Filters.Register(name, fn); err != nil {
			panic(err)
		}
	}
}

func addDays(e *exec.Evaluator, in *exec.Value, params *exec.VarArgs) *exec.Value {
	if in.IsError() {
		return in
	}
	if p := params.ExpectArgs(1); p.IsError() {
		return exec.AsValue(errors.Wrap(p, "'add_days' accept only a single argument"))
	}

	parsed, format, err := date.ParseTimeWithFormat(in.String())
	if err != nil {
		return exec.AsValue(errors.Wrap(err, "invalid date format"))
	}

	days := params.Args[0].String()
	daysInt, err := strconv.Atoi(days)
	if err != nil {
		return exec.AsValue(errors.Errorf("invalid number of days for add_days, it must be a valid integer, '%s' given", days))
	}

	return exec.AsValue(parsed.AddDate(0, 0, daysInt).Format(format))
}

func formatDate(e *exec.Evaluator, in *exec.Value, params *exec.VarArgs) *exec.Value {
	if in.IsError() {
		return in
	}
	if p := params.ExpectArgs(1); p.IsError() {
		return exec.AsValue(errors.Wrap(p, "'date_format' accept only a single argument"))
	}

	stringInput := in.String()
	parsed, err := date.ParseTime(stringInput)
	if err != nil {
		return exec.AsValue(errors.Errorf("invalid date format, %s given", stringInput))
	}

	format := params.Args[0].String()

	return exec.AsValue(parsed.Format(date.ConvertPythonDateFormatToGolang(format)))
}

func slugify(e *exec.Evaluator, in *exec.Value, params *exec.VarArgs) *exec.Value {
	if in.IsError() {
		return in
	}

	slug := slugRegex.ReplaceAllString(strings.ToLower(in.String()), "-")
	return exec.AsValue(strings.Trim(slug, "-"))
}

// yamlQuote renders a string as a YAML scalar, quoting it only when plain
// style would change its meaning.
func yamlQuote(e *exec.Evaluator, in *exec.Value, params *exec.VarArgs) *exec.Value {
	if in.IsError() {
		return in
	}

	buf, err := yaml.Marshal(in.String())
	if err != nil {
		return exec.AsValue(errors.Wrap(err, "failed to quote value"))
	}

	return exec.AsValue(strings.TrimSuffix(string(buf), "\n"))
}
