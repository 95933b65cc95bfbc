package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"juliejulie/internal/command"
)

// Calculator handles tips, percentages, basic arithmetic and temperature
// conversions. Anything it does not recognize falls through to the
// conversational model.
type Calculator struct{}

func (Calculator) Name() string { return "calculator" }

func (Calculator) TryHandle(_ context.Context, text string) (*command.Result, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	if res := tipCalculation(lower); res != nil {
		return res, nil
	}
	if res := percentageCalculation(lower); res != nil {
		return res, nil
	}
	if res := basicArithmetic(lower); res != nil {
		return res, nil
	}
	if res := temperatureConversion(lower); res != nil {
		return res, nil
	}
	return nil, nil
}

const number = `(\d+(?:\.\d+)?)`

var (
	tipPatterns = []*regexp.Regexp{
		regexp.MustCompile(number + `\s*%\s*tip.*?(?:on\s+)?\$?` + number),
		regexp.MustCompile(`(?:what's\s+)?(?:a\s+)?` + number + `\s*percent\s+tip.*?\$?` + number),
	}
	percentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:what's\s+)?` + number + `\s*%\s+of\s+` + number),
		regexp.MustCompile(number + `\s*percent\s+of\s+` + number),
	}
	celsiusToFPattern = regexp.MustCompile(number + `\s*(?:degrees?\s+)?(?:celsius|c)\s+to\s+(?:fahrenheit|f)`)
	fToCelsiusPattern = regexp.MustCompile(number + `\s*(?:degrees?\s+)?(?:fahrenheit|f)\s+to\s+(?:celsius|c)`)
)

type arithmeticRule struct {
	pattern *regexp.Regexp
	verb    string
	apply   func(a, b float64) float64
}

var arithmeticRules = []arithmeticRule{
	{regexp.MustCompile(number + `\s*\+\s*` + number), "plus", func(a, b float64) float64 { return a + b }},
	{regexp.MustCompile(number + `\s*-\s*` + number), "minus", func(a, b float64) float64 { return a - b }},
	{regexp.MustCompile(number + `\s*\*\s*` + number), "times", func(a, b float64) float64 { return a * b }},
	{regexp.MustCompile(number + `\s*/\s*` + number), "divided by", func(a, b float64) float64 { return a / b }},
	{regexp.MustCompile(`what's\s+` + number + `\s+plus\s+` + number), "plus", func(a, b float64) float64 { return a + b }},
	{regexp.MustCompile(`what's\s+` + number + `\s+minus\s+` + number), "minus", func(a, b float64) float64 { return a - b }},
	{regexp.MustCompile(`what's\s+` + number + `\s+times\s+` + number), "times", func(a, b float64) float64 { return a * b }},
	{regexp.MustCompile(`what's\s+` + number + `\s+divided\s+by\s+` + number), "divided by", func(a, b float64) float64 { return a / b }},
}

func tipCalculation(lower string) *command.Result {
	for _, p := range tipPatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		percentage, amount, ok := twoNumbers(m)
		if !ok {
			continue
		}
		tip := amount * percentage / 100
		total := amount + tip
		return &command.Result{
			SpokenResponse: fmt.Sprintf("A %s%% tip on $%.2f is $%.2f. Total would be $%.2f.",
				trimNumber(percentage), amount, tip, total),
		}
	}
	return nil
}

func percentageCalculation(lower string) *command.Result {
	for _, p := range percentPatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		percentage, amount, ok := twoNumbers(m)
		if !ok {
			continue
		}
		return &command.Result{
			SpokenResponse: fmt.Sprintf("%s%% of %s is %.2f.",
				trimNumber(percentage), trimNumber(amount), amount*percentage/100),
		}
	}
	return nil
}

func basicArithmetic(lower string) *command.Result {
	for _, rule := range arithmeticRules {
		m := rule.pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		a, b, ok := twoNumbers(m)
		if !ok {
			continue
		}
		if rule.verb == "divided by" && b == 0 {
			return &command.Result{SpokenResponse: "You can't divide by zero."}
		}
		return &command.Result{
			SpokenResponse: fmt.Sprintf("%s %s %s equals %.2f.",
				trimNumber(a), rule.verb, trimNumber(b), rule.apply(a, b)),
		}
	}
	return nil
}

func temperatureConversion(lower string) *command.Result {
	if m := celsiusToFPattern.FindStringSubmatch(lower); m != nil {
		c, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return &command.Result{
				SpokenResponse: fmt.Sprintf("%s degrees Celsius is %.1f degrees Fahrenheit.",
					trimNumber(c), c*9/5+32),
			}
		}
	}
	if m := fToCelsiusPattern.FindStringSubmatch(lower); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return &command.Result{
				SpokenResponse: fmt.Sprintf("%s degrees Fahrenheit is %.1f degrees Celsius.",
					trimNumber(f), (f-32)*5/9),
			}
		}
	}
	return nil
}

func twoNumbers(m []string) (float64, float64, bool) {
	if len(m) < 3 {
		return 0, 0, false
	}
	a, errA := strconv.ParseFloat(m[1], 64)
	b, errB := strconv.ParseFloat(m[2], 64)
	if errA != nil || errB != nil {
		return 0, 0, false
	}
	return a, b, true
}

// trimNumber renders 15 as "15" and 15.5 as "15.5".
func trimNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
