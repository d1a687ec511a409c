package cmd

import (
	"fmt"
	"regexp"
	"time"
)

// Date arguments accept 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'; each stands
// for the whole period it names.
var dateForms = []struct {
	pattern *regexp.Regexp
	layout  string
	next    func(time.Time) time.Time
}{
	{regexp.MustCompile(`^\d{4}$`), "2006", func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }},
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "2006-01", func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02", func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
}

// parseDateArg parses a single date argument, returning the start of the
// period it names and the start of the following period.
func parseDateArg(ds string) (start, next time.Time, err error) {
	for _, form := range dateForms {
		if !form.pattern.MatchString(ds) {
			continue
		}
		start, err = time.Parse(form.layout, ds)
		if err != nil {
			err = fmt.Errorf("parsing datestring %q: %w", ds, err)
			return
		}
		next = form.next(start)
		return
	}
	err = fmt.Errorf("invalid date format: %q", ds)
	return
}

// parseDateRangeFromArgs turns zero, one, or two date arguments into a
// half-open [start, end) range. No arguments means the full range (zero
// times); one argument covers that period; two arguments span from the
// start of the first through the end of the second.
func parseDateRangeFromArgs(args []string) (start time.Time, end time.Time, err error) {
	switch len(args) {
	case 0:
		return

	case 1:
		start, end, err = parseDateArg(args[0])

	case 2:
		start, _, err = parseDateArg(args[0])
		if err != nil {
			return
		}
		_, end, err = parseDateArg(args[1])
		if err == nil && !end.After(start) {
			err = fmt.Errorf("range end %q is not after start %q", args[1], args[0])
		}

	default:
		err = fmt.Errorf("expected at most two date arguments")
	}
	return
}
