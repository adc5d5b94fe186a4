package normalize

import "strings"

// dayOrder is the canonical week ordering for hours output.
var dayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// dayAliases maps rendered day labels (including common abbreviations) to
// canonical day names.
var dayAliases = map[string]string{
	"monday": "Monday", "mon": "Monday", "mo": "Monday",
	"tuesday": "Tuesday", "tue": "Tuesday", "tues": "Tuesday", "tu": "Tuesday",
	"wednesday": "Wednesday", "wed": "Wednesday", "we": "Wednesday",
	"thursday": "Thursday", "thu": "Thursday", "thur": "Thursday", "thurs": "Thursday", "th": "Thursday",
	"friday": "Friday", "fri": "Friday", "fr": "Friday",
	"saturday": "Saturday", "sat": "Saturday", "sa": "Saturday",
	"sunday": "Sunday", "sun": "Sunday", "su": "Sunday",
}

// Day canonicalizes a rendered day label. Unknown labels yield "".
func Day(label string) string {
	label = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), ":")))
	return dayAliases[label]
}

// Hours converts a raw day→time-range mapping into the ordered
// "Day: range" slice, Monday first. Days absent from raw are omitted;
// unknown day labels are dropped.
func Hours(raw map[string]string) []string {
	if len(raw) == 0 {
		return nil
	}
	byDay := make(map[string]string, len(raw))
	for label, rng := range raw {
		day := Day(label)
		rng = strings.TrimSpace(rng)
		if day == "" || rng == "" {
			continue
		}
		byDay[day] = rng
	}
	out := make([]string, 0, len(byDay))
	for _, day := range dayOrder {
		if rng, ok := byDay[day]; ok {
			out = append(out, day+": "+rng)
		}
	}
	return out
}
