package orders

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/Fuonder/bmadsoffice/internal/models"
)

var timeZones = []TimeZoneOption{
	{Value: "Asia/Kolkata", Label: "Asia/India"},
	{Value: "America/Toronto", Label: "Canada/Toronto"},
	{Value: "America/New_York", Label: "USA/New York"},
	{Value: "Europe/London", Label: "UK/London"},
	{Value: "Europe/Berlin", Label: "Europe/Berlin"},
}

// TimeZoneOptions labels every offered zone with its local time at now.
func TimeZoneOptions(now time.Time) []TimeZoneOption {
	out := make([]TimeZoneOption, 0, len(timeZones))
	for _, tz := range timeZones {
		label := tz.Label
		if loc, err := time.LoadLocation(tz.Value); err == nil {
			label = fmt.Sprintf("%s (%s)", tz.Label, now.In(loc).Format("03:04 PM"))
		}
		out = append(out, TimeZoneOption{Value: tz.Value, Label: label})
	}
	return out
}

// ValidateTimeZone accepts any IANA zone name.
func ValidateTimeZone(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return fmt.Errorf("account time zone %q: %w", name, models.ErrInvalidInput)
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("account time zone %q: %w", name, models.ErrInvalidInput)
	}
	return nil
}
