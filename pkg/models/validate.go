package models

import "strings"

// ParsePeriod accepts "am"/"pm" in any case
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToUpper(strings.TrimSpace(s))) {
	case PeriodAM:
		return PeriodAM, nil
	case PeriodPM:
		return PeriodPM, nil
	}
	return "", Errorf(ErrInvalid, "period must be AM or PM, got %q", s)
}

// ValidateHour12 checks a 12-hour clock hour. 0 is accepted and later stored as 12.
func ValidateHour12(hour12 int) error {
	if hour12 < 0 || hour12 > 12 {
		return Errorf(ErrInvalid, "hour must be between 0 and 12, got %d", hour12)
	}
	return nil
}

// ValidateMinute checks a minute value
func ValidateMinute(minute int) error {
	if minute < 0 || minute > 59 {
		return Errorf(ErrInvalid, "minute must be between 0 and 59, got %d", minute)
	}
	return nil
}

// ValidateSecond checks a second value
func ValidateSecond(second int) error {
	if second < 0 || second > 59 {
		return Errorf(ErrInvalid, "second must be between 0 and 59, got %d", second)
	}
	return nil
}

// ValidateTime checks every input of a new alarm. The store trusts its callers,
// so anything that creates alarms from user input runs this first.
func ValidateTime(hour12, minute, second int, period Period) error {
	if err := ValidateHour12(hour12); err != nil {
		return err
	}
	if err := ValidateMinute(minute); err != nil {
		return err
	}
	if err := ValidateSecond(second); err != nil {
		return err
	}
	if period != PeriodAM && period != PeriodPM {
		return Errorf(ErrInvalid, "period must be AM or PM, got %q", period)
	}
	return nil
}
