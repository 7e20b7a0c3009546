package timezone

import (
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "America/Sao_Paulo"

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location cai no fuso padrão quando tz é vazio ou desconhecido.
func Location(tz string) *time.Location {
	if loc, err := time.LoadLocation(tz); tz != "" && err == nil {
		return loc
	}
	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseLocal lê "2006-01-02 15:04" como horário de parede do tenant.
func ParseLocal(date, clock, tz string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, date+" "+clock, Location(tz))
}

// DayRange devolve [00:00, 00:00 do dia seguinte) do dia civil de date no fuso tz.
func DayRange(date time.Time, tz string) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, Location(tz))
	return start, start.AddDate(0, 0, 1)
}

func MonthRange(year int, month time.Month, tz string) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, Location(tz))
	return start, start.AddDate(0, 1, 0)
}
