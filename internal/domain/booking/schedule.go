package booking

import (
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
)

// WeeklyEntry é a janela de atendimento de um dia da semana (0 = domingo).
type WeeklyEntry struct {
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// ParseClock lê "HH:MM" ou "HH:MM:SS". Segundos diferentes de zero são rejeitados.
func ParseClock(s string) (hour, minute int, err error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, perr := time.Parse(layout, s)
		if perr != nil {
			continue
		}
		if t.Second() != 0 {
			break
		}
		return t.Hour(), t.Minute(), nil
	}
	return 0, 0, fmt.Errorf("invalid clock %q", s)
}

// Window devolve início e fim da janela na data informada, no fuso da data.
func (e WeeklyEntry) Window(date time.Time) (time.Time, time.Time, error) {
	sh, sm, err := ParseClock(e.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	eh, em, err := ParseClock(e.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	y, m, d := date.Date()
	loc := date.Location()
	return time.Date(y, m, d, sh, sm, 0, 0, loc), time.Date(y, m, d, eh, em, 0, 0, loc), nil
}

// NormalizeSchedule valida a grade semanal enviada pelo prestador e devolve
// apenas os dias disponíveis, ordenados, com horários em "HH:MM".
func NormalizeSchedule(entries []WeeklyEntry) ([]WeeklyEntry, error) {
	seen := make(map[int]bool, len(entries))
	out := make([]WeeklyEntry, 0, len(entries))

	for _, e := range entries {
		if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
			return nil, httperr.ErrValidation("invalid_day_of_week")
		}
		if seen[e.DayOfWeek] {
			return nil, httperr.ErrValidation("duplicate_day")
		}
		seen[e.DayOfWeek] = true

		if !e.IsAvailable {
			continue
		}

		sh, sm, err := ParseClock(e.StartTime)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_time")
		}
		eh, em, err := ParseClock(e.EndTime)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_time")
		}
		if sh*60+sm >= eh*60+em {
			return nil, httperr.ErrValidation("invalid_time_range")
		}

		out = append(out, WeeklyEntry{
			DayOfWeek:   e.DayOfWeek,
			StartTime:   fmt.Sprintf("%02d:%02d", sh, sm),
			EndTime:     fmt.Sprintf("%02d:%02d", eh, em),
			IsAvailable: true,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}
