package booking

import "time"

// Interval é o período [Start, End) ocupado por uma reserva ativa.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && i.Start.Before(end)
}

// GenerateSlots calcula os horários livres de um dia a partir da janela semanal
// e das reservas ativas. Só oferece slots que cabem inteiros antes do fim da janela.
// Nunca falha: sem disponibilidade, devolve slice vazio.
func GenerateSlots(
	entry *WeeklyEntry,
	booked []Interval,
	date time.Time,
	duration time.Duration,
) []time.Time {

	slots := []time.Time{}

	if entry == nil || !entry.IsAvailable || duration <= 0 {
		return slots
	}
	if int(date.Weekday()) != entry.DayOfWeek {
		return slots
	}

	start, end, err := entry.Window(date)
	if err != nil {
		return slots
	}

	for cur := start; !cur.Add(duration).After(end); cur = cur.Add(duration) {
		slotEnd := cur.Add(duration)

		conflict := false
		for _, b := range booked {
			if b.Overlaps(cur, slotEnd) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, cur)
		}
	}

	return slots
}

func FormatSlots(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format("15:04"))
	}
	return out
}
