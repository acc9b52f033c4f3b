package gestations

import (
	"math"
	"time"
)

const (
	GestationLengthDays   = 283
	FirstTrimesterMaxDay  = 94
	SecondTrimesterMaxDay = 189
	OverdueGraceDays      = 7
)

// ComputeStage deriva día actual, trimestre y fecha probable de parto.
// Es pura: no lee el reloj ni falla; datos inválidos caen a la siguiente línea base.
func ComputeStage(g Gestation, now time.Time) Stage {
	st := Stage{ComputedAt: now}

	switch {
	case g.ConfirmationDate != nil && g.ConfirmedDays != nil && *g.ConfirmedDays >= 0:
		conf := *g.ConfirmationDate
		days := *g.ConfirmedDays
		st.Baseline = BaselineConfirmation
		st.BaselineDate = conf.AddDate(0, 0, -days)
		st.CurrentDay = days + elapsedDays(conf, now)

	case g.ServiceDate != nil:
		st.Baseline = BaselineService
		st.BaselineDate = *g.ServiceDate
		st.CurrentDay = elapsedDays(*g.ServiceDate, now)

	default:
		// Registro aún no persistido: la creación es ahora.
		base := g.CreatedAt
		if base.IsZero() {
			base = now
		}
		st.Baseline = BaselineCreation
		st.BaselineDate = base
		st.CurrentDay = elapsedDays(base, now)
	}

	if st.CurrentDay < 0 {
		st.CurrentDay = 0
	}

	st.DueDate = st.BaselineDate.AddDate(0, 0, GestationLengthDays)
	st.Trimester = TrimesterFor(st.CurrentDay)
	st.RemainingDays = GestationLengthDays - st.CurrentDay
	st.Overdue = st.RemainingDays < -OverdueGraceDays
	return st
}

// TrimesterFor: <=94 -> 1, <=189 -> 2, resto -> 3.
func TrimesterFor(day int) int {
	switch {
	case day <= FirstTrimesterMaxDay:
		return 1
	case day <= SecondTrimesterMaxDay:
		return 2
	default:
		return 3
	}
}

// elapsedDays son los días completos entre from y now (negativo si from es futuro).
func elapsedDays(from, now time.Time) int {
	return int(math.Floor(now.Sub(from).Hours() / 24))
}

// DueDateFor es la fecha probable de parto según la línea base vigente.
func DueDateFor(g Gestation, now time.Time) time.Time {
	return ComputeStage(g, now).DueDate
}
