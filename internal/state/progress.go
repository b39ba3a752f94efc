package state

import "context"

// Operation types.
const (
	TypeFetchStreak = "progress/streak"
	TypeLogMeal     = "progress/logMeal"
)

// MealLoggedNotice is shown after a successful log.
const MealLoggedNotice = "Meal logged successfully! 🎉"

func selectProgress(s *State) *ProgressState { return &s.Progress }

func streakLoaded(s *ProgressState, streak int) {
	s.Streak = streak
	s.StreakLoaded = true
}

// FetchStreakOp loads the logging streak.
func FetchStreakOp(svc ProgressService) AsyncOp[*ProgressState, struct{}, int] {
	return AsyncOp[*ProgressState, struct{}, int]{
		Type:   TypeFetchStreak,
		Select: selectProgress,
		Call: func(ctx context.Context, _ struct{}) (int, error) {
			return svc.Streak(ctx)
		},
		Fallback:  "Failed to fetch streak",
		Fulfilled: streakLoaded,
	}
}

// LogMealOp records today's meal and refreshes the streak.
func LogMealOp(svc ProgressService) AsyncOp[*ProgressState, struct{}, int] {
	return AsyncOp[*ProgressState, struct{}, int]{
		Type:   TypeLogMeal,
		Select: selectProgress,
		Call: func(ctx context.Context, _ struct{}) (int, error) {
			return svc.LogMeal(ctx)
		},
		Fallback: "Failed to log meal. Please try again.",
		Pending: func(s *ProgressState, _ struct{}) {
			s.Notice = ""
		},
		Fulfilled: func(s *ProgressState, streak int) {
			streakLoaded(s, streak)
			s.Notice = MealLoggedNotice
		},
	}
}

// FetchStreak dispatches FetchStreakOp.
func (o *Ops) FetchStreak(ctx context.Context) *Request[int] {
	return Run(ctx, o.store, FetchStreakOp(o.svc.Progress), struct{}{})
}

// LogMeal dispatches LogMealOp.
func (o *Ops) LogMeal(ctx context.Context) *Request[int] {
	return Run(ctx, o.store, LogMealOp(o.svc.Progress), struct{}{})
}
