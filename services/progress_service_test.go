package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/models"
)

func TestProgressPercentage(t *testing.T) {
	cases := []struct {
		completed, total int64
		want             int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 200, 1},
		{199, 200, 100},
	}
	for _, tc := range cases {
		if got := ProgressPercentage(tc.completed, tc.total); got != tc.want {
			t.Fatalf("ProgressPercentage(%d, %d) = %d, want %d", tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestMarkLessonCompletedRequiresUser(t *testing.T) {
	ts := newTestServices(t)
	_, lessons := createModule(t, ts.db, "Basics", 1)

	if _, err := ts.progress.MarkLessonCompleted(context.Background(), lessons[0].ID); !apperr.IsUnauthenticated(err) {
		t.Fatalf("want unauthenticated, got %v", err)
	}
}

func TestMarkLessonCompletedUnknownLesson(t *testing.T) {
	ts := newTestServices(t)
	u := createUser(t, ts.db, "ada")

	if _, err := ts.progress.MarkLessonCompleted(as(u), 4242); !apperr.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
	var rows int64
	ts.db.Model(&models.UserLessonProgress{}).Count(&rows)
	if rows != 0 {
		t.Fatalf("no progress rows expected, got %d", rows)
	}
}

func TestModuleCompletionRewardsOnce(t *testing.T) {
	ts := newTestServices(t)
	u := createUser(t, ts.db, "ada")
	module, lessons := createModule(t, ts.db, "Basics", 3)
	ctx := as(u)

	completed := make(chan uint, 4)
	ts.progress.OnModuleCompleted(func(_ context.Context, userID, moduleID uint) {
		completed <- moduleID
	})

	res, err := ts.progress.MarkLessonCompleted(ctx, lessons[0].ID)
	if err != nil {
		t.Fatalf("complete lesson 1: %v", err)
	}
	if !res.FirstCompletion || res.ModuleCompleted {
		t.Fatalf("lesson 1: first=%v moduleCompleted=%v", res.FirstCompletion, res.ModuleCompleted)
	}
	if res.Module.ProgressPercentage != 33 || res.Module.Completed {
		t.Fatalf("after lesson 1: %+v", res.Module)
	}
	if !codesOf(res.Unlocked)[models.AchievementFirstLesson] {
		t.Fatalf("expected FIRST_LESSON, got %v", res.Unlocked)
	}

	for _, l := range lessons[1:] {
		if res, err = ts.progress.MarkLessonCompleted(ctx, l.ID); err != nil {
			t.Fatalf("complete lesson %d: %v", l.ID, err)
		}
	}
	if !res.ModuleCompleted || res.Module.ProgressPercentage != 100 || !res.Module.Completed || res.Module.CompletedAt == nil {
		t.Fatalf("after last lesson: completed=%v %+v", res.ModuleCompleted, res.Module)
	}
	if !codesOf(res.Unlocked)[models.AchievementFirstModule] {
		t.Fatalf("expected FIRST_MODULE, got %v", res.Unlocked)
	}

	// 3 lessons, the module bonus, FIRST_LESSON and FIRST_MODULE.
	want := 3*xpForLessonCompletion + xpForModuleCompletion + 50 + 300
	if xp := xpOf(t, ts.db, u.ID); xp != want {
		t.Fatalf("xp = %d, want %d", xp, want)
	}

	again, err := ts.progress.MarkLessonCompleted(ctx, lessons[0].ID)
	if err != nil {
		t.Fatalf("repeat completion: %v", err)
	}
	if again.FirstCompletion || again.ModuleCompleted || len(again.Unlocked) != 0 {
		t.Fatalf("repeat completion should change nothing: %+v", again)
	}
	if xp := xpOf(t, ts.db, u.ID); xp != want {
		t.Fatalf("xp after repeat = %d, want %d", xp, want)
	}

	select {
	case id := <-completed:
		if id != module.ID {
			t.Fatalf("hook got module %d, want %d", id, module.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("module completion hook did not run")
	}
	select {
	case id := <-completed:
		t.Fatalf("hook ran twice (module %d)", id)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUpdateLessonPositionKeepsCompletionSeparate(t *testing.T) {
	ts := newTestServices(t)
	u := createUser(t, ts.db, "ada")
	_, lessons := createModule(t, ts.db, "Basics", 2)
	ctx := as(u)

	row, err := ts.progress.UpdateLessonPosition(ctx, lessons[0].ID, 42)
	if err != nil {
		t.Fatalf("update position: %v", err)
	}
	if row.IsCompleted || row.LastPosition != 42 {
		t.Fatalf("unexpected row %+v", row)
	}
	if xp := xpOf(t, ts.db, u.ID); xp != 0 {
		t.Fatalf("position update granted xp: %d", xp)
	}

	res, err := ts.progress.MarkLessonCompleted(ctx, lessons[0].ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !res.FirstCompletion || res.Progress.LastPosition != 42 {
		t.Fatalf("completion after position update: first=%v %+v", res.FirstCompletion, res.Progress)
	}

	row, err = ts.progress.UpdateLessonPosition(ctx, lessons[0].ID, 7)
	if err != nil {
		t.Fatalf("update position: %v", err)
	}
	if !row.IsCompleted || row.LastPosition != 7 {
		t.Fatalf("position update must not reset completion: %+v", row)
	}

	if _, err := ts.progress.UpdateLessonPosition(ctx, lessons[0].ID, -1); !apperr.IsValidation(err) {
		t.Fatalf("negative position: got %v", err)
	}
	if _, err := ts.progress.UpdateLessonPosition(ctx, 9999, 1); !apperr.IsNotFound(err) {
		t.Fatalf("unknown lesson: got %v", err)
	}
}

func TestComputeModuleProgress(t *testing.T) {
	ts := newTestServices(t)
	u := createUser(t, ts.db, "ada")
	empty, _ := createModule(t, ts.db, "Empty", 0)

	p, err := ts.progress.ComputeModuleProgress(context.Background(), u.ID, empty.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if p.ProgressPercentage != 0 || p.Completed {
		t.Fatalf("module without lessons: %+v", p)
	}

	if _, err := ts.progress.ComputeModuleProgress(context.Background(), u.ID, 9999); !apperr.IsNotFound(err) {
		t.Fatalf("unknown module: got %v", err)
	}
}

func TestProgressReadsForNewUser(t *testing.T) {
	ts := newTestServices(t)
	u := createUser(t, ts.db, "ada")
	module, lessons := createModule(t, ts.db, "Basics", 2)
	ctx := as(u)

	all, err := ts.progress.GetAllProgress(ctx)
	if err != nil || all == nil || len(all) != 0 {
		t.Fatalf("new user progress: %v, %v", all, err)
	}
	lp, err := ts.progress.GetLessonProgress(ctx, lessons[0].ID)
	if err != nil || lp != nil {
		t.Fatalf("untouched lesson: %v, %v", lp, err)
	}

	if _, err := ts.progress.MarkLessonCompleted(ctx, lessons[1].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	summary, err := ts.progress.GetModuleProgress(ctx, module.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalLessons != 2 || summary.CompletedLessons != 1 || summary.ProgressPercentage != 50 {
		t.Fatalf("summary: %+v", summary)
	}

	all, err = ts.progress.GetAllProgress(ctx)
	if err != nil || len(all) != 1 || all[0].Module == nil || all[0].Module.ID != module.ID {
		t.Fatalf("progress after completion: %+v, %v", all, err)
	}

	anon, err := ts.progress.GetModuleProgress(context.Background(), module.ID)
	if err != nil || anon.TotalLessons != 0 {
		t.Fatalf("anonymous summary: %+v, %v", anon, err)
	}
}
