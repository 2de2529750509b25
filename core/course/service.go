package course

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/startsmart/property/core"
)

var (
	// errors
	ErrNotFound       = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrTrackNotFound  = errors.New("track not found")
	ErrNoteNotFound   = errors.New("note not found")

	// DashboardCourseID is suggested when the user has nothing in progress.
	DashboardCourseID       = "c2"
	DashboardDefaultPercent = 75
)

type (
	// ProgressStore keeps the progress percentage (0..100) of a user per course or track.
	ProgressStore interface {
		GetProgress(ctx context.Context, userID string) (map[string]int, error)
		SetProgress(ctx context.Context, userID, key string, percent int) error
	}

	Repository interface {
		// QueryCompletions returns the ids of the lessons of courseID completed by userID.
		QueryCompletions(ctx context.Context, userID, courseID string) ([]string, error)
		SetCompletion(ctx context.Context, userID, courseID, lessonID string, completed bool) error
		// GetNote returns ErrNoteNotFound when the user has no note on the lesson.
		GetNote(ctx context.Context, userID, lessonID string) (Note, error)
		SaveNote(ctx context.Context, note Note) (Note, error)
	}

	Service interface {
		ListCourses(ctx context.Context, userID string, filter Filter) ([]CourseView, error)
		GetCourse(ctx context.Context, userID, courseID string) (CourseDetail, error)
		GetLesson(ctx context.Context, userID, courseID, lessonID string) (LessonView, error)
		// CompleteLesson toggles a lesson and recomputes the course progress from the completed lessons.
		CompleteLesson(ctx context.Context, userID, courseID, lessonID string, completed bool) (CourseProgress, error)
		GetNote(ctx context.Context, userID, courseID, lessonID string) (Note, error)
		SaveNote(ctx context.Context, userID, courseID, lessonID, content string) (Note, error)
		ListTracks(ctx context.Context, userID string) ([]TrackView, error)
		GetTrack(ctx context.Context, userID, trackID string) (TrackView, error)
		Library(ctx context.Context, userID string) (Library, error)
	}

	service struct {
		repo     Repository
		progress ProgressStore
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, progress ProgressStore) Service {
	return &service{repo: repo, progress: progress}
}

func (svc *service) getProgress(ctx context.Context, userID string) (map[string]int, error) {
	p, err := svc.progress.GetProgress(ctx, userID)
	return p, errors.Wrap(err, "getting progress")
}

func courseView(c Course, progress map[string]int) CourseView {
	cv := CourseView{Course: c}
	if p, ok := progress[c.ID]; ok {
		cv.Progress = &p
	}
	return cv
}

func (f Filter) matches(c Course) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, CategoryAll) && !strings.EqualFold(f.Category, c.Category) {
		return false
	}
	if f.Search != "" {
		text := strings.ToLower(c.Title + " " + c.Description)
		if !strings.Contains(text, strings.ToLower(f.Search)) {
			return false
		}
	}
	return true
}

func (svc *service) ListCourses(ctx context.Context, userID string, filter Filter) ([]CourseView, error) {
	progress, err := svc.getProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		if filter.matches(c) {
			res = append(res, courseView(c, progress))
		}
	}
	return res, nil
}

func (svc *service) GetCourse(ctx context.Context, userID, courseID string) (CourseDetail, error) {
	c, ok := findCourse(courseID)
	if !ok {
		return CourseDetail{}, ErrNotFound
	}
	progress, err := svc.getProgress(ctx, userID)
	if err != nil {
		return CourseDetail{}, err
	}
	completed, err := svc.repo.QueryCompletions(ctx, userID, courseID)
	if err != nil {
		return CourseDetail{}, errors.Wrap(err, "querying completions")
	}

	var modules []Module
	for _, l := range lessons[courseID] {
		if len(modules) == 0 || modules[len(modules)-1].ID != l.ModuleID {
			modules = append(modules, Module{ID: l.ModuleID, Number: l.ModuleNumber, Name: l.ModuleName})
		}
		mod := &modules[len(modules)-1]
		mod.Lessons = append(mod.Lessons, l)
	}

	return CourseDetail{
		CourseView:       courseView(c, progress),
		Modules:          modules,
		CompletedLessons: sortedLessonIDs(completed),
	}, nil
}

func (svc *service) GetLesson(ctx context.Context, userID, courseID, lessonID string) (LessonView, error) {
	if _, ok := findCourse(courseID); !ok {
		return LessonView{}, ErrNotFound
	}
	l, idx, ok := findLesson(courseID, lessonID)
	if !ok {
		return LessonView{}, ErrLessonNotFound
	}

	lv := LessonView{Lesson: l}
	list := lessons[courseID]
	if idx > 0 {
		lv.PreviousLessonID = list[idx-1].ID
	}
	if idx < len(list)-1 {
		lv.NextLessonID = list[idx+1].ID
	}

	completed, err := svc.repo.QueryCompletions(ctx, userID, courseID)
	if err != nil {
		return LessonView{}, errors.Wrap(err, "querying completions")
	}
	for _, id := range completed {
		if id == lessonID {
			lv.Completed = true
			break
		}
	}

	note, err := svc.repo.GetNote(ctx, userID, lessonID)
	if err != nil && errors.Cause(err) != ErrNoteNotFound {
		return LessonView{}, errors.Wrap(err, "getting note")
	}
	lv.Note = note.Content
	return lv, nil
}

func (svc *service) CompleteLesson(ctx context.Context, userID, courseID, lessonID string, completed bool) (CourseProgress, error) {
	c, ok := findCourse(courseID)
	if !ok {
		return CourseProgress{}, ErrNotFound
	}
	if _, _, ok := findLesson(courseID, lessonID); !ok {
		return CourseProgress{}, ErrLessonNotFound
	}

	if err := svc.repo.SetCompletion(ctx, userID, courseID, lessonID, completed); err != nil {
		return CourseProgress{}, errors.Wrap(err, "setting completion")
	}
	done, err := svc.repo.QueryCompletions(ctx, userID, courseID)
	if err != nil {
		return CourseProgress{}, errors.Wrap(err, "querying completions")
	}

	pct := ProgressPercent(len(done), c.LessonCount)
	if err := svc.progress.SetProgress(ctx, userID, courseID, pct); err != nil {
		return CourseProgress{}, errors.Wrap(err, "setting progress")
	}
	return CourseProgress{CourseID: courseID, Progress: pct, CompletedLessons: sortedLessonIDs(done)}, nil
}

// ProgressPercent is the share of completed lessons, rounded down.
func ProgressPercent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return completed * 100 / total
}

func (svc *service) GetNote(ctx context.Context, userID, courseID, lessonID string) (Note, error) {
	if _, _, ok := findLesson(courseID, lessonID); !ok {
		return Note{}, ErrLessonNotFound
	}
	note, err := svc.repo.GetNote(ctx, userID, lessonID)
	if err != nil {
		if errors.Cause(err) == ErrNoteNotFound {
			return Note{LessonID: lessonID}, nil
		}
		return Note{}, errors.Wrap(err, "getting note")
	}
	return note, nil
}

func (svc *service) SaveNote(ctx context.Context, userID, courseID, lessonID, content string) (Note, error) {
	if _, _, ok := findLesson(courseID, lessonID); !ok {
		return Note{}, ErrLessonNotFound
	}
	note, err := svc.repo.SaveNote(ctx, Note{
		UserID:    userID,
		LessonID:  lessonID,
		Content:   strings.TrimRight(content, " \t\r\n"),
		UpdatedAt: core.Now(),
	})
	return note, errors.Wrap(err, "saving note")
}

// trackView spreads the track progress over its steps: completed steps first,
// then the step in progress, then locked ones.
func trackView(t Track, progress int) TrackView {
	tv := TrackView{Track: t, Progress: progress}
	tv.Steps = make([]Step, len(t.Steps))
	n := len(t.Steps)
	current := false
	for i, s := range t.Steps {
		switch {
		case progress >= (i+1)*100/n:
			s.Status = StepCompleted
		case !current && (progress > 0 || i == 0):
			s.Status = StepInProgress
			current = true
		default:
			s.Status = StepLocked
		}
		tv.Steps[i] = s
	}
	return tv
}

func (svc *service) ListTracks(ctx context.Context, userID string) ([]TrackView, error) {
	progress, err := svc.getProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := make([]TrackView, 0, len(tracks))
	for _, t := range tracks {
		res = append(res, trackView(t, progress[t.ID]))
	}
	return res, nil
}

func (svc *service) GetTrack(ctx context.Context, userID, trackID string) (TrackView, error) {
	t, ok := findTrack(trackID)
	if !ok {
		return TrackView{}, ErrTrackNotFound
	}
	progress, err := svc.getProgress(ctx, userID)
	if err != nil {
		return TrackView{}, err
	}
	return trackView(t, progress[t.ID]), nil
}

func (svc *service) Library(ctx context.Context, userID string) (Library, error) {
	progress, err := svc.getProgress(ctx, userID)
	if err != nil {
		return Library{}, err
	}

	lib := Library{Courses: []CourseView{}, Tracks: make([]TrackView, 0, len(tracks))}
	var total int
	var cont *CourseView
	for _, c := range courses {
		p, ok := progress[c.ID]
		if !ok {
			continue
		}
		cv := courseView(c, progress)
		lib.Courses = append(lib.Courses, cv)
		total += p
		switch {
		case p >= 100:
			lib.CompletedCount++
		case p > 0:
			lib.InProgressCount++
			if cont == nil || p > *cont.Progress {
				cv := cv
				cont = &cv
			}
		}
	}
	if n := len(lib.Courses); n > 0 {
		lib.AverageProgress = total / n
	}

	if cont != nil {
		lib.ContinueLearning = *cont
	} else {
		c, _ := findCourse(DashboardCourseID)
		p := progress[c.ID]
		if p == 0 {
			p = DashboardDefaultPercent
		}
		lib.ContinueLearning = CourseView{Course: c, Progress: &p}
	}

	for _, t := range tracks {
		lib.Tracks = append(lib.Tracks, trackView(t, progress[t.ID]))
	}
	return lib, nil
}

// sortedLessonIDs orders lesson ids by lesson number.
func sortedLessonIDs(ids []string) []string {
	res := make([]string, len(ids))
	copy(res, ids)
	sort.Slice(res, func(i, j int) bool {
		if len(res[i]) != len(res[j]) {
			return len(res[i]) < len(res[j])
		}
		return res[i] < res[j]
	})
	return res
}
