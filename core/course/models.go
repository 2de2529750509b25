package course

import (
	"time"

	"github.com/startsmart/property/core"
)

// Step statuses of a roadmap.
const (
	StepCompleted  = "completed"
	StepInProgress = "in-progress"
	StepLocked     = "locked"

	CategoryAll = "All"
)

type (
	Course struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Category    string  `json:"category"`
		Level       string  `json:"level"`
		Duration    string  `json:"duration"`
		LessonCount int     `json:"lesson_count"`
		Description string  `json:"description"`
		ImageURL    string  `json:"image_url"`
		Tag         string  `json:"tag,omitempty"`
		Rating      float64 `json:"rating,omitempty"`
		ReviewCount int     `json:"review_count,omitempty"`
	}

	Resource struct {
		Name string `json:"name"`
		Size string `json:"size"`
		Type string `json:"type"`
	}

	Lesson struct {
		ID           string     `json:"id"`
		CourseID     string     `json:"course_id"`
		ModuleID     string     `json:"module_id"`
		ModuleName   string     `json:"module_name"`
		ModuleNumber int        `json:"module_number"`
		Title        string     `json:"title"`
		LessonNumber int        `json:"lesson_number"`
		TotalLessons int        `json:"total_lessons"`
		Duration     string     `json:"duration"`
		VideoURL     string     `json:"video_url"`
		Summary      string     `json:"summary"`
		Resources    []Resource `json:"resources"`
	}

	Module struct {
		ID      string   `json:"id"`
		Number  int      `json:"number"`
		Name    string   `json:"name"`
		Lessons []Lesson `json:"lessons"`
	}

	Step struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		Description   string `json:"description"`
		Status        string `json:"status"`
		ImageURL      string `json:"image_url,omitempty"`
		TimeRemaining string `json:"time_remaining,omitempty"`
	}

	Track struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Category     string `json:"category"`
		Duration     string `json:"duration"`
		ModulesCount int    `json:"modules_count"`
		Description  string `json:"description"`
		Icon         string `json:"icon"`
		Steps        []Step `json:"steps"`
	}

	Note struct {
		UserID    string    `json:"-"`
		LessonID  string    `json:"lesson_id"`
		Content   string    `json:"content"`
		UpdatedAt time.Time `json:"updated_at"` // UTC
	}
)

// CourseView is a catalog course as seen by one user.
type CourseView struct {
	Course
	Progress *int `json:"progress,omitempty"` // nil when the user never started the course
}

// CourseDetail is a course with its lessons grouped by module.
type CourseDetail struct {
	CourseView
	Modules          []Module `json:"modules"`
	CompletedLessons []string `json:"completed_lessons"`
}

// LessonView is the lesson player state of one user.
type LessonView struct {
	Lesson
	PreviousLessonID string `json:"previous_lesson_id,omitempty"`
	NextLessonID     string `json:"next_lesson_id,omitempty"`
	Completed        bool   `json:"completed"`
	Note             string `json:"note"`
}

// TrackView is a roadmap with the user's progress applied to its steps.
type TrackView struct {
	Track
	Progress int `json:"progress"`
}

// CourseProgress is returned after a lesson completion toggle.
type CourseProgress struct {
	CourseID         string   `json:"course_id"`
	Progress         int      `json:"progress"`
	CompletedLessons []string `json:"completed_lessons"`
}

// Library summarizes the learning of one user.
type Library struct {
	Courses          []CourseView `json:"courses"`
	Tracks           []TrackView  `json:"tracks"`
	InProgressCount  int          `json:"in_progress_count"`
	CompletedCount   int          `json:"completed_count"`
	AverageProgress  int          `json:"average_progress"`
	ContinueLearning CourseView   `json:"continue_learning"`
}

type Filter struct {
	Category string `query:"category"`
	Search   string `query:"search"`
}

func (f *Filter) Clean() {
	f.Category = core.CleanString(f.Category)
	f.Search = core.CleanString(f.Search, true /* lower */)
}

// UpdateNote is the body of a note update.
type UpdateNote struct {
	Content string `json:"content" validate:"max=10000"`
}

// UpdateCompletion is the body of a lesson completion toggle.
type UpdateCompletion struct {
	Completed *bool `json:"completed" validate:"required"`
}
