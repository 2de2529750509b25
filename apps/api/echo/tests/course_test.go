package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/startsmart/property/core/course"
	"github.com/startsmart/property/testutil"
)

func Test_courseApi_query(t *testing.T) {
	resetDB(t)
	usr := testutil.CreateUser(t, usrRepo, "Omar", "omar@startsmart.ae", "", true)
	testutil.SetProgress(t, usrRepo, usr, "c2", 45)
	token := getToken(t, usr)

	views := make(map[string]course.CourseView)
	for _, c := range course.Courses() {
		views[c.ID] = course.CourseView{Course: c}
	}
	p := 45
	c2 := views["c2"]
	c2.Progress = &p
	views["c2"] = c2

	tests := []httpTest{
		{name: "auth required", path: "/v1/courses", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "all", path: "/v1/courses", wantData: marchallObj(t, []course.CourseView{views["c1"], views["c2"], views["c3"]})},
		{name: "category All", path: "/v1/courses?category=All", wantData: marchallObj(t, []course.CourseView{views["c1"], views["c2"], views["c3"]})},
		{name: "category", path: "/v1/courses?category=residential", wantData: marchallObj(t, []course.CourseView{views["c2"], views["c3"]})},
		{name: "search", path: "/v1/courses?search=FLIP", wantData: marchallObj(t, []course.CourseView{views["c2"]})},
		{name: "no match", path: "/v1/courses?category=Commercial&search=flip", wantData: []byte(`[]`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantCode != http.StatusUnauthorized {
				tt.token = token
			}
			serve(t, tt)
		})
	}
}

func Test_courseApi_lessonPlayer(t *testing.T) {
	resetDB(t)
	usr := testutil.CreateUser(t, usrRepo, "Omar", "omar@startsmart.ae", "", true)
	token := getToken(t, usr)

	tests := []httpTest{
		{name: "unknown course", path: "/v1/courses/c9", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "course not found"})},
		{
			name: "unknown lesson", path: "/v1/courses/c3/lessons/c3-l99", wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "lesson not found"}),
		},
		{
			name: "completed required", method: http.MethodPut, path: "/v1/courses/c3/lessons/c3-l1/complete", body: []byte(`{}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"completed": "this field is required"}),
		},
		{
			name: "complete first lesson", method: http.MethodPut, path: "/v1/courses/c3/lessons/c3-l1/complete", body: []byte(`{"completed": true}`),
			wantData: marchallObj(t, course.CourseProgress{CourseID: "c3", Progress: 12, CompletedLessons: []string{"c3-l1"}}),
		},
		{
			name: "complete second lesson", method: http.MethodPut, path: "/v1/courses/c3/lessons/c3-l2/complete", body: []byte(`{"completed": true}`),
			wantData: marchallObj(t, course.CourseProgress{CourseID: "c3", Progress: 25, CompletedLessons: []string{"c3-l1", "c3-l2"}}),
		},
		{
			name: "undo first lesson", method: http.MethodPut, path: "/v1/courses/c3/lessons/c3-l1/complete", body: []byte(`{"completed": false}`),
			wantData: marchallObj(t, course.CourseProgress{CourseID: "c3", Progress: 12, CompletedLessons: []string{"c3-l2"}}),
		},
		{name: "empty note", path: "/v1/courses/c3/lessons/c3-l2/note", extra: ""},
		{name: "save note", method: http.MethodPut, path: "/v1/courses/c3/lessons/c3-l2/note", body: []byte(`{"content": "Check the DLD fee \n"}`), extra: "Check the DLD fee"},
		{name: "get note", path: "/v1/courses/c3/lessons/c3-l2/note", extra: "Check the DLD fee"},
		{
			name: "note of unknown lesson", method: http.MethodPut, path: "/v1/courses/c3/lessons/c1-l1/note", body: []byte(`{"content": "x"}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "lesson not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.token = token
			rec := serve(t, tt)
			if want, ok := tt.extra.(string); ok {
				var note course.Note
				unmarchallObj(t, rec.Body.Bytes(), &note)
				assert.Equal(t, "c3-l2", note.LessonID)
				assert.Equal(t, want, note.Content)
			}
		})
	}

	// the lesson player reflects completions and notes
	rec := serve(t, httpTest{path: "/v1/courses/c3/lessons/c3-l2", token: token})
	var lv course.LessonView
	unmarchallObj(t, rec.Body.Bytes(), &lv)
	assert.Equal(t, "c3-l1", lv.PreviousLessonID)
	assert.Equal(t, "c3-l3", lv.NextLessonID)
	assert.True(t, lv.Completed)
	assert.Equal(t, "Check the DLD fee", lv.Note)

	rec = serve(t, httpTest{path: "/v1/courses/c3", token: token})
	var cd course.CourseDetail
	unmarchallObj(t, rec.Body.Bytes(), &cd)
	if assert.NotNil(t, cd.Progress) {
		assert.Equal(t, 12, *cd.Progress)
	}
	assert.Equal(t, []string{"c3-l2"}, cd.CompletedLessons)
	assert.NotEmpty(t, cd.Modules)
}

func Test_courseApi_tracksAndLibrary(t *testing.T) {
	resetDB(t)
	usr := testutil.CreateUser(t, usrRepo, "Omar", "omar@startsmart.ae", "", true)
	token := getToken(t, usr)

	serve(t, httpTest{path: "/v1/tracks/t9", token: token, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "track not found"})})

	rec := serve(t, httpTest{path: "/v1/tracks", token: token})
	var tracks []course.TrackView
	unmarchallObj(t, rec.Body.Bytes(), &tracks)
	assert.Len(t, tracks, len(course.Tracks()))

	// nothing started: the dashboard suggests c2
	rec = serve(t, httpTest{path: "/v1/library", token: token})
	var lib course.Library
	unmarchallObj(t, rec.Body.Bytes(), &lib)
	assert.Empty(t, lib.Courses)
	assert.Equal(t, "c2", lib.ContinueLearning.ID)
	if assert.NotNil(t, lib.ContinueLearning.Progress) {
		assert.Equal(t, 75, *lib.ContinueLearning.Progress)
	}

	testutil.SetProgress(t, usrRepo, usr, "c1", 100)
	testutil.SetProgress(t, usrRepo, usr, "c3", 40)
	testutil.SetProgress(t, usrRepo, usr, "t1", 40)

	rec = serve(t, httpTest{path: "/v1/library", token: token})
	lib = course.Library{}
	unmarchallObj(t, rec.Body.Bytes(), &lib)
	assert.Len(t, lib.Courses, 2)
	assert.Equal(t, 1, lib.CompletedCount)
	assert.Equal(t, 1, lib.InProgressCount)
	assert.Equal(t, 70, lib.AverageProgress)
	assert.Equal(t, "c3", lib.ContinueLearning.ID)

	rec = serve(t, httpTest{path: "/v1/tracks/t1", token: token})
	var tv course.TrackView
	unmarchallObj(t, rec.Body.Bytes(), &tv)
	assert.Equal(t, 40, tv.Progress)
	assert.Equal(t, course.StepCompleted, tv.Steps[1].Status)
	assert.Equal(t, course.StepInProgress, tv.Steps[2].Status)
}
