package seed

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

type fakeUsers struct {
	byEmail map[string]*appModels.User
	nextID  int64
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*appModels.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) Create(_ context.Context, user *appModels.User) error {
	f.nextID++
	user.ID = f.nextID
	f.byEmail[user.Email] = user
	return nil
}

type fakeCourses struct {
	created []*appModels.Course
	err     error
}

func (f *fakeCourses) Create(_ context.Context, course *appModels.Course) error {
	if f.err != nil {
		return f.err
	}
	course.ID = int64(len(f.created) + 1)
	f.created = append(f.created, course)
	return nil
}

type fakeLectures struct {
	created []*appModels.Lecture
}

func (f *fakeLectures) Create(_ context.Context, lecture *appModels.Lecture) error {
	f.created = append(f.created, lecture)
	return nil
}

func newStores() (Stores, *fakeUsers, *fakeCourses, *fakeLectures) {
	users := &fakeUsers{byEmail: map[string]*appModels.User{}}
	courses := &fakeCourses{}
	lectures := &fakeLectures{}
	return Stores{Users: users, Courses: courses, Lectures: lectures}, users, courses, lectures
}

func TestCreateDefaultData(t *testing.T) {
	stores, users, courses, lectures := newStores()

	if err := CreateDefaultData(context.Background(), stores, zerolog.New(io.Discard)); err != nil {
		t.Fatalf("CreateDefaultData: %v", err)
	}

	instructor := users.byEmail[DefaultInstructorEmail]
	if instructor == nil || instructor.Role != appModels.RoleInstructor {
		t.Fatalf("instructor = %+v", instructor)
	}
	if !auth.CheckPassword(instructor.Password, defaultInstructorPassword) {
		t.Error("instructor password should be stored hashed")
	}
	if len(courses.created) != len(defaultCourses) {
		t.Fatalf("courses = %d", len(courses.created))
	}
	for _, c := range courses.created {
		if !c.IsPublished || c.CreatorID != instructor.ID {
			t.Errorf("course %+v", c)
		}
	}

	previews := 0
	for _, l := range lectures.created {
		if l.IsPreviewFree {
			previews++
			if l.Position != 1 {
				t.Errorf("preview lecture at position %d", l.Position)
			}
		}
	}
	if previews != len(defaultCourses) {
		t.Errorf("preview lectures = %d", previews)
	}
}

func TestCreateDefaultData_SkipsWhenPresent(t *testing.T) {
	stores, users, courses, _ := newStores()
	users.byEmail[DefaultInstructorEmail] = &appModels.User{ID: 9}

	if err := CreateDefaultData(context.Background(), stores, zerolog.New(io.Discard)); err != nil {
		t.Fatalf("CreateDefaultData: %v", err)
	}
	if len(courses.created) != 0 {
		t.Error("no courses should be created when data exists")
	}
}

func TestCreateDefaultData_CollectsCourseErrors(t *testing.T) {
	stores, _, courses, _ := newStores()
	courses.err = errors.New("insert failed")

	err := CreateDefaultData(context.Background(), stores, zerolog.New(io.Discard))
	if err == nil || !errors.Is(err, courses.err) {
		t.Fatalf("expected joined course error, got %v", err)
	}
}
