package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"seating-chart-server-go/db"
	"seating-chart-server-go/layout"
	"seating-chart-server-go/models"
	"seating-chart-server-go/roster"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore keeps classes in memory. When failing is set every call
// returns errStoreDown.
type fakeStore struct {
	mu      sync.Mutex
	classes map[string]models.AppSettings
	nextID  int
	failing bool
	parser  roster.Parser
}

func newFakeStore() *fakeStore {
	return &fakeStore{classes: map[string]models.AppSettings{}}
}

func (f *fakeStore) ListClasses(ctx context.Context) ([]models.ClassSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, errStoreDown
	}
	var out []models.ClassSummary
	for id, s := range f.classes {
		out = append(out, models.ClassSummary{ID: id, Name: s.ClassName, StudentCount: len(s.Students), TableCount: len(s.Tables)})
	}
	slices.SortFunc(out, func(a, b models.ClassSummary) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (f *fakeStore) CreateClass(ctx context.Context, name string) (*models.ClassSummary, error) {
	if name == "" {
		return nil, db.ErrClassNameRequired
	}
	f.mu.Lock()
	f.nextID++
	id := fmt.Sprintf("class-%d", f.nextID)
	f.mu.Unlock()
	if err := f.SaveSettings(ctx, id, models.AppSettings{ClassName: name}); err != nil {
		return nil, err
	}
	return &models.ClassSummary{ID: id, Name: name}, nil
}

func (f *fakeStore) GetSettings(ctx context.Context, classID string) (*models.AppSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, errStoreDown
	}
	s, ok := f.classes[classID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStore) SaveSettings(ctx context.Context, classID string, settings models.AppSettings) error {
	if classID == "" {
		return db.ErrClassIDRequired
	}
	if settings.ClassName == "" {
		return db.ErrClassNameRequired
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errStoreDown
	}
	f.classes[classID] = settings
	return nil
}

func (f *fakeStore) DeleteClass(ctx context.Context, classID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return false, errStoreDown
	}
	_, ok := f.classes[classID]
	delete(f.classes, classID)
	return ok, nil
}

func (f *fakeStore) ClassExists(ctx context.Context, classID string) (bool, error) {
	s, err := f.GetSettings(ctx, classID)
	return s != nil, err
}

func (f *fakeStore) GetRandomStudent(ctx context.Context, classID string) (*models.Student, error) {
	s, err := f.GetSettings(ctx, classID)
	if err != nil || s == nil || len(s.Students) == 0 {
		return nil, err
	}
	st := s.Students[rand.IntN(len(s.Students))]
	return &st, nil
}

func (f *fakeStore) ImportStudents(ctx context.Context, classID string, file io.Reader, filename string) (int, error) {
	s, err := f.GetSettings(ctx, classID)
	if err != nil {
		return 0, err
	}
	if s == nil {
		s = &models.AppSettings{ClassName: "Imported Class " + classID}
	}
	students, err := f.parser.Parse(file, filename)
	if err != nil {
		return 0, err
	}
	s.Students = students
	s.Tables = layout.ClearAssignments(s.Tables)
	return len(students), f.SaveSettings(ctx, classID, *s)
}
