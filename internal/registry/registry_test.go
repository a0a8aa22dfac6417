package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/firedays/internal/engine"
)

type stubScene struct{ id string }

func (s stubScene) ID() string                    { return s.id }
func (s stubScene) Title() string                 { return "Stub " + s.id }
func (s stubScene) Setup(*engine.Core) error      { return nil }
func (s stubScene) HandleEvent(engine.Event) bool { return true }
func (s stubScene) Update(time.Duration)          {}
func (s stubScene) Draw()                         {}

func TestRegisterAndCreate(t *testing.T) {
	Register("stub-b", func() engine.Scene { return stubScene{"stub-b"} })
	Register("stub-a", func() engine.Scene { return stubScene{"stub-a"} })

	if !Exists("stub-a") || Exists("stub-missing") {
		t.Error("Exists() wrong")
	}

	var ids []string
	for _, info := range List() {
		ids = append(ids, info.ID)
		if info.ID == "stub-a" && info.Title != "Stub stub-a" {
			t.Errorf("title = %q", info.Title)
		}
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("List() not sorted: %v", ids)
		}
	}

	s, err := Create("stub-b")
	if err != nil || s.ID() != "stub-b" {
		t.Errorf("Create() = %v, %v", s, err)
	}
	if _, err := Create("stub-missing"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Create(missing) = %v", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub-dup", func() engine.Scene { return stubScene{"stub-dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register("stub-dup", func() engine.Scene { return stubScene{"stub-dup"} })
}
