package service

import (
	"errors"
	"testing"

	"github.com/okhotnikdev/mediagate/internal/modules/admin/repository"
)

type mockAdminRepo struct {
	loadFunc func() ([]int64, error)
}

var _ repository.Repository = (*mockAdminRepo)(nil)

func (m *mockAdminRepo) Load() ([]int64, error) {
	return m.loadFunc()
}

func TestIsAdminChecksSnapshot(t *testing.T) {
	svc := New(&mockAdminRepo{loadFunc: func() ([]int64, error) {
		return []int64{100, 200}, nil
	}})

	if !svc.IsAdmin(100) {
		t.Error("expected listed user to be admin")
	}
	if svc.IsAdmin(999) {
		t.Error("expected unlisted user to be denied")
	}
}

func TestEmptyListAllowsEveryone(t *testing.T) {
	svc := New(&mockAdminRepo{loadFunc: func() ([]int64, error) {
		return nil, nil
	}})

	if !svc.IsAdmin(999) {
		t.Error("expected open access with an empty admin list")
	}
}

func TestFailedInitialLoadStartsOpen(t *testing.T) {
	svc := New(&mockAdminRepo{loadFunc: func() ([]int64, error) {
		return nil, errors.New("no such file")
	}})

	if !svc.IsAdmin(999) {
		t.Error("expected open access after a failed initial load")
	}
}

func TestReloadSwapsSnapshot(t *testing.T) {
	ids := []int64{100}
	repo := &mockAdminRepo{loadFunc: func() ([]int64, error) {
		return ids, nil
	}}
	svc := New(repo)

	if svc.IsAdmin(200) {
		t.Fatal("expected 200 denied before reload")
	}

	ids = []int64{100, 200}
	count, err := svc.Reload()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected reload to report 2 admins, got %d", count)
	}
	if !svc.IsAdmin(200) {
		t.Error("expected 200 allowed after reload")
	}
}

func TestFailedReloadKeepsPreviousSnapshot(t *testing.T) {
	loadErr := error(nil)
	repo := &mockAdminRepo{loadFunc: func() ([]int64, error) {
		if loadErr != nil {
			return nil, loadErr
		}
		return []int64{100}, nil
	}}
	svc := New(repo)

	loadErr = errors.New("file vanished")
	if _, err := svc.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if !svc.IsAdmin(100) {
		t.Error("expected previous snapshot to survive a failed reload")
	}
	if svc.IsAdmin(999) {
		t.Error("expected gate still enforced from the previous snapshot")
	}
}
