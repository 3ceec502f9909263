package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okhotnikdev/mediagate/internal/modules/rule/domain"
	"github.com/okhotnikdev/mediagate/internal/modules/rule/repository"
	sharederrors "github.com/okhotnikdev/mediagate/internal/shared/errors"
)

type mockRuleRepo struct {
	upsertFunc     func(ctx context.Context, rule *domain.Rule) (*domain.Rule, error)
	listActiveFunc func(ctx context.Context) ([]*domain.Rule, error)
}

var _ repository.Repository = (*mockRuleRepo)(nil)

func (m *mockRuleRepo) Upsert(ctx context.Context, rule *domain.Rule) (*domain.Rule, error) {
	return m.upsertFunc(ctx, rule)
}

func (m *mockRuleRepo) Get(context.Context, int64) (*domain.Rule, error) {
	return nil, sharederrors.ErrRuleNotFound
}

func (m *mockRuleRepo) ListActive(ctx context.Context) ([]*domain.Rule, error) {
	return m.listActiveFunc(ctx)
}

func (m *mockRuleRepo) ListForOwner(context.Context, int64) ([]*domain.Rule, error) {
	return nil, nil
}

func (m *mockRuleRepo) Delete(context.Context, int64, int64) error {
	return nil
}

func (m *mockRuleRepo) TouchChecked(context.Context, int64, time.Time) error {
	return nil
}

func TestCreateOrUpdateValidation(t *testing.T) {
	svc := New(&mockRuleRepo{
		upsertFunc: func(_ context.Context, rule *domain.Rule) (*domain.Rule, error) {
			stored := *rule
			stored.ID = 1
			return &stored, nil
		},
	})

	tests := []struct {
		name    string
		rule    *domain.Rule
		wantErr bool
	}{
		{
			name:    "valid rule",
			rule:    &domain.Rule{OwnerID: 1, Source: "pics", FrequencyHours: 4, TargetChannel: "@chan"},
			wantErr: false,
		},
		{
			name:    "missing source",
			rule:    &domain.Rule{OwnerID: 1, Source: "  ", FrequencyHours: 4, TargetChannel: "@chan"},
			wantErr: true,
		},
		{
			name:    "missing target",
			rule:    &domain.Rule{OwnerID: 1, Source: "pics", FrequencyHours: 4},
			wantErr: true,
		},
		{
			name:    "frequency below minimum",
			rule:    &domain.Rule{OwnerID: 1, Source: "pics", FrequencyHours: 0, TargetChannel: "@chan"},
			wantErr: true,
		},
		{
			name:    "frequency above maximum",
			rule:    &domain.Rule{OwnerID: 1, Source: "pics", FrequencyHours: 400, TargetChannel: "@chan"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrUpdate(context.Background(), tt.rule)
			if tt.wantErr {
				if !errors.Is(err, sharederrors.ErrInvalidRule) {
					t.Errorf("CreateOrUpdate() error = %v, want ErrInvalidRule", err)
				}
				return
			}
			if err != nil {
				t.Errorf("CreateOrUpdate() error = %v, want nil", err)
			}
		})
	}
}

func TestCreateOrUpdateNormalizesSource(t *testing.T) {
	var stored *domain.Rule
	svc := New(&mockRuleRepo{
		upsertFunc: func(_ context.Context, rule *domain.Rule) (*domain.Rule, error) {
			stored = rule
			return rule, nil
		},
	})

	_, err := svc.CreateOrUpdate(context.Background(), &domain.Rule{
		OwnerID:        1,
		Source:         " r/EarthPorn ",
		FrequencyHours: 4,
		TargetChannel:  "@chan",
	})
	if err != nil {
		t.Fatalf("CreateOrUpdate() error = %v", err)
	}

	if stored.Source != "earthporn" {
		t.Errorf("stored source = %q, want %q", stored.Source, "earthporn")
	}
	if stored.SortMode != domain.SortModeHot {
		t.Errorf("stored sort mode = %q, want default %q", stored.SortMode, domain.SortModeHot)
	}
}

func TestCreateOrUpdateDefaultsTopWindow(t *testing.T) {
	var stored *domain.Rule
	svc := New(&mockRuleRepo{
		upsertFunc: func(_ context.Context, rule *domain.Rule) (*domain.Rule, error) {
			stored = rule
			return rule, nil
		},
	})

	_, err := svc.CreateOrUpdate(context.Background(), &domain.Rule{
		OwnerID:        1,
		Source:         "pics",
		SortMode:       domain.SortModeTop,
		FrequencyHours: 4,
		TargetChannel:  "@chan",
	})
	if err != nil {
		t.Fatalf("CreateOrUpdate() error = %v", err)
	}

	if stored.TimeWindow != domain.TimeWindowDay {
		t.Errorf("stored time window = %q, want default %q", stored.TimeWindow, domain.TimeWindowDay)
	}
}

func TestListDueFiltersBySchedule(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	svc := New(&mockRuleRepo{
		listActiveFunc: func(context.Context) ([]*domain.Rule, error) {
			return []*domain.Rule{
				{ID: 1, FrequencyHours: 4, IsActive: true},                                       // never checked
				{ID: 2, FrequencyHours: 4, IsActive: true, LastCheckedAt: now.Add(-5 * time.Hour)}, // overdue
				{ID: 3, FrequencyHours: 4, IsActive: true, LastCheckedAt: now.Add(-1 * time.Hour)}, // not due
				{ID: 4, FrequencyHours: 4, IsActive: true, LastCheckedAt: now.Add(-4 * time.Hour)}, // due exactly now
			}, nil
		},
	})

	due, err := svc.ListDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ListDue() error = %v", err)
	}

	gotIDs := make([]int64, 0, len(due))
	for _, rule := range due {
		gotIDs = append(gotIDs, rule.ID)
	}

	wantIDs := []int64{1, 2, 4}
	if len(gotIDs) != len(wantIDs) {
		t.Fatalf("ListDue() returned IDs %v, want %v", gotIDs, wantIDs)
	}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("ListDue()[%d] = rule %d, want rule %d", i, gotIDs[i], wantIDs[i])
		}
	}
}
