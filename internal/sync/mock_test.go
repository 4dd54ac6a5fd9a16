package sync

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/lead-sync/internal/model"
	"github.com/sells-group/lead-sync/pkg/debounce"
	"github.com/sells-group/lead-sync/pkg/instantly"
	"github.com/sells-group/lead-sync/pkg/salesforce"
)

// --- CRM Mock ---

type mockCRM struct {
	mock.Mock
}

func (m *mockCRM) RecentLeads(ctx context.Context, filter salesforce.LeadFilter) ([]model.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *mockCRM) ContactsByCompany(ctx context.Context, company string) ([]model.Contact, error) {
	args := m.Called(ctx, company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Contact), args.Error(1)
}

// --- Debounce Mock ---

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) Validate(ctx context.Context, email string) (debounce.Verdict, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(debounce.Verdict), args.Error(1)
}

// --- Instantly Mock ---

type mockOutreach struct {
	mock.Mock
}

func (m *mockOutreach) CreateLead(ctx context.Context, req instantly.LeadRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// Interface guards.
var (
	_ CRM              = (*mockCRM)(nil)
	_ debounce.Client  = (*mockValidator)(nil)
	_ instantly.Client = (*mockOutreach)(nil)
)
