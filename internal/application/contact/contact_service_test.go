package contact

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/contactbook/backend/internal/domain/contact"
	"github.com/contactbook/backend/internal/domain/shared"
)

// MockContactRepository is a mock implementation of contact.Repository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) List(ctx context.Context, ownerID uint, skip, limit int) ([]contact.Contact, error) {
	args := m.Called(ctx, ownerID, skip, limit)
	return args.Get(0).([]contact.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByID(ctx context.Context, ownerID, id uint) (*contact.Contact, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

func (m *MockContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) Update(ctx context.Context, c *contact.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, ownerID, id uint) (*contact.Contact, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

func (m *MockContactRepository) Search(ctx context.Context, ownerID uint, criteria contact.SearchCriteria) ([]contact.Contact, error) {
	args := m.Called(ctx, ownerID, criteria)
	return args.Get(0).([]contact.Contact), args.Error(1)
}

func (m *MockContactRepository) UpcomingBirthdays(ctx context.Context, ownerID uint, now time.Time) ([]contact.Contact, error) {
	args := m.Called(ctx, ownerID, now)
	return args.Get(0).([]contact.Contact), args.Error(1)
}

func newService(repo contact.Repository) *ContactService {
	return NewContactService(repo, zap.NewNop())
}

func domainContact(t *testing.T, id, ownerID uint, first string) *contact.Contact {
	c, err := contact.New(ownerID, first, "Teszt", first+"@example.com", "+36"+first, nil, "")
	require.NoError(t, err)
	c.ID = id
	return c
}

func TestContactService_ListAppliesDefaults(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newService(repo)

	repo.On("List", mock.Anything, uint(1), 0, 10).Return([]contact.Contact{}, nil)

	_, err := svc.List(context.Background(), 1, ListInput{Skip: -5, Limit: 0})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestContactService_ListClampsLimit(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newService(repo)

	repo.On("List", mock.Anything, uint(1), 20, 100).Return([]contact.Contact{}, nil)

	_, err := svc.List(context.Background(), 1, ListInput{Skip: 20, Limit: 999})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestContactService_Create(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *contact.Contact) bool {
		return c.OwnerID == 1 && c.Firstname == "Ada"
	})).Return(nil)

	resp, err := svc.Create(context.Background(), 1, CreateContactInput{
		Firstname: "Ada",
		Lastname:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+3611111111",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", resp.Firstname)
	assert.Nil(t, resp.Birthday)
	repo.AssertExpectations(t)
}

func TestContactService_CreateRejectsInvalidInput(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newService(repo)

	_, err := svc.Create(context.Background(), 1, CreateContactInput{
		Firstname: "",
		Lastname:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+3611111111",
	})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}

func TestContactService_CreateFormatsBirthday(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	birthday := time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC)
	resp, err := svc.Create(context.Background(), 1, CreateContactInput{
		Firstname: "Ada",
		Lastname:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+3611111111",
		Birthday:  &birthday,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Birthday)
	assert.Equal(t, "1990-03-14", *resp.Birthday)
}

func TestContactService_GetByIDNotFound(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newService(repo)

	repo.On("FindByID", mock.Anything, uint(1), uint(42)).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(context.Background(), 1, 42)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestContactService_UpdateOverwritesAllFields(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newService(repo)

	existing := domainContact(t, 5, 1, "Ada")
	repo.On("FindByID", mock.Anything, uint(1), uint(5)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c *contact.Contact) bool {
		return c.ID == 5 && c.Firstname == "Grace" && c.Description == ""
	})).Return(nil)

	resp, err := svc.Update(context.Background(), 1, 5, UpdateContactInput{
		Firstname: "Grace",
		Lastname:  "Hopper",
		Email:     "grace@example.com",
		Phone:     "+3622222222",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", resp.Firstname)
	assert.Equal(t, "", resp.Description)
	repo.AssertExpectations(t)
}

func TestContactService_UpdateInvalidInputDoesNotPersist(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newService(repo)

	existing := domainContact(t, 5, 1, "Ada")
	repo.On("FindByID", mock.Anything, uint(1), uint(5)).Return(existing, nil)

	tooLong := make([]byte, 26)
	for i := range tooLong {
		tooLong[i] = 'a'
	}
	_, err := svc.Update(context.Background(), 1, 5, UpdateContactInput{
		Firstname: string(tooLong),
		Lastname:  "Hopper",
		Email:     "grace@example.com",
		Phone:     "+3622222222",
	})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Update")
}

func TestContactService_DeleteReturnsSnapshot(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newService(repo)

	snapshot := domainContact(t, 5, 1, "Ada")
	repo.On("Delete", mock.Anything, uint(1), uint(5)).Return(snapshot, nil)

	resp, err := svc.Delete(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, uint(5), resp.ID)
	assert.Equal(t, "Ada", resp.Firstname)
}

func TestContactService_SearchPassesCriteria(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newService(repo)

	firstname := "Ada"
	repo.On("Search", mock.Anything, uint(1), contact.SearchCriteria{Firstname: &firstname}).
		Return([]contact.Contact{*domainContact(t, 5, 1, "Ada")}, nil)

	results, err := svc.Search(context.Background(), 1, SearchInput{Firstname: &firstname})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Ada", results[0].Firstname)
}

func TestContactService_UpcomingBirthdaysUsesClock(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newService(repo)

	fixed := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	repo.On("UpcomingBirthdays", mock.Anything, uint(1), fixed).
		Return([]contact.Contact{}, nil)

	results, err := svc.UpcomingBirthdays(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, results)
	repo.AssertExpectations(t)
}
