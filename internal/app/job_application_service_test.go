package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker/internal/model"
	"jobtracker/internal/repository"
)

func TestCreateAppliesDefaults(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, newAuthService(db), "alice", "alice@x.com")
	svc := newApplicationService(db)

	created, err := svc.Create(CreateApplicationInput{Company: "Acme", Role: "Engineer"}, owner)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, model.StatusApplied, created.Status)
	// the default date is today's local calendar date
	year, month, day := time.Now().Date()
	wantDate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	assert.True(t, created.DateApplied.Equal(wantDate))
	assert.Equal(t, owner, created.UserID)
	assert.False(t, created.Deleted)
	assert.False(t, created.UpdatedAt.Before(created.CreatedAt))
}

func TestCreateRejectsInvalidFields(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, newAuthService(db), "alice", "alice@x.com")
	svc := newApplicationService(db)

	_, err := svc.Create(CreateApplicationInput{Company: "  ", Role: "Engineer"}, owner)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(CreateApplicationInput{Company: "Acme", Role: "Engineer", Status: "UNKNOWN"}, owner)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFieldLimitsCountRunesNotBytes(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, newAuthService(db), "alice", "alice@x.com")
	svc := newApplicationService(db)

	// 100 multibyte runes is within the limit even though it is 300 bytes
	atLimit := strings.Repeat("社", 100)
	created, err := svc.Create(CreateApplicationInput{Company: atLimit, Role: atLimit, Notes: atLimit}, owner)
	require.NoError(t, err)
	assert.Equal(t, atLimit, created.Company)

	overLimit := strings.Repeat("社", 101)
	_, err = svc.Create(CreateApplicationInput{Company: overLimit, Role: "Engineer"}, owner)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(created.ID, UpdateApplicationInput{Company: &overLimit}, owner)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetIsOwnerScoped(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)
	alice := registerTestUser(t, auth, "alice", "alice@x.com")
	bob := registerTestUser(t, auth, "bob", "bob@x.com")
	svc := newApplicationService(db)

	created, err := svc.Create(CreateApplicationInput{Company: "Acme", Role: "Engineer"}, alice)
	require.NoError(t, err)

	// another owner sees the same not-found as a truly absent record
	_, err = svc.Get(created.ID, bob)
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	_, err = svc.Get(created.ID+1000, alice)
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	found, err := svc.Get(created.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestUpdateIsPartial(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, newAuthService(db), "alice", "alice@x.com")
	svc := newApplicationService(db)

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(CreateApplicationInput{
		Company:     "Acme",
		Role:        "Engineer",
		Status:      model.StatusApplied,
		DateApplied: &date,
		Notes:       "phone screen booked",
	}, owner)
	require.NoError(t, err)
	previousUpdatedAt := created.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	offer := model.StatusOffer
	updated, err := svc.Update(created.ID, UpdateApplicationInput{Status: &offer}, owner)
	require.NoError(t, err)

	assert.Equal(t, model.StatusOffer, updated.Status)
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, "Engineer", updated.Role)
	assert.Equal(t, "phone screen booked", updated.Notes)
	assert.True(t, updated.DateApplied.Equal(date))
	assert.True(t, updated.UpdatedAt.After(previousUpdatedAt))
}

func TestUpdateOfForeignRecordFails(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)
	alice := registerTestUser(t, auth, "alice", "alice@x.com")
	bob := registerTestUser(t, auth, "bob", "bob@x.com")
	svc := newApplicationService(db)

	created, err := svc.Create(CreateApplicationInput{Company: "Acme", Role: "Engineer"}, alice)
	require.NoError(t, err)

	offer := model.StatusOffer
	_, err = svc.Update(created.ID, UpdateApplicationInput{Status: &offer}, bob)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestSoftDeleteHidesRecordEverywhere(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, newAuthService(db), "alice", "alice@x.com")
	svc := newApplicationService(db)

	created, err := svc.Create(CreateApplicationInput{Company: "Acme", Role: "Engineer"}, owner)
	require.NoError(t, err)

	statsBefore, err := svc.Statistics(owner)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID, owner))

	_, err = svc.Get(created.ID, owner)
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	page, err := svc.List(owner, repository.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Zero(t, page.TotalElements)

	page, err = svc.List(owner, repository.ListParams{Keyword: "acme"})
	require.NoError(t, err)
	assert.Empty(t, page.Content)

	statsAfter, err := svc.Statistics(owner)
	require.NoError(t, err)
	assert.Equal(t, statsBefore.Total-1, statsAfter.Total)

	// a second delete finds nothing
	assert.ErrorIs(t, svc.Delete(created.ID, owner), ErrApplicationNotFound)

	// the row itself is still there, only flagged
	var count int64
	require.NoError(t, db.Model(&model.JobApplication{}).Where("id = ?", created.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStatisticsSumToTotal(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, newAuthService(db), "alice", "alice@x.com")
	svc := newApplicationService(db)

	seed := []model.ApplicationStatus{
		model.StatusApplied, model.StatusApplied,
		model.StatusInterview,
		model.StatusOffer,
		model.StatusRejected, model.StatusRejected, model.StatusRejected,
	}
	for _, status := range seed {
		_, err := svc.Create(CreateApplicationInput{Company: "Acme", Role: "Engineer", Status: status}, owner)
		require.NoError(t, err)
	}

	stats, err := svc.Statistics(owner)
	require.NoError(t, err)
	assert.EqualValues(t, 7, stats.Total)
	assert.EqualValues(t, 2, stats.Applied)
	assert.EqualValues(t, 1, stats.Interview)
	assert.EqualValues(t, 1, stats.Offer)
	assert.EqualValues(t, 3, stats.Rejected)
	assert.Equal(t, stats.Total, stats.Applied+stats.Interview+stats.Offer+stats.Rejected)
}

func TestListFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)
	alice := registerTestUser(t, auth, "alice", "alice@x.com")
	bob := registerTestUser(t, auth, "bob", "bob@x.com")
	svc := newApplicationService(db)

	fixtures := []struct {
		company string
		role    string
		status  model.ApplicationStatus
	}{
		{"Acme", "Backend Engineer", model.StatusApplied},
		{"Globex", "Frontend Engineer", model.StatusInterview},
		{"Initech", "Data Analyst", model.StatusApplied},
	}
	for _, f := range fixtures {
		_, err := svc.Create(CreateApplicationInput{Company: f.company, Role: f.role, Status: f.status}, alice)
		require.NoError(t, err)
	}
	_, err := svc.Create(CreateApplicationInput{Company: "Acme", Role: "Engineer"}, bob)
	require.NoError(t, err)

	// owner scoping
	page, err := svc.List(alice, repository.ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalElements)

	// status filter
	page, err = svc.List(alice, repository.ListParams{Status: model.StatusApplied})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)

	// case-insensitive keyword over company or role
	page, err = svc.List(alice, repository.ListParams{Keyword: "engineer"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)

	page, err = svc.List(alice, repository.ListParams{Keyword: "GLOB"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Globex", page.Content[0].Company)

	// pagination metadata
	page, err = svc.List(alice, repository.ListParams{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.EqualValues(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)

	page, err = svc.List(alice, repository.ListParams{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)

	// sorting by a mapped field name
	page, err = svc.List(alice, repository.ListParams{SortBy: "company", Direction: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Content, 3)
	assert.Equal(t, "Acme", page.Content[0].Company)
	assert.Equal(t, "Initech", page.Content[2].Company)

	// invalid status filter rejected before hitting the store
	_, err = svc.List(alice, repository.ListParams{Status: "PENDING"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecentActivityIsOwnerScoped(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)
	alice := registerTestUser(t, auth, "alice", "alice@x.com")
	bob := registerTestUser(t, auth, "bob", "bob@x.com")

	activityRepo := repository.NewActivityRepository(db)
	require.NoError(t, activityRepo.Create(&model.ActivityEvent{UserID: alice, ApplicationID: 1, Action: model.ActivityCreated}))
	require.NoError(t, activityRepo.Create(&model.ActivityEvent{UserID: bob, ApplicationID: 2, Action: model.ActivityCreated}))

	svc := newApplicationService(db)
	events, err := svc.RecentActivity(alice, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, alice, events[0].UserID)
}
