package project

import (
	"testing"

	"github.com/crewdeck/crewdeck/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = test_utils.AdminContext()

var projectRepoStub = NewStubRepository()

var service Service

func setup(t *testing.T) func() {
	service = NewService(projectRepoStub)
	return func() {
		t.Log("Teardown after test")
		projectRepoStub.Cleanup()
	}
}

func testIntPtr(v int) *int { return &v }

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should assign an id and default status to active", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Project{Name: "Website relaunch"})

		// then
		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, StatusActive, created.Status)
	})

	t.Run("should keep an explicit status", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Project{Name: "Legacy migration", Status: StatusPaused})

		// then
		assert.NoError(t, err)
		assert.Equal(t, StatusPaused, created.Status)
	})
}

func TestServiceImpl_Members(t *testing.T) {
	t.Run("should add a member and find it with its rates", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		p, err := service.Create(ctx, Project{Name: "Consulting"})
		require.NoError(t, err)

		// when
		err = service.AddMember(ctx, Member{ProjectID: p.ID, EmployeeID: "emp-1", BillHourlyRate: testIntPtr(800)})

		// then
		assert.NoError(t, err)
		m, err := service.FindMember(ctx, p.ID, "emp-1")
		require.NoError(t, err)
		require.NotNil(t, m.BillHourlyRate)
		assert.Equal(t, 800, *m.BillHourlyRate)
	})

	t.Run("should treat adding the same member twice as a no-op", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		p, err := service.Create(ctx, Project{Name: "Consulting"})
		require.NoError(t, err)
		require.NoError(t, service.AddMember(ctx, Member{ProjectID: p.ID, EmployeeID: "emp-1", BillHourlyRate: testIntPtr(800)}))

		// when
		err = service.AddMember(ctx, Member{ProjectID: p.ID, EmployeeID: "emp-1", BillHourlyRate: testIntPtr(100)})

		// then - first rates win, the pair stays unique
		assert.NoError(t, err)
		m, err := service.FindMember(ctx, p.ID, "emp-1")
		require.NoError(t, err)
		assert.Equal(t, 800, *m.BillHourlyRate)
	})

	t.Run("should reject members on an unknown project", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		err := service.AddMember(ctx, Member{ProjectID: "missing", EmployeeID: "emp-1"})

		// then
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("should update member rates", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		p, err := service.Create(ctx, Project{Name: "Consulting"})
		require.NoError(t, err)
		require.NoError(t, service.AddMember(ctx, Member{ProjectID: p.ID, EmployeeID: "emp-1"}))

		// when
		err = service.SetMemberRates(ctx, Member{ProjectID: p.ID, EmployeeID: "emp-1", CostHourlyRate: testIntPtr(300)})

		// then
		assert.NoError(t, err)
		m, err := service.FindMember(ctx, p.ID, "emp-1")
		require.NoError(t, err)
		assert.Equal(t, 300, *m.CostHourlyRate)
	})

	t.Run("should remove a member", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		p, err := service.Create(ctx, Project{Name: "Consulting"})
		require.NoError(t, err)
		require.NoError(t, service.AddMember(ctx, Member{ProjectID: p.ID, EmployeeID: "emp-1"}))

		// when
		err = service.RemoveMember(ctx, p.ID, "emp-1")

		// then
		assert.NoError(t, err)
		_, err = service.FindMember(ctx, p.ID, "emp-1")
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestServiceImpl_Links(t *testing.T) {
	t.Run("should add and remove a link", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		p, err := service.Create(ctx, Project{Name: "Docs"})
		require.NoError(t, err)

		// when
		l, err := service.AddLink(ctx, Link{ProjectID: p.ID, Title: "Repo", URL: "https://example.com/repo", LinkType: "repository"})

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, l.ID)
		assert.NoError(t, service.RemoveLink(ctx, p.ID, l.ID))
	})

	t.Run("should reject links on an unknown project", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.AddLink(ctx, Link{ProjectID: "missing", Title: "Repo"})

		// then
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})
}
