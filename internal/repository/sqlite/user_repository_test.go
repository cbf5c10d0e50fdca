package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gincol-ia/user-crud-hexagonal/internal/database"
	"github.com/gincol-ia/user-crud-hexagonal/internal/models"
	"github.com/gincol-ia/user-crud-hexagonal/internal/repository"
)

func newTestRepo(t *testing.T) repository.UserRepository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return NewUserRepository(db)
}

func TestSaveAndFindByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := models.NewUser("alice", "a@x.com", "Alice", "Anderson")
	require.NoError(t, repo.Save(ctx, user))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "Alice", got.FirstName)
	assert.Equal(t, "Anderson", got.LastName)
	assert.True(t, got.Active)
	assert.WithinDuration(t, user.CreatedAt, got.CreatedAt, time.Second)
	assert.WithinDuration(t, user.UpdatedAt, got.UpdatedAt, time.Second)
}

func TestFindByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestFindByUsernameAndEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := models.NewUser("alice", "a@x.com", "Alice", "A")
	require.NoError(t, repo.Save(ctx, user))

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.True(t, models.IsNotFound(err))
	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.True(t, models.IsNotFound(err))
}

func TestExists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.NewUser("alice", "a@x.com", "Alice", "A")))

	exists, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "b@y.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSave_UpdatesExistingRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := models.NewUser("alice", "a@x.com", "Alice", "A")
	require.NoError(t, repo.Save(ctx, user))

	user.Update("alice2", "a2@x.com", "Alicia", "A")
	require.NoError(t, repo.Save(ctx, user))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, "a2@x.com", got.Email)
	assert.Equal(t, "Alicia", got.FirstName)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSave_UniqueUsernameViolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.NewUser("alice", "a@x.com", "Alice", "A")))

	// second user with the same username, written directly so the
	// constraint fires instead of the service-level check
	err := repo.Save(ctx, models.NewUser("alice", "b@y.com", "Bob", "B"))
	require.Error(t, err)

	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)
	assert.Equal(t, "alice", conflict.Value)
}

func TestSave_UniqueEmailViolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.NewUser("alice", "a@x.com", "Alice", "A")))

	err := repo.Save(ctx, models.NewUser("bob", "a@x.com", "Bob", "B"))
	require.Error(t, err)

	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)
	assert.Equal(t, "a@x.com", conflict.Value)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := models.NewUser("alice", "a@x.com", "Alice", "A")
	require.NoError(t, repo.Save(ctx, user))
	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.FindByID(ctx, user.ID)
	assert.True(t, models.IsNotFound(err))

	err = repo.Delete(ctx, user.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestFindAllOrderingAndActiveFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := models.NewUser("alice", "a@x.com", "Alice", "A")
	require.NoError(t, repo.Save(ctx, alice))

	time.Sleep(5 * time.Millisecond)
	bob := models.NewUser("bob", "b@y.com", "Bob", "B")
	bob.Deactivate()
	require.NoError(t, repo.Save(ctx, bob))

	time.Sleep(5 * time.Millisecond)
	carol := models.NewUser("carol", "c@z.com", "Carol", "C")
	require.NoError(t, repo.Save(ctx, carol))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[0].Username)
	assert.Equal(t, "bob", all[1].Username)
	assert.Equal(t, "carol", all[2].Username)

	active, err := repo.FindAllActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "alice", active[0].Username)
	assert.Equal(t, "carol", active[1].Username)
}

func TestFindAll_EmptyDatabase(t *testing.T) {
	repo := newTestRepo(t)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
